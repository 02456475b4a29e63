package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/rterbush/nautilus-trader/internal/metrics"
	"github.com/rterbush/nautilus-trader/pkg/logger"
	"github.com/rterbush/nautilus-trader/pkg/model"
	"github.com/rterbush/nautilus-trader/pkg/order"
)

// Publisher wraps a NATS connection and provides helpers for publishing canonical events.
type Publisher struct {
	nc      *nats.Conn
	js      nats.JetStreamContext
	subject string
	service string
}

// New creates a new Publisher with JetStream enabled if available.
func New(nc *nats.Conn, subject, service string) (*Publisher, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, err
	}
	return &Publisher{
		nc:      nc,
		js:      js,
		subject: subject,
		service: service,
	}, nil
}

// PublishEnvelope serializes and publishes a canonical event envelope to NATS.
func (p *Publisher) PublishEnvelope(ctx context.Context, subject string, env *model.Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		logger.S().Errorw("publisher.marshal_failed",
			"subject", subject,
			"event_type", env.EventType,
			"error", err,
		)
		metrics.IncError("publisher", "marshal_failed")
		return err
	}

	if subject == "" {
		subject = p.subject
	}

	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header: nats.Header{
			"event_type":      []string{env.EventType},
			"correlation_id":  []string{env.CorrelationID.String()},
			"service":         []string{p.service},
			"content_type":    []string{"application/json"},
			"trader_id":       []string{env.TraderID},
			"client_order_id": []string{env.Context.ClientOrderID},
		},
	}

	start := time.Now()
	_, err = p.js.PublishMsg(msg)
	metrics.ObserveDuration(metrics.NATSMessageLatency, start, subject)

	if err != nil {
		logger.S().Errorw("publisher.publish_failed",
			"subject", subject,
			"event_type", env.EventType,
			"client_order_id", env.Context.ClientOrderID,
			"error", err,
		)
		metrics.IncNATSMessage(subject, "error")
		return err
	}

	metrics.IncNATSMessage(subject, "ok")
	return nil
}

// PublishOrderState emits canonical order state notifications derived from an
// applied event and the resulting snapshot.
func (p *Publisher) PublishOrderState(ctx context.Context, snap order.Snapshot, eventType order.EventType) error {
	state := model.OrderStateEvent{
		TraderID:      snap.TraderID.String(),
		StrategyID:    snap.StrategyID.String(),
		InstrumentID:  snap.InstrumentID.String(),
		ClientOrderID: snap.ClientOrderID.String(),
		EventType:     eventType.String(),
		Status:        snap.Status.String(),
		FilledQty:     snap.FilledQty.String(),
		LeavesQty:     snap.LeavesQty.String(),
		AvgPx:         snap.AvgPx,
		Timestamp:     snap.TsLast,
	}
	if snap.VenueOrderID != nil {
		state.VenueOrderID = snap.VenueOrderID.String()
	}

	env := &model.Envelope{
		ID:            uuid.New(),
		CorrelationID: uuid.New(),
		TraderID:      state.TraderID,
		StrategyID:    state.StrategyID,
		Topic:         p.subject,
		EventType:     "order_state." + eventType.String(),
		Version:       "1.0.0",
		Timestamp:     time.Now().UTC(),
		Context: model.Context{
			Instrument:    state.InstrumentID,
			Side:          snap.Side.String(),
			ClientOrderID: state.ClientOrderID,
			VenueOrderID:  state.VenueOrderID,
		},
	}

	data, _ := json.Marshal(state)
	env.Payload = data

	return p.PublishEnvelope(ctx, p.subject, env)
}

// Publish publishes raw JSON payloads (for non-canonical internal events).
func (p *Publisher) Publish(ctx context.Context, subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		metrics.IncError("publisher", "marshal_failed")
		return err
	}

	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header:  nats.Header{"source": []string{p.service}},
	}

	start := time.Now()
	_, err = p.js.PublishMsg(msg)
	metrics.ObserveDuration(metrics.NATSMessageLatency, start, subject)

	if err != nil {
		metrics.IncNATSMessage(subject, "error")
		return err
	}

	metrics.IncNATSMessage(subject, "ok")
	return nil
}

func (p *Publisher) Close() {
	if p.nc != nil && p.nc.IsConnected() {
		p.nc.Close()
	}
}
