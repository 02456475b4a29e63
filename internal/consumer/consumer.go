package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/rterbush/nautilus-trader/internal/cache"
	"github.com/rterbush/nautilus-trader/internal/metrics"
	"github.com/rterbush/nautilus-trader/pkg/model"
	"github.com/rterbush/nautilus-trader/pkg/order"
)

// Consumer consumes order events from NATS JetStream and routes them to the
// order cache. The subscription is processed on a single callback goroutine,
// which keeps events for one order in arrival order.
type Consumer struct {
	ctx     context.Context
	logger  *zap.Logger
	js      nats.JetStreamContext
	cache   *cache.Cache
	subject string
	durable string
	sub     *nats.Subscription
}

// New constructs a Consumer with its dependencies.
func New(
	ctx context.Context,
	logger *zap.Logger,
	js nats.JetStreamContext,
	c *cache.Cache,
	subject, durable string,
) *Consumer {
	return &Consumer{
		ctx:     ctx,
		logger:  logger,
		js:      js,
		cache:   c,
		subject: subject,
		durable: durable,
	}
}

// Start subscribes to the event subject and begins processing incoming messages.
func (c *Consumer) Start() error {
	sub, err := c.js.Subscribe(c.subject, c.handleMessage,
		nats.Durable(c.durable),
		nats.ManualAck(),
		nats.AckExplicit(),
		nats.DeliverAll(),
	)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", c.subject, err)
	}
	c.sub = sub
	c.logger.Info("subscribed to NATS subject",
		zap.String("subject", c.subject),
		zap.String("durable", c.durable),
	)
	return nil
}

// Stop drains the subscription.
func (c *Consumer) Stop() error {
	if c.sub == nil {
		return nil
	}
	return c.sub.Drain()
}

// handleMessage decodes the envelope and applies the event to the cache.
func (c *Consumer) handleMessage(msg *nats.Msg) {
	start := time.Now()

	var env model.Envelope
	if err := json.Unmarshal(msg.Data, &env); err != nil {
		c.logger.Warn("invalid envelope", zap.Error(err))
		metrics.IncNATSMessage(msg.Subject, "error")
		_ = msg.Ack() // malformed; redelivery cannot help
		return
	}

	ev, err := order.DecodeEvent(env.EventType, env.Payload)
	if err != nil {
		c.logger.Warn("undecodable order event",
			zap.String("event_type", env.EventType),
			zap.Error(err),
		)
		metrics.IncNATSMessage(msg.Subject, "error")
		_ = msg.Ack()
		return
	}

	if _, err := c.cache.Apply(ev); err != nil {
		// The cache has already classified and counted the failure. An event
		// that cannot apply now will not apply on redelivery either.
		metrics.IncNATSMessage(msg.Subject, "error")
		_ = msg.Ack()
		return
	}

	metrics.IncNATSMessage(msg.Subject, "ok")
	_ = msg.Ack()

	c.logger.Debug("order event handled",
		zap.String("event_type", env.EventType),
		zap.String("client_order_id", ev.OrderID().String()),
		zap.Duration("latency", time.Since(start)),
	)
}
