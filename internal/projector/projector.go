package projector

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/rterbush/nautilus-trader/internal/metrics"
	"github.com/rterbush/nautilus-trader/internal/publisher"
	"github.com/rterbush/nautilus-trader/internal/store"
	"github.com/rterbush/nautilus-trader/pkg/eventbus"
)

// Projector subscribes to applied order events and projects them outward:
// the event goes to the journal, the snapshot to the store, and a flattened
// state notification to NATS.
type Projector struct {
	ctx         context.Context
	logger      *zap.Logger
	store       store.Store
	publisher   *publisher.Publisher
	snapshotTTL time.Duration
}

// New constructs a Projector. store and publisher are each optional; a nil
// dependency disables that projection.
func New(ctx context.Context, logger *zap.Logger, st store.Store, pub *publisher.Publisher, snapshotTTL time.Duration) *Projector {
	return &Projector{
		ctx:         ctx,
		logger:      logger,
		store:       st,
		publisher:   pub,
		snapshotTTL: snapshotTTL,
	}
}

// Attach registers the projector on the bus. It subscribes to every event
// type; the bus delivers synchronously, so projections happen in apply order.
func (p *Projector) Attach(bus *eventbus.EventBus) {
	bus.SubscribeAll(p.onEvent)
}

func (p *Projector) onEvent(n eventbus.Notification) {
	if p.store != nil {
		p.persist(n)
	}
	if p.publisher != nil {
		if err := p.publisher.PublishOrderState(p.ctx, n.Snapshot, n.Event.Type()); err != nil {
			metrics.IncError("projector", "publish_failed")
		}
	}
}

func (p *Projector) persist(n eventbus.Notification) {
	payload, err := json.Marshal(n.Event)
	if err != nil {
		p.logger.Error("projector.marshal_failed",
			zap.String("client_order_id", n.Event.OrderID().String()),
			zap.Error(err))
		metrics.IncError("projector", "marshal_failed")
		return
	}

	if err := p.store.RecordEvent(p.ctx, n.Snapshot, n.Event.ID(),
		n.Event.Type().String(), n.Event.Timestamp(), payload); err != nil {
		metrics.IncError("projector", "journal_failed")
	}

	if err := p.store.UpsertSnapshot(p.ctx, n.Snapshot, p.snapshotTTL); err != nil {
		metrics.IncError("projector", "snapshot_failed")
	}
}
