package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rterbush/nautilus-trader/internal/publisher"
	"github.com/rterbush/nautilus-trader/internal/store"
	"github.com/rterbush/nautilus-trader/pkg/order"
)

// SnapshotSource yields the order snapshots to flush.
type SnapshotSource interface {
	Snapshots() []order.Snapshot
}

// SnapshotFlusher periodically rewrites every tracked order snapshot to the
// store and emits a NATS event indicating flush completion. Event-driven
// writes already keep the store current; the flush repairs any writes lost
// to transient store outages.
type SnapshotFlusher struct {
	logger    *zap.Logger
	source    SnapshotSource
	store     store.Store
	publisher *publisher.Publisher
	interval  time.Duration
	ttl       time.Duration
	stopCh    chan struct{}
}

// NewSnapshotFlusher constructs a background job that runs periodically.
func NewSnapshotFlusher(logger *zap.Logger, source SnapshotSource, st store.Store, pub *publisher.Publisher, interval, ttl time.Duration) *SnapshotFlusher {
	return &SnapshotFlusher{
		logger:    logger,
		source:    source,
		store:     st,
		publisher: pub,
		interval:  interval,
		ttl:       ttl,
		stopCh:    make(chan struct{}),
	}
}

// Start runs the flush loop.
func (f *SnapshotFlusher) Start(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	f.logger.Info("snapshot_flusher.started", zap.Duration("interval", f.interval))

	for {
		select {
		case <-ticker.C:
			f.runOnce(ctx)
		case <-f.stopCh:
			f.logger.Info("snapshot_flusher.stopped (manual stop)")
			return
		case <-ctx.Done():
			f.logger.Info("snapshot_flusher.stopped (context canceled)")
			return
		}
	}
}

// Stop gracefully halts the flusher.
func (f *SnapshotFlusher) Stop() {
	close(f.stopCh)
}

// runOnce executes one flush cycle.
func (f *SnapshotFlusher) runOnce(ctx context.Context) {
	start := time.Now()

	snaps := f.source.Snapshots()
	var failed int
	for _, snap := range snaps {
		if err := f.store.UpsertSnapshot(ctx, snap, f.ttl); err != nil {
			failed++
		}
	}
	if failed > 0 {
		f.logger.Warn("snapshot_flusher.partial",
			zap.Int("total", len(snaps)),
			zap.Int("failed", failed))
	}

	if f.publisher != nil {
		event := map[string]any{
			"event":       "evt.order_snapshots.flushed.v1",
			"timestamp":   time.Now().UTC(),
			"count":       len(snaps),
			"failed":      failed,
			"duration_ms": time.Since(start).Milliseconds(),
		}
		if err := f.publisher.Publish(ctx, "evt.order_snapshots.flushed.v1", event); err != nil {
			f.logger.Warn("snapshot_flusher.nats_publish_failed", zap.Error(err))
		}
	}

	f.logger.Info("snapshot_flusher.success",
		zap.Int("count", len(snaps)),
		zap.Duration("duration", time.Since(start)))
}
