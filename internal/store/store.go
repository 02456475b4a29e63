package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rterbush/nautilus-trader/internal/metrics"
	"github.com/rterbush/nautilus-trader/pkg/identifiers"
	"github.com/rterbush/nautilus-trader/pkg/order"
)

// StoredEvent is one row of the order event journal.
type StoredEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	EventType string    `json:"event_type"`
	Payload   []byte    `json:"payload"`
	TsEvent   time.Time `json:"ts_event"`
}

// Store defines the contract for caching and persisting order state.
type Store interface {
	RecordEvent(ctx context.Context, snap order.Snapshot, eventID uuid.UUID, eventType string, tsEvent time.Time, payload []byte) error
	UpsertSnapshot(ctx context.Context, snap order.Snapshot, ttl time.Duration) error
	GetSnapshot(ctx context.Context, clientOrderID identifiers.ClientOrderID) (*order.Snapshot, error)
	ListEvents(ctx context.Context, clientOrderID identifiers.ClientOrderID) ([]StoredEvent, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	GetJSON(ctx context.Context, key string, dest any) error
	HealthCheck(ctx context.Context) error
	Close() error
}

type HybridStore struct {
	redis  *redis.Client
	PG     *pgxpool.Pool
	logger *zap.Logger
}

type PGPoolConfig struct {
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

// NewHybrid creates a Redis-first, Postgres-backed store. Redis serves point
// reads of the latest snapshot; Postgres holds the immutable event journal
// and the snapshot projection.
func NewHybrid(redisAddr, redisPass string, redisDB int, pgURL string, pgPoolConfig PGPoolConfig, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPass,
		DB:       redisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	var pgPool *pgxpool.Pool
	if pgURL != "" {
		cfg, err := pgxpool.ParseConfig(pgURL)
		if err != nil {
			return nil, fmt.Errorf("invalid pg config: %w", err)
		}
		if pgPoolConfig.MaxConns > 0 {
			cfg.MaxConns = pgPoolConfig.MaxConns
		}
		if pgPoolConfig.MinConns > 0 {
			cfg.MinConns = pgPoolConfig.MinConns
		}
		if pgPoolConfig.MaxConnLifetime > 0 {
			cfg.MaxConnLifetime = pgPoolConfig.MaxConnLifetime
		}
		if pgPoolConfig.MaxConnIdleTime > 0 {
			cfg.MaxConnIdleTime = pgPoolConfig.MaxConnIdleTime
		}
		if pgPoolConfig.HealthCheckPeriod > 0 {
			cfg.HealthCheckPeriod = pgPoolConfig.HealthCheckPeriod
		}
		pgPool, err = pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
	}

	return &HybridStore{redis: rdb, PG: pgPool, logger: logger}, nil
}

func snapshotKey(clientOrderID identifiers.ClientOrderID) string {
	return fmt.Sprintf("order:snapshot:%s", clientOrderID)
}

// RecordEvent appends an immutable event to trading.order_event.
func (s *HybridStore) RecordEvent(ctx context.Context, snap order.Snapshot, eventID uuid.UUID, eventType string, tsEvent time.Time, payload []byte) error {
	if s.PG == nil {
		return nil
	}
	_, err := s.PG.Exec(ctx, `
		INSERT INTO trading.order_event (
			event_id, client_order_id, trader_id, strategy_id, instrument_id,
			event_type, payload, ts_event, recorded_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (event_id) DO NOTHING
	`, eventID, snap.ClientOrderID.String(), snap.TraderID.String(),
		snap.StrategyID.String(), snap.InstrumentID.String(),
		eventType, payload, tsEvent)
	if err != nil {
		s.logger.Error("store.pg.insert_event_failed", zap.Error(err))
		metrics.IncSnapshotWrite("postgres", "error")
		return err
	}
	metrics.IncSnapshotWrite("postgres", "ok")
	return nil
}

// UpsertSnapshot updates the projection table and the Redis read cache.
func (s *HybridStore) UpsertSnapshot(ctx context.Context, snap order.Snapshot, ttl time.Duration) error {
	doc, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	if s.PG != nil {
		var venueOrderID *string
		if snap.VenueOrderID != nil {
			v := snap.VenueOrderID.String()
			venueOrderID = &v
		}
		_, err = s.PG.Exec(ctx, `
			INSERT INTO trading.order_snapshot (
				client_order_id, trader_id, strategy_id, instrument_id,
				venue_order_id, status, side, order_type,
				quantity, filled_qty, leaves_qty, avg_px, slippage,
				is_open, is_closed, doc, ts_init, ts_last, as_of
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, NOW())
			ON CONFLICT (client_order_id)
			DO UPDATE SET
				venue_order_id = EXCLUDED.venue_order_id,
				status = EXCLUDED.status,
				quantity = EXCLUDED.quantity,
				filled_qty = EXCLUDED.filled_qty,
				leaves_qty = EXCLUDED.leaves_qty,
				avg_px = EXCLUDED.avg_px,
				slippage = EXCLUDED.slippage,
				is_open = EXCLUDED.is_open,
				is_closed = EXCLUDED.is_closed,
				doc = EXCLUDED.doc,
				ts_last = EXCLUDED.ts_last,
				as_of = NOW();
		`, snap.ClientOrderID.String(), snap.TraderID.String(),
			snap.StrategyID.String(), snap.InstrumentID.String(),
			venueOrderID, snap.Status.String(), snap.Side.String(), snap.OrderType.String(),
			snap.Quantity, snap.FilledQty, snap.LeavesQty, snap.AvgPx, snap.Slippage,
			snap.IsOpen, snap.IsClosed, doc, snap.TsInit, snap.TsLast)
		if err != nil {
			s.logger.Error("store.pg.snapshot_upsert_failed", zap.Error(err))
			metrics.IncSnapshotWrite("postgres", "error")
			return err
		}
	}

	if err := s.redis.Set(ctx, snapshotKey(snap.ClientOrderID), doc, ttl).Err(); err != nil {
		s.logger.Error("store.redis.snapshot_set_failed", zap.Error(err))
		metrics.IncSnapshotWrite("redis", "error")
		return err
	}
	metrics.IncSnapshotWrite("redis", "ok")
	return nil
}

// GetSnapshot reads the latest snapshot, Redis first with a Postgres
// fallback. Returns (nil, nil) when the order is unknown.
func (s *HybridStore) GetSnapshot(ctx context.Context, clientOrderID identifiers.ClientOrderID) (*order.Snapshot, error) {
	data, err := s.redis.Get(ctx, snapshotKey(clientOrderID)).Bytes()
	if err == nil {
		var snap order.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, err
		}
		return &snap, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, err
	}

	if s.PG == nil {
		return nil, nil
	}
	var doc []byte
	err = s.PG.QueryRow(ctx, `
		SELECT doc FROM trading.order_snapshot
		WHERE client_order_id = $1;
	`, clientOrderID.String()).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetSnapshot scan failed: %w", err)
	}

	var snap order.Snapshot
	if err := json.Unmarshal(doc, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// ListEvents returns the journal for one order in event-time order.
func (s *HybridStore) ListEvents(ctx context.Context, clientOrderID identifiers.ClientOrderID) ([]StoredEvent, error) {
	if s.PG == nil {
		return nil, fmt.Errorf("postgres unavailable")
	}
	rows, err := s.PG.Query(ctx, `
		SELECT event_id, event_type, payload, ts_event
		FROM trading.order_event
		WHERE client_order_id = $1
		ORDER BY ts_event, recorded_at;
	`, clientOrderID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []StoredEvent
	for rows.Next() {
		var e StoredEvent
		if err := rows.Scan(&e.EventID, &e.EventType, &e.Payload, &e.TsEvent); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *HybridStore) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, key, data, ttl).Err()
}

func (s *HybridStore) GetJSON(ctx context.Context, key string, dest any) error {
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (s *HybridStore) HealthCheck(ctx context.Context) error {
	if s.redis == nil {
		return fmt.Errorf("redis not initialized")
	}
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	if s.PG != nil {
		if err := s.PG.Ping(ctx); err != nil {
			return fmt.Errorf("postgres ping failed: %w", err)
		}
	}
	return nil
}

func (s *HybridStore) Close() error {
	if s.PG != nil {
		s.PG.Close()
	}
	if s.redis != nil {
		return s.redis.Close()
	}
	return nil
}
