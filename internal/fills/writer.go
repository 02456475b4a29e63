package fills

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/rterbush/nautilus-trader/pkg/eventbus"
	"github.com/rterbush/nautilus-trader/pkg/order"
)

// Writer records each execution into the trading.order_fill table. One row
// per trade id; replays upsert harmlessly.
type Writer struct {
	ctx    context.Context
	db     *pgxpool.Pool
	logger *zap.Logger
	source string
}

// NewWriter constructs a fill writer.
// source identifies the service writing the record (e.g. "order-tracker").
func NewWriter(ctx context.Context, db *pgxpool.Pool, logger *zap.Logger, source string) *Writer {
	return &Writer{
		ctx:    ctx,
		db:     db,
		logger: logger,
		source: source,
	}
}

// Attach subscribes the writer to fill events on the bus.
func (w *Writer) Attach(bus *eventbus.EventBus) {
	bus.Subscribe(order.EventPartiallyFilled, w.onFill)
	bus.Subscribe(order.EventFilled, w.onFill)
}

func (w *Writer) onFill(n eventbus.Notification) {
	var d order.FillDetails
	switch ev := n.Event.(type) {
	case order.PartiallyFilled:
		d = ev.FillDetails
	case order.Filled:
		d = ev.FillDetails
	default:
		return
	}
	_ = w.WriteFill(w.ctx, n.Snapshot, n.Event, d)
}

// WriteFill inserts or updates one execution record.
func (w *Writer) WriteFill(ctx context.Context, snap order.Snapshot, ev order.Event, d order.FillDetails) error {
	if w.db == nil {
		return nil
	}

	const query = `
		INSERT INTO trading.order_fill (
			trade_id,
			client_order_id,
			venue_order_id,
			instrument_id,
			side,
			last_qty,
			last_px,
			liquidity_side,
			order_status,
			ts_event,
			source
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (trade_id)
		DO UPDATE SET
			order_status = EXCLUDED.order_status,
			ts_event = EXCLUDED.ts_event;
	`

	_, err := w.db.Exec(ctx, query,
		d.TradeID.String(),
		snap.ClientOrderID.String(),
		d.VenueOrderID.String(),
		snap.InstrumentID.String(),
		snap.Side.String(),
		d.LastQty,
		d.LastPx,
		d.LiquiditySide.String(),
		snap.Status.String(),
		ev.Timestamp(),
		w.source,
	)
	if err != nil {
		w.logger.Error("fills.write_failed",
			zap.String("trade_id", d.TradeID.String()),
			zap.String("client_order_id", snap.ClientOrderID.String()),
			zap.Error(err),
		)
		return err
	}

	w.logger.Info("fills.write",
		zap.String("trade_id", d.TradeID.String()),
		zap.String("client_order_id", snap.ClientOrderID.String()),
		zap.String("status", snap.Status.String()),
		zap.Time("ts_event", ev.Timestamp()),
	)

	return nil
}
