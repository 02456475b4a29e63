package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"

	"github.com/rterbush/nautilus-trader/internal/api"
	"github.com/rterbush/nautilus-trader/internal/cache"
	"github.com/rterbush/nautilus-trader/internal/config"
	"github.com/rterbush/nautilus-trader/internal/consumer"
	"github.com/rterbush/nautilus-trader/internal/fills"
	"github.com/rterbush/nautilus-trader/internal/jobs"
	"github.com/rterbush/nautilus-trader/internal/projector"
	"github.com/rterbush/nautilus-trader/internal/publisher"
	"github.com/rterbush/nautilus-trader/internal/rate"
	"github.com/rterbush/nautilus-trader/internal/store"
	"github.com/rterbush/nautilus-trader/pkg/eventbus"
	"github.com/rterbush/nautilus-trader/pkg/logger"
	"github.com/rterbush/nautilus-trader/pkg/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Load configuration ---
	cfg := config.Load()

	logger.Init(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	defer logger.Sync()
	logg := logger.S()
	logg.Info("starting [order-tracker]...")
	logg.Info("connection to DSN: ", utils.MaskDSN(cfg.DatabaseURL))

	// --- Connect to NATS ---
	nc, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		logg.Fatalw("failed to connect to NATS", "error", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		logg.Fatalw("failed to init JetStream context", "error", err)
	}
	ensureStream(js, cfg.StreamName, cfg.EventSubject)
	ensureStream(js, "ORDER_STATE", cfg.OutboundSubject, "evt.order_snapshots.flushed.v1")

	// --- Publisher ---
	pub, err := publisher.New(nc, cfg.OutboundSubject, cfg.ServiceName)
	if err != nil {
		logg.Fatalw("failed to init publisher", "error", err)
	}

	// --- Store (Redis + Postgres hybrid) ---
	st, err := store.NewHybrid(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.DatabaseURL, store.PGPoolConfig{
		MaxConns:          int32(cfg.PGMaxConns),
		MinConns:          int32(cfg.PGMinConns),
		MaxConnLifetime:   cfg.PGMaxConnLifetime,
		MaxConnIdleTime:   cfg.PGMaxConnIdleTime,
		HealthCheckPeriod: cfg.PGHealthCheckPeriod,
	}, logg.Desugar())
	if err != nil {
		logg.Fatalw("failed to init store", "error", err)
	}

	// --- Event bus and subscribers ---
	bus := eventbus.New()

	proj := projector.New(ctx, logg.Desugar(), st, pub, cfg.SnapshotTTL)
	proj.Attach(bus)

	fillWriter := fills.NewWriter(ctx, st.(*store.HybridStore).PG, logg.Desugar(), cfg.ServiceName)
	fillWriter.Attach(bus)

	// --- Order cache ---
	orders := cache.New(bus)

	// --- Consumer (NATS JetStream -> cache) ---
	cons := consumer.New(ctx, logg.Desugar(), js, orders, cfg.EventSubject, cfg.DurableName)
	if err := cons.Start(); err != nil {
		logg.Fatalw("failed to start consumer", "error", err)
	}

	// --- Snapshot flusher (periodic store reconciliation) ---
	flusher := jobs.NewSnapshotFlusher(logg.Desugar(), orders, st, pub, 10*time.Minute, cfg.SnapshotTTL)
	go flusher.Start(ctx)

	// --- Fiber HTTP Server ---
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
		BodyLimit:    cfg.HTTPBodyLimit,
	})

	limits := rate.NewManager(rate.Config{
		RequestsPerSecond: 50,
		Burst:             100,
		Cooldown:          1 * time.Second,
	})

	orderHandler := api.NewOrderHandler(logg.Desugar(), orders)
	historyHandler := api.NewHistoryHandler(logg.Desugar(), st)
	api.RegisterRoutes(app, nc, st, limits, orderHandler, historyHandler)

	go func() {
		logg.Infof("HTTP API listening on :%d", cfg.Port)
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			logg.Fatalw("fiber.listen_failed", "error", err)
		}
	}()

	// --- Main process stays alive until interrupted ---
	logg.Infow("[order-tracker] running",
		"nats", cfg.NATSURL,
		"env", cfg.Env,
		"event_subject", cfg.EventSubject,
		"durable", cfg.DurableName)

	<-ctx.Done()
	logg.Info("shutting down [order-tracker]...")

	flusher.Stop()
	if err := cons.Stop(); err != nil {
		logg.Warnw("consumer.stop_failed", "error", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logg.Warnw("fiber.shutdown_failed", "error", err)
	}
	if err := nc.Drain(); err != nil {
		logg.Warnw("nats.drain_failed", "error", err)
	}
	if err := st.Close(); err != nil {
		logg.Warnw("store.close_failed", "error", err)
	}
}

// ensureStream creates the event stream if it does not exist yet.
func ensureStream(js nats.JetStreamContext, name string, subjects ...string) {
	_, err := js.StreamInfo(name)
	if err == nil {
		return
	}
	_, err = js.AddStream(&nats.StreamConfig{
		Name:      name,
		Subjects:  subjects,
		Retention: nats.LimitsPolicy,
		Storage:   nats.FileStorage,
	})
	if err != nil {
		logger.S().Warnw("failed to ensure stream", "stream", name, "error", err)
	}
}
