package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/harborview/opsync/internal/api"
	"github.com/harborview/opsync/internal/bootstrap"
	"github.com/harborview/opsync/internal/config"
	"github.com/harborview/opsync/internal/database"
	"github.com/harborview/opsync/internal/hub"
	"github.com/harborview/opsync/internal/offline"
	"github.com/harborview/opsync/internal/transport"
	"github.com/harborview/opsync/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/opsync.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting opsync",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"client_id", cfg.Client.ID,
		"property", cfg.Client.Property,
		"server_url", cfg.Server.URL,
		"offline_backend", cfg.Offline.Backend,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Durable offline store
	store, cleanup, err := buildOfflineStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to set up offline store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	factory := transport.NewFactory(transport.Config{
		URL:              cfg.Server.URL,
		Token:            cfg.Server.Token,
		HandshakeTimeout: cfg.Server.HandshakeTimeout,
		PingInterval:     cfg.Channel.PingInterval,
		PingTimeout:      cfg.Channel.PingTimeout,
		WriteTimeout:     cfg.Channel.WriteTimeout,
		BufferSize:       cfg.Channel.BufferSize,
	})

	h := hub.New(hubConfig(cfg), factory, store, logger)
	defer h.Close()

	// Seed local state from the REST snapshot before opening channels so
	// the UI has something to show while the first connection is made.
	if cfg.Snapshot.URL != "" {
		rest := api.NewClient(cfg.Snapshot.URL, cfg.Server.Token, api.WithLogger(logger))
		loader := bootstrap.NewLoader(bootstrap.Config{
			ReconcileInterval: cfg.Snapshot.ReconcileInterval,
			LoadTimeout:       cfg.Snapshot.LoadTimeout,
		}, rest, h.Store(), logger)

		if err := loader.Start(ctx); err != nil {
			logger.Error("initial snapshot failed", "error", err)
			os.Exit(1)
		}
		defer loader.Stop(context.Background())
	}

	for _, name := range cfg.Client.Channels {
		if err := h.Connect(ctx, name); err != nil {
			logger.Warn("initial connect failed, retrying in background",
				"channel", name,
				"error", err,
			)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	// Periodic statistics
	g.Go(func() error {
		ticker := time.NewTicker(cfg.Stats.LogInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				for _, name := range cfg.Client.Channels {
					snap := h.Stats(name)
					logger.Info("channel stats",
						"channel", name,
						"state", h.ChannelState(name).String(),
						"sent", snap.MessagesSent,
						"received", snap.MessagesReceived,
						"reconnects", snap.ReconnectAttempts,
						"uptime", snap.Uptime,
						"pending_updates", h.PendingCount(),
					)
				}
			}
		}
	})

	// Local slice change feed
	g.Go(func() error {
		changes := h.Store().Changes()
		for {
			select {
			case <-gctx.Done():
				return nil
			case change, ok := <-changes:
				if !ok {
					return nil
				}
				logger.Debug("entity changed",
					"entity_id", change.EntityID,
					"kind", change.Kind,
					"optimistic", change.Optimistic,
					"removed", change.Removed,
				)
			}
		}
	})

	logger.Info("opsync running",
		"client_id", cfg.Client.ID,
		"channels", cfg.Client.Channels,
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")
	g.Wait()
	h.Close()

	logger.Info("opsync stopped")
}

// hubConfig maps file configuration onto the hub's component configs.
func hubConfig(cfg *config.Config) hub.Config {
	hc := hub.DefaultConfig()
	hc.Channel.Backoff.Base = cfg.Channel.ReconnectBaseDelay
	hc.Channel.Backoff.Cap = cfg.Channel.ReconnectMaxDelay
	hc.Channel.MaxReconnectAttempts = cfg.Channel.MaxReconnectAttempts
	hc.Channel.Queue.Capacity = cfg.Queue.Capacity
	hc.Channel.Queue.MaxAttempts = cfg.Queue.MaxAttempts
	hc.Offline.MaxRetries = cfg.Offline.MaxRetries
	return hc
}

// buildOfflineStore picks the configured offline backend. The cleanup closes
// the database pool for the postgres backend and is a no-op for memory.
func buildOfflineStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (offline.Store, func(), error) {
	if cfg.Offline.Backend == "memory" {
		return offline.NewMemStore(), func() {}, nil
	}

	logger.Info("connecting to database",
		"host", cfg.Database.Postgres.Host,
		"port", cfg.Database.Postgres.Port,
		"database", cfg.Database.Postgres.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}

	store := offline.NewPGStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	logger.Info("database connected")
	return store, pool.Close, nil
}
