// streamtest connects to a sync server and streams decoded envelopes to the
// console. Usage: go run ./cmd/streamtest --config configs/opsync.local.yaml
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harborview/opsync/internal/config"
	"github.com/harborview/opsync/internal/transport"
	"github.com/harborview/opsync/internal/wire"
)

func main() {
	configPath := flag.String("config", "configs/opsync.example.yaml", "path to config file")
	verbose := flag.Bool("verbose", false, "print full envelope JSON")
	flag.Parse()

	// Setup logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	// Load config
	cfg, err := config.LoadWithDefaults(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	client := transport.NewClient(transport.Config{
		URL:              cfg.Server.URL,
		Token:            cfg.Server.Token,
		HandshakeTimeout: cfg.Server.HandshakeTimeout,
		PingInterval:     cfg.Channel.PingInterval,
		PingTimeout:      cfg.Channel.PingTimeout,
		WriteTimeout:     cfg.Channel.WriteTimeout,
		BufferSize:       cfg.Channel.BufferSize,
	}, logger)

	logger.Info("connecting", "url", cfg.Server.URL)
	if err := client.Connect(ctx); err != nil {
		logger.Error("connect failed", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	logger.Info("streaming started - press Ctrl+C to stop")

	var received, malformed int
	statsTicker := time.NewTicker(10 * time.Second)
	defer statsTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutdown complete", "received", received, "malformed", malformed)
			return

		case err := <-client.Errors():
			logger.Error("connection error", "error", err)
			os.Exit(1)

		case <-statsTicker.C:
			logger.Info("stats", "received", received, "malformed", malformed)

		case msg, ok := <-client.Messages():
			if !ok {
				return
			}
			received++

			env, err := wire.Decode(msg.Data)
			if err != nil {
				malformed++
				logger.Warn("malformed envelope", "error", err)
				continue
			}

			if *verbose {
				data, _ := json.MarshalIndent(env, "", "  ")
				fmt.Printf("[ENVELOPE] %s\n", data)
			} else {
				fmt.Printf("[%s] channel=%s id=%s payload=%d bytes\n",
					env.EventID, env.Channel, env.ID, len(env.Payload))
			}
		}
	}
}
