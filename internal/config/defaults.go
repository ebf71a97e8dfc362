package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultHandshakeTimeout     = 10 * time.Second
	DefaultReconnectBaseDelay   = 1 * time.Second
	DefaultReconnectMaxDelay    = 60 * time.Second
	DefaultMaxReconnectAttempts = 10
	DefaultPingInterval         = 30 * time.Second
	DefaultPingTimeout          = 90 * time.Second
	DefaultWriteTimeout         = 10 * time.Second
	DefaultBufferSize           = 256
	DefaultQueueCapacity        = 100
	DefaultQueueMaxAttempts     = 3
	DefaultOfflineBackend       = "memory"
	DefaultOfflineMaxRetries    = 3
	DefaultReconcileInterval    = 5 * time.Minute
	DefaultSnapshotLoadTimeout  = 2 * time.Minute
	DefaultDBPort               = 5432
	DefaultDBSSLMode            = "prefer"
	DefaultMaxConns             = 10
	DefaultMinConns             = 2
	DefaultStatsLogInterval     = 60 * time.Second
)

func (c *Config) applyDefaults() {
	// Server defaults
	if c.Server.HandshakeTimeout == 0 {
		c.Server.HandshakeTimeout = DefaultHandshakeTimeout
	}

	// Channel defaults
	if c.Channel.ReconnectBaseDelay == 0 {
		c.Channel.ReconnectBaseDelay = DefaultReconnectBaseDelay
	}
	if c.Channel.ReconnectMaxDelay == 0 {
		c.Channel.ReconnectMaxDelay = DefaultReconnectMaxDelay
	}
	if c.Channel.MaxReconnectAttempts == 0 {
		c.Channel.MaxReconnectAttempts = DefaultMaxReconnectAttempts
	}
	if c.Channel.PingInterval == 0 {
		c.Channel.PingInterval = DefaultPingInterval
	}
	if c.Channel.PingTimeout == 0 {
		c.Channel.PingTimeout = DefaultPingTimeout
	}
	if c.Channel.WriteTimeout == 0 {
		c.Channel.WriteTimeout = DefaultWriteTimeout
	}
	if c.Channel.BufferSize == 0 {
		c.Channel.BufferSize = DefaultBufferSize
	}

	// Queue defaults
	if c.Queue.Capacity == 0 {
		c.Queue.Capacity = DefaultQueueCapacity
	}
	if c.Queue.MaxAttempts == 0 {
		c.Queue.MaxAttempts = DefaultQueueMaxAttempts
	}

	// Offline defaults
	if c.Offline.Backend == "" {
		c.Offline.Backend = DefaultOfflineBackend
	}
	if c.Offline.MaxRetries == 0 {
		c.Offline.MaxRetries = DefaultOfflineMaxRetries
	}

	// Snapshot defaults
	if c.Snapshot.ReconcileInterval == 0 {
		c.Snapshot.ReconcileInterval = DefaultReconcileInterval
	}
	if c.Snapshot.LoadTimeout == 0 {
		c.Snapshot.LoadTimeout = DefaultSnapshotLoadTimeout
	}

	// Database defaults only matter for the postgres backend
	if c.Offline.Backend == "postgres" {
		applyDBDefaults(&c.Database.Postgres)
	}

	// Stats defaults
	if c.Stats.LogInterval == 0 {
		c.Stats.LogInterval = DefaultStatsLogInterval
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
