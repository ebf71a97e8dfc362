package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Client.ID == "" {
		return errors.New("client.id is required")
	}

	if c.Server.URL == "" {
		return errors.New("server.url is required")
	}

	if c.Channel.ReconnectBaseDelay > c.Channel.ReconnectMaxDelay {
		return fmt.Errorf("channel.reconnect_base_delay (%v) cannot exceed reconnect_max_delay (%v)",
			c.Channel.ReconnectBaseDelay, c.Channel.ReconnectMaxDelay)
	}
	if c.Channel.MaxReconnectAttempts < 1 {
		return errors.New("channel.max_reconnect_attempts must be >= 1")
	}

	if c.Queue.Capacity < 1 {
		return errors.New("queue.capacity must be >= 1")
	}
	if c.Queue.MaxAttempts < 1 {
		return errors.New("queue.max_attempts must be >= 1")
	}

	switch c.Offline.Backend {
	case "memory":
	case "postgres":
		if err := c.Database.Postgres.validate("database.postgres"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("offline.backend must be \"memory\" or \"postgres\", got %q", c.Offline.Backend)
	}
	if c.Offline.MaxRetries < 1 {
		return errors.New("offline.max_retries must be >= 1")
	}

	if c.Snapshot.URL != "" {
		if c.Snapshot.ReconcileInterval <= 0 {
			return errors.New("snapshot.reconcile_interval must be > 0")
		}
		if c.Snapshot.LoadTimeout <= 0 {
			return errors.New("snapshot.load_timeout must be > 0")
		}
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
