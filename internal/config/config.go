package config

import "time"

// Config is the root configuration for an opsync client instance.
type Config struct {
	Client   ClientConfig   `yaml:"client"`
	Server   ServerConfig   `yaml:"server"`
	Channel  ChannelConfig  `yaml:"channel"`
	Queue    QueueConfig    `yaml:"queue"`
	Offline  OfflineConfig  `yaml:"offline"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Database DatabaseConfig `yaml:"database"`
	Stats    StatsConfig    `yaml:"stats"`
}

// ClientConfig identifies this client.
type ClientConfig struct {
	ID       string   `yaml:"id"`
	Property string   `yaml:"property"` // property code, e.g. "HV-MAIN"
	Channels []string `yaml:"channels"` // channels to open at startup
}

// ServerConfig holds sync server settings.
type ServerConfig struct {
	URL              string        `yaml:"url"`
	Token            string        `yaml:"token"` // bearer token for the websocket handshake
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
}

// ChannelConfig holds per-channel connection manager settings.
type ChannelConfig struct {
	ReconnectBaseDelay   time.Duration `yaml:"reconnect_base_delay"`
	ReconnectMaxDelay    time.Duration `yaml:"reconnect_max_delay"`
	MaxReconnectAttempts int           `yaml:"max_reconnect_attempts"`
	PingInterval         time.Duration `yaml:"ping_interval"`
	PingTimeout          time.Duration `yaml:"ping_timeout"`
	WriteTimeout         time.Duration `yaml:"write_timeout"`
	BufferSize           int           `yaml:"buffer_size"`
}

// QueueConfig holds outbound queue settings.
type QueueConfig struct {
	Capacity    int `yaml:"capacity"`
	MaxAttempts int `yaml:"max_attempts"`
}

// OfflineConfig holds durable offline operation queue settings.
type OfflineConfig struct {
	Backend    string `yaml:"backend"` // "memory" or "postgres"
	MaxRetries int    `yaml:"max_retries"`
}

// SnapshotConfig holds REST snapshot loader settings. An empty URL
// disables the loader; state is then built from channel events alone.
type SnapshotConfig struct {
	URL               string        `yaml:"url"`
	ReconcileInterval time.Duration `yaml:"reconcile_interval"`
	LoadTimeout       time.Duration `yaml:"load_timeout"`
}

// DatabaseConfig holds the Postgres connection used by the postgres
// offline backend. Ignored when the backend is "memory".
type DatabaseConfig struct {
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// StatsConfig holds periodic statistics logging settings.
type StatsConfig struct {
	LogInterval time.Duration `yaml:"log_interval"`
}
