package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendCanned   = "canned"
	BackendRemote   = "remote"
	BackendPostgres = "postgres"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Backend  BackendConfig  `yaml:"backend"`
	Canned   CannedConfig   `yaml:"canned"`
	Database DatabaseConfig `yaml:"database"`
	NATS     NATSConfig     `yaml:"nats"`
	MinIO    MinIOConfig    `yaml:"minio"`
	Search   SearchConfig   `yaml:"search"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Notify   NotifyConfig   `yaml:"notify"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// BackendConfig selects where snapshots and search results come from.
type BackendConfig struct {
	Mode    string        `yaml:"mode"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// CannedConfig sets the artificial delays of the canned backend.
type CannedConfig struct {
	LoadDelay time.Duration `yaml:"load_delay"`
	FaceDelay time.Duration `yaml:"face_delay"`
	IDDelay   time.Duration `yaml:"id_delay"`
	TimeDelay time.Duration `yaml:"time_delay"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	MaxConns int    `yaml:"max_conns"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// NATSConfig is optional; an empty URL disables search auditing and refresh events.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// MinIOConfig is optional; an empty endpoint disables the probe archive.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type SearchConfig struct {
	HistorySize int           `yaml:"history_size"`
	WSDebounce  time.Duration `yaml:"ws_debounce"`
}

type SnapshotConfig struct {
	MaxAttempts     int           `yaml:"max_attempts"`
	RetryWait       time.Duration `yaml:"retry_wait"`
	RefreshThrottle time.Duration `yaml:"refresh_throttle"`
}

type NotifyConfig struct {
	DismissAfter time.Duration `yaml:"dismiss_after"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Load reads config from YAML file and applies environment variable overrides.
// An empty path skips the file and uses environment and defaults only.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Backend.Mode {
	case BackendCanned, BackendPostgres:
	case BackendRemote:
		if c.Backend.BaseURL == "" {
			return fmt.Errorf("backend.base_url is required for mode %q", BackendRemote)
		}
	default:
		return fmt.Errorf("unknown backend mode %q", c.Backend.Mode)
	}
	return nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Backend.Mode == "" {
		cfg.Backend.Mode = BackendCanned
	}
	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = 10 * time.Second
	}
	if cfg.Canned.LoadDelay == 0 {
		cfg.Canned.LoadDelay = 500 * time.Millisecond
	}
	if cfg.Canned.FaceDelay == 0 {
		cfg.Canned.FaceDelay = 2 * time.Second
	}
	if cfg.Canned.IDDelay == 0 {
		cfg.Canned.IDDelay = time.Second
	}
	if cfg.Canned.TimeDelay == 0 {
		cfg.Canned.TimeDelay = 1500 * time.Millisecond
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = "campustrack"
	}
	if cfg.Search.HistorySize == 0 {
		cfg.Search.HistorySize = 10
	}
	if cfg.Search.WSDebounce == 0 {
		cfg.Search.WSDebounce = 300 * time.Millisecond
	}
	if cfg.Snapshot.MaxAttempts == 0 {
		cfg.Snapshot.MaxAttempts = 3
	}
	if cfg.Snapshot.RetryWait == 0 {
		cfg.Snapshot.RetryWait = time.Second
	}
	if cfg.Snapshot.RefreshThrottle == 0 {
		cfg.Snapshot.RefreshThrottle = 2 * time.Second
	}
	if cfg.Notify.DismissAfter == 0 {
		cfg.Notify.DismissAfter = 5 * time.Second
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CT_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("CT_CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("CT_BACKEND_MODE"); v != "" {
		cfg.Backend.Mode = v
	}
	if v := os.Getenv("CT_BACKEND_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv("CT_BACKEND_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Backend.Timeout = d
		}
	}
	if v := os.Getenv("CT_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("CT_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("CT_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("CT_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("CT_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("CT_NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("CT_MINIO_ENDPOINT"); v != "" {
		cfg.MinIO.Endpoint = v
	}
	if v := os.Getenv("CT_MINIO_ACCESS_KEY"); v != "" {
		cfg.MinIO.AccessKey = v
	}
	if v := os.Getenv("CT_MINIO_SECRET_KEY"); v != "" {
		cfg.MinIO.SecretKey = v
	}
	if v := os.Getenv("CT_MINIO_BUCKET"); v != "" {
		cfg.MinIO.Bucket = v
	}
	if v := os.Getenv("CT_SEARCH_HISTORY_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Search.HistorySize = n
		}
	}
	if v := os.Getenv("CT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("CT_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("CT_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
}
