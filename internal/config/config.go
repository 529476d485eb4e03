package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	Session   SessionConfig   `yaml:"session"`
	Redis     RedisConfig     `yaml:"redis"`
	Ordering  OrderingConfig  `yaml:"ordering"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Path, when set, sends logs to a size-capped file instead of the console.
	Path string `yaml:"path"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // "http" or "stdio"
}

type AuthConfig struct {
	Enabled      bool          `yaml:"enabled"`
	SessionTTL   time.Duration `yaml:"session_ttl"`
	DefaultActor string        `yaml:"default_actor"`
}

type SessionConfig struct {
	Backend string `yaml:"backend"` // "sqlite" or "redis"
}

type RedisConfig struct {
	URL string `yaml:"url"`
}

type OrderingConfig struct {
	TxTimeout time.Duration `yaml:"tx_timeout"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "planboard.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Auth: AuthConfig{
			Enabled:    true,
			SessionTTL: 24 * time.Hour,
		},
		Session: SessionConfig{
			Backend: "sqlite",
		},
		Redis: RedisConfig{
			URL: "redis://localhost:6379/0",
		},
		Ordering: OrderingConfig{
			TxTimeout: 5 * time.Second,
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("PLANBOARD_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("PLANBOARD_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("PLANBOARD_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid PLANBOARD_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("PLANBOARD_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("PLANBOARD_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("PLANBOARD_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if mode := os.Getenv("PLANBOARD_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if enabled := os.Getenv("PLANBOARD_AUTH_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return fmt.Errorf("invalid PLANBOARD_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = v
	}
	if ttl := os.Getenv("PLANBOARD_AUTH_SESSION_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return fmt.Errorf("invalid PLANBOARD_AUTH_SESSION_TTL: %w", err)
		}
		cfg.Auth.SessionTTL = d
	}
	if actor := os.Getenv("PLANBOARD_AUTH_DEFAULT_ACTOR"); actor != "" {
		cfg.Auth.DefaultActor = actor
	}
	if backend := os.Getenv("PLANBOARD_SESSION_BACKEND"); backend != "" {
		cfg.Session.Backend = backend
	}
	if url := os.Getenv("PLANBOARD_REDIS_URL"); url != "" {
		cfg.Redis.URL = url
	}
	if timeout := os.Getenv("PLANBOARD_ORDERING_TX_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid PLANBOARD_ORDERING_TX_TIMEOUT: %w", err)
		}
		cfg.Ordering.TxTimeout = d
	}
	return nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case "http", "stdio":
	default:
		return fmt.Errorf("transport.mode must be http or stdio, got %q", c.Transport.Mode)
	}
	switch c.Session.Backend {
	case "sqlite", "redis":
	default:
		return fmt.Errorf("session.backend must be sqlite or redis, got %q", c.Session.Backend)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("auth.session_ttl must be positive")
	}
	if c.Ordering.TxTimeout <= 0 {
		return fmt.Errorf("ordering.tx_timeout must be positive")
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
