package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageBolt  = "bolt"
	StorageRedis = "redis"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName string
	API     APIConfig
	Storage StorageConfig
	Redis   RedisConfig
	Server  ServerConfig
	Refresh RefreshConfig
	Context ContextConfig
	Logger  LoggerConfig
}

type APIConfig struct {
	BaseURL         string
	Timeout         time.Duration
	MaxConnsPerHost int
}

type StorageConfig struct {
	Driver string
	Path   string
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
	Prefix   string
}

type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	LoginRatePerSec float64
	LoginRateBurst  int
}

type RefreshConfig struct {
	Interval time.Duration
}

type ContextConfig struct {
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

// Load reads configuration from environment variables (optionally .env)
// and applies defaults suitable for a local workstation.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName: getString("APP_NAME", "taskboard"),
		API: APIConfig{
			BaseURL:         strings.TrimRight(getString("API_URL", "http://localhost:4000"), "/"),
			Timeout:         getDuration("API_TIMEOUT", 10*time.Second),
			MaxConnsPerHost: getInt("API_MAX_CONNS", 16),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getString("STORAGE_DRIVER", StorageBolt)),
			Path:   getString("STORAGE_PATH", defaultStoragePath()),
		},
		Redis: RedisConfig{
			URL:      getString("REDIS_URL", "redis://localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
			Prefix:   getString("REDIS_PREFIX", "taskboard:"),
		},
		Server: ServerConfig{
			Host:            getString("SERVER_HOST", "127.0.0.1"),
			Port:            getString("SERVER_PORT", "8090"),
			ReadTimeout:     getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:     getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			LoginRatePerSec: getFloat("LOGIN_RATE_PER_SEC", 1),
			LoginRateBurst:  getInt("LOGIN_RATE_BURST", 5),
		},
		Refresh: RefreshConfig{
			Interval: getDuration("REFRESH_INTERVAL", 60*time.Second),
		},
		Context: ContextConfig{
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "console"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Validate rejects settings the client cannot start with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("config: API_URL must be an absolute http(s) URL, got %q", c.API.BaseURL)
	}
	switch c.Storage.Driver {
	case StorageBolt:
		if c.Storage.Path == "" {
			return fmt.Errorf("config: STORAGE_PATH is required for the bolt driver")
		}
	case StorageRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("config: REDIS_URL is required for the redis driver")
		}
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	return nil
}

func defaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".taskboard", "session.db")
	}
	return filepath.Join(home, ".taskboard", "session.db")
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// Address returns the view server listen address.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
