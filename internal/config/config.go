package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	DriverBolt     = "bolt"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Config aggregates all runtime settings for the CMS backend and its clients.
type Config struct {
	AppName     string
	Environment string
	HTTP        HTTPConfig
	Storage     StorageConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Migrations  MigrationsConfig
	Export      ExportConfig
	Monitor     MonitorConfig
	CORS        CORSConfig
	Context     ContextConfig
	Logger      LoggerConfig
	Client      ClientConfig
}

type HTTPConfig struct {
	Host               string
	Port               string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	MaxRequestBodySize int
}

type StorageConfig struct {
	Driver   string
	BoltPath string
}

type DatabaseConfig struct {
	URL             string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
	SSLMode         string
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

type MigrationsConfig struct {
	Enabled bool
	Path    string
}

// ExportConfig controls the periodic db.json snapshot. An empty Path disables it.
type ExportConfig struct {
	Path     string
	Interval time.Duration
}

type MonitorConfig struct {
	Interval time.Duration
}

type CORSConfig struct {
	AllowOrigin string
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

// ClientConfig is read by processes that embed the state synchronizer.
type ClientConfig struct {
	APIURL       string
	FallbackPath string
	Timeout      time.Duration
	// LogLevel applies to siteadmin; LOG_LEVEL configures the server.
	LogLevel     string
}

// Load reads configuration from environment variables (optionally .env)
// and applies defaults so the service can boot with no setup at all.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "spicecms"),
		Environment: getString("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Host:               getString("SERVER_HOST", "0.0.0.0"),
			Port:               getString("SERVER_PORT", "3001"),
			ReadTimeout:        getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:       getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:        getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			MaxRequestBodySize: getInt("SERVER_MAX_BODY_BYTES", 4<<20),
		},
		Storage: StorageConfig{
			Driver:   strings.ToLower(getString("STORAGE_DRIVER", DriverBolt)),
			BoltPath: getString("STORAGE_BOLT_PATH", "./data/cms.db"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			Host:            getString("DB_HOST", "localhost"),
			Port:            getString("DB_PORT", "5432"),
			Name:            getString("DB_NAME", "spicecms"),
			User:            getString("DB_USER", "spicecms"),
			Password:        os.Getenv("DB_PASSWORD"),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 2),
			MaxConnLifetime: getDuration("DB_CONN_LIFETIME", time.Hour),
			SSLMode:         getString("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getString("REDIS_URL", "redis://localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
		},
		Migrations: MigrationsConfig{
			Enabled: getBool("RUN_MIGRATIONS", true),
			Path:    getString("MIGRATIONS_PATH", "./assets/migrations"),
		},
		Export: ExportConfig{
			Path:     os.Getenv("EXPORT_PATH"),
			Interval: getDuration("EXPORT_INTERVAL", 5*time.Minute),
		},
		Monitor: MonitorConfig{
			Interval: getDuration("MONITOR_INTERVAL", 10*time.Second),
		},
		CORS: CORSConfig{
			AllowOrigin: getString("CORS_ALLOW_ORIGIN", "*"),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 5*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
		Client: ClientConfig{
			APIURL:       getString("CMS_API_URL", "http://localhost:3001/api"),
			FallbackPath: getString("FALLBACK_PATH", "./data/fallback.db"),
			Timeout:      getDuration("CLIENT_TIMEOUT", 5*time.Second),
			LogLevel:     getString("SITEADMIN_LOG_LEVEL", "warn"),
		},
	}

	switch cfg.Storage.Driver {
	case DriverBolt, DriverRedis, DriverPostgres:
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = buildPostgresURL(cfg.Database)
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

func buildPostgresURL(db DatabaseConfig) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
		db.SSLMode,
	)
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

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
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

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
