// Package config loads the server configuration from the environment.
//
// A .env file in the working directory is read first when present. Values
// already set in the real environment are never overridden by it, so
// deployments can rely on plain environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/sakif/blog-api/internal/logging"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Port int

	DBDriver    string
	DBPath      string   // sqlite only
	DatabaseURL string   // postgres only
	ReplicaURLs []string // postgres read replicas

	DBMaxOpenConns int // postgres pool; 0 keeps the driver default
	DBMaxIdleConns int

	AllowedOrigins []string

	LogLevel  slog.Level
	LogFormat string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Load reads envFile (if it exists) and then the environment. An empty
// envFile skips the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("reading %s: %w", envFile, err)
		}
	}

	cfg := Config{
		DBDriver:       getString("DB_DRIVER", DriverSQLite),
		DBPath:         getString("DB_PATH", "data/blog.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		ReplicaURLs:    splitList(os.Getenv("DATABASE_REPLICA_URLS")),
		AllowedOrigins: splitList(getString("ALLOWED_ORIGINS", "*")),
		LogFormat:      strings.ToLower(getString("LOG_FORMAT", logging.FormatJSON)),
	}

	var errs []error
	var err error

	if cfg.Port, err = getInt("PORT", 8080); err != nil {
		errs = append(errs, err)
	} else if cfg.Port < 1 || cfg.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", cfg.Port))
	}

	pool := []struct {
		key  string
		dest *int
	}{
		{"DB_MAX_OPEN_CONNS", &cfg.DBMaxOpenConns},
		{"DB_MAX_IDLE_CONNS", &cfg.DBMaxIdleConns},
	}
	for _, p := range pool {
		n, err := getInt(p.key, 0)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if n < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %d", p.key, n))
			continue
		}
		*p.dest = n
	}

	if cfg.LogLevel, err = logging.ParseLevel(os.Getenv("LOG_LEVEL")); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	if cfg.LogFormat != logging.FormatJSON && cfg.LogFormat != logging.FormatConsole {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be %q or %q, got %q",
			logging.FormatJSON, logging.FormatConsole, cfg.LogFormat))
	}

	switch cfg.DBDriver {
	case DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when DB_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be %q or %q, got %q",
			DriverSQLite, DriverPostgres, cfg.DBDriver))
	}

	timeouts := []struct {
		key  string
		def  int
		dest *time.Duration
	}{
		{"READ_TIMEOUT_SECONDS", 15, &cfg.ReadTimeout},
		{"WRITE_TIMEOUT_SECONDS", 15, &cfg.WriteTimeout},
		{"IDLE_TIMEOUT_SECONDS", 60, &cfg.IdleTimeout},
		{"SHUTDOWN_TIMEOUT_SECONDS", 30, &cfg.ShutdownTimeout},
	}
	for _, to := range timeouts {
		secs, err := getInt(to.key, to.def)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if secs <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", to.key, secs))
			continue
		}
		*to.dest = time.Duration(secs) * time.Second
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

// splitList splits a comma separated value, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
