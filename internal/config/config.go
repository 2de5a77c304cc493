package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Port           string   `env:"PORT" env-default:"8080"`
	FrontendURL    string   `env:"FRONTEND_URL" env-default:"http://localhost:5173"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" env-separator:","`

	// Database
	DatabaseURL          string `env:"DATABASE_URL"`
	DBDriver             string `env:"DB_DRIVER" env-default:"pgx"`
	DBMaxOpenConns       int    `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	DBMaxIdleConns       int    `env:"DB_MAX_IDLE_CONNS" env-default:"25"`
	DBConnMaxLifetimeMin int    `env:"DB_CONN_MAX_LIFETIME_MINUTES" env-default:"5"`

	RedisURL      string `env:"REDIS_URL" env-default:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// Address lookup
	ViaCEPBaseURL   string        `env:"VIACEP_BASE_URL" env-default:"https://viacep.com.br"`
	LookupTimeout   time.Duration `env:"LOOKUP_TIMEOUT" env-default:"2s"`
	CEPCacheTTL     time.Duration `env:"CEP_CACHE_TTL" env-default:"24h"`
	SaveFailureRate float64       `env:"SAVE_FAILURE_RATE" env-default:"0.25"`
	AddressKeepDays int           `env:"ADDRESS_RETENTION_DAYS" env-default:"30"`

	// Tables
	BoardRows       int           `env:"BOARD_ROWS" env-default:"6"`
	BoardColumns    int           `env:"BOARD_COLUMNS" env-default:"7"`
	TableIdleTTL    time.Duration `env:"TABLE_IDLE_TTL" env-default:"2h"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" env-default:"10m"`

	// Security
	JWTSecret     string        `env:"JWT_SECRET" env-default:"your-secret-key-change-this-in-production"`
	TableTokenTTL time.Duration `env:"TABLE_TOKEN_TTL" env-default:"24h"`
}

var AppConfig *Config

// LoadConfig reads the process environment. Call godotenv.Load first so a
// local .env is visible here.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from env: %w", err)
	}

	// Build allowed origins list (Frontend URL + Localhost + CSV values)
	origins := []string{cfg.FrontendURL, "http://localhost:5173"}
	for _, origin := range cfg.AllowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	cfg.AllowedOrigins = dedupe(origins)

	// Append simple_protocol for PgBouncer compatibility (pgx driver)
	if cfg.DatabaseURL != "" && cfg.DBDriver == "pgx" {
		if u, err := url.Parse(cfg.DatabaseURL); err == nil {
			q := u.Query()
			if q.Get("default_query_exec_mode") == "" {
				q.Set("default_query_exec_mode", "simple_protocol")
				u.RawQuery = q.Encode()
				cfg.DatabaseURL = u.String()
			}
		}
	}

	if cfg.DBDriver != "pgx" && cfg.DBDriver != "postgres" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (want pgx or postgres)", cfg.DBDriver)
	}
	if cfg.SaveFailureRate < 0 || cfg.SaveFailureRate > 1 {
		return nil, fmt.Errorf("SAVE_FAILURE_RATE must be within [0,1], got %v", cfg.SaveFailureRate)
	}

	AppConfig = cfg
	return cfg, nil
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
