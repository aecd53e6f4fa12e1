package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads .env (if present), then the optional TOML file named by CONFIG_FILE,
// then applies environment overrides, defaults and validation.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return LoadFile(os.Getenv("CONFIG_FILE"))
}

// LoadFile is Load without the .env step. An empty path skips the TOML file.
func LoadFile(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	var err error

	if err = envInt("PORT", &cfg.Server.Port); err != nil {
		return err
	}
	if v, ok := lookup("CORS_ALLOWED_ORIGINS"); ok {
		cfg.Server.CORSAllowedOrigins = splitList(v)
	}

	envString("DB_DRIVER", &cfg.DB.Driver)
	envString("DB_HOST", &cfg.DB.Host)
	if err = envInt("DB_PORT", &cfg.DB.Port); err != nil {
		return err
	}
	envString("DB_USER", &cfg.DB.User)
	envString("DB_PASSWORD", &cfg.DB.Password)
	envString("DB_NAME", &cfg.DB.Name)
	envString("DB_SCHEMA", &cfg.DB.Schema)
	envString("DB_DSN", &cfg.DB.DSN)
	if err = envInt32("DB_MAX_CONNS", &cfg.DB.MaxConns); err != nil {
		return err
	}
	if err = envInt32("DB_MIN_CONNS", &cfg.DB.MinConns); err != nil {
		return err
	}
	if err = envDuration("QUERY_TIMEOUT", &cfg.DB.QueryTimeout); err != nil {
		return err
	}
	if err = envBool("SEED_SAMPLE_SCHEMA", &cfg.DB.SeedSample); err != nil {
		return err
	}

	if err = envFloat("RATE_LIMIT_RPS", &cfg.RateLimit.RPS); err != nil {
		return err
	}
	if err = envInt("RATE_LIMIT_BURST", &cfg.RateLimit.Burst); err != nil {
		return err
	}

	envString("LOG_LEVEL", &cfg.Log.Level)
	envString("LOG_FORMAT", &cfg.Log.Format)

	envString("OTEL_EXPORTER_OTLP_ENDPOINT", &cfg.Tracing.Endpoint)
	envString("OTEL_SERVICE_NAME", &cfg.Tracing.ServiceName)

	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func envString(key string, dst *string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func envInt(key string, dst *int) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	*dst = n
	return nil
}

func envInt32(key string, dst *int32) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	*dst = int32(n)
	return nil
}

func envFloat(key string, dst *float64) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s must be a number: %w", key, err)
	}
	*dst = f
	return nil
}

func envBool(key string, dst *bool) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	*dst = b
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s must be a duration like 30s: %w", key, err)
	}
	*dst = d
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
