package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Server    Server    `toml:"server"`
	DB        Database  `toml:"db"`
	RateLimit RateLimit `toml:"rate_limit"`
	Log       Log       `toml:"log"`
	Tracing   Tracing   `toml:"tracing"`
}

type Server struct {
	Port               int      `toml:"port"`
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`
}

type Database struct {
	Driver       string        `toml:"driver"`
	Host         string        `toml:"host"`
	Port         int           `toml:"port"`
	User         string        `toml:"user"`
	Password     string        `toml:"password"`
	Name         string        `toml:"name"`
	Schema       string        `toml:"schema"`
	DSN          string        `toml:"dsn"`
	MaxConns     int32         `toml:"max_conns"`
	MinConns     int32         `toml:"min_conns"`
	QueryTimeout time.Duration `toml:"query_timeout"`
	SeedSample   bool          `toml:"seed_sample"`
}

type RateLimit struct {
	RPS   float64 `toml:"rps"`
	Burst int     `toml:"burst"`
}

type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Tracing struct {
	Endpoint    string `toml:"endpoint"`
	ServiceName string `toml:"service_name"`
}

// ConnString returns the driver-specific connection string. An explicit DSN wins.
func (d Database) ConnString() string {
	if d.DSN != "" {
		return d.DSN
	}

	switch d.Driver {
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s", d.User, d.Password, d.Host, d.Port, d.Name)
	case DriverSQLite:
		return d.Name
	default:
		// Use url.UserPassword to properly encode username and password
		userInfo := url.UserPassword(d.User, d.Password)
		return fmt.Sprintf(
			"postgres://%s@%s:%d/%s?sslmode=disable",
			userInfo.String(),
			d.Host,
			d.Port,
			url.PathEscape(d.Name),
		)
	}
}

// Redacted describes the connection target without credentials, for logs.
func (d Database) Redacted() string {
	switch d.Driver {
	case DriverSQLite:
		return "sqlite://" + d.ConnString()
	default:
		if d.DSN != "" {
			return d.Driver + "://(dsn)"
		}
		return fmt.Sprintf("%s://%s:***@%s:%d/%s", d.Driver, d.User, d.Host, d.Port, d.Name)
	}
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if len(cfg.Server.CORSAllowedOrigins) == 0 {
		cfg.Server.CORSAllowedOrigins = []string{"*"}
	}

	cfg.DB.Driver = strings.ToLower(strings.TrimSpace(cfg.DB.Driver))
	if cfg.DB.Driver == "" {
		cfg.DB.Driver = DriverPostgres
	}
	if cfg.DB.Host == "" {
		cfg.DB.Host = "localhost"
	}
	if cfg.DB.Port == 0 {
		switch cfg.DB.Driver {
		case DriverMySQL:
			cfg.DB.Port = 3306
		default:
			cfg.DB.Port = 5432
		}
	}
	if cfg.DB.User == "" {
		cfg.DB.User = "postgres"
	}
	if cfg.DB.Name == "" {
		cfg.DB.Name = "postgres"
	}
	if cfg.DB.Schema == "" {
		switch cfg.DB.Driver {
		case DriverMySQL:
			cfg.DB.Schema = cfg.DB.Name
		case DriverSQLite:
			cfg.DB.Schema = "main"
		default:
			cfg.DB.Schema = "public"
		}
	}
	if cfg.DB.MaxConns == 0 {
		cfg.DB.MaxConns = 25
	}
	if cfg.DB.MinConns == 0 {
		cfg.DB.MinConns = 5
	}
	if cfg.DB.QueryTimeout == 0 {
		cfg.DB.QueryTimeout = 30 * time.Second
	}

	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 10
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = "schemagraph"
	}
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", cfg.Server.Port)
	}

	switch cfg.DB.Driver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (must be postgres, mysql or sqlite)", cfg.DB.Driver)
	}

	if cfg.DB.Driver == DriverPostgres && !validIdentifier(cfg.DB.Schema) {
		return fmt.Errorf("invalid DB_SCHEMA %q", cfg.DB.Schema)
	}
	if cfg.DB.MinConns > cfg.DB.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) cannot exceed DB_MAX_CONNS (%d)", cfg.DB.MinConns, cfg.DB.MaxConns)
	}
	if cfg.DB.QueryTimeout < 0 {
		return fmt.Errorf("QUERY_TIMEOUT cannot be negative")
	}

	if cfg.RateLimit.RPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS cannot be negative")
	}
	if cfg.RateLimit.Burst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1")
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid LOG_LEVEL %q", cfg.Log.Level)
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q (must be text or json)", cfg.Log.Format)
	}

	return nil
}

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_$]*$`)

// validIdentifier reports whether name is a plain PostgreSQL identifier.
func validIdentifier(name string) bool {
	return name != "" && len(name) <= 63 && identifierPattern.MatchString(name)
}
