package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/sirupsen/logrus"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"

	ScopePersonal = "personal"
	ScopeFamily   = "family"
)

type Config struct {
	Postgres PostgresConfig `koanf:"postgres"`
	HTTP     HTTPConfig     `koanf:"http"`
	Redis    RedisConfig    `koanf:"redis"`
	Log      LogConfig      `koanf:"log"`
	Ledger   LedgerConfig   `koanf:"ledger"`
	Operator OperatorConfig `koanf:"operator"`
	Storage  StorageConfig  `koanf:"storage"`
}

type PostgresConfig struct {
	Address      string `koanf:"address"`
	Port         string `koanf:"port"`
	DB           string `koanf:"db"`
	Username     string `koanf:"username"`
	Password     string `koanf:"password"`
	SSLMode      string `koanf:"sslmode"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
}

// DSN renders a lib/pq connection URL.
func (p PostgresConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.Username, p.Password),
		Host:     net.JoinHostPort(p.Address, p.Port),
		Path:     "/" + p.DB,
		RawQuery: url.Values{"sslmode": []string{p.SSLMode}}.Encode(),
	}
	return u.String()
}

type HTTPConfig struct {
	Port              string        `koanf:"port"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
}

// RedisConfig configures the report cache. An empty Address disables it.
type RedisConfig struct {
	Address  string        `koanf:"address"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	TTL      time.Duration `koanf:"ttl"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

type LedgerConfig struct {
	InviteTTL          time.Duration `koanf:"invite_ttl"`
	InviteAttempts     int           `koanf:"invite_attempts"`
	ReportScope        string        `koanf:"report_scope"`
	DefaultCurrency    string        `koanf:"default_currency"`
	RefreshDisplayName bool          `koanf:"refresh_display_name"`
	TimeZone           string        `koanf:"time_zone"`
	ListLimit          int           `koanf:"list_limit"`
}

type OperatorConfig struct {
	Workers   int `koanf:"workers"`
	QueueSize int `koanf:"queue_size"`
}

type StorageConfig struct {
	Backend string `koanf:"backend"`
}

// In all cases the default behavior should be for the docker compose setup.
func defaults() map[string]any {
	return map[string]any{
		"postgres.address":        "localhost",
		"postgres.port":           "5433",
		"postgres.db":             "postgres",
		"postgres.username":       "postgres",
		"postgres.password":       "testpassword",
		"postgres.sslmode":        "disable",
		"postgres.max_open_conns": 10,
		"postgres.max_idle_conns": 5,

		"http.port":                "9446",
		"http.read_timeout":        "30s",
		"http.write_timeout":       "30s",
		"http.idle_timeout":        "10s",
		"http.read_header_timeout": "10s",
		"http.shutdown_timeout":    "15s",

		"redis.address":  "",
		"redis.password": "",
		"redis.db":       0,
		"redis.ttl":      "10m",

		"log.level": "info",

		"ledger.invite_ttl":           "24h",
		"ledger.invite_attempts":      5,
		"ledger.report_scope":         ScopeFamily,
		"ledger.default_currency":     "RUB",
		"ledger.refresh_display_name": false,
		"ledger.time_zone":            "UTC",
		"ledger.list_limit":           50,

		"operator.workers":    4,
		"operator.queue_size": 1000,

		"storage.backend": BackendPostgres,
	}
}

var envSections = []string{"postgres", "http", "redis", "log", "ledger", "operator", "storage"}

// envKey maps POSTGRES_ADDRESS to postgres.address and LEDGER_INVITE_TTL to
// ledger.invite_ttl. Variables outside the known sections are ignored.
func envKey(s string) string {
	section, rest, ok := strings.Cut(strings.ToLower(s), "_")
	if !ok || rest == "" {
		return ""
	}
	for _, known := range envSections {
		if section == known {
			return section + "." + rest
		}
	}
	return ""
}

// Load layers defaults, an optional YAML file and the environment, in that order.
// A .env file in the working directory is loaded into the environment first.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("config env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal: %w", err)
	}
	cfg.Ledger.DefaultCurrency = strings.ToUpper(cfg.Ledger.DefaultCurrency)
	return &cfg, nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.HTTP.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid http port %q: must be between 1 and 65535", c.HTTP.Port))
	}

	switch c.Storage.Backend {
	case BackendPostgres:
		if c.Postgres.Address == "" || c.Postgres.DB == "" {
			problems = append(problems, "postgres address and db are required for the postgres backend")
		}
	case BackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("invalid storage backend %q: must be %s or %s", c.Storage.Backend, BackendPostgres, BackendMemory))
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, fmt.Sprintf("invalid log level %q", c.Log.Level))
	}

	if c.Ledger.InviteTTL <= 0 {
		problems = append(problems, "ledger invite_ttl must be positive")
	}
	if c.Ledger.InviteAttempts < 1 {
		problems = append(problems, "ledger invite_attempts must be at least 1")
	}
	if c.Ledger.ReportScope != ScopePersonal && c.Ledger.ReportScope != ScopeFamily {
		problems = append(problems, fmt.Sprintf("invalid ledger report_scope %q: must be %s or %s", c.Ledger.ReportScope, ScopePersonal, ScopeFamily))
	}
	if money.GetCurrency(c.Ledger.DefaultCurrency) == nil {
		problems = append(problems, fmt.Sprintf("unknown ledger default_currency %q", c.Ledger.DefaultCurrency))
	}
	if _, err := time.LoadLocation(c.Ledger.TimeZone); err != nil {
		problems = append(problems, fmt.Sprintf("invalid ledger time_zone %q: %v", c.Ledger.TimeZone, err))
	}
	if c.Ledger.ListLimit < 1 {
		problems = append(problems, "ledger list_limit must be at least 1")
	}

	if c.Operator.Workers < 1 {
		problems = append(problems, "operator workers must be at least 1")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Location returns the ledger time zone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Ledger.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
