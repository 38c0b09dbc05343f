package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/BrandonDHaskell/gymgate/internal/gym/service"
)

const (
	JournalMemory = "memory"
	JournalSQLite = "sqlite"
)

type Config struct {
	HTTPAddr string `yaml:"http_addr"`
	GRPCAddr string `yaml:"grpc_addr"` // empty disables the health endpoint

	Env      string `yaml:"env"` // "dev" | "prod"
	LogLevel string `yaml:"log_level"`

	// Journal
	Journal string `yaml:"journal"` // "memory" | "sqlite"
	DBPath  string `yaml:"db_path"`

	// Roster
	RosterPath      string `yaml:"roster_path"`
	Capacity        int    `yaml:"capacity"`
	RejectAmbiguous bool   `yaml:"reject_ambiguous_ids"`

	// Journal retention
	JournalRetentionDays int `yaml:"journal_retention_days"` // 0 = keep forever
	PruneIntervalHours   int `yaml:"prune_interval_hours"`
}

func Default() Config {
	return Config{
		HTTPAddr:             ":8080",
		GRPCAddr:             ":9090",
		Env:                  "dev",
		LogLevel:             "info",
		Journal:              JournalMemory,
		DBPath:               "./data/gymgate.db",
		RosterPath:           "./data/roster.xlsx",
		Capacity:             service.DefaultCapacity,
		JournalRetentionDays: 30,
		PruneIntervalHours:   6,
	}
}

// Load applies defaults, then the YAML file named by GYMGATE_CONFIG_PATH (if
// any), then GYMGATE_* environment overrides. The result is validated.
func Load() (Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv("GYMGATE_CONFIG_PATH")); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	cfg.Env = strings.ToLower(cfg.Env)
	if cfg.Env != "dev" && cfg.Env != "prod" {
		// fail-soft: treat unknown as dev
		cfg.Env = "dev"
	}
	cfg.Journal = strings.ToLower(strings.TrimSpace(cfg.Journal))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.HTTPAddr = getenvDefault("GYMGATE_HTTP_ADDR", cfg.HTTPAddr)
	if v, ok := os.LookupEnv("GYMGATE_GRPC_ADDR"); ok {
		cfg.GRPCAddr = strings.TrimSpace(v)
	}
	cfg.Env = getenvDefault("GYMGATE_ENV", cfg.Env)
	cfg.LogLevel = getenvDefault("GYMGATE_LOG_LEVEL", cfg.LogLevel)
	cfg.Journal = getenvDefault("GYMGATE_JOURNAL", cfg.Journal)
	cfg.DBPath = getenvDefault("GYMGATE_DB_PATH", cfg.DBPath)
	cfg.RosterPath = getenvDefault("GYMGATE_ROSTER_PATH", cfg.RosterPath)

	var err error
	if cfg.Capacity, err = getenvInt("GYMGATE_CAPACITY", cfg.Capacity); err != nil {
		return err
	}
	if cfg.JournalRetentionDays, err = getenvInt("GYMGATE_JOURNAL_RETENTION_DAYS", cfg.JournalRetentionDays); err != nil {
		return err
	}
	if cfg.PruneIntervalHours, err = getenvInt("GYMGATE_PRUNE_INTERVAL_HOURS", cfg.PruneIntervalHours); err != nil {
		return err
	}
	if cfg.RejectAmbiguous, err = getenvBool("GYMGATE_REJECT_AMBIGUOUS_IDS", cfg.RejectAmbiguous); err != nil {
		return err
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Capacity <= 0 {
		errs = append(errs, fmt.Errorf("capacity must be positive, got %d", c.Capacity))
	}
	if strings.TrimSpace(c.RosterPath) == "" {
		errs = append(errs, errors.New("roster path is required"))
	}
	switch c.Journal {
	case JournalMemory:
	case JournalSQLite:
		if strings.TrimSpace(c.DBPath) == "" {
			errs = append(errs, errors.New("db path is required for the sqlite journal"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown journal %q (want memory or sqlite)", c.Journal))
	}
	if c.JournalRetentionDays < 0 || c.PruneIntervalHours < 0 {
		errs = append(errs, errors.New("retention settings must not be negative"))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// SlogLevel returns the configured log level. Validate has already
// rejected unknown names, so an unknown value here falls back to info.
func (c Config) SlogLevel() slog.Level {
	lvl, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return lvl, nil
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

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

func getenvInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
