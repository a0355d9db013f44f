// Package config loads simulator configuration from a YAML file or CLI flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config is the resolved simulator configuration.
type Config struct {
	Listen      string
	StateDir    string
	JournalDir  string
	Storage     string // "file" or "redis"
	RedisAddr   string
	RedisPass   string
	RedisDB     int
	CatalogPath string

	TickInterval     time.Duration
	EquityVolatility float64
	CryptoVolatility float64
	FloorRatio       float64

	CapitalPresets []decimal.Decimal

	// Identity and StartingCash, when set, log that account in at startup
	// (the setup wizard writes them for single-user runs).
	Identity     string
	StartingCash decimal.Decimal
}

// ConfigTmp is the YAML wire form of Config. The setup wizard marshals it
// when generating a config file.
type ConfigTmp struct {
	Listen      string `yaml:"listen"`
	StateDir    string `yaml:"state_dir"`
	JournalDir  string `yaml:"journal_dir"`
	Storage     string `yaml:"storage"`
	RedisAddr   string `yaml:"redis_addr,omitempty"`
	RedisPass   string `yaml:"redis_pass,omitempty"`
	RedisDB     int    `yaml:"redis_db,omitempty"`
	CatalogPath string `yaml:"catalog,omitempty"`

	TickInterval     time.Duration `yaml:"tick_interval,omitempty"`
	EquityVolatility float64       `yaml:"equity_volatility,omitempty"`
	CryptoVolatility float64       `yaml:"crypto_volatility,omitempty"`
	FloorRatio       float64       `yaml:"floor_ratio,omitempty"`

	CapitalPresets []string `yaml:"capital_presets,omitempty"`

	Identity     string `yaml:"identity,omitempty"`
	StartingCash string `yaml:"starting_cash,omitempty"`
}

// DefaultCapitalPresets the starting-capital choices offered at signup.
func DefaultCapitalPresets() []decimal.Decimal {
	return []decimal.Decimal{
		decimal.NewFromInt(100000),
		decimal.NewFromInt(500000),
		decimal.NewFromInt(1000000),
		decimal.NewFromInt(2500000),
		decimal.NewFromInt(10000000),
	}
}

// Default returns the configuration used when no file or flags override it.
func Default() Config {
	return Config{
		Listen:         ":8080",
		StateDir:       "./state/accounts",
		JournalDir:     "./wal/trades",
		Storage:        "file",
		TickInterval:   3 * time.Second,
		CapitalPresets: DefaultCapitalPresets(),
	}
}

// Get resolves configuration from --config YAML when given, CLI flags
// otherwise.
func Get() (Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	listen := flag.String("listen", ":8080", "http listen address")
	stateDir := flag.String("statedir", "./state/accounts", "account snapshot directory")
	journalDir := flag.String("journaldir", "./wal/trades", "trade journal directory")
	storage := flag.String("storage", "file", "persistence backend: file or redis")
	redisAddr := flag.String("redis", "localhost:6379", "redis address (storage=redis)")
	tickInterval := flag.Duration("tickinterval", 3*time.Second, "price feed tick interval")
	catalogPath := flag.String("catalog", "", "optional yaml catalog override")
	flag.Parse()

	if *configPath != "" {
		return getYaml(*configPath)
	}

	cfg := Default()
	cfg.Listen = *listen
	cfg.StateDir = *stateDir
	cfg.JournalDir = *journalDir
	cfg.Storage = *storage
	cfg.RedisAddr = *redisAddr
	cfg.TickInterval = *tickInterval
	cfg.CatalogPath = *catalogPath

	return cfg, validate(cfg)
}

func getYaml(path string) (Config, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var tmp ConfigTmp
	if err := yaml.Unmarshal(payload, &tmp); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if tmp.Listen != "" {
		cfg.Listen = tmp.Listen
	}
	if tmp.StateDir != "" {
		cfg.StateDir = tmp.StateDir
	}
	if tmp.JournalDir != "" {
		cfg.JournalDir = tmp.JournalDir
	}
	if tmp.Storage != "" {
		cfg.Storage = tmp.Storage
	}
	cfg.RedisAddr = tmp.RedisAddr
	cfg.RedisPass = tmp.RedisPass
	cfg.RedisDB = tmp.RedisDB
	cfg.CatalogPath = tmp.CatalogPath
	if tmp.TickInterval > 0 {
		cfg.TickInterval = tmp.TickInterval
	}
	cfg.EquityVolatility = tmp.EquityVolatility
	cfg.CryptoVolatility = tmp.CryptoVolatility
	cfg.FloorRatio = tmp.FloorRatio
	cfg.Identity = tmp.Identity

	if len(tmp.CapitalPresets) > 0 {
		presets := make([]decimal.Decimal, 0, len(tmp.CapitalPresets))
		for _, p := range tmp.CapitalPresets {
			preset, err := decimal.NewFromString(p)
			if err != nil {
				return Config{}, fmt.Errorf("incorrect 'capital_presets' entry in yaml config: %s, error: %w", p, err)
			}
			presets = append(presets, preset)
		}
		cfg.CapitalPresets = presets
	}

	if tmp.StartingCash != "" {
		cash, err := decimal.NewFromString(tmp.StartingCash)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'starting_cash' param in yaml config: %s, error: %w", tmp.StartingCash, err)
		}
		cfg.StartingCash = cash
	}

	return cfg, validate(cfg)
}

func validate(cfg Config) error {
	switch cfg.Storage {
	case "file", "redis":
	default:
		return fmt.Errorf("invalid storage backend %q, expected file or redis", cfg.Storage)
	}
	if cfg.Storage == "redis" && cfg.RedisAddr == "" {
		return fmt.Errorf("storage=redis requires a redis address")
	}
	for _, p := range cfg.CapitalPresets {
		if !p.IsPositive() {
			return fmt.Errorf("capital preset %s must be positive", p)
		}
	}
	return nil
}
