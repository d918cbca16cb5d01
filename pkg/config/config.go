// Package config loads taskplan settings from a TOML file.
//
// Settings are layered: [Default] supplies every value, the config file
// overrides what it names, and CLI flags override the result. A missing file
// at the default location is not an error.
//
// Example file:
//
//	categories = ["D", "FE", "BE", "DevOps", "QA"]
//
//	[limits]
//	brute_force = 22
//	meet_in_the_middle = 30
//	table = 2097152
//
//	[constraints]
//	max_cost = 19000
//	max_hours = 40
//	[constraints.min]
//	FE = 2
//	QA = 1
//
//	[solve]
//	strategy = "Branch & Bound"
//	timeout = "30s"
//
//	[server]
//	addr = ":8080"
//	redis_url = "redis://localhost:6379/0"
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	apperrors "github.com/matzehuels/taskplan/pkg/errors"
	"github.com/matzehuels/taskplan/pkg/plan"
	"github.com/matzehuels/taskplan/pkg/plan/solver"
)

const appName = "taskplan"

// Config is the full settings tree.
type Config struct {
	Categories  []string    `toml:"categories" validate:"min=1,dive,required"`
	Limits      Limits      `toml:"limits"`
	Constraints Constraints `toml:"constraints"`
	Solve       Solve       `toml:"solve"`
	Cache       Cache       `toml:"cache"`
	Server      Server      `toml:"server"`
}

// Limits caps the input size of the exhaustive strategies and the cost
// ceiling the table strategies allocate for.
type Limits struct {
	BruteForce      int `toml:"brute_force" validate:"gte=1,lte=62"`
	MeetInTheMiddle int `toml:"meet_in_the_middle" validate:"gte=1,lte=62"`
	Table           int `toml:"table" validate:"gte=1,lte=67108864"`
}

// Constraints are the defaults used when a problem file carries none.
type Constraints struct {
	MaxCost  int            `toml:"max_cost" validate:"gte=0,lte=1000000000000"`
	MaxHours int            `toml:"max_hours" validate:"gte=0,lte=1000000000000"`
	Min      map[string]int `toml:"min" validate:"dive,keys,required,endkeys,gte=0,lte=1000000000000"`
}

// Solve holds solve defaults.
type Solve struct {
	Strategy string   `toml:"strategy"`
	Timeout  Duration `toml:"timeout"`
}

// Cache configures result caching.
type Cache struct {
	Enabled bool     `toml:"enabled"`
	TTL     Duration `toml:"ttl"`
}

// Server configures `taskplan serve`.
type Server struct {
	Addr          string `toml:"addr" validate:"required"`
	RedisURL      string `toml:"redis_url"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
	Metrics       bool   `toml:"metrics"`
}

// Duration is a time.Duration written as a string such as "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Categories: plan.DefaultCategories.Strings(),
		Limits: Limits{
			BruteForce:      solver.DefaultBruteForceCap,
			MeetInTheMiddle: solver.DefaultMeetInTheMiddleCap,
			Table:           solver.DefaultTableCap,
		},
		Constraints: Constraints{
			MaxCost:  19000,
			MaxHours: 40,
			Min:      map[string]int{},
		},
		Solve: Solve{
			Strategy: solver.BranchAndBound.String(),
			Timeout:  Duration{30 * time.Second},
		},
		Cache: Cache{
			Enabled: true,
			TTL:     Duration{24 * time.Hour},
		},
		Server: Server{
			Addr:          ":8080",
			MongoDatabase: appName,
			Metrics:       true,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/taskplan/config.toml, falling back to
// ~/.config/taskplan/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the file at path over [Default] and validates the result. An
// empty path means [DefaultPath], where a missing file yields the defaults;
// an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return cfg, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "read config %s", path)
	}

	if err := Decode(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Decode parses TOML into cfg, keeping values the document does not set, and
// validates the result. Unknown keys are rejected.
func Decode(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	return cfg.Validate()
}

// Validate checks field ranges, category keys, the default strategy and any
// backend URLs.
func (c Config) Validate() error {
	if err := apperrors.ValidateStruct(apperrors.ErrCodeInvalidConfig, c); err != nil {
		return err
	}
	for _, k := range c.Categories {
		if err := apperrors.ValidateCategoryKey(k); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "categories")
		}
	}
	if c.Solve.Strategy != "" {
		if _, ok := solver.ParseStrategy(c.Solve.Strategy); !ok {
			return apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown default strategy %q", c.Solve.Strategy)
		}
	}
	if c.Solve.Timeout.Duration < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "solve timeout must not be negative")
	}
	if c.Server.RedisURL != "" {
		if err := apperrors.ValidateURL(c.Server.RedisURL, "redis", "rediss"); err != nil {
			return err
		}
	}
	if c.Server.MongoURI != "" {
		if err := apperrors.ValidateURL(c.Server.MongoURI, "mongodb", "mongodb+srv"); err != nil {
			return err
		}
	}
	return nil
}

// PlanCategories returns the configured category set.
func (c Config) PlanCategories() plan.Categories {
	return plan.ParseCategories(c.Categories)
}

// PlanConstraints returns the configured default constraints.
func (c Config) PlanConstraints() plan.Constraints {
	mins := make(plan.Amounts, len(c.Constraints.Min))
	for k, v := range c.Constraints.Min {
		mins[plan.Category(k)] = v
	}
	return plan.Constraints{
		MaxCost:           c.Constraints.MaxCost,
		MaxHours:          c.Constraints.MaxHours,
		MinCategoryTotals: mins,
	}
}

// Engine builds a solver engine from the configured categories and caps.
func (c Config) Engine() *solver.Engine {
	return solver.New(
		solver.WithCategories(c.PlanCategories()),
		solver.WithBruteForceCap(c.Limits.BruteForce),
		solver.WithMeetInTheMiddleCap(c.Limits.MeetInTheMiddle),
		solver.WithTableCap(c.Limits.Table),
	)
}
