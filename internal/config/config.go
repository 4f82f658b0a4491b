package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"scheduleadvisor/pkg/planner"
)

// Config is the full application configuration.
type Config struct {
	Plan   PlanConfig   `mapstructure:"plan"`
	Solver SolverConfig `mapstructure:"solver"`
	Log    LogConfig    `mapstructure:"log"`
}

// PlanConfig tunes the term planner and the unit-load constraints. The
// recommended band only drives validation warnings, not the hard bounds.
type PlanConfig struct {
	Horizon         int `mapstructure:"horizon"`
	BaseYear        int `mapstructure:"base_year"`
	MinUnitsPerTerm int `mapstructure:"min_units_per_term"`
	MaxUnitsPerTerm int `mapstructure:"max_units_per_term"`
	RecommendedMin  int `mapstructure:"recommended_min_units"`
	RecommendedMax  int `mapstructure:"recommended_max_units"`
}

// SolverConfig picks and budgets a solving backend. Binary and Args are
// only consulted by the exec backend.
type SolverConfig struct {
	Backend string        `mapstructure:"backend"`
	Timeout time.Duration `mapstructure:"timeout"`
	Binary  string        `mapstructure:"binary"`
	Args    []string      `mapstructure:"args"`
}

// LogConfig selects log verbosity and output format.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load layers configuration sources: defaults, then an optional config
// file, then SCHEDULEADVISOR_* environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("plan.horizon", planner.DefaultHorizon)
	v.SetDefault("plan.base_year", planner.DefaultBaseYear)
	v.SetDefault("plan.min_units_per_term", planner.DefaultMinUnitsPerTerm)
	v.SetDefault("plan.max_units_per_term", planner.DefaultMaxUnitsPerTerm)
	v.SetDefault("plan.recommended_min_units", 36)
	v.SetDefault("plan.recommended_max_units", 60)

	v.SetDefault("solver.backend", "branchbound")
	v.SetDefault("solver.timeout", "30s")
	v.SetDefault("solver.binary", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("scheduleadvisor")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SCHEDULEADVISOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing file under the default name is fine; an explicit path is not
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Plan.Horizon <= 0 {
		return fmt.Errorf("invalid config: plan.horizon must be positive")
	}
	if c.Plan.MinUnitsPerTerm < 0 || c.Plan.MaxUnitsPerTerm < c.Plan.MinUnitsPerTerm {
		return fmt.Errorf("invalid config: units band %d..%d is empty", c.Plan.MinUnitsPerTerm, c.Plan.MaxUnitsPerTerm)
	}
	if c.Solver.Timeout <= 0 {
		return fmt.Errorf("invalid config: solver.timeout must be positive")
	}
	if c.Solver.Backend == "exec" && c.Solver.Binary == "" {
		return fmt.Errorf("invalid config: solver.backend \"exec\" needs solver.binary")
	}
	return nil
}

// Planner maps the loaded configuration onto the planner's settings.
func (c *Config) Planner() planner.Config {
	return planner.Config{
		Horizon:         c.Plan.Horizon,
		BaseYear:        c.Plan.BaseYear,
		MinUnitsPerTerm: c.Plan.MinUnitsPerTerm,
		MaxUnitsPerTerm: c.Plan.MaxUnitsPerTerm,
		Timeout:         c.Solver.Timeout,
	}
}
