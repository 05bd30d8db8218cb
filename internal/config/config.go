package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/balkashynov/taskgraph/internal/models"
	"github.com/balkashynov/taskgraph/internal/scoring"
)

// ScoringConfig holds the weights of the composite task score.
type ScoringConfig struct {
	UrgencyWeight    int `mapstructure:"urgency_weight"`
	PriorityWeight   int `mapstructure:"priority_weight"`
	DependentsWeight int `mapstructure:"dependents_weight"`
	DepthWeight      int `mapstructure:"depth_weight"`
	UrgencyCap       int `mapstructure:"urgency_cap"`
}

// Config holds all runtime configuration for one invocation.
// Values are populated from .taskgraph.yaml, TASKGRAPH_* env vars, and CLI flags.
type Config struct {
	TasksFile   string        `mapstructure:"tasks_file"`
	Backend     string        `mapstructure:"backend"`
	SQLitePath  string        `mapstructure:"sqlite_path"`
	ProjectName string        `mapstructure:"project_name"`
	Today       string        `mapstructure:"today"`
	Verbose     bool          `mapstructure:"verbose"`
	Scoring     ScoringConfig `mapstructure:"scoring"`
}

// New returns a viper instance reading cfgFile, or .taskgraph.yaml from the
// working directory or home when cfgFile is empty. A missing default config
// file is not an error; a missing explicit one is.
func New(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".taskgraph")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvPrefix("TASKGRAPH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Load reads configuration from v, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load(v *viper.Viper) (Config, error) {
	v.SetDefault("tasks_file", "tasks/tasks.json")
	v.SetDefault("backend", "json")
	v.SetDefault("sqlite_path", "tasks/tasks.db")
	v.SetDefault("project_name", "")
	v.SetDefault("today", "")
	v.SetDefault("verbose", false)

	w := scoring.DefaultWeights()
	v.SetDefault("scoring.urgency_weight", w.Urgency)
	v.SetDefault("scoring.priority_weight", w.Priority)
	v.SetDefault("scoring.dependents_weight", w.Dependents)
	v.SetDefault("scoring.depth_weight", w.Depth)
	v.SetDefault("scoring.urgency_cap", w.UrgencyCap)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	switch cfg.Backend {
	case "json", "sqlite":
	default:
		return Config{}, fmt.Errorf("unknown backend %q (use json or sqlite)", cfg.Backend)
	}
	if cfg.Today != "" {
		if _, err := models.ParseDate(cfg.Today); err != nil {
			return Config{}, fmt.Errorf("invalid today %q: expected YYYY-MM-DD", cfg.Today)
		}
	}
	if cfg.Scoring.UrgencyCap < 0 {
		return Config{}, fmt.Errorf("scoring.urgency_cap must not be negative")
	}
	return cfg, nil
}

// Weights returns the configured scoring weights.
func (c Config) Weights() scoring.Weights {
	return scoring.Weights{
		Urgency:    c.Scoring.UrgencyWeight,
		Priority:   c.Scoring.PriorityWeight,
		Dependents: c.Scoring.DependentsWeight,
		Depth:      c.Scoring.DepthWeight,
		UrgencyCap: c.Scoring.UrgencyCap,
	}
}

// Clock returns the reference clock: the fixed today when configured,
// time.Now otherwise.
func (c Config) Clock() func() time.Time {
	if c.Today == "" {
		return time.Now
	}
	day, _ := time.Parse("2006-01-02", c.Today)
	return func() time.Time { return day }
}
