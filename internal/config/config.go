// Package config loads gradebook settings from defaults, an optional
// gradebook.yaml, an optional .env file and GRADEBOOK_* environment
// variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "GRADEBOOK"

type Config struct {
	DB      DBConfig      `mapstructure:"db"`
	Log     LogConfig     `mapstructure:"log"`
	Report  ReportConfig  `mapstructure:"report"`
	Grid    GridConfig    `mapstructure:"grid"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	// File enables rotated JSON logging to this path when set.
	File string `mapstructure:"file"`
}

type ReportConfig struct {
	TopN int `mapstructure:"top_n"`
}

type GridConfig struct {
	DiscardStale bool `mapstructure:"discard_stale"`
	IdleDelayMS  int  `mapstructure:"idle_delay_ms"`
}

// IdleDelay is how long the grid waits after a keystroke before running
// deferred work.
func (g GridConfig) IdleDelay() time.Duration {
	return time.Duration(g.IdleDelayMS) * time.Millisecond
}

type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// Load reads configuration rooted at dir. A missing config file or .env is
// not an error; a malformed one is.
func Load(dir string) (*Config, error) {
	dotEnv := filepath.Join(dir, ".env")
	if _, err := os.Stat(dotEnv); err == nil {
		if err := godotenv.Load(dotEnv); err != nil {
			return nil, fmt.Errorf("loading %s: %w", dotEnv, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("checking %s: %w", dotEnv, err)
	}

	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(dir)
	v.SetConfigName("gradebook")
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetTypeByDefaultValue(true)
	v.SetDefault("db.path", defaultDBPath())
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.file", "")
	v.SetDefault("report.top_n", 3)
	v.SetDefault("grid.discard_stale", false)
	v.SetDefault("grid.idle_delay_ms", 150)
	v.SetDefault("metrics.textfile", "")
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "gradebook.db"
	}
	return filepath.Join(home, ".gradebook", "gradebook.db")
}

func (c *Config) Validate() error {
	if c.DB.Path == "" {
		return errors.New("db.path must not be empty")
	}
	if c.Report.TopN < 0 {
		return fmt.Errorf("report.top_n must not be negative, got %d", c.Report.TopN)
	}
	if c.Grid.IdleDelayMS < 0 {
		return fmt.Errorf("grid.idle_delay_ms must not be negative, got %d", c.Grid.IdleDelayMS)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}
