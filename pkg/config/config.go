package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

const envPrefix = "BUDGETU"

type Config struct {
	// Budget is the budget file loaded when no path argument is given.
	Budget string `mapstructure:"budget"`
	// OutputDir receives exported files. "-" streams to stdout.
	OutputDir string    `mapstructure:"output"`
	Format    string    `mapstructure:"format"`
	LogLevel  string    `mapstructure:"log_level"`
	CSV       CSVConfig `mapstructure:"csv"`
	Server    Server    `mapstructure:"server"`
}

type CSVConfig struct {
	Quote bool `mapstructure:"quote"`
}

type Server struct {
	Port string `mapstructure:"port"`
}

// flagKeys maps command line flag names to their config keys.
var flagKeys = map[string]string{
	"budget":    "budget",
	"output":    "output",
	"format":    "format",
	"log-level": "log_level",
	"csv-quote": "csv.quote",
	"port":      "server.port",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("budget", "budget.yaml")
	v.SetDefault("output", ".")
	v.SetDefault("format", "all")
	v.SetDefault("log_level", "info")
	v.SetDefault("csv.quote", false)
	v.SetDefault("server.port", "3000")
}

// Build loads configuration from defaults, an optional .env file, the config
// file, BUDGETU_* environment variables and finally the given flags, each
// layer overriding the previous one. An empty cfgFile looks for config.yaml
// in the working directory and ignores it when missing.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// .env is optional
	_ = gotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that cannot be caught by flag parsing.
func (c *Config) Validate() error {
	var problems []string

	switch strings.ToLower(c.Format) {
	case "json", "csv", "all":
	default:
		problems = append(problems, fmt.Sprintf("invalid format %q: must be json, csv or all", c.Format))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("invalid log level %q", c.LogLevel))
	}

	if c.Server.Port == "" {
		problems = append(problems, "server port cannot be empty")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// Level returns the configured log level, defaulting to info.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
