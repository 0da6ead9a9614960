package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/username/leave-planner/internal/bridge"
	"github.com/username/leave-planner/internal/planner"
	"github.com/username/leave-planner/internal/report"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes environment overrides, e.g. LEAVE_PLANNER_PLANNER_YEAR
const EnvPrefix = "LEAVE_PLANNER"

// Config represents application configuration
type Config struct {
	Planner PlannerConfig `mapstructure:"planner"`
	Input   InputConfig   `mapstructure:"input"`
	Output  OutputConfig  `mapstructure:"output"`
	Log     LogConfig     `mapstructure:"log"`
	Server  ServerConfig  `mapstructure:"server"`
}

// PlannerConfig represents the planning rules
type PlannerConfig struct {
	Year                int     `mapstructure:"year"`
	MinValue            float64 `mapstructure:"min_value"`
	MaxBridgeDays       int     `mapstructure:"max_bridge_days"`
	DefaultLeaveBalance int     `mapstructure:"default_leave_balance"`
	TopN                int     `mapstructure:"top_n"`
	FuzzyThreshold      float64 `mapstructure:"fuzzy_threshold"`
}

// InputConfig represents the input files
type InputConfig struct {
	HolidaysFile         string `mapstructure:"holidays_file"` // path or http(s) URL
	HolidaysFallbackFile string `mapstructure:"holidays_fallback_file"`
	EmployeesFile        string `mapstructure:"employees_file"`
}

// OutputConfig represents the report output
type OutputConfig struct {
	File   string `mapstructure:"file"`
	Format string `mapstructure:"format"` // csv, json or ics
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"` // rotated JSON log file, console when empty
	Level string `mapstructure:"level"`
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("planner.year", planner.DefaultYear)
	v.SetDefault("planner.min_value", 1.5)
	v.SetDefault("planner.max_bridge_days", 2)
	v.SetDefault("planner.default_leave_balance", planner.DefaultLeaveBalance)
	v.SetDefault("planner.top_n", report.DefaultTopN)
	v.SetDefault("planner.fuzzy_threshold", planner.DefaultFuzzyThreshold)

	v.SetDefault("input.holidays_file", "")
	v.SetDefault("input.holidays_fallback_file", "")
	v.SetDefault("input.employees_file", "")

	v.SetDefault("output.file", "leave_suggestions.csv")
	v.SetDefault("output.format", string(report.FormatCSV))

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
}

// Load loads configuration from file and environment. An explicit path must
// exist; without one, config.yaml is searched for and is optional.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.leave-planner")
		v.AddConfigPath("/etc/leave-planner")
	}

	// Read environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.ExpandEnvVars()

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate Planner config
	if c.Planner.Year < 1 || c.Planner.Year > 9999 {
		return fmt.Errorf("planner.year must be between 1 and 9999, got %d", c.Planner.Year)
	}
	if c.Planner.MinValue <= 0 {
		return fmt.Errorf("planner.min_value must be positive")
	}
	if c.Planner.MaxBridgeDays <= 0 {
		return fmt.Errorf("planner.max_bridge_days must be positive")
	}
	if c.Planner.DefaultLeaveBalance < 0 {
		return fmt.Errorf("planner.default_leave_balance must not be negative")
	}
	if c.Planner.TopN <= 0 {
		return fmt.Errorf("planner.top_n must be positive")
	}
	if c.Planner.FuzzyThreshold <= 0 || c.Planner.FuzzyThreshold > 1 {
		return fmt.Errorf("planner.fuzzy_threshold must be in (0, 1]")
	}

	// Validate Output config
	if _, err := report.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}

	// Validate Log config
	if c.Log.Level != "" {
		if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}

	// Validate Server config
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}

	return nil
}

// Policy returns the optimizer policy
func (c *PlannerConfig) Policy() bridge.Policy {
	return bridge.Policy{
		MinValue:      decimal.NewFromFloat(c.MinValue),
		MaxBridgeDays: c.MaxBridgeDays,
	}
}

// Options returns the planner options
func (c *PlannerConfig) Options() planner.Options {
	return planner.Options{
		Year:                c.Year,
		DefaultLeaveBalance: c.DefaultLeaveBalance,
		FuzzyThreshold:      c.FuzzyThreshold,
		Policy:              c.Policy(),
	}
}

// GetFormat returns the report format, csv when unset
func (c *OutputConfig) GetFormat() report.Format {
	format, err := report.ParseFormat(c.Format)
	if err != nil {
		return report.FormatCSV
	}
	return format
}

// ExpandEnvVars expands environment variables in file paths
func (c *Config) ExpandEnvVars() {
	c.Input.HolidaysFile = os.ExpandEnv(c.Input.HolidaysFile)
	c.Input.HolidaysFallbackFile = os.ExpandEnv(c.Input.HolidaysFallbackFile)
	c.Input.EmployeesFile = os.ExpandEnv(c.Input.EmployeesFile)
	c.Output.File = os.ExpandEnv(c.Output.File)
	c.Log.File = os.ExpandEnv(c.Log.File)
}
