package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/username/leave-planner/internal/config"
	"github.com/username/leave-planner/internal/loader"
	"github.com/username/leave-planner/internal/planner"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configPath string
	cfg        *config.Config
	logger     = zap.NewNop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "leave-planner",
		Short: "Leave planner",
		Long:  "Suggest leave days that bridge weekends and city holidays into the longest breaks",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to load .env: %w", err)
			}

			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}

			if cfg.Log.File != "" {
				logger, err = initFileLogger(cfg.Log.File, cfg.Log.Level)
				if err != nil {
					initLogger(cfg.Log.Level) // Fallback to console
				}
			} else {
				initLogger(cfg.Log.Level)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: search for config.yaml)")

	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(calendarCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadPlanner reads the holiday source, falling back to
// input.holidays_fallback_file, and builds a planner from the config
func loadPlanner(ctx context.Context, holidaysFile string) (*planner.Planner, error) {
	if err := requireFile("holiday", holidaysFile); err != nil && cfg.Input.HolidaysFallbackFile == "" {
		return nil, err
	}

	holidays, err := loader.New(logger).LoadHolidaysWithFallback(ctx, holidaysFile, cfg.Input.HolidaysFallbackFile)
	if err != nil {
		return nil, err
	}
	if len(holidays.Cities) == 0 {
		return nil, fmt.Errorf("no city columns found in %s", holidaysFile)
	}

	p := planner.New(holidays.Records, holidays.Cities, cfg.Planner.Options(), logger)

	return p, nil
}

func requireFile(kind, path string) error {
	if path == "" {
		return fmt.Errorf("%s file is required (argument or input.%ss_file)", kind, kind)
	}
	if loader.IsRemote(path) {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s file '%s' not found", kind, path)
		}
		return fmt.Errorf("failed to access %s file: %w", kind, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s file '%s' is a directory", kind, path)
	}

	return nil
}

func initLogger(level string) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if zapLevel, err := zapcore.ParseLevel(level); err == nil {
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	}

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	// Setup encoder
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// Parse log level
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	// Create core with lumberjack writer
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core), nil
}
