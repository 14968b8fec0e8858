// Package root contains the root command for the application
package root

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/config"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/container"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/logging"
)

// CommonFlags represents the flags shared by every command
type CommonFlags struct {
	ConfigFile  string
	LogLevel    string
	LogFormat   string
	DatabaseDSN string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "product-intake",
		Short: "Extract, validate and reconcile bank product records.",
		Long: `product-intake turns field-staff documents (PDF, Word, Excel, CSV) and chat
conversations into validated bank product records, reconciles them against
reference customers, orders and field staff, and stores the accepted ones.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to product-intake!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			Close()
		},
	}

	// SharedFlags holds the persistent flag values
	SharedFlags = CommonFlags{}

	state struct {
		mu        sync.Mutex
		cfg       *config.Config
		logger    logging.Logger
		container *container.Container
	}
)

// Init registers the persistent flags
func Init() {
	if Cmd.PersistentFlags().Lookup("config") != nil {
		return
	}
	Cmd.PersistentFlags().StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default: config.yaml in ., .product-intake or $HOME/.product-intake)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogFormat, "log-format", "", "Log format (text, json)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.DatabaseDSN, "db", "", "Database DSN (overrides database.dsn)")
}

func setup(cmd *cobra.Command, _ []string) error {
	if envFile, err := config.LoadEnv(); err != nil {
		Log.Warnf("Error loading .env file: %v", err)
	} else if envFile != "" {
		Log.Debugf("Loaded environment variables from %s", envFile)
	}

	cfg, err := config.LoadConfig(SharedFlags.ConfigFile)
	if err != nil {
		return err
	}
	ApplyFlagOverrides(cfg, SharedFlags)

	Log = config.ConfigureLoggingFromConfig(cfg)

	state.mu.Lock()
	defer state.mu.Unlock()
	state.cfg = cfg
	state.logger = logging.NewLogrusAdapterFromLogger(Log)
	return nil
}

// ApplyFlagOverrides copies non-empty flag values over the configuration.
func ApplyFlagOverrides(cfg *config.Config, flags CommonFlags) {
	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}
	if flags.LogFormat != "" {
		cfg.Log.Format = flags.LogFormat
	}
	if flags.DatabaseDSN != "" {
		cfg.Database.DSN = flags.DatabaseDSN
	}
}

// GetConfig returns the configuration loaded for the running command.
func GetConfig() *config.Config {
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.cfg
}

// GetLogger returns the structured logger for the running command.
func GetLogger() logging.Logger {
	state.mu.Lock()
	defer state.mu.Unlock()
	return logging.OrDefault(state.logger)
}

// GetContainer builds the application container on first use. Commands
// that need no database never call it.
func GetContainer(ctx context.Context) (*container.Container, error) {
	state.mu.Lock()
	defer state.mu.Unlock()
	if state.container != nil {
		return state.container, nil
	}
	if state.cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	c, err := container.NewContainer(ctx, state.cfg, container.WithLogger(logging.OrDefault(state.logger)))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	state.container = c
	return c, nil
}

// Close releases the container, if one was built.
func Close() {
	state.mu.Lock()
	defer state.mu.Unlock()
	if state.container == nil {
		return
	}
	if err := state.container.Close(); err != nil {
		Log.Warnf("Failed to close application resources: %v", err)
	}
	state.container = nil
}
