package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"maitred/internal/config"
	"maitred/internal/logging"
)

var (
	// Global flags
	configPath string
	dbPath     string
	apiKey     string
	sessionID  string
	verbose    bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "maitred",
	Short: "maitred - conversational front desk for a restaurant",
	Long: `maitred answers customer messages for a restaurant: menu questions,
orders, and table reservations.

It gathers missing details over multiple turns, routes each completed request
to the right specialist, and remembers returning customers across visits.

Run without arguments to start the interactive chat interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd, args)
	},
}

// loadConfig loads configuration and applies the global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Store.DatabasePath = dbPath
	}
	if apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}
	if verbose {
		cfg.Logging.DebugMode = true
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := logging.Initialize(cfg.Store.StateDir, cfg.Logging.DebugMode, cfg.Logging.Level); err != nil {
		return nil, err
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "maitred.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Override database path")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "LLM API key (or set MAITRED_API_KEY env)")
	rootCmd.PersistentFlags().StringVar(&sessionID, "session", "", "Session id (default: fresh per run)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
