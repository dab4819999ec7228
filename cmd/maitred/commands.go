package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"maitred/internal/store"
)

// runCmd processes a single message and prints the reply.
var runCmd = &cobra.Command{
	Use:   "run [message]",
	Short: "Process a single customer message",
	Long: `Processes one customer message through the full pipeline and prints the
reply. Combine with --session to continue a multi-turn exchange:

  maitred run --session s1 "I want to make a reservation"
  maitred run --session s1 "Grace Lopez, 4 people, friday at 7pm"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.close()

		message := strings.Join(args, " ")
		sid := sessionID
		if sid == "" {
			sid = "cli"
		}

		logger.Debug("processing message", zap.String("session", sid))
		response := a.orchestrator.HandleTurn(cmd.Context(), sid, message)
		fmt.Println(response.Text)
		return nil
	},
}

// seedCmd loads the sample customers and menu into the database.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Initialize the database with sample customers and menu",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		st, err := store.Open(cfg.Store.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer st.Close()

		if err := st.Seed(); err != nil {
			return fmt.Errorf("failed to seed: %w", err)
		}

		stats, err := st.Stats()
		if err != nil {
			return err
		}
		fmt.Printf("Database ready at %s\n", cfg.Store.DatabasePath)
		printStats(stats)
		return nil
	},
}

// statusCmd prints configuration and database counts.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and database status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("%s %s\n", cfg.Name, cfg.Version)
		fmt.Printf("  provider:  %s (%s)\n", cfg.LLM.Provider, cfg.LLM.Model)
		fmt.Printf("  database:  %s\n", cfg.Store.DatabasePath)
		fmt.Printf("  retries:   %d (base delay %s)\n", cfg.Dispatcher.MaxRetries, cfg.GetBaseDelay())

		st, err := store.Open(cfg.Store.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer st.Close()

		stats, err := st.Stats()
		if err != nil {
			return err
		}
		printStats(stats)
		return nil
	},
}

func printStats(stats map[string]int64) {
	tables := make([]string, 0, len(stats))
	for t := range stats {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	for _, t := range tables {
		fmt.Printf("  %-22s %d\n", t, stats[t])
	}
}
