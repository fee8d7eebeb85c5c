package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chitouru-maker/khoushou3/internal/app"
	"github.com/chitouru-maker/khoushou3/internal/config"
	"github.com/chitouru-maker/khoushou3/internal/logging"
	"github.com/chitouru-maker/khoushou3/internal/store"
)

const annotationStandalone = "standalone"

var (
	cfgFile string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "khoushou",
	Short: "Track progress through learning levels, units and cards",
	Long: `khoushou keeps a learner's progress through a curriculum of levels,
units, cards and sections: completed cards, exercises, claimed rewards,
points and the daily streak.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Standalone commands need neither config nor storage.
		if cmd.Annotations[annotationStandalone] != "" {
			logger = zap.NewNop()
			return nil
		}

		path := cfgFile
		if path == "" {
			p, err := config.DefaultPath()
			if err != nil {
				return err
			}
			path = p
		}
		c, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if c.Storage.Backend == config.BackendSQLite {
			dbPath, err := resolveDBPath(cmd, c)
			if err != nil {
				return fmt.Errorf("resolve database path: %w", err)
			}
			c.Storage.SQLitePath = dbPath
		}
		cfg = c

		logger, err = logging.New(cfg.Logging, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatus(cmd)
	},
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file (default $XDG_CONFIG_HOME/khoushou/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides KHOUSHOU_DB env var)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(levelCmd)
	rootCmd.AddCommand(unitCmd)
	rootCmd.AddCommand(completeCardCmd)
	rootCmd.AddCommand(visitCmd)
	rootCmd.AddCommand(completeExerciseCmd)
	rootCmd.AddCommand(claimRewardCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path, then KHOUSHOU_DB env var or the default XDG path.
func resolveDBPath(cmd *cobra.Command, c *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if c.Storage.SQLitePath != "" {
		return c.Storage.SQLitePath, store.EnsureDir(c.Storage.SQLitePath)
	}
	return store.DefaultDBPath()
}

// openApp opens storage and loads the engine for one command.
func openApp(cmd *cobra.Command) (*app.App, error) {
	a, err := app.Open(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open app: %w", err)
	}
	return a, nil
}
