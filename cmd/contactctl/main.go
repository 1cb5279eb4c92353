package main

import (
	"fmt"
	"os"

	"github.com/auctusventures/site/internal/config"
	"github.com/auctusventures/site/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose bool
	envDir  string

	cfg    config.AppConfig
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "contactctl",
	Short: "Operator tooling for the contact submission service",
	Long: `contactctl prepares and checks the contact submission service.

Environment is read from .env.local, or .env when .env.local is absent,
before falling back to the process environment.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadDotEnv(envDir)
		if err != nil {
			return err
		}
		cfg = config.Load()

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		if logger, err = logging.New(true, level); err != nil {
			return err
		}
		if loaded != "" {
			logger.Debug("loaded env file", zap.String("path", loaded))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&envDir, "env-dir", "", "directory holding .env.local / .env")

	rootCmd.AddCommand(newMigrateCmd(), newSubmitCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
