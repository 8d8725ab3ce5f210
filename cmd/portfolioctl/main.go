// Command portfolioctl runs operator tasks against the portfolio deployment.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"portfolio/internal/bootstrap"
	"portfolio/internal/config"
	"portfolio/internal/maintenance"
	"portfolio/internal/util"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "portfolioctl",
	Short:         "Portfolio maintenance commands",
	Long:          "Clears the response cache, optimizes the database, inventories media and imports content for the portfolio site.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.yaml (defaults to PORTFOLIO_CONFIG or ./config.yaml)")
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads configuration and sets up logging for a command.
func loadConfig() (config.FileConfig, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, nil, err
	}
	_, closeLogs := util.InitLogger(cfg.LogLevel, "portfolioctl", cfg.LogsDir)
	return cfg, closeLogs, nil
}

// newRunner builds a Runner for cmd. Backends that fail to open are logged
// and left nil so the task can report the problem itself.
func newRunner(cmd *cobra.Command, cfg config.FileConfig, needStore, needCache, needMedia bool) (*maintenance.Runner, func()) {
	logger := util.LoggerFromContext(cmd.Context())
	r := &maintenance.Runner{Debug: cfg.Debug, Out: cmd.OutOrStdout(), Logger: logger}
	cleanup := func() {}
	if needStore {
		stores, err := bootstrap.OpenStores(cfg)
		if err != nil {
			logger.Error("open store failed", "err", err)
		} else {
			r.DB = stores.DB
			r.Writer = stores.Writer
			cleanup = func() { _ = stores.Close() }
		}
	}
	if needCache {
		c, err := bootstrap.OpenCache(cfg)
		if err != nil {
			logger.Error("open cache failed", "err", err)
		} else {
			r.Cache = c
		}
	}
	if needMedia {
		m, err := bootstrap.OpenMedia(cmd.Context(), cfg)
		if err != nil {
			logger.Error("open media failed", "err", err)
		} else {
			r.Media = m
		}
	}
	return r, cleanup
}
