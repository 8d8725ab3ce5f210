package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"portfolio/internal/bootstrap"
	"portfolio/internal/content"
	"portfolio/internal/maintenance"
)

var cacheClearCmd = &cobra.Command{
	Use:   "cache-clear",
	Short: "Clear all cached responses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, closeLogs, err := loadConfig()
		if err != nil {
			return err
		}
		defer closeLogs()
		r, cleanup := newRunner(cmd, cfg, false, true, false)
		defer cleanup()
		_ = r.ClearCache(cmd.Context())
		return nil
	},
}

var optimizeDBCmd = &cobra.Command{
	Use:   "optimize-db",
	Short: "Analyze tables and create read-path indexes (production only)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, closeLogs, err := loadConfig()
		if err != nil {
			return err
		}
		defer closeLogs()
		r, cleanup := newRunner(cmd, cfg, !cfg.Debug, false, false)
		defer cleanup()
		_ = r.OptimizeDB(cmd.Context())
		return nil
	},
}

var optimizeOpts maintenance.Options

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Run performance optimizations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, closeLogs, err := loadConfig()
		if err != nil {
			return err
		}
		defer closeLogs()
		opts := optimizeOpts
		r, cleanup := newRunner(cmd, cfg, opts.All, opts.All || opts.ClearCache, opts.All || opts.OptimizeImages)
		defer cleanup()
		_ = r.Optimize(cmd.Context(), opts)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import [content.yaml]",
	Short: "Replace all portfolio content with a YAML document",
	Long:  "Validates the content document and replaces every stored record in one transaction. Defaults to contentFile from config.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, closeLogs, err := loadConfig()
		if err != nil {
			return err
		}
		defer closeLogs()
		path := cfg.ContentFile
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			return fmt.Errorf("no content file given and contentFile is not configured")
		}
		doc, err := content.Load(path)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Import failed: %v\n", err)
			return nil
		}
		if cfg.DatabaseURL == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "Import failed: databaseURL is not configured")
			return nil
		}
		r, cleanup := newRunner(cmd, cfg, true, true, false)
		defer cleanup()
		if err := r.Import(cmd.Context(), doc); err == nil && r.Cache != nil {
			_ = r.ClearCache(cmd.Context())
		}
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, closeLogs, err := loadConfig()
		if err != nil {
			return err
		}
		defer closeLogs()
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("databaseURL is required for migrate")
		}
		stores, err := bootstrap.OpenStores(cfg)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Migration failed: %v\n", err)
			return nil
		}
		defer stores.Close()
		fmt.Fprintln(cmd.OutOrStdout(), "Database schema is up to date")
		return nil
	},
}

func init() {
	optimizeCmd.Flags().BoolVar(&optimizeOpts.ClearCache, "clear-cache", false, "Clear all cache")
	optimizeCmd.Flags().BoolVar(&optimizeOpts.OptimizeImages, "optimize-images", false, "Count images in media storage")
	optimizeCmd.Flags().BoolVar(&optimizeOpts.All, "all", false, "Run all optimizations")

	rootCmd.AddCommand(cacheClearCmd, optimizeDBCmd, optimizeCmd, importCmd, migrateCmd)
}
