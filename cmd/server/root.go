package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gather/server/internal/config"
	"github.com/gather/server/internal/handlers"
)

var configPath string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gather",
	Short: "Gather - share collections of books, films, series, music and games",
	Long: `Gather serves the collection-sharing REST API.

Commands:
  serve    run the HTTP API (default)
  migrate  apply, roll back or inspect the SQL schema
  seed     load catalog data into the store`,
	Version:       handlers.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON config file (overrides CONFIG_PATH)")
	rootCmd.SetVersionTemplate(fmt.Sprintf("gather %s (commit %s, built %s)\n",
		handlers.Version, handlers.GitCommit, handlers.BuildTime))
}

// loadConfig reads the configuration, honouring --config
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		if err := os.Setenv("CONFIG_PATH", configPath); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
