package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gather/server/internal/repository"
	"github.com/gather/server/internal/services"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load catalog data",
}

var seedWorksCmd = &cobra.Command{
	Use:   "works <file.toml>",
	Short: "Upsert works from a TOML file",
	Long: `Upsert works from a TOML file of [[works]] tables:

  [[works]]
  id = "652f1a0b9d3e4c0012345678"   # optional
  title = "Dune"
  author = "Frank Herbert"
  published_at = 1965-08-01
  type = "book"
  genre = ["science-fiction"]`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		works, err := services.LoadWorkSeed(args[0])
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		store, err := repository.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close(context.Background())

		n, err := services.SeedWorks(ctx, store.Works, works)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d works into %s\n", n, store.Backend())
		return nil
	},
}

func init() {
	seedCmd.AddCommand(seedWorksCmd)
	rootCmd.AddCommand(seedCmd)
}
