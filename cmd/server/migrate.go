package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gather/server/internal/observability"
	"github.com/gather/server/internal/repository"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the SQL schema",
	Long: `Apply, roll back or inspect the embedded schema migrations.
The MongoDB backend has no schema; its indexes are created on startup.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSQL(func(db *sql.DB, dialect repository.Dialect) error {
			if err := repository.MigrateUp(db, dialect); err != nil {
				return err
			}
			observability.Infof("Schema migrated (%s)", dialect)
			return nil
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back every migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSQL(func(db *sql.DB, dialect repository.Dialect) error {
			if err := repository.MigrateDown(db, dialect); err != nil {
				return err
			}
			observability.Infof("Schema rolled back (%s)", dialect)
			return nil
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSQL(func(db *sql.DB, dialect repository.Dialect) error {
			version, dirty, err := repository.SchemaVersion(db, dialect)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
			return nil
		})
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}

func withSQL(fn func(db *sql.DB, dialect repository.Dialect) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, dialect, err := repository.OpenSQL(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db, dialect)
}
