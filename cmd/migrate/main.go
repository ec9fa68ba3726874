package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/petadopt/petadopt-backend/pkg/config"
	"github.com/petadopt/petadopt-backend/pkg/db"
	"github.com/petadopt/petadopt-backend/pkg/logger"
	"github.com/petadopt/petadopt-backend/pkg/migrate"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dir string
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the goose schema migrations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dir, "dir", migrate.DefaultDir, "migrations directory (empty uses the embedded set)")

	root.AddCommand(
		gooseCmd("up", "Apply all pending migrations", &dir),
		gooseCmd("down", "Roll back the latest migration", &dir),
		gooseCmd("status", "Print applied and pending migrations", &dir),
		&cobra.Command{
			Use:   "version <YYYYMMDDHHMMSS>",
			Short: "Migrate up or down to the given version",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDatabase(cmd, func(ctx context.Context, sqlDB *sql.DB) error {
					return migrate.MigrateToVersion(ctx, sqlDB, dir, args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "create <name>",
			Short: "Write a new empty SQL migration",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := migrate.CreateSQLMigration(dir, args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "created migration:", path)
				return err
			},
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Check migration filenames and goose markers",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := migrate.ValidateDir(dir); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "migration validation passed")
				return err
			},
		},
	)
	return root
}

func gooseCmd(command, short string, dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   command,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd, func(ctx context.Context, sqlDB *sql.DB) error {
				return migrate.Run(ctx, sqlDB, *dir, command)
			})
		},
	}
}

// withDatabase loads config, connects, and hands fn the raw *sql.DB goose needs.
func withDatabase(cmd *cobra.Command, fn func(ctx context.Context, sqlDB *sql.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Output:      os.Stderr,
	})
	ctx := logg.WithFields(cmd.Context(), map[string]any{
		"env": cfg.App.Env,
		"cmd": cmd.Name(),
	})

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer client.Close()

	sqlDB, err := client.DB().DB()
	if err != nil {
		return err
	}
	logg.Info(ctx, "migrate ready")
	return fn(ctx, sqlDB)
}
