package main

import (
	"cargo-tracking-service/internal/adapters/repositories"
	"cargo-tracking-service/internal/platform/db"
	"cargo-tracking-service/internal/platform/logger"
	"context"
	"database/sql"
	"errors"

	"github.com/spf13/cobra"
)

var seedPath string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables that do not exist yet",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, conn *sql.DB) error {
			if err := repositories.InitSchema(ctx, conn); err != nil {
				return err
			}
			logger.FromContext(ctx).Info("schema ready")
			return nil
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Upsert locations and voyage schedules from a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := seedPath
		if path == "" {
			path = cfg.SeedPath
		}
		data, err := repositories.LoadReferenceData(path)
		if err != nil {
			return err
		}
		return withDB(cmd.Context(), func(ctx context.Context, conn *sql.DB) error {
			if err := repositories.InitSchema(ctx, conn); err != nil {
				return err
			}
			if err := repositories.SeedReferenceData(ctx, conn, data); err != nil {
				return err
			}
			logger.FromContext(ctx).Info("reference data seeded",
				"path", path,
				"locations", len(data.Locations),
				"voyages", len(data.Voyages),
			)
			return nil
		})
	},
}

func withDB(ctx context.Context, fn func(ctx context.Context, conn *sql.DB) error) error {
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(ctx, conn)
}

func init() {
	seedCmd.Flags().StringVar(&seedPath, "path", "", "seed file (defaults to SEED_PATH)")
	rootCmd.AddCommand(migrateCmd, seedCmd)
}
