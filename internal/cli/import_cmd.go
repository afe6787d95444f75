package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/schedfoundation/xerimport/internal/config"
	"github.com/schedfoundation/xerimport/internal/importer"
	"github.com/schedfoundation/xerimport/internal/store"
)

// newImportCmd imports a file into the database configured by DATABASE_URL.
func newImportCmd() *cobra.Command {
	var scheduleIDFlag string

	cmd := &cobra.Command{
		Use:   "import <file.xer>",
		Short: "Import an XER file into the schedule database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scheduleID := uuid.New()
			if scheduleIDFlag != "" {
				var err error
				scheduleID, err = uuid.Parse(scheduleIDFlag)
				if err != nil {
					return fmt.Errorf("invalid --schedule-id: %w", err)
				}
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			cfg, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := importer.NewService(store.New(pool), importer.Options{
				BatchSize:   cfg.Import.BatchSize,
				MaxFileSize: cfg.Import.MaxFileSize,
			})

			res, err := svc.Import(ctx, data, scheduleID, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "schedule %s: %s\n", scheduleID, res.Message)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res.Stats)
		},
	}

	cmd.Flags().StringVar(&scheduleIDFlag, "schedule-id", "", "existing schedule UUID to import into (default: new)")
	return cmd
}

// connect loads configuration and opens the connection pool.
func connect(ctx context.Context) (*config.Config, *pgxpool.Pool, error) {
	// .env is optional for CLI use
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}
	return cfg, pool, nil
}
