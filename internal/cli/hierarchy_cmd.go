package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/schedfoundation/xerimport/internal/importer"
	"github.com/schedfoundation/xerimport/internal/store"
)

// newHierarchyCmd rebuilds hierarchy codes for an already imported schedule.
func newHierarchyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hierarchy <schedule-id>",
		Short: "Rebuild WBS and activity hierarchy codes for a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scheduleID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid schedule ID: %w", err)
			}

			ctx := cmd.Context()
			cfg, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := importer.NewService(store.New(pool), importer.Options{
				BatchSize: cfg.Import.BatchSize,
			})
			if err := svc.BuildHierarchy(ctx, scheduleID); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "hierarchy rebuilt for schedule %s\n", scheduleID)
			return nil
		},
	}
}
