// Package cli implements the xerctl command-line interface.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the top-level "xerctl" command and registers all
// subcommands.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "xerctl",
		Short:         "Import and inspect Primavera P6 XER schedule files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newParseCmd(),
		newImportCmd(),
		newHierarchyCmd(),
	)

	return root
}
