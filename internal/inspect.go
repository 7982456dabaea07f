package internal

import (
	"github.com/rpack-dev/rpack/internal/inspect"

	"github.com/spf13/cobra"
)

func NewInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <archive>",
		Short: "List an archive's manifest without extracting payloads",
		Long: `Prints the archive's format version, creation time, signature state and
one row per payload entry.

Example:
    rpack inspect myapp.rpack`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return inspect.Inspect(args[0])
		},
	}
}
