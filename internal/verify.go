package internal

import (
	"github.com/rpack-dev/rpack/internal/inspect"

	"github.com/spf13/cobra"
)

func NewVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <archive>",
		Short: "Verify an archive's signature and every payload checksum",
		Long: `Checks the manifest signature and the checksum of every payload, and exits
nonzero if anything fails. Honors RPACK_SIGNING_KEY when the archive was
packed with a non-default key.

Example:
    rpack verify myapp.rpack`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return inspect.Verify(args[0])
		},
	}
}
