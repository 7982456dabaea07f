package internal

import (
	"github.com/rpack-dev/rpack/internal/initiator"

	"github.com/spf13/cobra"
)

func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter rpack.yml in the current directory",
		Long: `Creates rpack.yml with the project name inferred from the directory and a
build command template to adjust to your toolchain.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return err
			}
			return initiator.New(force).Execute()
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Overwrite an existing rpack.yml without asking")

	return cmd
}
