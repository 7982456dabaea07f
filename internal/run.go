package internal

import (
	"os"

	"github.com/rpack-dev/rpack/internal/bootstrap"
	"github.com/rpack-dev/rpack/internal/target"

	"github.com/spf13/cobra"
)

func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [flags] <archive> [args...]",
		Short: "Execute the archived binary matching the current platform",
		Long: `Verifies the archive, extracts the payload matching the current platform
and runs it, forwarding all remaining arguments, the working directory and
stdio. The wrapper exits with the child's exit code.

This is also what the archive's embedded launcher invokes when the .rpack
file is executed directly on a unix host.

Flags must precede the archive path; everything after it is forwarded to
the wrapped application untouched.

Examples:
    rpack run myapp.rpack
    rpack run myapp.rpack --help                 # --help goes to myapp
    rpack run --platform aarch64-apple-darwin myapp.rpack`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			platform, err := cmd.Flags().GetString("platform")
			if err != nil {
				return err
			}

			var resolver target.Resolver
			if platform != "" {
				resolver = &target.StaticResolver{ID: target.Identifier(platform)}
			}

			b := bootstrap.New(resolver, nil)
			code, err := b.Run(args[0], args[1:])
			if err != nil {
				return err
			}
			if code != 0 {
				os.Exit(code)
			}
			return nil
		},
	}

	cmd.Flags().String("platform", "", "Override platform detection (debugging aid)")
	cmd.Flags().SetInterspersed(false)

	return cmd
}
