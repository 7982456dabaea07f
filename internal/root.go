package internal

import (
	"fmt"
	"os"

	"github.com/rpack-dev/rpack/internal/archive"
	"github.com/rpack-dev/rpack/internal/globalconfig"
	"github.com/rpack-dev/rpack/internal/logger"

	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rpack",
		Short: "Package multi-platform binaries into one self-extracting archive",
		Long: `rpack bundles a compiled application's per-platform binaries into a single
.rpack file. Executed on any supported host, the archive detects the platform,
verifies the matching payload and runs it transparently: same arguments, same
working directory, same stdio, same exit code.`,
		Example: `  rpack pack -t x86_64-unknown-linux-gnu,aarch64-apple-darwin
  rpack run myapp.rpack --help`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger.ConfigureLoggerFromFlags()
		},
		Run: func(cmd *cobra.Command, _ []string) {
			versionFlag, _ := cmd.Flags().GetBool("version")
			if versionFlag {
				fmt.Printf("Version: %s (format %d)\n", globalconfig.Version, archive.FormatVersion)
				return
			}
			_ = cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.Flags().BoolP("version", "v", false, "Print version information")
	cmd.PersistentFlags().CountVarP(&logger.FlagVerboseCount, "verbose", "V", "Increase log verbosity")
	cmd.PersistentFlags().BoolVarP(&logger.FlagQuiet, "quiet", "q", false, "Only log errors")

	RegisterSubCommands(cmd)

	return cmd
}

func Execute() error {
	root := NewRootCmd()

	if err := root.Execute(); err != nil {
		logger.Debug("Failed to execute root command: %v", err)
		return err
	}
	return nil
}

func init() {
	if os.Getenv(globalconfig.EnvNoColor) != "" {
		os.Setenv("NO_COLOR", "1")
	}
}
