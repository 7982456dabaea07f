package internal

import (
	"github.com/rpack-dev/rpack/internal/middleware"
	"github.com/spf13/cobra"
)

var defaultCommands = []middleware.CommandFactory{
	NewInitCmd,
	middleware.UseMiddlewareChain(middleware.LoadProject)(NewPackCmd),
	NewRunCmd,
	NewInspectCmd,
	NewVerifyCmd,
	NewTargetsCmd,
}

func RegisterSubCommands(cmd *cobra.Command) {
	for _, factory := range defaultCommands {
		cmd.AddCommand(factory())
	}
}
