package internal

import (
	"github.com/rpack-dev/rpack/internal/logger"
	"github.com/rpack-dev/rpack/internal/target"

	"github.com/spf13/cobra"
)

func NewTargetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List the platforms rpack can resolve at run time",
		RunE: func(_ *cobra.Command, _ []string) error {
			current, err := target.NewResolver().Current()
			if err != nil {
				logger.Warn("%v", err)
			}

			table := logger.CreateTable([]string{"OS", "Arch", "Target", "Host"})
			for _, h := range target.Hosts() {
				marker := ""
				if h.ID == current {
					marker = "*"
				}
				if err := table.Append([]string{h.OS, h.Arch, string(h.ID), marker}); err != nil {
					logger.Debug("table append failed: %v", err)
				}
			}
			if err := table.Render(); err != nil {
				logger.Debug("table render failed: %v", err)
			}
			return nil
		},
	}
}
