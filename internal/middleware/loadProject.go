package middleware

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rpack-dev/rpack/internal/globalconfig"
	"github.com/rpack-dev/rpack/internal/models"
	"github.com/rpack-dev/rpack/internal/utils"

	"github.com/spf13/cobra"
)

// LoadProject reads rpack.yml from the --project directory (default ".")
// and stores the parsed project plus its directory on the command context.
func LoadProject(cmd *cobra.Command, args []string, next func(cmd *cobra.Command, args []string) error) error {
	dir, err := cmd.Flags().GetString("project")
	if err != nil || dir == "" {
		dir = "."
	}
	dir, err = filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve project directory: %w", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("project directory %s not found", dir)
	}

	cfgPath := filepath.Join(dir, globalconfig.ConfigFileName)
	if ok, err := utils.FileExists(cfgPath); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("no %s in %s; run 'rpack init' first", globalconfig.ConfigFileName, dir)
	}

	var project models.Project
	if err := utils.FileReader(cfgPath, utils.FileTypeYAML, &project); err != nil {
		return err
	}
	if err := project.Validate(); err != nil {
		return err
	}

	ctx := context.WithValue(cmd.Context(), CtxKeyProject, &project)
	ctx = context.WithValue(ctx, CtxKeyProjectDir, dir)
	cmd.SetContext(ctx)

	return next(cmd, args)
}
