package initiator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rpack-dev/rpack/internal/globalconfig"
	"github.com/rpack-dev/rpack/internal/logger"
	"github.com/rpack-dev/rpack/internal/models"
	"github.com/rpack-dev/rpack/internal/target"
	"github.com/rpack-dev/rpack/internal/utils"
)

type Initiator struct {
	Force bool
}

func New(force bool) *Initiator {
	return &Initiator{Force: force}
}

// Execute writes a starter rpack.yml in the current directory. The project
// name is inferred from the directory; the target list starts with the
// current host when it resolves, otherwise a linux default.
func (i *Initiator) Execute() error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	cfgPath := filepath.Join(cwd, globalconfig.ConfigFileName)
	if ok, err := utils.FileExists(cfgPath); err != nil {
		return err
	} else if ok && !i.Force {
		if err := utils.ConfirmOrAbort(
			fmt.Sprintf("%s already exists. Overwrite? [y/N] ", globalconfig.ConfigFileName),
			"init canceled",
		); err != nil {
			return err
		}
	}

	hostTarget := "x86_64-unknown-linux-gnu"
	if id, err := target.NewResolver().Current(); err == nil {
		hostTarget = string(id)
	}

	project := models.Project{
		Name:    filepath.Base(cwd),
		Targets: []string{hostTarget},
		Build: models.BuildSpec{
			Command:  "cargo build --release --target {target}",
			Artifact: "target/{target}/release/{name}{exe}",
		},
	}

	if err := utils.CreateFile(cfgPath, &project, utils.FileTypeYAML, 0o644); err != nil {
		return err
	}

	logger.Success("created %s for project %q", globalconfig.ConfigFileName, project.Name)
	logger.Info("edit build.command and build.artifact to match your toolchain, then run 'rpack pack'")
	return nil
}
