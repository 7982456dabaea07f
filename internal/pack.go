package internal

import (
	"github.com/rpack-dev/rpack/internal/errs"
	"github.com/rpack-dev/rpack/internal/middleware"
	"github.com/rpack-dev/rpack/internal/models"
	"github.com/rpack-dev/rpack/internal/packer"
	"github.com/rpack-dev/rpack/internal/target"

	"github.com/spf13/cobra"
)

func NewPackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Build and package the project's binaries into a .rpack archive",
		Long: `Builds the project for every requested target through the build command in
rpack.yml, then packages the binaries into one self-extracting archive.

Examples:
    rpack pack                                  # targets from rpack.yml
    rpack pack -t host                          # current platform only
    rpack pack -t x86_64-unknown-linux-gnu,aarch64-apple-darwin -o app.rpack
    rpack pack --allow-partial                  # keep going past failed targets`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			project, err := middleware.Get[*models.Project](cmd, middleware.CtxKeyProject)
			if err != nil {
				return err
			}
			dir, err := middleware.Get[string](cmd, middleware.CtxKeyProjectDir)
			if err != nil {
				return err
			}

			targetList, err := cmd.Flags().GetStringSlice("targets")
			if err != nil {
				return err
			}
			output, err := cmd.Flags().GetString("output")
			if err != nil {
				return err
			}
			compress, err := cmd.Flags().GetBool("compress")
			if err != nil {
				return err
			}
			allowPartial, err := cmd.Flags().GetBool("allow-partial")
			if err != nil {
				return err
			}

			targets, err := packer.ResolveTargets(targetList, project, target.NewResolver())
			if err != nil {
				return err
			}
			if len(targets) == 0 {
				return middleware.FlagComboError(errs.NoTargetsResolved)
			}
			if allowPartial && len(targets) < 2 {
				return middleware.FlagComboError(errs.PartialWithoutTargets)
			}

			if output == "" {
				output = packer.DefaultOutput(project)
			}
			if err := packer.EnsureWritable(output); err != nil {
				return err
			}

			p := packer.New(project, dir, nil)
			return p.Execute(cmd.Context(), packer.Options{
				Output:       output,
				Targets:      targets,
				Compress:     compress || project.Compress,
				AllowPartial: allowPartial || project.AllowPartial,
			})
		},
	}

	cmd.Flags().StringSliceP("targets", "t", nil, "Comma-separated target identifiers ('host' = current platform)")
	cmd.Flags().StringP("output", "o", "", "Output archive path (default <name>.rpack)")
	cmd.Flags().StringP("project", "p", ".", "Project directory containing rpack.yml")
	cmd.Flags().BoolP("compress", "c", false, "Gzip each payload")
	cmd.Flags().Bool("allow-partial", false, "Package the successful subset when some targets fail to build")

	return cmd
}
