// Package packer orchestrates a packaging run: collect per-target binaries,
// report the build matrix, and write the container.
package packer

import (
	"context"
	"fmt"

	"github.com/rpack-dev/rpack/internal/archive"
	"github.com/rpack-dev/rpack/internal/collector"
	"github.com/rpack-dev/rpack/internal/globalconfig"
	"github.com/rpack-dev/rpack/internal/logger"
	"github.com/rpack-dev/rpack/internal/models"
	"github.com/rpack-dev/rpack/internal/runner"
	"github.com/rpack-dev/rpack/internal/target"
	"github.com/rpack-dev/rpack/internal/utils"
)

type Options struct {
	Output       string
	Targets      []target.Identifier
	Compress     bool
	AllowPartial bool
}

type Packer struct {
	Project *models.Project
	Dir     string
	Runner  runner.CommandRunner
}

func New(project *models.Project, dir string, r runner.CommandRunner) *Packer {
	if r == nil {
		r = &runner.ExecRunner{}
	}
	return &Packer{
		Project: project,
		Dir:     dir,
		Runner:  r,
	}
}

// Execute runs the full packaging flow. Build failures abort the run unless
// AllowPartial was set, in which case the successful subset is packaged as
// long as at least one target built.
func (p *Packer) Execute(ctx context.Context, opts Options) error {
	coll := collector.New(p.Project, p.Dir, p.Runner)
	payloads, results := coll.Collect(ctx, opts.Targets)

	renderResults(results)

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}

	if failed > 0 && !opts.AllowPartial {
		return fmt.Errorf("%d of %d target builds failed; fix them or re-run with --allow-partial to package the successful subset",
			failed, len(results))
	}
	if len(payloads) == 0 {
		return fmt.Errorf("all %d target builds failed, nothing to package", len(results))
	}
	if failed > 0 {
		logger.Warn("packaging partial archive: %d of %d targets", len(payloads), len(results))
	}

	err := archive.Write(payloads, opts.Output, archive.WriteOptions{
		Compress: opts.Compress,
		Key:      globalconfig.SigningKey(),
	})
	if err != nil {
		return err
	}

	logger.Success("packaged %d target(s) into %s", len(payloads), opts.Output)
	return nil
}

func renderResults(results []collector.Result) {
	table := logger.CreateTable([]string{"Target", "Build", "Detail"})
	for _, res := range results {
		status, detail := "ok", ""
		if res.Err != nil {
			status = "failed"
			detail = firstLine(res.Err.Error())
		}
		if err := table.Append([]string{string(res.Target), status, detail}); err != nil {
			logger.Debug("table append failed: %v", err)
		}
	}
	if err := table.Render(); err != nil {
		logger.Debug("table render failed: %v", err)
	}
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}

// DefaultOutput derives the archive path from the project name.
func DefaultOutput(project *models.Project) string {
	return project.Name + globalconfig.ArchiveExt
}

// ResolveTargets turns the CLI target list (or, when empty, the project's
// configured list) into parsed identifiers. The literal "host" expands to
// the current platform.
func ResolveTargets(cli []string, project *models.Project, resolver target.Resolver) ([]target.Identifier, error) {
	names := cli
	if len(names) == 0 && project != nil {
		names = project.Targets
	}
	if len(names) == 0 {
		return nil, nil
	}

	ids := make([]target.Identifier, 0, len(names))
	seen := make(map[target.Identifier]bool, len(names))
	for _, name := range names {
		id := target.Identifier(name)
		if name == "host" {
			var err error
			if id, err = resolver.Current(); err != nil {
				return nil, err
			}
		} else if _, err := target.Parse(id); err != nil {
			return nil, err
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate target %s", id)
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// EnsureWritable rejects an output path whose parent cannot hold the file.
func EnsureWritable(path string) error {
	if ok, err := utils.FileExists(path); err != nil {
		return err
	} else if ok {
		logger.Warn("overwriting existing archive %s", path)
	}
	return nil
}
