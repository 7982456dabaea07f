// Package collector obtains one compiled binary per requested target by
// delegating to the project's external build command.
package collector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rpack-dev/rpack/internal/globalconfig"
	"github.com/rpack-dev/rpack/internal/logger"
	"github.com/rpack-dev/rpack/internal/models"
	"github.com/rpack-dev/rpack/internal/runner"
	"github.com/rpack-dev/rpack/internal/target"
)

// BuildFailure reports that one target's external build step failed or left
// no artifact behind. It is fatal for that target only; the collector keeps
// going so the caller can report a full success/failure matrix.
type BuildFailure struct {
	Target target.Identifier
	Err    error
}

func (e *BuildFailure) Error() string {
	return fmt.Sprintf("build failed for %s: %v", e.Target, e.Err)
}

func (e *BuildFailure) Unwrap() error { return e.Err }

// Result is one target's outcome. Err is nil on success.
type Result struct {
	Target target.Identifier
	Err    error
}

type Collector struct {
	Project *models.Project
	Dir     string
	Runner  runner.CommandRunner
	Timeout time.Duration
}

func New(project *models.Project, dir string, r runner.CommandRunner) *Collector {
	if r == nil {
		r = &runner.ExecRunner{}
	}
	return &Collector{
		Project: project,
		Dir:     dir,
		Runner:  r,
		Timeout: globalconfig.DefaultBuildTimeout,
	}
}

// Collect builds every requested target and reads each produced binary into
// memory. Targets build concurrently; each build is independent, so the only
// shared state is the payload map, merged after the fan-in. The returned
// results are sorted by target and carry one entry per requested identifier.
func (c *Collector) Collect(ctx context.Context, targets []target.Identifier) (map[target.Identifier][]byte, []Result) {
	payloads := make(map[target.Identifier][]byte, len(targets))
	results := make([]Result, 0, len(targets))

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, id := range targets {
		wg.Add(1)
		go func(id target.Identifier) {
			defer wg.Done()
			blob, err := c.collectOne(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				results = append(results, Result{Target: id, Err: err})
				return
			}
			payloads[id] = blob
			results = append(results, Result{Target: id})
		}(id)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Target < results[j].Target })
	return payloads, results
}

func (c *Collector) collectOne(ctx context.Context, id target.Identifier) ([]byte, error) {
	name, args, err := c.buildCommand(id)
	if err != nil {
		return nil, &BuildFailure{Target: id, Err: err}
	}

	logger.Info("building %s", id)
	out, err := c.Runner.Run(ctx, c.Dir, c.Timeout, runner.Capture, name, args...)
	if err != nil {
		if len(out) > 0 {
			err = fmt.Errorf("%w\n%s", err, strings.TrimSpace(string(out)))
		}
		return nil, &BuildFailure{Target: id, Err: err}
	}

	artifact := c.artifactPath(id)
	blob, err := os.ReadFile(artifact)
	if err != nil {
		return nil, &BuildFailure{Target: id, Err: fmt.Errorf("no artifact at %s: %w", artifact, err)}
	}
	if len(blob) == 0 {
		return nil, &BuildFailure{Target: id, Err: fmt.Errorf("artifact at %s is empty", artifact)}
	}

	logger.Debug("collected %s (%d bytes)", id, len(blob))
	return blob, nil
}

// buildCommand expands the configured command template for one target.
func (c *Collector) buildCommand(id target.Identifier) (string, []string, error) {
	fields := strings.Fields(c.expand(c.Project.Build.Command, id))
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("build.command expands to nothing")
	}
	return fields[0], fields[1:], nil
}

// artifactPath expands the configured artifact template, relative to the
// project directory unless absolute.
func (c *Collector) artifactPath(id target.Identifier) string {
	p := filepath.FromSlash(c.expand(c.Project.Build.Artifact, id))
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir, p)
}

func (c *Collector) expand(tmpl string, id target.Identifier) string {
	return strings.NewReplacer(
		"{target}", string(id),
		"{name}", c.Project.Name,
		"{exe}", id.ExeSuffix(),
	).Replace(tmpl)
}
