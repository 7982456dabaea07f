package models

import (
	"fmt"

	"github.com/rpack-dev/rpack/internal/target"
)

// BuildSpec describes how to produce one target's binary.
// Both fields are templates: {target} expands to the target identifier,
// {name} to the project name, {exe} to ".exe" for windows targets.
type BuildSpec struct {
	Command  string `yaml:"command"`
	Artifact string `yaml:"artifact"`
}

// Project is the parsed rpack.yml.
type Project struct {
	Name         string    `yaml:"name"`
	Targets      []string  `yaml:"targets,omitempty"`
	Build        BuildSpec `yaml:"build"`
	Compress     bool      `yaml:"compress,omitempty"`
	AllowPartial bool      `yaml:"allow_partial,omitempty"`
}

func (p *Project) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("rpack.yml: name is required")
	}
	if p.Build.Command == "" {
		return fmt.Errorf("rpack.yml: build.command is required")
	}
	if p.Build.Artifact == "" {
		return fmt.Errorf("rpack.yml: build.artifact is required")
	}
	for _, name := range p.Targets {
		if name == "host" {
			continue
		}
		if _, err := target.Parse(target.Identifier(name)); err != nil {
			return fmt.Errorf("rpack.yml: %w", err)
		}
	}
	return nil
}
