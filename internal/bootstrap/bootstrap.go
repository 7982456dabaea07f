// Package bootstrap is the run-time half of the container: it turns
// "execute this archive" into "execute the matching verified binary",
// observably transparent except for extraction latency.
package bootstrap

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/rpack-dev/rpack/internal/archive"
	"github.com/rpack-dev/rpack/internal/globalconfig"
	"github.com/rpack-dev/rpack/internal/logger"
	"github.com/rpack-dev/rpack/internal/target"
)

// SpawnError reports that the extracted binary could not be started.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// Bootstrap resolves, verifies, extracts and runs one archive payload.
// Stdio defaults to the process streams; tests swap them to capture output.
type Bootstrap struct {
	Resolver target.Resolver
	Key      []byte
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
}

func New(resolver target.Resolver, key []byte) *Bootstrap {
	if resolver == nil {
		resolver = target.NewResolver()
	}
	if len(key) == 0 {
		key = globalconfig.SigningKey()
	}
	return &Bootstrap{
		Resolver: resolver,
		Key:      key,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}
}

// Run executes archivePath's payload for the current platform, forwarding
// args, the working directory and all stdio streams unmodified. It returns
// the child's exit code. Every verification step is fail-closed: nothing is
// spawned after a signature, lookup or checksum failure.
//
// There is deliberately no timeout here. The wrapper is a pass-through, not
// a supervisor: if the child hangs, so does the wrapper.
func (b *Bootstrap) Run(archivePath string, args []string) (int, error) {
	reader, err := archive.Open(archivePath)
	if err != nil {
		return 1, err
	}
	defer func() {
		if cerr := reader.Close(); cerr != nil {
			logger.Debug("close archive: %v", cerr)
		}
	}()

	// Signature first: per-entry checksums come from the manifest, so they
	// prove nothing until the manifest itself is authenticated.
	if err := reader.VerifySignature(b.Key); err != nil {
		return 1, err
	}

	id, err := b.Resolver.Current()
	if err != nil {
		return 1, err
	}

	if _, ok := reader.Manifest().Lookup(id); !ok {
		return 1, &target.UnsupportedPlatformError{
			OS:        id.OS(),
			Arch:      id.Arch(),
			Supported: reader.SupportedTargets(),
		}
	}

	raw, err := reader.Extract(id)
	if err != nil {
		return 1, err
	}

	binPath, err := writeExtracted(raw, id)
	if err != nil {
		return 1, err
	}
	defer func() {
		// Best effort: the archive already did its job of running the app.
		if rerr := os.Remove(binPath); rerr != nil {
			logger.Debug("cleanup extracted binary: %v", rerr)
		}
	}()

	return b.spawn(binPath, args)
}

// writeExtracted materializes the verified bytes as a fresh private
// executable. Every invocation gets its own uniquely named file; nothing is
// ever reused across runs, so concurrent invocations cannot race.
func writeExtracted(raw []byte, id target.Identifier) (string, error) {
	f, err := os.CreateTemp("", "rpack-*"+id.ExeSuffix())
	if err != nil {
		return "", fmt.Errorf("create extraction file: %w", err)
	}
	path := f.Name()

	if _, err := f.Write(raw); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write extraction file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close extraction file: %w", err)
	}
	if err := os.Chmod(path, 0o700); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("mark extraction file executable: %w", err)
	}
	return path, nil
}

func (b *Bootstrap) spawn(binPath string, args []string) (int, error) {
	cmd := exec.Command(binPath, args...)
	cmd.Stdin = b.Stdin
	cmd.Stdout = b.Stdout
	cmd.Stderr = b.Stderr
	// Dir is left empty: the child inherits the invoker's working directory.

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			code := exitErr.ExitCode()
			if code < 0 {
				// Killed by signal; no conventional code to forward.
				code = 1
			}
			return code, nil
		}
		return 1, &SpawnError{Path: binPath, Err: err}
	}
	return 0, nil
}
