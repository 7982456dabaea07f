// Package inspect renders archive metadata without extracting payloads.
package inspect

import (
	"fmt"

	"github.com/rpack-dev/rpack/internal/archive"
	"github.com/rpack-dev/rpack/internal/globalconfig"
	"github.com/rpack-dev/rpack/internal/logger"
	"github.com/rpack-dev/rpack/internal/utils"
)

// Inspect prints the manifest of the archive at path: format version,
// creation time, signature state and one row per payload entry.
func Inspect(path string) error {
	reader, err := archive.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := reader.Close(); cerr != nil {
			logger.Debug("close archive: %v", cerr)
		}
	}()

	m := reader.Manifest()

	sigState := "valid"
	if err := reader.VerifySignature(globalconfig.SigningKey()); err != nil {
		sigState = "INVALID"
	}

	logger.Info("archive %s", path)
	logger.Info("format version %d, created %s, signature %s",
		m.FormatVersion, m.CreatedAt.Format("2006-01-02 15:04:05 MST"), sigState)

	table := logger.CreateTable([]string{"Target", "Size", "Raw size", "Compressed", "Checksum"})
	for _, e := range m.Entries {
		compressed := "no"
		if e.Compressed {
			compressed = "yes"
		}
		row := []string{
			string(e.Target),
			utils.HumanSize(e.Size),
			utils.HumanSize(e.RawSize),
			compressed,
			shortChecksum(e.Checksum),
		}
		if err := table.Append(row); err != nil {
			logger.Debug("table append failed: %v", err)
		}
	}
	if err := table.Render(); err != nil {
		logger.Debug("table render failed: %v", err)
	}
	return nil
}

// Verify runs the full integrity pass: manifest signature, then every
// payload checksum. Any failure makes the command exit nonzero.
func Verify(path string) error {
	reader, err := archive.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := reader.Close(); cerr != nil {
			logger.Debug("close archive: %v", cerr)
		}
	}()

	results, err := reader.VerifyAll(globalconfig.SigningKey())
	if err != nil {
		return err
	}

	failed := 0
	table := logger.CreateTable([]string{"Target", "Integrity"})
	for _, res := range results {
		status := "ok"
		if res.Err != nil {
			status = "FAIL"
			failed++
		}
		if err := table.Append([]string{string(res.Entry.Target), status}); err != nil {
			logger.Debug("table append failed: %v", err)
		}
	}
	if err := table.Render(); err != nil {
		logger.Debug("table render failed: %v", err)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d payloads failed verification", failed, len(results))
	}
	logger.Success("archive %s verified: signature and %d payload(s) intact", path, len(results))
	return nil
}

func shortChecksum(sum string) string {
	if len(sum) > 12 {
		return sum[:12]
	}
	return sum
}
