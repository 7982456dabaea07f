package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/rpack-dev/rpack/internal/integrity"
	"github.com/rpack-dev/rpack/internal/target"
	"github.com/rpack-dev/rpack/internal/utils"
)

// WriteOptions controls archive creation.
type WriteOptions struct {
	// Compress gzips each payload individually.
	Compress bool

	// Key signs the manifest entry table. Required.
	Key []byte

	// CreatedAt stamps the manifest; zero means time.Now().UTC().
	// Exposed so tests can pin it when asserting reproducibility.
	CreatedAt time.Time
}

// Write serializes payloads into a container at path. The entry table is
// sorted by target so identical inputs produce byte-identical output except
// for the created_at field. Output goes to a temp file first and is renamed
// into place only on success, so a failed pack leaves no partial artifact.
func Write(payloads map[target.Identifier][]byte, path string, opts WriteOptions) error {
	if len(payloads) == 0 {
		return fmt.Errorf("no payloads to write")
	}
	if len(opts.Key) == 0 {
		return fmt.Errorf("signing key is required")
	}

	ids := make([]target.Identifier, 0, len(payloads))
	for id := range payloads {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	createdAt := opts.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	manifest := Manifest{
		FormatVersion: FormatVersion,
		CreatedAt:     createdAt.UTC(),
	}

	var payloadSection bytes.Buffer
	for _, id := range ids {
		raw := payloads[id]
		stored := raw
		if opts.Compress {
			gz, err := utils.GzipBytes(raw)
			if err != nil {
				return fmt.Errorf("compress payload for %s: %w", id, err)
			}
			stored = gz
		}
		manifest.Entries = append(manifest.Entries, Entry{
			Target:     id,
			Offset:     int64(payloadSection.Len()),
			Size:       int64(len(stored)),
			RawSize:    int64(len(raw)),
			Checksum:   integrity.Checksum(raw),
			Compressed: opts.Compress,
			Executable: true,
		})
		payloadSection.Write(stored)
	}

	manifest.Signature = integrity.Sign(manifest.SigningPayload(), opts.Key)

	manifestJSON, err := json.Marshal(&manifest)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	var out bytes.Buffer
	out.Grow(PreambleSize + headerSize + len(manifestJSON) + payloadSection.Len())
	out.Write(Preamble())
	out.Write(encodeHeader(len(manifestJSON)))
	out.Write(manifestJSON)
	out.Write(payloadSection.Bytes())

	if err := utils.WriteFileAtomic(path+".tmp", path, &out); err != nil {
		return fmt.Errorf("write archive %s: %w", path, err)
	}

	// The container is directly executable on unix hosts via its preamble.
	if err := os.Chmod(path, 0o755); err != nil {
		return fmt.Errorf("chmod archive %s: %w", path, err)
	}
	return nil
}
