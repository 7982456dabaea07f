package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rpack-dev/rpack/internal/integrity"
	"github.com/rpack-dev/rpack/internal/target"
	"github.com/rpack-dev/rpack/internal/utils"
)

// Reader parses a container file and serves verified payload bytes.
// The underlying file stays open read-only until Close.
type Reader struct {
	f            *os.File
	size         int64
	manifest     Manifest
	payloadStart int64
}

// Open validates the preamble, magic and format version, parses the manifest
// and bounds-checks every entry against the file size. It does not verify
// the signature; callers on the execution path must call VerifySignature
// before trusting any entry.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	r, err := parse(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return r, nil
}

func parse(f *os.File) (*Reader, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat archive: %w", err)
	}
	size := info.Size()

	head := make([]byte, PreambleSize+headerSize)
	if _, err := io.ReadFull(f, head); err != nil {
		return nil, fmt.Errorf("%w: file too short for header", ErrCorrupt)
	}
	if !bytes.Equal(head[:PreambleSize], Preamble()) {
		return nil, fmt.Errorf("%w: bad preamble", ErrCorrupt)
	}
	manifestLen, err := decodeHeader(head[PreambleSize:])
	if err != nil {
		return nil, err
	}

	payloadStart := PayloadStart(manifestLen)
	if payloadStart > size {
		return nil, fmt.Errorf("%w: manifest length %d exceeds file size", ErrCorrupt, manifestLen)
	}

	manifestJSON := make([]byte, manifestLen)
	if _, err := io.ReadFull(f, manifestJSON); err != nil {
		return nil, fmt.Errorf("%w: truncated manifest", ErrCorrupt)
	}

	var manifest Manifest
	if err := json.Unmarshal(manifestJSON, &manifest); err != nil {
		return nil, fmt.Errorf("%w: unreadable manifest: %v", ErrCorrupt, err)
	}
	if manifest.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("%w: manifest version %d disagrees with header",
			ErrCorrupt, manifest.FormatVersion)
	}

	for _, e := range manifest.Entries {
		if e.Offset < 0 || e.Size < 0 || payloadStart+e.Offset+e.Size > size {
			return nil, fmt.Errorf("%w: entry %s outside archive bounds", ErrCorrupt, e.Target)
		}
	}

	return &Reader{
		f:            f,
		size:         size,
		manifest:     manifest,
		payloadStart: payloadStart,
	}, nil
}

func (r *Reader) Close() error {
	return r.f.Close()
}

// Manifest returns the parsed manifest. Read-only.
func (r *Reader) Manifest() *Manifest {
	return &r.manifest
}

// VerifySignature recomputes the entry-table HMAC under key. It must pass
// before per-entry checksums mean anything: a tampered manifest could carry
// recomputed checksums for tampered payloads.
func (r *Reader) VerifySignature(key []byte) error {
	if !integrity.Verify(r.manifest.SigningPayload(), r.manifest.Signature, key) {
		return fmt.Errorf("%w: manifest signature mismatch", ErrIntegrity)
	}
	return nil
}

// SupportedTargets lists the platforms this archive carries payloads for.
func (r *Reader) SupportedTargets() []target.Identifier {
	return r.manifest.Targets()
}

// Extract returns the verified raw binary for id: reads the stored range,
// decompresses when flagged, then recomputes the checksum against the
// manifest. Any mismatch, including a corrupt compressed stream, is an
// integrity failure and no bytes are returned.
func (r *Reader) Extract(id target.Identifier) ([]byte, error) {
	entry, ok := r.manifest.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("no payload for target %s", id)
	}

	stored := make([]byte, entry.Size)
	if _, err := r.f.ReadAt(stored, r.payloadStart+entry.Offset); err != nil {
		return nil, fmt.Errorf("read payload for %s: %w", id, err)
	}

	raw := stored
	if entry.Compressed {
		var err error
		raw, err = utils.GunzipBytes(stored)
		if err != nil {
			return nil, fmt.Errorf("%w: payload for %s does not decompress: %v", ErrIntegrity, id, err)
		}
	}

	if int64(len(raw)) != entry.RawSize {
		return nil, fmt.Errorf("%w: payload for %s has size %d, manifest says %d",
			ErrIntegrity, id, len(raw), entry.RawSize)
	}
	if !integrity.VerifyChecksum(raw, entry.Checksum) {
		return nil, fmt.Errorf("%w: payload checksum mismatch for %s", ErrIntegrity, id)
	}
	return raw, nil
}

// EntryResult is one row of a full verification pass.
type EntryResult struct {
	Entry Entry
	Err   error
}

// VerifyAll checks the signature and then every entry, returning one result
// per entry. Used by `rpack verify` to render a per-target matrix.
func (r *Reader) VerifyAll(key []byte) ([]EntryResult, error) {
	if err := r.VerifySignature(key); err != nil {
		return nil, err
	}
	results := make([]EntryResult, 0, len(r.manifest.Entries))
	for _, e := range r.manifest.Entries {
		_, err := r.Extract(e.Target)
		results = append(results, EntryResult{Entry: e, Err: err})
	}
	return results, nil
}
