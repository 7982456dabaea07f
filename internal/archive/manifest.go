package archive

import (
	"bytes"
	"fmt"
	"time"

	"github.com/rpack-dev/rpack/internal/target"
)

// Entry locates one target's payload inside the container.
//
// Offset is relative to the start of the payload section, so the entry table
// can be serialized before payload bytes are placed. Size is the stored byte
// count; RawSize the uncompressed one (equal when not compressed). Checksum
// is the SHA-256 of the raw binary, computed before any compression.
type Entry struct {
	Target     target.Identifier `json:"target"`
	Offset     int64             `json:"offset"`
	Size       int64             `json:"size"`
	RawSize    int64             `json:"raw_size"`
	Checksum   string            `json:"checksum"`
	Compressed bool              `json:"compressed,omitempty"`
	Executable bool              `json:"executable"`
}

// Manifest is the archive's metadata table. It is written once by the packer
// and read-only afterwards.
type Manifest struct {
	FormatVersion uint16    `json:"format_version"`
	CreatedAt     time.Time `json:"created_at"`
	Entries       []Entry   `json:"entries"`
	Signature     string    `json:"signature"`
}

// SigningPayload returns the deterministic byte string covered by the
// manifest signature: every entry field that locates or authenticates a
// payload, in table order. CreatedAt is deliberately excluded so identical
// inputs sign identically across repeated builds.
func (m *Manifest) SigningPayload() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "rpack/%d\n", m.FormatVersion)
	for _, e := range m.Entries {
		fmt.Fprintf(&buf, "%s|%d|%d|%d|%s|%t|%t\n",
			e.Target, e.Offset, e.Size, e.RawSize, e.Checksum, e.Compressed, e.Executable)
	}
	return buf.Bytes()
}

// Lookup returns the entry for exactly id. There is no closest-match
// fallback: running a near-miss architecture is worse than refusing.
func (m *Manifest) Lookup(id target.Identifier) (Entry, bool) {
	for _, e := range m.Entries {
		if e.Target == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Targets returns the identifiers in entry-table order (sorted at write time).
func (m *Manifest) Targets() []target.Identifier {
	ids := make([]target.Identifier, len(m.Entries))
	for i, e := range m.Entries {
		ids[i] = e.Target
	}
	return ids
}
