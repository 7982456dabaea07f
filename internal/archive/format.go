// Package archive implements the .rpack container: a self-extracting file
// holding one compiled binary per target platform behind a signed manifest.
//
// Layout:
//
//	[preamble: PreambleSize bytes of fixed sh launcher text]
//	[magic "RPCK"]
//	[format version, uint16 big-endian]
//	[manifest length, uint32 big-endian]
//	[manifest JSON]
//	[payload bytes, entry-table order]
//
// The preamble doubles as the bootstrap stub on unix hosts: it is a POSIX sh
// script that re-invokes `rpack run` on the file it is part of. Because its
// bytes are fixed, it also serves as part of the magic header; any consumer
// can seek past it and parse the manifest without touching payload bytes.
package archive

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

const (
	// Magic identifies an rpack container, placed right after the preamble.
	Magic = "RPCK"

	// FormatVersion is the container revision this tool reads and writes.
	// Readers refuse any other version outright instead of best-effort
	// parsing a table they may misinterpret.
	FormatVersion uint16 = 1

	// PreambleSize is the exact byte length of the sh launcher preamble.
	PreambleSize = 256

	// headerSize covers magic + version + manifest length.
	headerSize = len(Magic) + 2 + 4
)

var (
	// ErrCorrupt reports an unreadable container: bad preamble or magic,
	// unknown format version, truncation, or an out-of-bounds entry.
	ErrCorrupt = errors.New("corrupt archive")

	// ErrIntegrity reports a container that parses but fails verification:
	// manifest signature mismatch or payload checksum mismatch.
	ErrIntegrity = errors.New("integrity check failed")
)

var launcherScript = strings.Join([]string{
	"#!/bin/sh",
	`# rpack self-extracting archive. Payload targets are listed by "rpack inspect".`,
	`command -v rpack >/dev/null 2>&1 || { echo "rpack: bootstrap tool not found on PATH" >&2; exit 127; }`,
	`exec rpack run "$0" "$@"`,
	"",
}, "\n")

// Preamble returns the fixed PreambleSize-byte launcher block. The script is
// padded with comment bytes; sh never reads past the exec line.
func Preamble() []byte {
	pad := PreambleSize - len(launcherScript)
	return []byte(launcherScript + strings.Repeat("#", pad-1) + "\n")
}

// encodeHeader renders the fixed-width header that follows the preamble.
func encodeHeader(manifestLen int) []byte {
	buf := make([]byte, headerSize)
	copy(buf, Magic)
	binary.BigEndian.PutUint16(buf[len(Magic):], FormatVersion)
	binary.BigEndian.PutUint32(buf[len(Magic)+2:], uint32(manifestLen))
	return buf
}

// decodeHeader validates magic and version and returns the manifest length.
func decodeHeader(buf []byte) (int, error) {
	if len(buf) < headerSize {
		return 0, fmt.Errorf("%w: truncated header", ErrCorrupt)
	}
	if string(buf[:len(Magic)]) != Magic {
		return 0, fmt.Errorf("%w: bad magic", ErrCorrupt)
	}
	version := binary.BigEndian.Uint16(buf[len(Magic):])
	if version != FormatVersion {
		return 0, fmt.Errorf("%w: unsupported format version %d (tool supports %d)",
			ErrCorrupt, version, FormatVersion)
	}
	manifestLen := binary.BigEndian.Uint32(buf[len(Magic)+2:])
	return int(manifestLen), nil
}

// PayloadStart returns the absolute offset of the payload section for a
// manifest of the given serialized length.
func PayloadStart(manifestLen int) int64 {
	return int64(PreambleSize + headerSize + manifestLen)
}
