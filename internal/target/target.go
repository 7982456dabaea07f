// Package target maps host platforms to the canonical target identifier
// space shared between archive manifests and the running bootstrap.
package target

import (
	"fmt"
	"strings"
)

// Identifier is a canonical target triple such as "x86_64-unknown-linux-gnu"
// or "aarch64-apple-darwin". The same string space is used at pack time (keys
// of the manifest entry table) and at run time (host resolution), so lookups
// are exact string matches.
type Identifier string

// Triple is a parsed Identifier.
type Triple struct {
	Arch   string // "x86_64", "aarch64", "i686", "armv7", "riscv64"
	Vendor string // "unknown", "apple", "pc"
	OS     string // "linux", "darwin", "windows"
	ABI    string // "gnu", "musl", "msvc", "gnueabihf" or empty
}

// Parse splits an identifier into its components. An identifier needs at
// least arch, vendor and OS; the ABI part is optional.
func Parse(id Identifier) (Triple, error) {
	parts := strings.Split(string(id), "-")
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Triple{}, fmt.Errorf("malformed target identifier %q: want <arch>-<vendor>-<os>[-<abi>]", id)
	}
	t := Triple{
		Arch:   parts[0],
		Vendor: parts[1],
		OS:     parts[2],
	}
	if len(parts) > 3 {
		t.ABI = strings.Join(parts[3:], "-")
	}
	return t, nil
}

func (t Triple) String() string {
	if t.ABI == "" {
		return fmt.Sprintf("%s-%s-%s", t.Arch, t.Vendor, t.OS)
	}
	return fmt.Sprintf("%s-%s-%s-%s", t.Arch, t.Vendor, t.OS, t.ABI)
}

// OS returns the operating system component, or "" for malformed identifiers.
func (id Identifier) OS() string {
	t, err := Parse(id)
	if err != nil {
		return ""
	}
	return t.OS
}

// Arch returns the architecture component, or "" for malformed identifiers.
func (id Identifier) Arch() string {
	t, err := Parse(id)
	if err != nil {
		return ""
	}
	return t.Arch
}

func (id Identifier) IsWindows() bool {
	return id.OS() == "windows"
}

// ExeSuffix returns the executable filename suffix for this target's OS.
func (id Identifier) ExeSuffix() string {
	if id.IsWindows() {
		return ".exe"
	}
	return ""
}
