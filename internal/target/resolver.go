package target

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
)

// hostKey identifies one (OS kind, architecture kind) combination in the
// GOOS/GOARCH namespace.
type hostKey struct {
	OS   string
	Arch string
}

// hostTable maps every supported host to its canonical identifier.
// Adding a platform is a data change here, never new branching.
var hostTable = map[hostKey]Identifier{
	{"linux", "amd64"}:   "x86_64-unknown-linux-gnu",
	{"linux", "arm64"}:   "aarch64-unknown-linux-gnu",
	{"linux", "386"}:     "i686-unknown-linux-gnu",
	{"linux", "arm"}:     "armv7-unknown-linux-gnueabihf",
	{"linux", "riscv64"}: "riscv64gc-unknown-linux-gnu",
	{"darwin", "amd64"}:  "x86_64-apple-darwin",
	{"darwin", "arm64"}:  "aarch64-apple-darwin",
	{"windows", "amd64"}: "x86_64-pc-windows-msvc",
	{"windows", "arm64"}: "aarch64-pc-windows-msvc",
	{"windows", "386"}:   "i686-pc-windows-msvc",
}

// UnsupportedPlatformError reports a host with no matching payload, or a host
// outside the lookup table entirely. Supported carries the identifiers the
// archive (or the table) does cover so the message can list them.
type UnsupportedPlatformError struct {
	OS        string
	Arch      string
	Supported []Identifier
}

func (e *UnsupportedPlatformError) Error() string {
	msg := fmt.Sprintf("unsupported platform %s/%s", e.OS, e.Arch)
	if len(e.Supported) > 0 {
		ids := make([]string, len(e.Supported))
		for i, id := range e.Supported {
			ids[i] = string(id)
		}
		msg += fmt.Sprintf(" (supported: %s)", strings.Join(ids, ", "))
	}
	return msg
}

// Resolver reports the canonical identifier of the current host.
type Resolver interface {
	Current() (Identifier, error)
}

// RuntimeResolver resolves through the static host table using the compiled
// GOOS/GOARCH. It never guesses: an unknown combination is an error, because
// executing a foreign-architecture binary fails far less predictably than a
// refusal here.
type RuntimeResolver struct{}

func NewResolver() Resolver {
	return &RuntimeResolver{}
}

func (*RuntimeResolver) Current() (Identifier, error) {
	return Lookup(runtime.GOOS, runtime.GOARCH)
}

// Lookup resolves an explicit (GOOS, GOARCH) pair through the host table.
func Lookup(goos, goarch string) (Identifier, error) {
	id, ok := hostTable[hostKey{OS: goos, Arch: goarch}]
	if !ok {
		return "", &UnsupportedPlatformError{
			OS:        goos,
			Arch:      goarch,
			Supported: Known(),
		}
	}
	return id, nil
}

// StaticResolver always reports a fixed identifier. Used by tests and by the
// --platform override on `rpack run`.
type StaticResolver struct {
	ID Identifier
}

func (s *StaticResolver) Current() (Identifier, error) {
	if _, err := Parse(s.ID); err != nil {
		return "", err
	}
	return s.ID, nil
}

// Host pairs one GOOS/GOARCH combination with its canonical identifier.
type Host struct {
	OS   string
	Arch string
	ID   Identifier
}

// Hosts returns the full host table, sorted by OS then architecture.
func Hosts() []Host {
	hosts := make([]Host, 0, len(hostTable))
	for k, id := range hostTable {
		hosts = append(hosts, Host{OS: k.OS, Arch: k.Arch, ID: id})
	}
	sort.Slice(hosts, func(i, j int) bool {
		if hosts[i].OS != hosts[j].OS {
			return hosts[i].OS < hosts[j].OS
		}
		return hosts[i].Arch < hosts[j].Arch
	})
	return hosts
}

// Known returns every identifier in the host table, sorted.
func Known() []Identifier {
	ids := make([]Identifier, 0, len(hostTable))
	for _, id := range hostTable {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
