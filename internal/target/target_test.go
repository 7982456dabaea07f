package target

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		id      Identifier
		want    Triple
		wantErr bool
	}{
		{id: "x86_64-unknown-linux-gnu", want: Triple{Arch: "x86_64", Vendor: "unknown", OS: "linux", ABI: "gnu"}},
		{id: "aarch64-apple-darwin", want: Triple{Arch: "aarch64", Vendor: "apple", OS: "darwin"}},
		{id: "x86_64-pc-windows-msvc", want: Triple{Arch: "x86_64", Vendor: "pc", OS: "windows", ABI: "msvc"}},
		{id: "armv7-unknown-linux-gnueabihf", want: Triple{Arch: "armv7", Vendor: "unknown", OS: "linux", ABI: "gnueabihf"}},
		{id: "linux", wantErr: true},
		{id: "x86_64-linux", wantErr: true},
		{id: "", wantErr: true},
		{id: "--", wantErr: true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.id)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Parse(%q): expected error", tt.id)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.id, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.id, got, tt.want)
		}
		if got.String() != string(tt.id) {
			t.Errorf("Triple.String() = %q, want %q", got.String(), tt.id)
		}
	}
}

func TestIdentifierHelpers(t *testing.T) {
	win := Identifier("x86_64-pc-windows-msvc")
	if !win.IsWindows() {
		t.Error("windows target not recognized")
	}
	if win.ExeSuffix() != ".exe" {
		t.Errorf("ExeSuffix() = %q, want .exe", win.ExeSuffix())
	}

	linux := Identifier("x86_64-unknown-linux-gnu")
	if linux.IsWindows() {
		t.Error("linux target flagged as windows")
	}
	if linux.ExeSuffix() != "" {
		t.Errorf("ExeSuffix() = %q, want empty", linux.ExeSuffix())
	}
	if linux.OS() != "linux" || linux.Arch() != "x86_64" {
		t.Errorf("OS/Arch = %q/%q", linux.OS(), linux.Arch())
	}
}

func TestLookup_TotalAndDeterministic(t *testing.T) {
	for _, h := range Hosts() {
		first, err := Lookup(h.OS, h.Arch)
		if err != nil {
			t.Fatalf("Lookup(%s, %s): %v", h.OS, h.Arch, err)
		}
		second, err := Lookup(h.OS, h.Arch)
		if err != nil {
			t.Fatalf("Lookup(%s, %s) second call: %v", h.OS, h.Arch, err)
		}
		if first != second || first != h.ID {
			t.Errorf("Lookup(%s, %s) unstable: %s vs %s (table says %s)",
				h.OS, h.Arch, first, second, h.ID)
		}
		if _, err := Parse(first); err != nil {
			t.Errorf("table identifier %s does not parse: %v", first, err)
		}
	}
}

func TestLookup_TableCoverage(t *testing.T) {
	oses := map[string]bool{}
	arches := map[string]bool{}
	for _, h := range Hosts() {
		oses[h.OS] = true
		arches[h.Arch] = true
	}
	if len(oses) < 3 {
		t.Errorf("host table covers %d OS families, want at least 3", len(oses))
	}
	if len(arches) < 4 {
		t.Errorf("host table covers %d architectures, want at least 4", len(arches))
	}
}

func TestLookup_UnknownFails(t *testing.T) {
	_, err := Lookup("plan9", "mips")
	if err == nil {
		t.Fatal("expected error for unknown host")
	}
	var upErr *UnsupportedPlatformError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UnsupportedPlatformError, got %T", err)
	}
	if upErr.OS != "plan9" || upErr.Arch != "mips" {
		t.Errorf("error carries %s/%s, want plan9/mips", upErr.OS, upErr.Arch)
	}
	if len(upErr.Supported) == 0 {
		t.Error("error should list supported identifiers")
	}
}

func TestRuntimeResolver_Deterministic(t *testing.T) {
	r := NewResolver()
	first, err := r.Current()
	if err != nil {
		t.Skipf("current host outside table: %v", err)
	}
	second, err := r.Current()
	if err != nil {
		t.Fatalf("second Current(): %v", err)
	}
	if first != second {
		t.Errorf("resolver unstable: %s vs %s", first, second)
	}
}

func TestStaticResolver(t *testing.T) {
	r := &StaticResolver{ID: "aarch64-apple-darwin"}
	id, err := r.Current()
	if err != nil {
		t.Fatalf("Current(): %v", err)
	}
	if id != "aarch64-apple-darwin" {
		t.Errorf("Current() = %s", id)
	}

	bad := &StaticResolver{ID: "nonsense"}
	if _, err := bad.Current(); err == nil {
		t.Error("malformed static identifier should fail")
	}
}

func TestKnown_Sorted(t *testing.T) {
	ids := Known()
	if len(ids) != len(Hosts()) {
		t.Fatalf("Known() has %d entries, Hosts() %d", len(ids), len(Hosts()))
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Errorf("Known() not sorted at %d: %s >= %s", i, ids[i-1], ids[i])
		}
	}
}
