package archive

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rpack-dev/rpack/internal/logger"
	"github.com/rpack-dev/rpack/internal/target"
)

var testKey = []byte("archive-test-key")

func TestMain(m *testing.M) {
	logger.UseTestMode()
	os.Exit(m.Run())
}

func testPayloads() map[target.Identifier][]byte {
	return map[target.Identifier][]byte{
		"x86_64-unknown-linux-gnu": bytes.Repeat([]byte{0x7f, 'E', 'L', 'F'}, 64),
		"aarch64-apple-darwin":     bytes.Repeat([]byte{0xca, 0xfe, 0xba, 0xbe}, 32),
		"x86_64-pc-windows-msvc":   append([]byte("MZ"), bytes.Repeat([]byte{0x90}, 100)...),
	}
}

func writeTestArchive(t *testing.T, payloads map[target.Identifier][]byte, opts WriteOptions) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.rpack")
	if opts.Key == nil {
		opts.Key = testKey
	}
	if err := Write(payloads, path, opts); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return path
}

func openTestArchive(t *testing.T, path string) *Reader {
	t.Helper()
	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if cerr := r.Close(); cerr != nil {
			t.Errorf("close: %v", cerr)
		}
	})
	return r
}

func TestPreamble(t *testing.T) {
	p := Preamble()
	if len(p) != PreambleSize {
		t.Fatalf("preamble is %d bytes, want %d", len(p), PreambleSize)
	}
	if !bytes.HasPrefix(p, []byte("#!/bin/sh\n")) {
		t.Error("preamble should start with a sh shebang")
	}
	if p[len(p)-1] != '\n' {
		t.Error("preamble should end with a newline")
	}
}

func TestRoundtrip(t *testing.T) {
	payloads := testPayloads()
	path := writeTestArchive(t, payloads, WriteOptions{})
	r := openTestArchive(t, path)

	if err := r.VerifySignature(testKey); err != nil {
		t.Fatalf("VerifySignature: %v", err)
	}

	got := r.SupportedTargets()
	if len(got) != len(payloads) {
		t.Fatalf("manifest has %d targets, want %d", len(got), len(payloads))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Errorf("entry table not sorted: %s >= %s", got[i-1], got[i])
		}
	}

	for id, want := range payloads {
		raw, err := r.Extract(id)
		if err != nil {
			t.Fatalf("Extract(%s): %v", id, err)
		}
		if !bytes.Equal(raw, want) {
			t.Errorf("payload for %s not byte-identical", id)
		}
	}
}

func TestRoundtrip_Compressed(t *testing.T) {
	payloads := testPayloads()
	path := writeTestArchive(t, payloads, WriteOptions{Compress: true})
	r := openTestArchive(t, path)

	if err := r.VerifySignature(testKey); err != nil {
		t.Fatalf("VerifySignature: %v", err)
	}
	for id, want := range payloads {
		raw, err := r.Extract(id)
		if err != nil {
			t.Fatalf("Extract(%s): %v", id, err)
		}
		if !bytes.Equal(raw, want) {
			t.Errorf("payload for %s not byte-identical after decompression", id)
		}
	}
	for _, e := range r.Manifest().Entries {
		if !e.Compressed {
			t.Errorf("entry %s not marked compressed", e.Target)
		}
		if e.RawSize != int64(len(payloads[e.Target])) {
			t.Errorf("entry %s raw_size %d, want %d", e.Target, e.RawSize, len(payloads[e.Target]))
		}
	}
}

func TestVerifySignature_WrongKey(t *testing.T) {
	path := writeTestArchive(t, testPayloads(), WriteOptions{})
	r := openTestArchive(t, path)

	if err := r.VerifySignature([]byte("wrong-key")); !errors.Is(err, ErrIntegrity) {
		t.Fatalf("expected ErrIntegrity, got %v", err)
	}
}

func TestOpen_BadMagic(t *testing.T) {
	path := writeTestArchive(t, testPayloads(), WriteOptions{})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	data[PreambleSize] ^= 0xff
	if err := os.WriteFile(path, data, 0o755); err != nil {
		t.Fatal(err)
	}

	if _, err := Open(path); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestOpen_BadPreamble(t *testing.T) {
	path := writeTestArchive(t, testPayloads(), WriteOptions{})

	data, _ := os.ReadFile(path)
	data[10] ^= 0x01
	if err := os.WriteFile(path, data, 0o755); err != nil {
		t.Fatal(err)
	}

	if _, err := Open(path); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestOpen_UnknownFormatVersion(t *testing.T) {
	path := writeTestArchive(t, testPayloads(), WriteOptions{})

	data, _ := os.ReadFile(path)
	// Version lives right after the magic.
	data[PreambleSize+len(Magic)] = 0xff
	if err := os.WriteFile(path, data, 0o755); err != nil {
		t.Fatal(err)
	}

	if _, err := Open(path); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt for future version, got %v", err)
	}
}

func TestOpen_Truncated(t *testing.T) {
	path := writeTestArchive(t, testPayloads(), WriteOptions{})

	data, _ := os.ReadFile(path)
	for _, cut := range []int{0, 100, PreambleSize, PreambleSize + headerSize + 5} {
		if err := os.WriteFile(path, data[:cut], 0o755); err != nil {
			t.Fatal(err)
		}
		if _, err := Open(path); !errors.Is(err, ErrCorrupt) {
			t.Errorf("truncation at %d: expected ErrCorrupt, got %v", cut, err)
		}
	}
}

func TestExtract_TamperedPayload(t *testing.T) {
	path := writeTestArchive(t, testPayloads(), WriteOptions{})

	r := openTestArchive(t, path)
	if err := r.VerifySignature(testKey); err != nil {
		t.Fatal(err)
	}
	entry, ok := r.Manifest().Lookup("x86_64-unknown-linux-gnu")
	if !ok {
		t.Fatal("missing entry")
	}
	payloadStart := r.payloadStart

	data, _ := os.ReadFile(path)
	data[payloadStart+entry.Offset+entry.Size/2] ^= 0x01
	if err := os.WriteFile(path, data, 0o755); err != nil {
		t.Fatal(err)
	}

	tampered := openTestArchive(t, path)
	if err := tampered.VerifySignature(testKey); err != nil {
		t.Fatalf("payload tamper should not break manifest signature: %v", err)
	}
	if _, err := tampered.Extract("x86_64-unknown-linux-gnu"); !errors.Is(err, ErrIntegrity) {
		t.Fatalf("expected ErrIntegrity, got %v", err)
	}
}

func TestVerifySignature_TamperedManifest(t *testing.T) {
	path := writeTestArchive(t, testPayloads(), WriteOptions{})

	r := openTestArchive(t, path)
	entry, ok := r.Manifest().Lookup("aarch64-apple-darwin")
	if !ok {
		t.Fatal("missing entry")
	}

	// Swap one hex digit of a stored checksum: the manifest stays valid
	// JSON, so only the signature can catch it.
	data, _ := os.ReadFile(path)
	idx := bytes.Index(data, []byte(entry.Checksum))
	if idx < 0 {
		t.Fatal("checksum not found in file")
	}
	if data[idx] == '0' {
		data[idx] = '1'
	} else {
		data[idx] = '0'
	}
	if err := os.WriteFile(path, data, 0o755); err != nil {
		t.Fatal(err)
	}

	tampered := openTestArchive(t, path)
	if err := tampered.VerifySignature(testKey); !errors.Is(err, ErrIntegrity) {
		t.Fatalf("expected ErrIntegrity for tampered manifest, got %v", err)
	}
}

func TestWrite_Reproducible(t *testing.T) {
	payloads := testPayloads()
	stamp := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	pathA := writeTestArchive(t, payloads, WriteOptions{CreatedAt: stamp})
	pathB := writeTestArchive(t, payloads, WriteOptions{CreatedAt: stamp})

	a, _ := os.ReadFile(pathA)
	b, _ := os.ReadFile(pathB)
	if !bytes.Equal(a, b) {
		t.Error("archives from identical inputs and timestamp differ")
	}

	// With different timestamps the entry tables and signatures still match.
	pathC := writeTestArchive(t, payloads, WriteOptions{CreatedAt: stamp.Add(time.Hour)})
	rA := openTestArchive(t, pathA)
	rC := openTestArchive(t, pathC)
	if !bytes.Equal(rA.Manifest().SigningPayload(), rC.Manifest().SigningPayload()) {
		t.Error("entry tables differ across rebuilds")
	}
	if rA.Manifest().Signature != rC.Manifest().Signature {
		t.Error("signatures differ across rebuilds")
	}
}

func TestWrite_NoPartialFileOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing", "app.rpack")

	err := Write(testPayloads(), path, WriteOptions{Key: testKey})
	if err == nil {
		t.Fatal("expected write failure for missing directory")
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("partial output left behind")
	}
	if _, statErr := os.Stat(path + ".tmp"); !os.IsNotExist(statErr) {
		t.Error("temp file left behind")
	}
}

func TestWrite_Validation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.rpack")
	if err := Write(nil, path, WriteOptions{Key: testKey}); err == nil {
		t.Error("empty payload map should fail")
	}
	if err := Write(testPayloads(), path, WriteOptions{}); err == nil {
		t.Error("missing key should fail")
	}
}

func TestWrite_Executable(t *testing.T) {
	path := writeTestArchive(t, testPayloads(), WriteOptions{})
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode()&0o111 == 0 {
		t.Error("archive should be executable")
	}
}

func TestManifest_ExactLookupOnly(t *testing.T) {
	path := writeTestArchive(t, testPayloads(), WriteOptions{})
	r := openTestArchive(t, path)

	if _, ok := r.Manifest().Lookup("x86_64-unknown-linux-musl"); ok {
		t.Error("near-miss ABI should not match")
	}
	if _, ok := r.Manifest().Lookup("aarch64-unknown-linux-gnu"); ok {
		t.Error("different arch should not match")
	}
}
