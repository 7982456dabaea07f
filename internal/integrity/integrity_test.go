package integrity

import (
	"strings"
	"testing"
)

func TestChecksum_Deterministic(t *testing.T) {
	data := []byte("the quick brown fox")
	a := Checksum(data)
	b := Checksum(data)
	if a != b {
		t.Fatalf("checksum not deterministic: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
}

func TestVerifyChecksum_Roundtrip(t *testing.T) {
	data := []byte("payload bytes")
	sum := Checksum(data)

	if !VerifyChecksum(data, sum) {
		t.Fatal("checksum of unmodified bytes should verify")
	}
}

func TestVerifyChecksum_DetectsMutation(t *testing.T) {
	data := []byte("payload bytes")
	sum := Checksum(data)

	// Flip one byte of the data.
	for i := range data {
		mutated := append([]byte(nil), data...)
		mutated[i] ^= 0x01
		if VerifyChecksum(mutated, sum) {
			t.Fatalf("mutation at byte %d went undetected", i)
		}
	}

	// Mutate one character of the stored checksum.
	c := sum[0]
	repl := byte('0')
	if c == '0' {
		repl = '1'
	}
	if VerifyChecksum(data, string(repl)+sum[1:]) {
		t.Fatal("mutated checksum should not verify")
	}
}

func TestVerifyChecksum_RejectsMalformed(t *testing.T) {
	data := []byte("x")
	if VerifyChecksum(data, "not-hex") {
		t.Fatal("non-hex checksum should not verify")
	}
	if VerifyChecksum(data, "abcd") {
		t.Fatal("short checksum should not verify")
	}
	if VerifyChecksum(data, "") {
		t.Fatal("empty checksum should not verify")
	}
}

func TestSignVerify(t *testing.T) {
	key := []byte("test-key")
	data := []byte("entry table bytes")

	sig := Sign(data, key)
	if !Verify(data, sig, key) {
		t.Fatal("signature should verify under same key")
	}
	if Verify(data, sig, []byte("other-key")) {
		t.Fatal("signature should not verify under different key")
	}
	if Verify([]byte("tampered"), sig, key) {
		t.Fatal("signature should not verify for different data")
	}
	if Verify(data, strings.Repeat("0", len(sig)), key) {
		t.Fatal("zeroed signature should not verify")
	}
	if Verify(data, "zz", key) {
		t.Fatal("malformed signature should not verify")
	}
}
