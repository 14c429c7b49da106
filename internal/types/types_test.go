package types

import (
	"errors"
	"testing"
)

func TestPubkeyBase58RoundTrip(t *testing.T) {
	original := Pubkey(ComputeHash([]byte("round trip")))

	parsed, err := PubkeyFromBase58(original.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed != original {
		t.Errorf("round trip mismatch: %s vs %s", parsed, original)
	}
}

func TestPubkeyFromBase58Rejects(t *testing.T) {
	if _, err := PubkeyFromBase58("not!base58"); err == nil {
		t.Error("invalid base58 accepted")
	}
	// Valid base58 of the wrong length.
	if _, err := PubkeyFromBase58("abc"); !errors.Is(err, ErrInvalidPubkey) {
		t.Errorf("short pubkey: got %v, want ErrInvalidPubkey", err)
	}
}

func TestPubkeyFromBytes(t *testing.T) {
	raw := make([]byte, PubkeySize)
	raw[0] = 7

	p, err := PubkeyFromBytes(raw)
	if err != nil {
		t.Fatalf("from bytes: %v", err)
	}
	if p[0] != 7 {
		t.Error("bytes not copied")
	}
	if _, err := PubkeyFromBytes(raw[:31]); !errors.Is(err, ErrInvalidPubkey) {
		t.Errorf("short slice: got %v, want ErrInvalidPubkey", err)
	}
}

func TestPubkeyIsZero(t *testing.T) {
	var zero Pubkey
	if !zero.IsZero() {
		t.Error("zero pubkey not reported as zero")
	}
	if SystemProgramAddr.IsZero() {
		t.Error("system program address reported as zero")
	}
}

func TestPubkeyTextMarshaling(t *testing.T) {
	original := TokenProgramAddr

	text, err := original.MarshalText()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var parsed Pubkey
	if err := parsed.UnmarshalText(text); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if parsed != original {
		t.Errorf("text round trip mismatch: %s vs %s", parsed, original)
	}
}

func TestSignatureBase58RoundTrip(t *testing.T) {
	var original Signature
	h := ComputeHash([]byte("sig"))
	copy(original[:32], h[:])
	copy(original[32:], h[:])

	parsed, err := SignatureFromBase58(original.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed != original {
		t.Error("signature round trip mismatch")
	}
	if _, err := SignatureFromBase58("abc"); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("short signature: got %v, want ErrInvalidSignature", err)
	}
}

func TestComputeHashDeterministic(t *testing.T) {
	a := ComputeHash([]byte("payload"))
	b := ComputeHash([]byte("payload"))
	if a != b {
		t.Error("same payload hashed to different values")
	}
	if a == ComputeHash([]byte("other")) {
		t.Error("different payloads collided")
	}
	if a.IsZero() {
		t.Error("hash is zero")
	}
}

func TestWellKnownAddressesDistinct(t *testing.T) {
	addrs := []Pubkey{
		SystemProgramAddr,
		TokenProgramAddr,
		AssociatedTokenProgramAddr,
		CoreProgramAddr,
		ArcadeProgramAddr,
		RewardMintAddr,
		WhitelistMintAddr,
	}
	seen := make(map[Pubkey]bool, len(addrs))
	for _, a := range addrs {
		if seen[a] {
			t.Errorf("duplicate well-known address %s", a)
		}
		seen[a] = true
	}
}
