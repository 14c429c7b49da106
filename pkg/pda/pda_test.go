package pda

import (
	"bytes"
	"testing"

	"github.com/fortiblox/X1-Arcade/internal/types"
)

func TestCreateProgramAddressDeterministic(t *testing.T) {
	program := types.ArcadeProgramAddr
	seeds := [][]byte{[]byte("Leaderboard"), {3}, {0x10, 0x4e, 0x00, 0x00}}

	a, err := CreateProgramAddress(seeds, program)
	if err != nil {
		// On-curve results are valid outcomes for arbitrary seeds;
		// the deterministic path is exercised via FindProgramAddress.
		if err != ErrAddressOnCurve {
			t.Fatalf("CreateProgramAddress failed: %v", err)
		}
		return
	}

	b, err := CreateProgramAddress(seeds, program)
	if err != nil {
		t.Fatalf("second derivation failed: %v", err)
	}
	if a != b {
		t.Errorf("derivation not deterministic: %v != %v", a, b)
	}
}

func TestCreateProgramAddressSeedLimits(t *testing.T) {
	program := types.ArcadeProgramAddr

	tooLong := bytes.Repeat([]byte{0xAA}, MaxSeedLen+1)
	if _, err := CreateProgramAddress([][]byte{tooLong}, program); err != ErrMaxSeedLengthExceeded {
		t.Errorf("long seed: got %v, want ErrMaxSeedLengthExceeded", err)
	}

	many := make([][]byte, MaxSeeds+1)
	for i := range many {
		many[i] = []byte{byte(i)}
	}
	if _, err := CreateProgramAddress(many, program); err != ErrMaxSeedsExceeded {
		t.Errorf("too many seeds: got %v, want ErrMaxSeedsExceeded", err)
	}
}

func TestFindProgramAddress(t *testing.T) {
	program := types.ArcadeProgramAddr
	user := types.MustPubkeyFromBase58("FxVpjJ5AGY6cfCwZQP5v8QBfS4J2NPa62HbGh1Fu2LpD")

	addr, bump, err := FindProgramAddress([][]byte{user[:], []byte("User")}, program)
	if err != nil {
		t.Fatalf("FindProgramAddress failed: %v", err)
	}
	if addr.IsZero() {
		t.Fatal("derived address is zero")
	}

	// Re-deriving with the returned bump must reproduce the address.
	check, err := CreateProgramAddress([][]byte{user[:], []byte("User"), {bump}}, program)
	if err != nil {
		t.Fatalf("re-derivation with bump %d failed: %v", bump, err)
	}
	if check != addr {
		t.Errorf("bump re-derivation mismatch: %v != %v", check, addr)
	}

	// The derived address must be off-curve.
	if isOnCurve(addr[:]) {
		t.Error("derived address lies on the ed25519 curve")
	}

	// Stability across calls.
	addr2, bump2, err := FindProgramAddress([][]byte{user[:], []byte("User")}, program)
	if err != nil {
		t.Fatalf("second FindProgramAddress failed: %v", err)
	}
	if addr2 != addr || bump2 != bump {
		t.Errorf("derivation unstable: (%v,%d) != (%v,%d)", addr2, bump2, addr, bump)
	}
}

func TestFindProgramAddressDistinctSeeds(t *testing.T) {
	program := types.ArcadeProgramAddr

	a, _, err := FindProgramAddress([][]byte{[]byte("stats")}, program)
	if err != nil {
		t.Fatalf("derive a: %v", err)
	}
	b, _, err := FindProgramAddress([][]byte{[]byte("state")}, program)
	if err != nil {
		t.Fatalf("derive b: %v", err)
	}
	if a == b {
		t.Error("different seeds derived the same address")
	}
}

func TestAssociatedTokenAddress(t *testing.T) {
	wallet := types.MustPubkeyFromBase58("FxVpjJ5AGY6cfCwZQP5v8QBfS4J2NPa62HbGh1Fu2LpD")

	ata, err := AssociatedTokenAddress(wallet, types.TokenProgramAddr, types.RewardMintAddr)
	if err != nil {
		t.Fatalf("AssociatedTokenAddress failed: %v", err)
	}

	// The ATA depends on the mint: a different mint gives a different address.
	other, err := AssociatedTokenAddress(wallet, types.TokenProgramAddr, types.WhitelistMintAddr)
	if err != nil {
		t.Fatalf("AssociatedTokenAddress failed: %v", err)
	}
	if ata == other {
		t.Error("ATA does not depend on mint")
	}
}

func TestIsOnCurveRejectsHighY(t *testing.T) {
	// A y-coordinate >= p is never a valid point.
	point := bytes.Repeat([]byte{0xFF}, 32)
	point[31] = 0x7F
	if isOnCurve(point) {
		t.Error("y >= p reported as on-curve")
	}
}
