// Package pda implements program derived address (PDA) computation.
//
// A PDA is a deterministic account address computed from a program
// identity and a tuple of seed byte-strings. The derivation is the
// sha256 of the seeds, the program id, and a fixed marker string; a
// result that lands on the ed25519 curve is rejected so that no
// private key can ever exist for a derived address. FindProgramAddress
// searches a one-byte bump seed from 255 downward until the result
// falls off the curve.
//
// Everything here is a pure function of its inputs and carries no
// ledger dependency.
package pda

import (
	"crypto/sha256"
	"errors"
	"math/big"

	"github.com/fortiblox/X1-Arcade/internal/types"
)

// Seed limits.
const (
	MaxSeeds   = 16
	MaxSeedLen = 32
)

// PDA marker used in address derivation.
var pdaMarker = []byte("ProgramDerivedAddress")

// Derivation errors.
var (
	ErrMaxSeedLengthExceeded = errors.New("max seed length exceeded")
	ErrMaxSeedsExceeded      = errors.New("max seeds exceeded")
	ErrAddressOnCurve        = errors.New("derived address is on the ed25519 curve")
	ErrNoViableBump          = errors.New("unable to find a viable bump seed")
)

// CreateProgramAddress derives a program address from seeds and a
// program ID. Returns ErrAddressOnCurve if the derived address has an
// associated private key (lies on the ed25519 curve).
func CreateProgramAddress(seeds [][]byte, programID types.Pubkey) (types.Pubkey, error) {
	if len(seeds) > MaxSeeds {
		return types.Pubkey{}, ErrMaxSeedsExceeded
	}
	for _, seed := range seeds {
		if len(seed) > MaxSeedLen {
			return types.Pubkey{}, ErrMaxSeedLengthExceeded
		}
	}

	h := sha256.New()
	for _, seed := range seeds {
		h.Write(seed)
	}
	h.Write(programID[:])
	h.Write(pdaMarker)

	var addr types.Pubkey
	copy(addr[:], h.Sum(nil))

	if isOnCurve(addr[:]) {
		return types.Pubkey{}, ErrAddressOnCurve
	}
	return addr, nil
}

// FindProgramAddress finds a valid PDA by iterating bump seeds from
// 255 to 0, returning the address and the bump that produced it.
func FindProgramAddress(seeds [][]byte, programID types.Pubkey) (types.Pubkey, uint8, error) {
	if len(seeds) > MaxSeeds-1 { // need room for the bump seed
		return types.Pubkey{}, 0, ErrMaxSeedsExceeded
	}

	seedsWithBump := make([][]byte, len(seeds)+1)
	copy(seedsWithBump, seeds)

	for bump := uint8(255); ; bump-- {
		seedsWithBump[len(seeds)] = []byte{bump}

		addr, err := CreateProgramAddress(seedsWithBump, programID)
		if err == nil {
			return addr, bump, nil
		}
		if !errors.Is(err, ErrAddressOnCurve) {
			return types.Pubkey{}, 0, err
		}

		if bump == 0 {
			break
		}
	}
	return types.Pubkey{}, 0, ErrNoViableBump
}

// AssociatedTokenAddress derives the canonical token account address
// for a wallet and mint under the associated token program.
func AssociatedTokenAddress(wallet, tokenProgram, mint types.Pubkey) (types.Pubkey, error) {
	addr, _, err := FindProgramAddress(
		[][]byte{wallet[:], tokenProgram[:], mint[:]},
		types.AssociatedTokenProgramAddr,
	)
	return addr, err
}

// isOnCurve checks if the given bytes represent a point on the ed25519
// curve, i.e. whether a private key could exist for this address.
//
// Ed25519 uses the twisted Edwards curve: -x^2 + y^2 = 1 + d*x^2*y^2
// where d = -121665/121666 (mod p) and p = 2^255 - 19.
//
// A compressed point stores the y-coordinate and the sign of x. To
// verify, compute x^2 from y and check whether it has a square root
// in the field (Euler's criterion).
func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}

	// Field prime p = 2^255 - 19
	p := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(19))

	// Curve parameter d = -121665/121666 (mod p)
	d := new(big.Int).Mul(big.NewInt(-121665), new(big.Int).ModInverse(big.NewInt(121666), p))
	d.Mod(d, p)

	// Extract y-coordinate (little-endian, clear high bit which is sign of x).
	yBytes := make([]byte, 32)
	copy(yBytes, point)
	yBytes[31] &= 0x7F

	y := new(big.Int)
	for i := 31; i >= 0; i-- {
		y.Lsh(y, 8)
		y.Or(y, big.NewInt(int64(yBytes[i])))
	}

	// y must be in [0, p).
	if y.Cmp(p) >= 0 {
		return false
	}

	// x^2 = (y^2 - 1) / (d*y^2 + 1)
	y2 := new(big.Int).Mul(y, y)
	y2.Mod(y2, p)

	num := new(big.Int).Sub(y2, big.NewInt(1))
	num.Mod(num, p)

	den := new(big.Int).Mul(d, y2)
	den.Add(den, big.NewInt(1))
	den.Mod(den, p)

	denInv := new(big.Int).ModInverse(den, p)
	if denInv == nil {
		return false
	}
	x2 := new(big.Int).Mul(num, denInv)
	x2.Mod(x2, p)

	// Euler's criterion: x^2 is a quadratic residue iff
	// x^2^((p-1)/2) = 1 (mod p).
	exp := new(big.Int).Sub(p, big.NewInt(1))
	exp.Rsh(exp, 1)

	legendre := new(big.Int).Exp(x2, exp, p)

	return legendre.Cmp(big.NewInt(1)) == 0 || x2.Sign() == 0
}
