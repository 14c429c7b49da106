package program

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/fortiblox/X1-Arcade/internal/types"
	"github.com/fortiblox/X1-Arcade/pkg/pda"
	"github.com/fortiblox/X1-Arcade/pkg/runtime"
	"github.com/fortiblox/X1-Arcade/pkg/token"
)

// Fixed derivation seeds for the program's singleton accounts.
const (
	// AuthoritySeed derives the program's signing authority.
	AuthoritySeed uint32 = 6968193

	// StatsSeed derives the global stats singleton.
	StatsSeed uint32 = 10399637
)

// Derivation tags for per-record seed tuples.
var (
	userTag        = []byte("User")
	leaderboardTag = []byte("Leaderboard")
	listingTag     = []byte("Listing")
)

// Account validation errors. Every authentication failure maps to
// ErrInvalidAccountData so callers cannot probe which check tripped.
var ErrInvalidAccountData = errors.New("invalid account data")

// seedBytes encodes a fixed u32 seed in its wire form.
func seedBytes(seed uint32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, seed)
	return buf
}

// gameSeed and daySeed encode the (game, day) seed pair shared by
// entry and leaderboard derivations.
func gameSeed(game uint8) []byte { return []byte{game} }

func daySeed(day uint32) []byte { return seedBytes(day) }

// CheckProgramDataAccount asserts that the caller-supplied account sits
// at the address derived from the seed tuple under programID, and
// returns the disambiguation bump. This check is the sole gate between
// arbitrary caller input and record bytes.
func CheckProgramDataAccount(acct *runtime.AccountInfo, programID types.Pubkey, seeds ...[]byte) (uint8, error) {
	expected, bump, err := pda.FindProgramAddress(seeds, programID)
	if err != nil {
		return 0, fmt.Errorf("derive expected address: %w", err)
	}
	if acct.Key != expected {
		return 0, fmt.Errorf("%w: expected program data account %s, have %s",
			ErrInvalidAccountData, expected, acct.Key)
	}
	return bump, nil
}

// checkFixedAddress asserts an account is a specific well-known address.
func checkFixedAddress(acct *runtime.AccountInfo, want types.Pubkey, name string) error {
	if acct.Key != want {
		return fmt.Errorf("%w: expected %s %s, have %s", ErrInvalidAccountData, name, want, acct.Key)
	}
	return nil
}

func checkSystemProgram(acct *runtime.AccountInfo) error {
	return checkFixedAddress(acct, types.SystemProgramAddr, "system program")
}

func checkTokenProgram(acct *runtime.AccountInfo) error {
	return checkFixedAddress(acct, types.TokenProgramAddr, "token program")
}

func checkAssociatedTokenProgram(acct *runtime.AccountInfo) error {
	return checkFixedAddress(acct, types.AssociatedTokenProgramAddr, "associated token program")
}

func checkCoreProgram(acct *runtime.AccountInfo) error {
	return checkFixedAddress(acct, types.CoreProgramAddr, "core program")
}

// checkTokenAccount asserts that tokenAcct is the associated token
// account for wallet and mint.
func checkTokenAccount(wallet, mintAcct, tokenAcct *runtime.AccountInfo) error {
	if err := token.CheckAccount(wallet, mintAcct, tokenAcct); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAccountData, err)
	}
	return nil
}
