package runtime

import (
	"fmt"
	"log"

	"github.com/fortiblox/X1-Arcade/internal/types"
	"github.com/fortiblox/X1-Arcade/pkg/pda"
)

// SecondsPerDay partitions wall-clock time into contest days.
const SecondsPerDay = 24 * 60 * 60

// Env provides the ambient inputs of one invocation: the ledger clock
// and the program log sink. Implementations must be pure observers;
// the core never suspends on them.
type Env interface {
	// Now returns the current unix timestamp in seconds.
	Now() int64

	// Log records a program log message.
	Log(format string, args ...any)
}

// CurrentDay converts a unix timestamp to the calendar day index used
// for daily contest partitioning.
func CurrentDay(unix int64) uint32 {
	return uint32(unix / SecondsPerDay)
}

// SigningCapability is the program's authority over one of its derived
// addresses. It is constructed once from a fixed seed tuple and
// injected wherever the program must sign for itself; no other value
// conveys mint or escrow privileges.
type SigningCapability struct {
	// Program is the deriving program identity.
	Program types.Pubkey

	// Address is the derived signer address.
	Address types.Pubkey

	// Bump is the disambiguation nonce found during derivation.
	Bump uint8
}

// DeriveCapability computes the signing capability for a seed tuple
// under a program identity.
func DeriveCapability(programID types.Pubkey, seeds ...[]byte) (SigningCapability, error) {
	addr, bump, err := pda.FindProgramAddress(seeds, programID)
	if err != nil {
		return SigningCapability{}, fmt.Errorf("derive capability: %w", err)
	}
	return SigningCapability{Program: programID, Address: addr, Bump: bump}, nil
}

// Covers reports whether the capability authorizes signing for addr.
func (c SigningCapability) Covers(addr types.Pubkey) bool {
	return c.Address == addr
}

// StdEnv is an Env backed by a fixed clock value and the standard
// logger. The executor constructs one per invocation.
type StdEnv struct {
	Unix   int64
	Prefix string
}

// Now returns the configured timestamp.
func (e StdEnv) Now() int64 { return e.Unix }

// Log writes to the standard logger.
func (e StdEnv) Log(format string, args ...any) {
	log.Printf(e.Prefix+format, args...)
}

// NopEnv is an Env that discards logs; tests use it with a fixed clock.
type NopEnv struct {
	Unix int64
}

// Now returns the configured timestamp.
func (e NopEnv) Now() int64 { return e.Unix }

// Log discards the message.
func (e NopEnv) Log(string, ...any) {}
