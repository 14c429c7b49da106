package program

import (
	"errors"

	"github.com/fortiblox/X1-Arcade/internal/types"
	"github.com/fortiblox/X1-Arcade/pkg/runtime"
)

// State precondition errors.
var (
	// ErrSelfVote is returned when a user votes on their own entry.
	ErrSelfVote = errors.New("creator cannot vote on their own entry")

	// ErrInvalidVote is returned for a vote code other than 1 or 2.
	ErrInvalidVote = errors.New("invalid vote code")

	// ErrNoEntry is returned when voting on a nonexistent entry.
	ErrNoEntry = errors.New("no entry for date and user")

	// ErrSameDayClaim is returned when claiming a prize for a contest
	// day that is still open.
	ErrSameDayClaim = errors.New("cannot claim prize on the same day as the game")

	// ErrAlreadyClaimed is returned when an entry's reward was already paid.
	ErrAlreadyClaimed = errors.New("reward already claimed")

	// ErrEmptyLeaderboard is returned when claiming against a
	// leaderboard with no entrants.
	ErrEmptyLeaderboard = errors.New("no entrants in the leaderboard")

	// ErrNoPrize is returned when the claimer did not place in the
	// prize ranks.
	ErrNoPrize = errors.New("user did not win a prize")
)

// Processor decodes instructions and dispatches them to the matching
// engine. Handlers are stateless functions of the program identity,
// the account list, and the decoded payload.
type Processor struct {
	programID types.Pubkey
}

// NewProcessor creates a processor for a program identity.
func NewProcessor(programID types.Pubkey) *Processor {
	return &Processor{programID: programID}
}

// ProgramID returns the program identity used as derivation namespace.
func (p *Processor) ProgramID() types.Pubkey {
	return p.programID
}

// Process decodes and executes one instruction against the supplied
// account list. Any failure aborts the whole invocation; the caller is
// responsible for discarding partial account mutations.
func (p *Processor) Process(env runtime.Env, accounts runtime.Accounts, data []byte) error {
	ins, err := DecodeInstruction(data)
	if err != nil {
		return err
	}

	env.Log("%s", ins.Op)

	switch ins.Op {
	case OpInit:
		return p.processInit(env, accounts)
	case OpEnter:
		return p.processEnter(env, accounts, ins.Enter)
	case OpVote:
		return p.processVote(env, accounts, ins.Vote)
	case OpClaimPrize:
		return p.processClaimPrize(env, accounts, ins.ClaimPrize)
	case OpListItem:
		return p.processListItem(env, accounts, ins.List)
	case OpPurchaseItem:
		return p.processPurchaseItem(env, accounts, ins.Purchase)
	default:
		return ErrInvalidInstructionData
	}
}

// authority builds the program's signing capability from the validated
// authority account and its bump. Callers must have passed the account
// through CheckProgramDataAccount first.
func (p *Processor) authority(acct *runtime.AccountInfo, bump uint8) runtime.SigningCapability {
	return runtime.SigningCapability{
		Program: p.programID,
		Address: acct.Key,
		Bump:    bump,
	}
}

// requireSigner asserts the invocation was signed by the account.
func requireSigner(acct *runtime.AccountInfo) error {
	if !acct.IsSigner {
		return runtime.ErrMissingSignature
	}
	return nil
}
