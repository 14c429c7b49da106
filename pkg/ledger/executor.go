package ledger

import (
	"fmt"

	"github.com/fortiblox/X1-Arcade/internal/types"
	"github.com/fortiblox/X1-Arcade/pkg/program"
	"github.com/fortiblox/X1-Arcade/pkg/runtime"
)

// Invocation is one signed instruction submission: the transaction
// signature, the ordered account list, and the instruction payload.
// Signature verification happens upstream; by the time an invocation
// reaches the executor its signer flags are trusted.
type Invocation struct {
	Signature types.Signature
	Accounts  []runtime.AccountMeta
	Data      []byte
}

// Executor applies invocations to the account store. The processor
// runs against copies of the stored accounts, so a failed invocation
// leaves no partial writes; a successful one commits every writable
// account. With a journal attached, resubmitting an applied signature
// returns the recorded outcome instead of running twice.
type Executor struct {
	db      DB
	journal *Journal
	proc    *program.Processor
}

// NewExecutor creates an executor. The journal may be nil, in which
// case resubmission detection is disabled.
func NewExecutor(db DB, journal *Journal, proc *program.Processor) *Executor {
	return &Executor{db: db, journal: journal, proc: proc}
}

// Execute applies one invocation. The returned result carries the
// program outcome; a non-nil error means the store or journal itself
// failed and nothing was decided.
func (e *Executor) Execute(env runtime.Env, inv *Invocation) (*InvocationResult, error) {
	if e.journal != nil {
		result, err := e.journal.Lookup(inv.Signature)
		if err == nil {
			env.Log("invocation %s already applied at height %d", inv.Signature, result.Height)
			return result, nil
		}
		if err != ErrNotRecorded {
			return nil, fmt.Errorf("journal lookup: %w", err)
		}
	}

	accounts, err := e.loadAccounts(inv.Accounts)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}

	if perr := e.proc.Process(env, accounts, inv.Data); perr != nil {
		result := &InvocationResult{Height: e.db.GetHeight(), Err: perr.Error()}
		if err := e.record(inv.Signature, result); err != nil {
			return nil, err
		}
		return result, nil
	}

	modified, err := e.commitAccounts(inv.Accounts, accounts)
	if err != nil {
		return nil, fmt.Errorf("commit accounts: %w", err)
	}

	height := e.db.GetHeight() + 1
	if err := e.db.SetHeight(height); err != nil {
		return nil, err
	}

	deltaHash, err := ComputeDeltaHash(e.db, modified)
	if err != nil {
		return nil, fmt.Errorf("delta hash: %w", err)
	}
	if err := e.db.Commit(); err != nil {
		return nil, err
	}

	result := &InvocationResult{Height: height, DeltaHash: deltaHash}
	if err := e.record(inv.Signature, result); err != nil {
		return nil, err
	}
	return result, nil
}

// loadAccounts materializes the invocation's account list from the
// store. A missing account loads as empty; duplicate addresses share
// one instance so the processor sees consistent state.
func (e *Executor) loadAccounts(metas []runtime.AccountMeta) (runtime.Accounts, error) {
	accounts := make(runtime.Accounts, 0, len(metas))
	seen := make(map[types.Pubkey]*runtime.AccountInfo, len(metas))

	for _, meta := range metas {
		if info, ok := seen[meta.Pubkey]; ok {
			info.IsSigner = info.IsSigner || meta.IsSigner
			info.IsWritable = info.IsWritable || meta.IsWritable
			accounts = append(accounts, info)
			continue
		}

		stored, err := e.db.GetAccount(meta.Pubkey)
		if err == ErrAccountNotFound {
			stored = &Account{}
		} else if err != nil {
			return nil, err
		}

		info := &runtime.AccountInfo{
			Key:        meta.Pubkey,
			Owner:      stored.Owner,
			Lamports:   stored.Lamports,
			Data:       stored.Data,
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
		}
		seen[meta.Pubkey] = info
		accounts = append(accounts, info)
	}
	return accounts, nil
}

// commitAccounts writes every writable account back to the store and
// returns the modified addresses.
func (e *Executor) commitAccounts(metas []runtime.AccountMeta, accounts runtime.Accounts) ([]types.Pubkey, error) {
	written := make(map[types.Pubkey]bool, len(metas))
	var modified []types.Pubkey

	for i, meta := range metas {
		if !meta.IsWritable || written[meta.Pubkey] {
			continue
		}
		info := accounts[i]
		err := e.db.SetAccount(meta.Pubkey, &Account{
			Lamports: info.Lamports,
			Owner:    info.Owner,
			Data:     info.Data,
		})
		if err != nil {
			return nil, err
		}
		written[meta.Pubkey] = true
		modified = append(modified, meta.Pubkey)
	}
	return modified, nil
}

func (e *Executor) record(sig types.Signature, result *InvocationResult) error {
	if e.journal == nil {
		return nil
	}
	if err := e.journal.Record(sig, result); err != nil {
		return fmt.Errorf("journal record: %w", err)
	}
	return nil
}
