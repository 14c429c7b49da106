// Package runtime provides the execution-time account model shared by
// the arcade program and its collaborator engines.
//
// The surrounding ledger runtime loads accounts, verifies signatures,
// and grants exclusive writable access for the duration of one
// invocation. Inside the invocation, accounts are plain owned byte
// buffers: engines read a record out of Data, mutate it, and write it
// back through the codec. Nothing here aliases memory it does not own.
package runtime

import (
	"errors"

	"github.com/fortiblox/X1-Arcade/internal/types"
)

// Account access errors.
var (
	// ErrMissingSignature is returned when a required signer did not sign.
	ErrMissingSignature = errors.New("missing required signature")

	// ErrNotWritable is returned when a mutation targets a read-only account.
	ErrNotWritable = errors.New("account is not writable")

	// ErrNotEnoughAccounts is returned when an instruction's account
	// list is shorter than the opcode requires.
	ErrNotEnoughAccounts = errors.New("not enough account keys")

	// ErrInsufficientFunds is returned when a balance cannot cover a debit.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// AccountMeta describes one account of an instruction's ordered
// account list.
type AccountMeta struct {
	Pubkey     types.Pubkey
	IsSigner   bool
	IsWritable bool
}

// AccountInfo holds one account's state during an invocation.
type AccountInfo struct {
	Key        types.Pubkey
	Owner      types.Pubkey
	Lamports   uint64
	Data       []byte
	IsSigner   bool
	IsWritable bool
}

// Clone returns a deep copy of the account.
func (a *AccountInfo) Clone() *AccountInfo {
	if a == nil {
		return nil
	}
	dataCopy := make([]byte, len(a.Data))
	copy(dataCopy, a.Data)
	cp := *a
	cp.Data = dataCopy
	return &cp
}

// IsInitialized reports whether the account holds a balance. The
// create-if-missing paths treat a zero balance as "does not exist yet"
// and any funded account as already initialized.
func (a *AccountInfo) IsInitialized() bool {
	return a.Lamports > 0
}

// Debit removes lamports from the account.
func (a *AccountInfo) Debit(lamports uint64) error {
	if a.Lamports < lamports {
		return ErrInsufficientFunds
	}
	a.Lamports -= lamports
	return nil
}

// Credit adds lamports to the account.
func (a *AccountInfo) Credit(lamports uint64) {
	a.Lamports += lamports
}

// Transfer moves lamports between two accounts.
func Transfer(from, to *AccountInfo, lamports uint64) error {
	if err := from.Debit(lamports); err != nil {
		return err
	}
	to.Credit(lamports)
	return nil
}

// Accounts wraps an instruction's ordered account list with bounds
// checking.
type Accounts []*AccountInfo

// Get returns the account at index, or ErrNotEnoughAccounts.
func (a Accounts) Get(index int) (*AccountInfo, error) {
	if index < 0 || index >= len(a) {
		return nil, ErrNotEnoughAccounts
	}
	return a[index], nil
}

// Optional returns the account at index, or nil if the list is shorter.
// Opcodes with trailing optional accounts use this accessor.
func (a Accounts) Optional(index int) *AccountInfo {
	if index < 0 || index >= len(a) {
		return nil
	}
	return a[index]
}
