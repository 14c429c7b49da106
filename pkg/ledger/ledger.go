// Package ledger implements the account store backing the arcade
// program and the executor that applies invocations to it.
//
// The store keeps only current account state, keyed by address. The
// executor is the external collaborator the program core assumes: it
// loads the accounts an invocation names, grants the processor
// exclusive access to copies, and commits either every mutation or
// none. A bbolt-backed journal records applied invocations so
// resubmissions are recognized instead of re-applied.
package ledger

import (
	"encoding/binary"
	"errors"

	"github.com/fortiblox/X1-Arcade/internal/types"
)

var (
	// ErrAccountNotFound is returned when an account doesn't exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrClosed is returned when operating on a closed database.
	ErrClosed = errors.New("database closed")

	// ErrInvalidData is returned when stored account bytes are malformed.
	ErrInvalidData = errors.New("invalid account data")
)

// maxAccountDataSize bounds a single account's record bytes.
const maxAccountDataSize = 10 * 1024 * 1024

// Account is one stored account: its balance, owning program, and
// record bytes.
type Account struct {
	Lamports uint64
	Owner    types.Pubkey
	Data     []byte
}

// Clone creates a deep copy of the account.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	dataCopy := make([]byte, len(a.Data))
	copy(dataCopy, a.Data)
	return &Account{
		Lamports: a.Lamports,
		Owner:    a.Owner,
		Data:     dataCopy,
	}
}

// IsZero reports whether the account holds no balance and no data.
// Zero accounts are deleted from storage.
func (a *Account) IsZero() bool {
	return a.Lamports == 0 && len(a.Data) == 0
}

// Size returns the total serialized size of the account.
func (a *Account) Size() int {
	// 8 (lamports) + 8 (data_len) + data + 32 (owner)
	return 8 + 8 + len(a.Data) + 32
}

// Serialize encodes the account for storage.
// Format: lamports (8) + data_len (8) + data + owner (32)
func (a *Account) Serialize() []byte {
	buf := make([]byte, a.Size())
	offset := 0

	binary.LittleEndian.PutUint64(buf[offset:], a.Lamports)
	offset += 8

	binary.LittleEndian.PutUint64(buf[offset:], uint64(len(a.Data)))
	offset += 8

	copy(buf[offset:], a.Data)
	offset += len(a.Data)

	copy(buf[offset:], a.Owner[:])
	return buf
}

// DeserializeAccount decodes an account from storage bytes.
func DeserializeAccount(data []byte) (*Account, error) {
	if len(data) < 48 { // 8 + 8 + 0 + 32
		return nil, ErrInvalidData
	}
	offset := 0

	lamports := binary.LittleEndian.Uint64(data[offset:])
	offset += 8

	dataLen := binary.LittleEndian.Uint64(data[offset:])
	offset += 8
	if dataLen > maxAccountDataSize {
		return nil, ErrInvalidData
	}
	if uint64(len(data)-offset) < dataLen+32 {
		return nil, ErrInvalidData
	}

	accountData := make([]byte, dataLen)
	copy(accountData, data[offset:offset+int(dataLen)])
	offset += int(dataLen)

	var owner types.Pubkey
	copy(owner[:], data[offset:])

	return &Account{
		Lamports: lamports,
		Owner:    owner,
		Data:     accountData,
	}, nil
}

// DB is the account database interface.
// Implementations must be safe for concurrent read access.
type DB interface {
	// GetAccount retrieves an account by address.
	// Returns ErrAccountNotFound if the account doesn't exist.
	GetAccount(pubkey types.Pubkey) (*Account, error)

	// SetAccount stores an account.
	// A zero account (no lamports, no data) is deleted.
	SetAccount(pubkey types.Pubkey, account *Account) error

	// DeleteAccount removes an account.
	// Returns nil if the account doesn't exist.
	DeleteAccount(pubkey types.Pubkey) error

	// HasAccount checks if an account exists.
	HasAccount(pubkey types.Pubkey) (bool, error)

	// GetHeight returns the number of invocations applied.
	GetHeight() uint64

	// SetHeight updates the applied-invocation height.
	SetHeight(height uint64) error

	// AccountsCount returns the total number of accounts.
	AccountsCount() (uint64, error)

	// Commit commits pending changes to disk.
	Commit() error

	// Close closes the database.
	Close() error
}

// MemoryDB is an in-memory implementation of DB for testing.
type MemoryDB struct {
	accounts map[types.Pubkey]*Account
	height   uint64
	closed   bool
}

// NewMemoryDB creates a new in-memory account database.
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		accounts: make(map[types.Pubkey]*Account),
	}
}

// GetAccount retrieves an account.
func (m *MemoryDB) GetAccount(pubkey types.Pubkey) (*Account, error) {
	if m.closed {
		return nil, ErrClosed
	}
	acc, ok := m.accounts[pubkey]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return acc.Clone(), nil
}

// SetAccount stores an account.
func (m *MemoryDB) SetAccount(pubkey types.Pubkey, account *Account) error {
	if m.closed {
		return ErrClosed
	}
	if account.IsZero() {
		delete(m.accounts, pubkey)
		return nil
	}
	m.accounts[pubkey] = account.Clone()
	return nil
}

// DeleteAccount removes an account.
func (m *MemoryDB) DeleteAccount(pubkey types.Pubkey) error {
	if m.closed {
		return ErrClosed
	}
	delete(m.accounts, pubkey)
	return nil
}

// HasAccount checks if an account exists.
func (m *MemoryDB) HasAccount(pubkey types.Pubkey) (bool, error) {
	if m.closed {
		return false, ErrClosed
	}
	_, ok := m.accounts[pubkey]
	return ok, nil
}

// GetHeight returns the applied-invocation height.
func (m *MemoryDB) GetHeight() uint64 {
	return m.height
}

// SetHeight updates the applied-invocation height.
func (m *MemoryDB) SetHeight(height uint64) error {
	if m.closed {
		return ErrClosed
	}
	m.height = height
	return nil
}

// AccountsCount returns the number of accounts.
func (m *MemoryDB) AccountsCount() (uint64, error) {
	if m.closed {
		return 0, ErrClosed
	}
	return uint64(len(m.accounts)), nil
}

// Commit is a no-op for MemoryDB.
func (m *MemoryDB) Commit() error {
	if m.closed {
		return ErrClosed
	}
	return nil
}

// Close closes the database.
func (m *MemoryDB) Close() error {
	m.closed = true
	m.accounts = nil
	return nil
}

// GetAllAccounts returns all accounts (for testing/debugging).
func (m *MemoryDB) GetAllAccounts() map[types.Pubkey]*Account {
	result := make(map[types.Pubkey]*Account, len(m.accounts))
	for k, v := range m.accounts {
		result[k] = v.Clone()
	}
	return result
}
