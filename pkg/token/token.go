// Package token implements the fungible token collaborator at its
// interface boundary.
//
// The engine operates on caller-supplied accounts whose data holds
// mint or token-account records owned by the token program. Privileged
// operations (minting, escrow transfers) are authorized by a program
// signing capability rather than a human signature; everything else
// requires the owner to have signed the invocation.
package token

import (
	"encoding/binary"
	"errors"

	"github.com/fortiblox/X1-Arcade/internal/types"
	"github.com/fortiblox/X1-Arcade/pkg/pda"
	"github.com/fortiblox/X1-Arcade/pkg/runtime"
)

// Serialized record sizes.
const (
	MintSize    = 1 + 8 + types.PubkeySize  // decimals + supply + authority
	AccountSize = 2*types.PubkeySize + 8    // mint + owner + amount
)

// Engine errors.
var (
	ErrNotTokenAccount   = errors.New("account does not hold token state")
	ErrNotMint           = errors.New("account does not hold mint state")
	ErrUninitialized     = errors.New("token account not initialized")
	ErrMintMismatch      = errors.New("token account mint mismatch")
	ErrUnauthorized      = errors.New("authority cannot sign for this operation")
	ErrInsufficientFunds = errors.New("insufficient token balance")
	ErrDecimalsMismatch  = errors.New("mint decimals mismatch")
	ErrWrongAssociated   = errors.New("not the associated token account for owner and mint")
)

// Mint is the token mint record.
type Mint struct {
	Decimals  uint8
	Supply    uint64
	Authority types.Pubkey
}

// Serialize encodes the mint record.
func (m *Mint) Serialize() []byte {
	buf := make([]byte, MintSize)
	buf[0] = m.Decimals
	binary.LittleEndian.PutUint64(buf[1:], m.Supply)
	copy(buf[9:], m.Authority[:])
	return buf
}

// DecodeMint decodes a mint record from account data.
func DecodeMint(data []byte) (*Mint, error) {
	if len(data) < MintSize {
		return nil, ErrNotMint
	}
	m := &Mint{
		Decimals: data[0],
		Supply:   binary.LittleEndian.Uint64(data[1:]),
	}
	copy(m.Authority[:], data[9:])
	return m, nil
}

// Account is the token holding record.
type Account struct {
	Mint   types.Pubkey
	Owner  types.Pubkey
	Amount uint64
}

// Serialize encodes the token account record.
func (a *Account) Serialize() []byte {
	buf := make([]byte, AccountSize)
	copy(buf, a.Mint[:])
	copy(buf[types.PubkeySize:], a.Owner[:])
	binary.LittleEndian.PutUint64(buf[2*types.PubkeySize:], a.Amount)
	return buf
}

// DecodeAccount decodes a token account record from account data.
func DecodeAccount(data []byte) (*Account, error) {
	if len(data) < AccountSize {
		return nil, ErrNotTokenAccount
	}
	a := &Account{}
	copy(a.Mint[:], data)
	copy(a.Owner[:], data[types.PubkeySize:])
	a.Amount = binary.LittleEndian.Uint64(data[2*types.PubkeySize:])
	return a, nil
}

// Balance returns the amount held by an initialized token account.
func Balance(acct *runtime.AccountInfo) (uint64, error) {
	if !acct.IsInitialized() {
		return 0, ErrUninitialized
	}
	rec, err := DecodeAccount(acct.Data)
	if err != nil {
		return 0, err
	}
	return rec.Amount, nil
}

// CreateMint initializes a mint account with the given authority and
// decimals, funding its rent from the funder. An already-funded mint
// account is left untouched so retried initializations are no-ops.
func CreateMint(funder, mintAcct *runtime.AccountInfo, authority types.Pubkey, decimals uint8) error {
	if mintAcct.IsInitialized() {
		return nil
	}
	if err := funder.Debit(runtime.RentMinimum(MintSize)); err != nil {
		return err
	}
	mintAcct.Credit(runtime.RentMinimum(MintSize))
	mintAcct.Owner = types.TokenProgramAddr
	mintAcct.Data = (&Mint{Decimals: decimals, Authority: authority}).Serialize()
	return nil
}

// CreateAssociatedAccount initializes the associated token account for
// wallet and mint, paying its rent from the funder. The call validates
// the derived address and is a no-op when the account is already
// funded.
func CreateAssociatedAccount(funder, wallet, mintAcct, newAcct *runtime.AccountInfo) error {
	expected, err := pda.AssociatedTokenAddress(wallet.Key, types.TokenProgramAddr, mintAcct.Key)
	if err != nil {
		return err
	}
	if newAcct.Key != expected {
		return ErrWrongAssociated
	}
	if newAcct.IsInitialized() {
		return nil
	}
	if err := funder.Debit(runtime.RentMinimum(AccountSize)); err != nil {
		return err
	}
	newAcct.Credit(runtime.RentMinimum(AccountSize))
	newAcct.Owner = types.TokenProgramAddr
	newAcct.Data = (&Account{Mint: mintAcct.Key, Owner: wallet.Key}).Serialize()
	return nil
}

// CheckAccount asserts that tokenAcct is the associated token account
// of wallet for the given mint.
func CheckAccount(wallet, mintAcct, tokenAcct *runtime.AccountInfo) error {
	expected, err := pda.AssociatedTokenAddress(wallet.Key, types.TokenProgramAddr, mintAcct.Key)
	if err != nil {
		return err
	}
	if tokenAcct.Key != expected {
		return ErrWrongAssociated
	}
	return nil
}

// MintTo issues new units to a destination token account. Only the
// program signing capability covering the mint authority can mint;
// the stated decimals must match the mint.
func MintTo(mintAcct, dest *runtime.AccountInfo, capability runtime.SigningCapability, amount uint64, decimals uint8) error {
	mint, err := DecodeMint(mintAcct.Data)
	if err != nil {
		return err
	}
	if mint.Decimals != decimals {
		return ErrDecimalsMismatch
	}
	if !capability.Covers(mint.Authority) {
		return ErrUnauthorized
	}
	rec, err := DecodeAccount(dest.Data)
	if err != nil {
		return err
	}
	if rec.Mint != mintAcct.Key {
		return ErrMintMismatch
	}

	rec.Amount += amount
	mint.Supply += amount
	dest.Data = rec.Serialize()
	mintAcct.Data = mint.Serialize()
	return nil
}

// Burn destroys units held by a token account. The holding owner must
// have signed the invocation.
func Burn(acct, mintAcct, owner *runtime.AccountInfo, amount uint64) error {
	if !owner.IsSigner {
		return runtime.ErrMissingSignature
	}
	rec, err := DecodeAccount(acct.Data)
	if err != nil {
		return err
	}
	if rec.Owner != owner.Key {
		return ErrUnauthorized
	}
	if rec.Mint != mintAcct.Key {
		return ErrMintMismatch
	}
	if rec.Amount < amount {
		return ErrInsufficientFunds
	}
	mint, err := DecodeMint(mintAcct.Data)
	if err != nil {
		return err
	}

	rec.Amount -= amount
	if mint.Supply >= amount {
		mint.Supply -= amount
	} else {
		mint.Supply = 0
	}
	acct.Data = rec.Serialize()
	mintAcct.Data = mint.Serialize()
	return nil
}

// Transfer moves units between two token accounts of the same mint.
// The source owner authorizes either by signature or, for program
// escrow accounts, through a signing capability covering the owner.
func Transfer(src, dst, authority *runtime.AccountInfo, capability *runtime.SigningCapability, amount uint64) error {
	srcRec, err := DecodeAccount(src.Data)
	if err != nil {
		return err
	}
	dstRec, err := DecodeAccount(dst.Data)
	if err != nil {
		return err
	}
	if srcRec.Mint != dstRec.Mint {
		return ErrMintMismatch
	}
	if srcRec.Owner != authority.Key {
		return ErrUnauthorized
	}
	if !authority.IsSigner && (capability == nil || !capability.Covers(authority.Key)) {
		return ErrUnauthorized
	}
	if srcRec.Amount < amount {
		return ErrInsufficientFunds
	}

	srcRec.Amount -= amount
	dstRec.Amount += amount
	src.Data = srcRec.Serialize()
	dst.Data = dstRec.Serialize()
	return nil
}
