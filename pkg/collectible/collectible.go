// Package collectible models the external collectible-asset (core)
// program at its interface boundary.
//
// A unique asset lives in its own account owned by the core program.
// The record tracks the current owner, the collection the asset
// belongs to, and a content fingerprint. The marketplace engine only
// needs custody transfer: owner-signed when listing, capability-signed
// when the program escrow releases the asset to a buyer.
package collectible

import (
	"encoding/binary"
	"errors"

	"golang.org/x/crypto/sha3"

	"github.com/fortiblox/X1-Arcade/internal/types"
	"github.com/fortiblox/X1-Arcade/pkg/runtime"
)

// AssetSize is the serialized asset record size.
const AssetSize = 3*types.PubkeySize + 4

// Engine errors.
var (
	ErrNotAsset           = errors.New("account does not hold asset state")
	ErrWrongCollection    = errors.New("asset does not belong to collection")
	ErrUnauthorized       = errors.New("authority does not own the asset")
	ErrAssetUninitialized = errors.New("asset account not initialized")
)

// Asset is a unique collectible record.
type Asset struct {
	Owner       types.Pubkey
	Collection  types.Pubkey
	Fingerprint types.Hash
	Index       uint32
}

// Fingerprint computes the content fingerprint of an asset payload.
func Fingerprint(content []byte) types.Hash {
	return types.Hash(sha3.Sum256(content))
}

// Serialize encodes the asset record.
func (a *Asset) Serialize() []byte {
	buf := make([]byte, AssetSize)
	copy(buf, a.Owner[:])
	copy(buf[types.PubkeySize:], a.Collection[:])
	copy(buf[2*types.PubkeySize:], a.Fingerprint[:])
	binary.LittleEndian.PutUint32(buf[3*types.PubkeySize:], a.Index)
	return buf
}

// DecodeAsset decodes an asset record from account data.
func DecodeAsset(data []byte) (*Asset, error) {
	if len(data) < AssetSize {
		return nil, ErrNotAsset
	}
	a := &Asset{}
	copy(a.Owner[:], data)
	copy(a.Collection[:], data[types.PubkeySize:])
	copy(a.Fingerprint[:], data[2*types.PubkeySize:])
	a.Index = binary.LittleEndian.Uint32(data[3*types.PubkeySize:])
	return a, nil
}

// OwnerOf returns the current owner of an initialized asset.
func OwnerOf(assetAcct *runtime.AccountInfo) (types.Pubkey, error) {
	if !assetAcct.IsInitialized() {
		return types.Pubkey{}, ErrAssetUninitialized
	}
	rec, err := DecodeAsset(assetAcct.Data)
	if err != nil {
		return types.Pubkey{}, err
	}
	return rec.Owner, nil
}

// Transfer moves custody of an asset to newOwner. The current owner
// authorizes by signature, or by a program signing capability when the
// asset is held in program escrow.
func Transfer(assetAcct, collection, authority *runtime.AccountInfo, capability *runtime.SigningCapability, newOwner types.Pubkey) error {
	if !assetAcct.IsInitialized() {
		return ErrAssetUninitialized
	}
	rec, err := DecodeAsset(assetAcct.Data)
	if err != nil {
		return err
	}
	if rec.Collection != collection.Key {
		return ErrWrongCollection
	}
	if rec.Owner != authority.Key {
		return ErrUnauthorized
	}
	if !authority.IsSigner && (capability == nil || !capability.Covers(authority.Key)) {
		return ErrUnauthorized
	}

	rec.Owner = newOwner
	assetAcct.Data = rec.Serialize()
	return nil
}
