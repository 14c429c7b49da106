package collectible

import (
	"testing"

	"github.com/fortiblox/X1-Arcade/internal/types"
	"github.com/fortiblox/X1-Arcade/pkg/runtime"
)

var (
	assetAddr      = types.MustPubkeyFromBase58("So11111111111111111111111111111111111111112")
	collectionAddr = types.MustPubkeyFromBase58("HtszJ5ntXnwUFc2anMzp5RgaPxtvTFojL2qb5kcFEytA")
	ownerAddr      = types.MustPubkeyFromBase58("FxVpjJ5AGY6cfCwZQP5v8QBfS4J2NPa62HbGh1Fu2LpD")
)

func newAsset(owner types.Pubkey) *runtime.AccountInfo {
	rec := &Asset{
		Owner:       owner,
		Collection:  collectionAddr,
		Fingerprint: Fingerprint([]byte("pixel art #7")),
		Index:       7,
	}
	return &runtime.AccountInfo{
		Key:      assetAddr,
		Owner:    types.CoreProgramAddr,
		Lamports: runtime.RentMinimum(AssetSize),
		Data:     rec.Serialize(),
	}
}

func TestAssetRoundTrip(t *testing.T) {
	acct := newAsset(ownerAddr)
	rec, err := DecodeAsset(acct.Data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if rec.Owner != ownerAddr || rec.Collection != collectionAddr || rec.Index != 7 {
		t.Errorf("round trip mismatch: %+v", rec)
	}
	if rec.Fingerprint != Fingerprint([]byte("pixel art #7")) {
		t.Error("fingerprint mismatch")
	}
}

func TestFingerprintDistinguishesContent(t *testing.T) {
	if Fingerprint([]byte("a")) == Fingerprint([]byte("b")) {
		t.Error("distinct content produced identical fingerprints")
	}
}

func TestTransferBySigner(t *testing.T) {
	acct := newAsset(ownerAddr)
	collection := &runtime.AccountInfo{Key: collectionAddr}
	authority := &runtime.AccountInfo{Key: ownerAddr, IsSigner: true}
	newOwner := types.ArcadeProgramAddr

	if err := Transfer(acct, collection, authority, nil, newOwner); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}
	got, err := OwnerOf(acct)
	if err != nil {
		t.Fatalf("OwnerOf failed: %v", err)
	}
	if got != newOwner {
		t.Errorf("owner after transfer: %v, want %v", got, newOwner)
	}
}

func TestTransferByCapability(t *testing.T) {
	escrow, err := runtime.DeriveCapability(types.ArcadeProgramAddr, []byte("escrow"))
	if err != nil {
		t.Fatalf("derive capability: %v", err)
	}
	acct := newAsset(escrow.Address)
	collection := &runtime.AccountInfo{Key: collectionAddr}
	authority := &runtime.AccountInfo{Key: escrow.Address} // unsigned escrow

	if err := Transfer(acct, collection, authority, nil, ownerAddr); err != ErrUnauthorized {
		t.Errorf("no capability: got %v, want ErrUnauthorized", err)
	}
	if err := Transfer(acct, collection, authority, &escrow, ownerAddr); err != nil {
		t.Fatalf("capability transfer failed: %v", err)
	}
	if got, _ := OwnerOf(acct); got != ownerAddr {
		t.Errorf("owner after transfer: %v, want %v", got, ownerAddr)
	}
}

func TestTransferRejections(t *testing.T) {
	acct := newAsset(ownerAddr)
	collection := &runtime.AccountInfo{Key: collectionAddr}

	// Wrong collection.
	wrongCollection := &runtime.AccountInfo{Key: ownerAddr}
	signer := &runtime.AccountInfo{Key: ownerAddr, IsSigner: true}
	if err := Transfer(acct, wrongCollection, signer, nil, ownerAddr); err != ErrWrongCollection {
		t.Errorf("wrong collection: got %v, want ErrWrongCollection", err)
	}

	// Non-owner signer.
	thief := &runtime.AccountInfo{Key: collectionAddr, IsSigner: true}
	if err := Transfer(acct, collection, thief, nil, collectionAddr); err != ErrUnauthorized {
		t.Errorf("non-owner: got %v, want ErrUnauthorized", err)
	}

	// Uninitialized asset.
	empty := &runtime.AccountInfo{Key: assetAddr}
	if err := Transfer(empty, collection, signer, nil, ownerAddr); err != ErrAssetUninitialized {
		t.Errorf("uninitialized: got %v, want ErrAssetUninitialized", err)
	}
}
