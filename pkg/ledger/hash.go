// Package ledger provides state hash computation over stored accounts.
package ledger

import (
	"encoding/binary"
	"sort"

	"github.com/fortiblox/X1-Arcade/internal/types"
	"github.com/zeebo/blake3"
)

// ComputeAccountHash computes the hash of a single account:
// blake3(lamports || data || owner || pubkey).
func ComputeAccountHash(pubkey types.Pubkey, account *Account) types.Hash {
	size := 8 + len(account.Data) + 32 + 32
	buf := make([]byte, size)
	offset := 0

	binary.LittleEndian.PutUint64(buf[offset:], account.Lamports)
	offset += 8

	copy(buf[offset:], account.Data)
	offset += len(account.Data)

	copy(buf[offset:], account.Owner[:])
	offset += 32

	copy(buf[offset:], pubkey[:])

	return blake3.Sum256(buf)
}

// ComputeDeltaHash computes the digest of the accounts touched by one
// invocation: a binary Merkle root over the account hashes in sorted
// address order. A deleted account contributes a zero hash.
func ComputeDeltaHash(db DB, modified []types.Pubkey) (types.Hash, error) {
	if len(modified) == 0 {
		return types.Hash{}, nil
	}

	keys := make([]types.Pubkey, len(modified))
	copy(keys, modified)
	SortPubkeys(keys)

	hashes := make([]types.Hash, 0, len(keys))
	for _, pubkey := range keys {
		account, err := db.GetAccount(pubkey)
		if err == ErrAccountNotFound {
			hashes = append(hashes, types.Hash{})
			continue
		}
		if err != nil {
			return types.Hash{}, err
		}
		hashes = append(hashes, ComputeAccountHash(pubkey, account))
	}
	return ComputeMerkleRoot(hashes), nil
}

// ComputeStateHash computes the Merkle root over every stored account,
// in sorted address order.
func ComputeStateHash(db DB) (types.Hash, error) {
	var entries []struct {
		pubkey types.Pubkey
		hash   types.Hash
	}

	collect := func(pubkey types.Pubkey, account *Account) error {
		entries = append(entries, struct {
			pubkey types.Pubkey
			hash   types.Hash
		}{pubkey, ComputeAccountHash(pubkey, account)})
		return nil
	}

	switch v := db.(type) {
	case *BadgerDB:
		if err := v.IterateAccounts(collect); err != nil {
			return types.Hash{}, err
		}
	case *MemoryDB:
		for pubkey, account := range v.GetAllAccounts() {
			if err := collect(pubkey, account); err != nil {
				return types.Hash{}, err
			}
		}
	default:
		return types.Hash{}, ErrInvalidData
	}

	sort.Slice(entries, func(i, j int) bool {
		return comparePubkeys(entries[i].pubkey, entries[j].pubkey) < 0
	})

	hashes := make([]types.Hash, len(entries))
	for i, e := range entries {
		hashes[i] = e.hash
	}
	return ComputeMerkleRoot(hashes), nil
}

// ComputeMerkleRoot computes the Merkle root of a list of hashes.
// Uses a binary Merkle tree with blake3:
//   - Leaf: blake3(0x00 || hash)
//   - Node: blake3(0x01 || left || right)
//   - An unpaired node is paired with a zero hash.
func ComputeMerkleRoot(hashes []types.Hash) types.Hash {
	if len(hashes) == 0 {
		return types.Hash{}
	}
	if len(hashes) == 1 {
		return computeLeafHash(hashes[0])
	}

	level := make([]types.Hash, len(hashes))
	for i, h := range hashes {
		level[i] = computeLeafHash(h)
	}

	for len(level) > 1 {
		nextLevel := make([]types.Hash, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			left := level[i]
			var right types.Hash
			if i+1 < len(level) {
				right = level[i+1]
			}
			nextLevel[i/2] = computeNodeHash(left, right)
		}
		level = nextLevel
	}
	return level[0]
}

func computeLeafHash(data types.Hash) types.Hash {
	buf := make([]byte, 1+32)
	buf[0] = 0x00
	copy(buf[1:], data[:])
	return blake3.Sum256(buf)
}

func computeNodeHash(left, right types.Hash) types.Hash {
	buf := make([]byte, 1+32+32)
	buf[0] = 0x01
	copy(buf[1:], left[:])
	copy(buf[33:], right[:])
	return blake3.Sum256(buf)
}

// comparePubkeys compares two addresses lexicographically.
func comparePubkeys(a, b types.Pubkey) int {
	for i := 0; i < 32; i++ {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}

// SortPubkeys sorts a slice of addresses in ascending order.
func SortPubkeys(pubkeys []types.Pubkey) {
	sort.Slice(pubkeys, func(i, j int) bool {
		return comparePubkeys(pubkeys[i], pubkeys[j]) < 0
	})
}
