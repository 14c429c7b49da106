package ledger

import (
	"testing"

	"github.com/fortiblox/X1-Arcade/internal/types"
)

func TestComputeAccountHashDeterministic(t *testing.T) {
	pubkey := testPubkey("hashed")
	account := testAccount(42, []byte{1, 2, 3})

	h1 := ComputeAccountHash(pubkey, account)
	h2 := ComputeAccountHash(pubkey, account)
	if h1 != h2 {
		t.Error("same account hashed to different values")
	}
	if h1.IsZero() {
		t.Error("account hash is zero")
	}

	// Every field participates in the hash.
	if ComputeAccountHash(testPubkey("other"), account) == h1 {
		t.Error("pubkey change did not affect hash")
	}
	if ComputeAccountHash(pubkey, testAccount(43, []byte{1, 2, 3})) == h1 {
		t.Error("lamports change did not affect hash")
	}
	if ComputeAccountHash(pubkey, testAccount(42, []byte{1, 2, 4})) == h1 {
		t.Error("data change did not affect hash")
	}
}

func TestComputeDeltaHashOrderInsensitive(t *testing.T) {
	db := NewMemoryDB()
	defer db.Close()

	keys := []types.Pubkey{testPubkey("d1"), testPubkey("d2"), testPubkey("d3")}
	for i, k := range keys {
		if err := db.SetAccount(k, testAccount(uint64(i+1), nil)); err != nil {
			t.Fatalf("set: %v", err)
		}
	}

	forward, err := ComputeDeltaHash(db, keys)
	if err != nil {
		t.Fatalf("delta hash: %v", err)
	}
	reversed, err := ComputeDeltaHash(db, []types.Pubkey{keys[2], keys[1], keys[0]})
	if err != nil {
		t.Fatalf("delta hash reversed: %v", err)
	}
	if forward != reversed {
		t.Error("delta hash depends on modification order")
	}
}

func TestComputeDeltaHashCoversDeletions(t *testing.T) {
	db := NewMemoryDB()
	defer db.Close()

	present := testPubkey("present")
	deleted := testPubkey("deleted")
	if err := db.SetAccount(present, testAccount(5, nil)); err != nil {
		t.Fatalf("set: %v", err)
	}

	withDeleted, err := ComputeDeltaHash(db, []types.Pubkey{present, deleted})
	if err != nil {
		t.Fatalf("delta hash: %v", err)
	}
	withoutDeleted, err := ComputeDeltaHash(db, []types.Pubkey{present})
	if err != nil {
		t.Fatalf("delta hash: %v", err)
	}
	if withDeleted == withoutDeleted {
		t.Error("deleted account did not contribute to the delta hash")
	}
}

func TestComputeDeltaHashEmpty(t *testing.T) {
	db := NewMemoryDB()
	defer db.Close()

	h, err := ComputeDeltaHash(db, nil)
	if err != nil {
		t.Fatalf("delta hash: %v", err)
	}
	if !h.IsZero() {
		t.Error("empty modification set should hash to zero")
	}
}

func TestComputeStateHashMatchesAcrossBackends(t *testing.T) {
	memDB := NewMemoryDB()
	defer memDB.Close()

	badgerDB, err := NewBadgerDB(BadgerDBConfig{InMemory: true})
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	defer badgerDB.Close()

	for i := 0; i < 5; i++ {
		pubkey := testPubkey(string(rune('p' + i)))
		account := testAccount(uint64(100+i), []byte{byte(i)})
		if err := memDB.SetAccount(pubkey, account); err != nil {
			t.Fatalf("set memory: %v", err)
		}
		if err := badgerDB.SetAccount(pubkey, account); err != nil {
			t.Fatalf("set badger: %v", err)
		}
	}

	memHash, err := ComputeStateHash(memDB)
	if err != nil {
		t.Fatalf("memory state hash: %v", err)
	}
	badgerHash, err := ComputeStateHash(badgerDB)
	if err != nil {
		t.Fatalf("badger state hash: %v", err)
	}
	if memHash != badgerHash {
		t.Errorf("state hashes diverge: memory %s, badger %s", memHash, badgerHash)
	}
}

func TestComputeMerkleRoot(t *testing.T) {
	a := types.ComputeHash([]byte("a"))
	b := types.ComputeHash([]byte("b"))
	c := types.ComputeHash([]byte("c"))

	if !ComputeMerkleRoot(nil).IsZero() {
		t.Error("empty tree root should be zero")
	}

	single := ComputeMerkleRoot([]types.Hash{a})
	if single == a {
		t.Error("single leaf root should be domain-separated from the leaf value")
	}

	abc := ComputeMerkleRoot([]types.Hash{a, b, c})
	bac := ComputeMerkleRoot([]types.Hash{b, a, c})
	if abc == bac {
		t.Error("merkle root should depend on leaf order")
	}
	if abc != ComputeMerkleRoot([]types.Hash{a, b, c}) {
		t.Error("merkle root is not deterministic")
	}
}

func TestSortPubkeys(t *testing.T) {
	keys := []types.Pubkey{testPubkey("z"), testPubkey("m"), testPubkey("a")}
	SortPubkeys(keys)
	for i := 1; i < len(keys); i++ {
		if comparePubkeys(keys[i-1], keys[i]) > 0 {
			t.Fatalf("keys not sorted at index %d", i)
		}
	}
}
