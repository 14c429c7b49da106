package state

import (
	"testing"

	"github.com/fortiblox/X1-Arcade/internal/types"
)

func TestProgramStatsRoundTrip(t *testing.T) {
	stats := &ProgramStats{Kind: KindProgram, NumUsers: 42}

	data := stats.Serialize()
	if len(data) != stats.Size() {
		t.Fatalf("serialized size %d != Size() %d", len(data), stats.Size())
	}

	restored, err := DecodeProgramStats(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if restored.NumUsers != 42 {
		t.Errorf("NumUsers: got %d, want 42", restored.NumUsers)
	}
}

func TestUserRoundTrip(t *testing.T) {
	key := types.MustPubkeyFromBase58("FxVpjJ5AGY6cfCwZQP5v8QBfS4J2NPa62HbGh1Fu2LpD")
	user := &User{
		Kind:               KindUser,
		Key:                key,
		ID:                 7,
		Handle:             "player_one",
		TotalWins:          2,
		TotalPositiveVotes: 30,
		TotalNegativeVotes: 4,
		TotalPositiveVoted: 11,
		TotalNegativeVoted: 1,
	}

	restored, err := DecodeUser(user.Serialize())
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if *restored != *user {
		t.Errorf("round trip mismatch: %+v != %+v", restored, user)
	}
}

func TestUserSizeGrowsWithHandle(t *testing.T) {
	u := &User{Kind: KindUser}
	base := u.Size()
	u.Handle = "abcdef"
	if u.Size() != base+6 {
		t.Errorf("Size with handle: got %d, want %d", u.Size(), base+6)
	}
}

func TestEntryRoundTripAndScore(t *testing.T) {
	entry := &Entry{Kind: KindEntry, PositiveVotes: 3, NegativeVotes: 5, RewardClaimed: 1}

	restored, err := DecodeEntry(entry.Serialize())
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if *restored != *entry {
		t.Errorf("round trip mismatch: %+v != %+v", restored, entry)
	}
	if restored.Score() != -2 {
		t.Errorf("Score: got %d, want -2", restored.Score())
	}
}

func TestLeaderboardRoundTrip(t *testing.T) {
	board := &Leaderboard{
		Kind:     KindLeaderboard,
		Game:     3,
		Date:     19955,
		Entrants: []uint32{1, 2, 3},
		Scores:   []uint32{9, 0, 4},
	}

	data := board.Serialize()
	if len(data) != board.Size() {
		t.Fatalf("serialized size %d != Size() %d", len(data), board.Size())
	}

	restored, err := DecodeLeaderboard(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if restored.Game != board.Game || restored.Date != board.Date {
		t.Errorf("header mismatch: %+v", restored)
	}
	if len(restored.Entrants) != len(restored.Scores) {
		t.Fatalf("parallel vectors misaligned: %d entrants, %d scores",
			len(restored.Entrants), len(restored.Scores))
	}
	for i := range board.Entrants {
		if restored.Entrants[i] != board.Entrants[i] || restored.Scores[i] != board.Scores[i] {
			t.Errorf("slot %d mismatch: (%d,%d)", i, restored.Entrants[i], restored.Scores[i])
		}
	}
}

func TestLeaderboardSizeGrowsPerSlot(t *testing.T) {
	board := &Leaderboard{Kind: KindLeaderboard}
	empty := board.Size()

	board.Entrants = append(board.Entrants, 1)
	board.Scores = append(board.Scores, 0)
	if board.Size() != empty+8 {
		t.Errorf("one slot: got %d, want %d", board.Size(), empty+8)
	}
}

func TestListingRoundTrip(t *testing.T) {
	item := types.MustPubkeyFromBase58("So11111111111111111111111111111111111111112")
	listing := &Listing{
		Kind:        KindListing,
		ItemType:    ItemFungible,
		ItemAddress: item,
		Price:       100,
		Quantity:    5000,
		BundleSize:  1,
	}

	restored, err := DecodeListing(listing.Serialize())
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if *restored != *listing {
		t.Errorf("round trip mismatch: %+v != %+v", restored, listing)
	}
}

func TestDecodeRejectsWrongKind(t *testing.T) {
	entry := &Entry{Kind: KindEntry, PositiveVotes: 1}
	data := entry.Serialize()

	if _, err := DecodeLeaderboard(data); err == nil {
		t.Error("DecodeLeaderboard accepted Entry bytes")
	}
	if _, err := DecodeProgramStats(data[:1]); err == nil {
		t.Error("DecodeProgramStats accepted truncated wrong-kind bytes")
	}
}

func TestDecodeRejectsTruncated(t *testing.T) {
	board := &Leaderboard{
		Kind:     KindLeaderboard,
		Entrants: []uint32{1, 2},
		Scores:   []uint32{3, 4},
	}
	data := board.Serialize()

	for cut := 1; cut < len(data); cut += 4 {
		if _, err := DecodeLeaderboard(data[:cut]); err == nil {
			t.Errorf("decode accepted %d-byte prefix", cut)
		}
	}

	if _, err := DecodeUser(nil); err != ErrShortRecord {
		t.Errorf("nil input: got %v, want ErrShortRecord", err)
	}
}

func TestZeroBytesDecodeAsFreshProgramStats(t *testing.T) {
	// A newly created stats account is zero-filled; those bytes must
	// decode as an empty ProgramStats record.
	stats, err := DecodeProgramStats(make([]byte, 5))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if stats.NumUsers != 0 {
		t.Errorf("NumUsers: got %d, want 0", stats.NumUsers)
	}
}
