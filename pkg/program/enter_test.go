package program

import (
	"errors"
	"testing"

	"github.com/fortiblox/X1-Arcade/internal/types"
	"github.com/fortiblox/X1-Arcade/pkg/runtime"
	"github.com/fortiblox/X1-Arcade/pkg/state"
)

func TestEnterFirstTime(t *testing.T) {
	f := newFixture(t)
	user := f.wallet("alice")

	if err := f.enter(user, 3); err != nil {
		t.Fatalf("enter failed: %v", err)
	}

	entry := f.entry(user, 3, f.today())
	if entry.PositiveVotes != 0 || entry.NegativeVotes != 0 || entry.RewardClaimed != 0 {
		t.Errorf("new entry not zeroed: %+v", entry)
	}

	if got := f.balance(user, types.RewardMintAddr); got != firstEntryReward {
		t.Errorf("first-entry bonus = %d, want %d", got, firstEntryReward)
	}

	lb := f.board(3, f.today())
	id := f.profile(user).ID
	if len(lb.Entrants) != 1 || lb.Entrants[0] != id || lb.Scores[0] != 0 {
		t.Errorf("leaderboard after enter: entrants=%v scores=%v, want [%d] [0]",
			lb.Entrants, lb.Scores, id)
	}
}

func TestEnterTwiceSameDayIsNoOp(t *testing.T) {
	f := newFixture(t)
	user := f.wallet("alice")

	for i := 0; i < 2; i++ {
		if err := f.enter(user, 1); err != nil {
			t.Fatalf("enter %d failed: %v", i, err)
		}
	}

	if got := f.balance(user, types.RewardMintAddr); got != firstEntryReward {
		t.Errorf("bonus after re-enter = %d, want %d", got, firstEntryReward)
	}
	lb := f.board(1, f.today())
	if len(lb.Entrants) != 1 {
		t.Errorf("leaderboard has %d slots after re-enter, want 1", len(lb.Entrants))
	}
	stats, err := state.DecodeProgramStats(f.statsAcct().Data)
	if err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.NumUsers != 1 {
		t.Errorf("NumUsers = %d, want 1", stats.NumUsers)
	}
}

func TestEnterAssignsDenseUserIDs(t *testing.T) {
	f := newFixture(t)
	names := []string{"u1", "u2", "u3"}
	for i, name := range names {
		user := f.wallet(name)
		if err := f.enter(user, 1); err != nil {
			t.Fatalf("enter %s failed: %v", name, err)
		}
		if id := f.profile(user).ID; id != uint32(i+1) {
			t.Errorf("%s assigned user ID %d, want %d", name, id, i+1)
		}
	}
	stats, err := state.DecodeProgramStats(f.statsAcct().Data)
	if err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.NumUsers != 3 {
		t.Errorf("NumUsers = %d, want 3", stats.NumUsers)
	}
}

func TestEnterNewDayNewEntry(t *testing.T) {
	f := newFixture(t)
	user := f.wallet("alice")

	if err := f.enter(user, 1); err != nil {
		t.Fatalf("day one enter failed: %v", err)
	}
	f.advanceDays(1)
	if err := f.enter(user, 1); err != nil {
		t.Fatalf("day two enter failed: %v", err)
	}

	if got := f.balance(user, types.RewardMintAddr); got != 2*firstEntryReward {
		t.Errorf("balance after two daily entries = %d, want %d", got, 2*firstEntryReward)
	}
	lb := f.board(1, f.today())
	if len(lb.Entrants) != 1 {
		t.Errorf("fresh day's board has %d slots, want 1", len(lb.Entrants))
	}
}

func TestEnterRequiresSigner(t *testing.T) {
	f := newFixture(t)
	user := f.wallet("alice")
	user.IsSigner = false

	if err := f.enter(user, 1); !errors.Is(err, runtime.ErrMissingSignature) {
		t.Errorf("unsigned enter: got %v, want ErrMissingSignature", err)
	}
}

func TestEnterRejectsWrongDerivedAccounts(t *testing.T) {
	f := newFixture(t)
	user := f.wallet("alice")
	mallory := f.wallet("mallory")

	// Entry account derived for a different user.
	err := f.process(&Instruction{Op: OpEnter, Enter: EnterMeta{Game: 1}},
		user, f.authorityAcct(), f.statsAcct(),
		f.entryAcct(mallory, 1, f.today()), f.profileAcct(user),
		f.account(types.RewardMintAddr), f.ata(user, types.RewardMintAddr),
		f.boardAcct(1, f.today()),
		f.account(types.SystemProgramAddr), f.account(types.TokenProgramAddr),
		f.account(types.AssociatedTokenProgramAddr))
	if !errors.Is(err, ErrInvalidAccountData) {
		t.Errorf("foreign entry account: got %v, want ErrInvalidAccountData", err)
	}
}

func TestEnterEleventhUserNotSeated(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < state.MaxLeaderboardEntries; i++ {
		user := f.wallet(string(rune('a' + i)))
		if err := f.enter(user, 1); err != nil {
			t.Fatalf("enter %d failed: %v", i, err)
		}
	}

	late := f.wallet("latecomer")
	if err := f.enter(late, 1); err != nil {
		t.Fatalf("late enter failed: %v", err)
	}
	if got := f.balance(late, types.RewardMintAddr); got != firstEntryReward {
		t.Errorf("late entrant bonus = %d, want %d", got, firstEntryReward)
	}

	lb := f.board(1, f.today())
	if len(lb.Entrants) != state.MaxLeaderboardEntries {
		t.Fatalf("board has %d slots, want %d", len(lb.Entrants), state.MaxLeaderboardEntries)
	}
	lateID := f.profile(late).ID
	for _, id := range lb.Entrants {
		if id == lateID {
			t.Error("latecomer seated on a full board with zero score")
		}
	}
}
