package program

import (
	"errors"
	"testing"

	"github.com/fortiblox/X1-Arcade/internal/types"
)

func TestVoteUpdatesTalliesAndPaysVoter(t *testing.T) {
	f := newFixture(t)
	creator := f.wallet("creator")
	voter := f.wallet("voter")

	if err := f.enter(creator, 2); err != nil {
		t.Fatalf("enter failed: %v", err)
	}
	if err := f.vote(voter, creator, 2, voteUp); err != nil {
		t.Fatalf("vote failed: %v", err)
	}

	entry := f.entry(creator, 2, f.today())
	if entry.PositiveVotes != 1 || entry.NegativeVotes != 0 {
		t.Errorf("entry tallies = %d/%d, want 1/0", entry.PositiveVotes, entry.NegativeVotes)
	}
	if got := f.profile(creator).TotalPositiveVotes; got != 1 {
		t.Errorf("creator TotalPositiveVotes = %d, want 1", got)
	}
	if got := f.profile(voter).TotalPositiveVoted; got != 1 {
		t.Errorf("voter TotalPositiveVoted = %d, want 1", got)
	}
	if got := f.balance(voter, types.RewardMintAddr); got != voteReward {
		t.Errorf("voter reward = %d, want %d", got, voteReward)
	}

	// The creator's net score now shows on the board.
	lb := f.board(2, f.today())
	id := f.profile(creator).ID
	found := false
	for i, entrant := range lb.Entrants {
		if entrant == id {
			found = true
			if lb.Scores[i] != 1 {
				t.Errorf("creator's board score = %d, want 1", lb.Scores[i])
			}
		}
	}
	if !found {
		t.Error("creator missing from the board after upvote")
	}
}

func TestVoteSelfRejected(t *testing.T) {
	f := newFixture(t)
	user := f.wallet("narcissist")
	if err := f.enter(user, 1); err != nil {
		t.Fatalf("enter failed: %v", err)
	}
	if err := f.vote(user, user, 1, voteUp); !errors.Is(err, ErrSelfVote) {
		t.Errorf("self vote: got %v, want ErrSelfVote", err)
	}
}

func TestVoteInvalidCode(t *testing.T) {
	f := newFixture(t)
	creator := f.wallet("creator")
	voter := f.wallet("voter")
	if err := f.enter(creator, 1); err != nil {
		t.Fatalf("enter failed: %v", err)
	}
	if err := f.vote(voter, creator, 1, 3); !errors.Is(err, ErrInvalidVote) {
		t.Errorf("vote code 3: got %v, want ErrInvalidVote", err)
	}
}

func TestVoteNonexistentEntry(t *testing.T) {
	f := newFixture(t)
	creator := f.wallet("creator")
	voter := f.wallet("voter")
	if err := f.vote(voter, creator, 1, voteUp); !errors.Is(err, ErrNoEntry) {
		t.Errorf("vote without entry: got %v, want ErrNoEntry", err)
	}
}

func TestVoteReferralBonus(t *testing.T) {
	f := newFixture(t)
	creator := f.wallet("creator")
	voter := f.wallet("voter")
	referrer := f.wallet("referrer")

	if err := f.enter(creator, 1); err != nil {
		t.Fatalf("enter failed: %v", err)
	}

	// The referrer has no reward account yet: bonus silently skipped.
	if err := f.vote(voter, creator, 1, voteUp,
		referrer, f.ata(referrer, types.RewardMintAddr)); err != nil {
		t.Fatalf("vote with fresh referrer failed: %v", err)
	}
	if got := f.balance(referrer, types.RewardMintAddr); got != 0 {
		t.Errorf("fresh referrer balance = %d, want 0", got)
	}

	// Entering gives the referrer a reward account; next referral pays.
	if err := f.enter(referrer, 1); err != nil {
		t.Fatalf("referrer enter failed: %v", err)
	}
	if err := f.vote(voter, creator, 1, voteUp,
		referrer, f.ata(referrer, types.RewardMintAddr)); err != nil {
		t.Fatalf("vote with funded referrer failed: %v", err)
	}
	if got := f.balance(referrer, types.RewardMintAddr); got != firstEntryReward+referralReward {
		t.Errorf("referrer balance = %d, want %d", got, firstEntryReward+referralReward)
	}
}

func TestVoteSelfReferralIgnored(t *testing.T) {
	f := newFixture(t)
	creator := f.wallet("creator")
	voter := f.wallet("voter")
	if err := f.enter(creator, 1); err != nil {
		t.Fatalf("enter failed: %v", err)
	}
	if err := f.enter(voter, 1); err != nil {
		t.Fatalf("voter enter failed: %v", err)
	}

	if err := f.vote(voter, creator, 1, voteUp,
		voter, f.ata(voter, types.RewardMintAddr)); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if got := f.balance(voter, types.RewardMintAddr); got != firstEntryReward+voteReward {
		t.Errorf("self-referring voter balance = %d, want %d", got, firstEntryReward+voteReward)
	}
}

func TestVoteDownvotedEntrantStaysAtZero(t *testing.T) {
	f := newFixture(t)
	creator := f.wallet("creator")
	voter := f.wallet("voter")

	if err := f.enter(creator, 1); err != nil {
		t.Fatalf("enter failed: %v", err)
	}
	if err := f.vote(voter, creator, 1, voteDown); err != nil {
		t.Fatalf("downvote failed: %v", err)
	}

	entry := f.entry(creator, 1, f.today())
	if entry.Score() != -1 {
		t.Errorf("entry score = %d, want -1", entry.Score())
	}

	// Already seated at enter time: the slot is refreshed, with the
	// negative net score stored as zero.
	lb := f.board(1, f.today())
	id := f.profile(creator).ID
	if len(lb.Entrants) != 1 || lb.Entrants[0] != id || lb.Scores[0] != 0 {
		t.Errorf("board after downvote: entrants=%v scores=%v", lb.Entrants, lb.Scores)
	}
}
