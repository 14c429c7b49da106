package program

import (
	"math"
	"sort"

	"github.com/fortiblox/X1-Arcade/pkg/state"
)

// clampScore converts a signed net score to its stored form.
func clampScore(score int64) uint32 {
	if score < 0 {
		return 0
	}
	if score > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(score)
}

// addEntrant appends a zero-score slot for a first-time entrant. The
// entrant is skipped when already present or when the board is full.
func addEntrant(lb *state.Leaderboard, userID uint32) bool {
	for _, id := range lb.Entrants {
		if id == userID {
			return false
		}
	}
	if len(lb.Entrants) >= state.MaxLeaderboardEntries {
		return false
	}
	lb.Entrants = append(lb.Entrants, userID)
	lb.Scores = append(lb.Scores, 0)
	return true
}

// upsertScore applies one score change to a (game, day) board. A
// present entrant's slot is refreshed in place regardless of sign. A
// new entrant needs a strictly positive score and either free space or
// a score strictly above the board's minimum; the eviction target is
// the earliest index holding the minimum. Reports whether the board
// changed.
func upsertScore(lb *state.Leaderboard, userID uint32, score int64) bool {
	for i, id := range lb.Entrants {
		if id == userID {
			lb.Scores[i] = clampScore(score)
			return true
		}
	}
	if score <= 0 {
		return false
	}
	clamped := clampScore(score)
	if len(lb.Entrants) < state.MaxLeaderboardEntries {
		lb.Entrants = append(lb.Entrants, userID)
		lb.Scores = append(lb.Scores, clamped)
		return true
	}

	minIndex := 0
	for i, s := range lb.Scores {
		if s < lb.Scores[minIndex] {
			minIndex = i
		}
	}
	if clamped > lb.Scores[minIndex] {
		lb.Entrants[minIndex] = userID
		lb.Scores[minIndex] = clamped
		return true
	}
	return false
}

// rankEntrants returns user IDs ordered by score descending. Ties keep
// their original board order.
func rankEntrants(lb *state.Leaderboard) []uint32 {
	idx := make([]int, len(lb.Entrants))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return lb.Scores[idx[a]] > lb.Scores[idx[b]]
	})

	ranked := make([]uint32, len(idx))
	for i, j := range idx {
		ranked[i] = lb.Entrants[j]
	}
	return ranked
}
