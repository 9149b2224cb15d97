package mocktest

import (
	"sort"

	"github.com/synthify/synthify/internal/model"
)

// Leaderboard keeps the ordered history of past test outcomes. It grows
// without bound; display is truncated by TopN at query time.
type Leaderboard struct {
	entries []model.LeaderboardEntry
}

// NewLeaderboard builds a leaderboard from prior entries, re-sorting them
// into ascending (time taken, score) order.
func NewLeaderboard(entries []model.LeaderboardEntry) *Leaderboard {
	lb := &Leaderboard{entries: append([]model.LeaderboardEntry(nil), entries...)}
	lb.sort()
	return lb
}

// Record appends an outcome and restores the ascending order.
func (lb *Leaderboard) Record(entry model.LeaderboardEntry) {
	lb.entries = append(lb.entries, entry)
	lb.sort()
}

// TopN returns the first k entries. A k larger than the history returns
// everything.
func (lb *Leaderboard) TopN(k int) []model.LeaderboardEntry {
	if k > len(lb.entries) {
		k = len(lb.entries)
	}
	if k < 0 {
		k = 0
	}
	return append([]model.LeaderboardEntry(nil), lb.entries[:k]...)
}

// Len returns the total number of recorded outcomes.
func (lb *Leaderboard) Len() int { return len(lb.entries) }

func (lb *Leaderboard) sort() {
	sort.SliceStable(lb.entries, func(i, j int) bool {
		return lb.entries[i].Less(lb.entries[j])
	})
}
