// Package leaderboard keeps the five best scores and persists them.
package leaderboard

import (
	"cmp"
	"slices"
	"sync"
)

// MaxEntries is the size of the leaderboard.
const MaxEntries = 5

type Entry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Store loads and saves the leaderboard. Load never fails: whatever can't
// be read is an empty leaderboard.
type Store interface {
	Load() []Entry
	Save([]Entry) error
}

// Add returns a new leaderboard with e in it, sorted by score from best
// to worst and cut down to MaxEntries. Ties keep their arrival order.
func Add(entries []Entry, e Entry) []Entry {
	out := append(slices.Clone(entries), e)
	slices.SortStableFunc(out, func(a, b Entry) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(out) > MaxEntries {
		out = out[:MaxEntries]
	}
	return out
}

// IsHighscore reports whether score makes it into the leaderboard. While
// the leaderboard isn't full every score does, even zero.
func IsHighscore(entries []Entry, score int) bool {
	if len(entries) < MaxEntries {
		return true
	}
	lowest := slices.MinFunc(entries, func(a, b Entry) int {
		return cmp.Compare(a.Score, b.Score)
	})
	return score > lowest.Score
}

// MemoryStore keeps the leaderboard for the lifetime of the process.
type MemoryStore struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemoryStore(entries ...Entry) *MemoryStore {
	return &MemoryStore{entries: entries}
}

func (m *MemoryStore) Load() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.entries)
}

func (m *MemoryStore) Save(entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = slices.Clone(entries)
	return nil
}
