package history

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/insightsheet-cli/internal/table"
)

// DefaultLimit is the number of snapshots kept when no limit is given.
const DefaultLimit = 50

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Snapshot is one whole-table state.
type Snapshot struct {
	ID        string
	Label     string
	Table     table.Table
	CreatedAt time.Time
}

// Stack is a bounded undo/redo history. The zero value is not usable; call New.
type Stack struct {
	limit int
	items []Snapshot
	// cur indexes the current snapshot; -1 when empty.
	cur int
}

// New returns an empty stack holding at most limit snapshots (DefaultLimit if <= 0).
func New(limit int) *Stack {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Stack{limit: limit, cur: -1}
}

// Push records t as the new current state, discarding any redo branch and
// evicting the oldest snapshot once the limit is reached.
func (s *Stack) Push(label string, t table.Table) Snapshot {
	snap := Snapshot{ID: uuid.NewString(), Label: label, Table: t.Clone(), CreatedAt: time.Now()}
	s.items = append(s.items[:s.cur+1], snap)
	if len(s.items) > s.limit {
		drop := len(s.items) - s.limit
		s.items = append([]Snapshot(nil), s.items[drop:]...)
	}
	s.cur = len(s.items) - 1
	return snap
}

// Current returns the current snapshot.
func (s *Stack) Current() (Snapshot, bool) {
	if s.cur < 0 {
		return Snapshot{}, false
	}
	return s.items[s.cur], true
}

// Undo moves back one snapshot and returns it.
func (s *Stack) Undo() (Snapshot, error) {
	if s.cur <= 0 {
		return Snapshot{}, ErrNothingToUndo
	}
	s.cur--
	return s.items[s.cur], nil
}

// Redo moves forward one snapshot and returns it.
func (s *Stack) Redo() (Snapshot, error) {
	if s.cur >= len(s.items)-1 {
		return Snapshot{}, ErrNothingToRedo
	}
	s.cur++
	return s.items[s.cur], nil
}

func (s *Stack) CanUndo() bool { return s.cur > 0 }
func (s *Stack) CanRedo() bool { return s.cur < len(s.items)-1 }

// Len is the number of snapshots held.
func (s *Stack) Len() int { return len(s.items) }

// Labels lists snapshot labels oldest first.
func (s *Stack) Labels() []string {
	out := make([]string, len(s.items))
	for i, it := range s.items {
		out[i] = it.Label
	}
	return out
}
