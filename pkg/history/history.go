// Package history implements a bounded undo/redo buffer of graph
// snapshots.
//
// The buffer is an external collaborator of the editor core: callers push
// a deep-copied snapshot after each settled mutation, and apply the graph
// returned by Undo or Redo as a full load. Snapshots are immutable once
// pushed; the buffer clones on the way in and on the way out so no caller
// can alias buffered state.
package history

import (
	"sync"
	"time"

	"github.com/dagboard/dagboard/pkg/dag"
)

// DefaultLimit is the default maximum number of snapshots retained.
const DefaultLimit = 50

// Snapshot is an immutable copy of the graph at one point in time.
type Snapshot struct {
	Graph   *dag.Graph
	TakenAt time.Time
}

// Buffer is a bounded ring of snapshots with an undo/redo cursor.
// The cursor points at the snapshot representing the current state.
// Pushing after an undo truncates the redo tail, matching the usual
// editor convention. Buffer is safe for concurrent use.
type Buffer struct {
	mu     sync.Mutex
	snaps  []Snapshot
	cursor int // index of the current snapshot, -1 when empty
	limit  int
}

// NewBuffer creates a buffer retaining at most limit snapshots.
// A limit below 1 falls back to DefaultLimit.
func NewBuffer(limit int) *Buffer {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Buffer{cursor: -1, limit: limit}
}

// Push records a snapshot of the graph as the new current state.
// Any redo tail beyond the cursor is discarded, and the oldest snapshot
// is evicted once the buffer is full.
func (b *Buffer) Push(g *dag.Graph) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.snaps = append(b.snaps[:b.cursor+1], Snapshot{Graph: g.Clone(), TakenAt: time.Now()})
	b.cursor++
	if len(b.snaps) > b.limit {
		over := len(b.snaps) - b.limit
		b.snaps = b.snaps[over:]
		b.cursor -= over
	}
}

// Undo moves the cursor one step back and returns a copy of that
// snapshot's graph. Returns false when there is nothing to undo.
func (b *Buffer) Undo() (*dag.Graph, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cursor <= 0 {
		return nil, false
	}
	b.cursor--
	return b.snaps[b.cursor].Graph.Clone(), true
}

// Redo moves the cursor one step forward and returns a copy of that
// snapshot's graph. Returns false when there is nothing to redo.
func (b *Buffer) Redo() (*dag.Graph, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cursor < 0 || b.cursor >= len(b.snaps)-1 {
		return nil, false
	}
	b.cursor++
	return b.snaps[b.cursor].Graph.Clone(), true
}

// CanUndo reports whether an Undo would succeed.
func (b *Buffer) CanUndo() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursor > 0
}

// CanRedo reports whether a Redo would succeed.
func (b *Buffer) CanRedo() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursor >= 0 && b.cursor < len(b.snaps)-1
}

// Len returns the number of snapshots currently retained.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.snaps)
}
