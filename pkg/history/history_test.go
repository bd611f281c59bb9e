package history

import (
	"strconv"
	"testing"

	"github.com/dagboard/dagboard/pkg/dag"
)

// graphWithNodes builds a graph with n nodes named "1".."n".
func graphWithNodes(t *testing.T, n int) *dag.Graph {
	t.Helper()
	g := dag.New()
	for i := 1; i <= n; i++ {
		if err := g.AddNode(dag.Node{ID: strconv.Itoa(i)}); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}
	return g
}

func TestUndoRedo(t *testing.T) {
	b := NewBuffer(10)

	// Nothing to undo or redo in an empty buffer
	if _, ok := b.Undo(); ok {
		t.Error("Undo on empty buffer should fail")
	}
	if _, ok := b.Redo(); ok {
		t.Error("Redo on empty buffer should fail")
	}

	b.Push(graphWithNodes(t, 0))
	b.Push(graphWithNodes(t, 1))
	b.Push(graphWithNodes(t, 2))

	// The first snapshot is the baseline; only two steps back exist
	g, ok := b.Undo()
	if !ok || g.NodeCount() != 1 {
		t.Fatalf("first undo: ok=%v count=%d", ok, g.NodeCount())
	}
	g, ok = b.Undo()
	if !ok || g.NodeCount() != 0 {
		t.Fatalf("second undo: ok=%v count=%d", ok, g.NodeCount())
	}
	if _, ok := b.Undo(); ok {
		t.Error("undo past the baseline should fail")
	}

	// Redo walks forward again
	g, ok = b.Redo()
	if !ok || g.NodeCount() != 1 {
		t.Fatalf("first redo: ok=%v count=%d", ok, g.NodeCount())
	}
	g, ok = b.Redo()
	if !ok || g.NodeCount() != 2 {
		t.Fatalf("second redo: ok=%v count=%d", ok, g.NodeCount())
	}
	if _, ok := b.Redo(); ok {
		t.Error("redo past the newest snapshot should fail")
	}
}

func TestPushTruncatesRedoTail(t *testing.T) {
	b := NewBuffer(10)
	b.Push(graphWithNodes(t, 0))
	b.Push(graphWithNodes(t, 1))
	b.Push(graphWithNodes(t, 2))

	if _, ok := b.Undo(); !ok {
		t.Fatal("undo failed")
	}

	// A new push after undo discards the redo branch
	b.Push(graphWithNodes(t, 5))
	if b.CanRedo() {
		t.Error("redo tail should be discarded after a push")
	}
	if b.Len() != 3 {
		t.Errorf("Len = %d, want 3", b.Len())
	}

	g, ok := b.Undo()
	if !ok || g.NodeCount() != 1 {
		t.Errorf("undo after branch: ok=%v count=%d", ok, g.NodeCount())
	}
}

func TestLimitEvictsOldest(t *testing.T) {
	b := NewBuffer(3)
	for i := 0; i <= 4; i++ {
		b.Push(graphWithNodes(t, i))
	}

	if b.Len() != 3 {
		t.Fatalf("Len = %d, want 3", b.Len())
	}

	// Only the newest three states survive: 2, 3, 4
	g, ok := b.Undo()
	if !ok || g.NodeCount() != 3 {
		t.Errorf("first undo: ok=%v count=%d", ok, g.NodeCount())
	}
	g, ok = b.Undo()
	if !ok || g.NodeCount() != 2 {
		t.Errorf("second undo: ok=%v count=%d", ok, g.NodeCount())
	}
	if _, ok := b.Undo(); ok {
		t.Error("evicted snapshots should not be reachable")
	}
}

func TestSnapshotsAreIsolated(t *testing.T) {
	b := NewBuffer(10)
	g := graphWithNodes(t, 1)
	b.Push(g)
	b.Push(graphWithNodes(t, 2))

	// Mutating the pushed graph must not affect the stored snapshot
	if err := g.AddNode(dag.Node{ID: "99"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}

	got, ok := b.Undo()
	if !ok || got.NodeCount() != 1 {
		t.Fatalf("undo: ok=%v count=%d", ok, got.NodeCount())
	}

	// Mutating the returned graph must not affect a later undo/redo
	got.Clear()
	redone, ok := b.Redo()
	if !ok || redone.NodeCount() != 2 {
		t.Errorf("redo: ok=%v count=%d", ok, redone.NodeCount())
	}
}

func TestCanUndoCanRedo(t *testing.T) {
	b := NewBuffer(10)
	if b.CanUndo() || b.CanRedo() {
		t.Error("empty buffer can do nothing")
	}

	b.Push(graphWithNodes(t, 0))
	if b.CanUndo() {
		t.Error("a single baseline snapshot is not undoable")
	}

	b.Push(graphWithNodes(t, 1))
	if !b.CanUndo() || b.CanRedo() {
		t.Error("after two pushes: undo yes, redo no")
	}

	if _, ok := b.Undo(); !ok {
		t.Fatal("undo failed")
	}
	if b.CanUndo() || !b.CanRedo() {
		t.Error("at the baseline: undo no, redo yes")
	}
}

func TestLimitFallback(t *testing.T) {
	b := NewBuffer(0)
	if b.limit != DefaultLimit {
		t.Errorf("limit = %d, want DefaultLimit", b.limit)
	}
}
