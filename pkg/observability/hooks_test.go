package observability

import (
	"context"
	"testing"
	"time"
)

type recordingEditorHooks struct {
	mutations []string
	rejects   []string
	layouts   int
}

func (r *recordingEditorHooks) OnMutation(op string, nodeCount, edgeCount int, valid bool) {
	r.mutations = append(r.mutations, op)
}
func (r *recordingEditorHooks) OnReject(op, detail string) {
	r.rejects = append(r.rejects, op+":"+detail)
}
func (r *recordingEditorHooks) OnLayout(nodeCount int, duration time.Duration) {
	r.layouts++
}

type recordingStoreHooks struct {
	NoopStoreHooks
	saves int
}

func (r *recordingStoreHooks) OnSave(ctx context.Context, graphID string, d time.Duration, err error) {
	r.saves++
}

func TestDefaultsAreNoop(t *testing.T) {
	Reset()

	// Defaults never panic
	Editor().OnMutation("connect", 1, 0, true)
	Editor().OnReject("connect", "1→1")
	Editor().OnLayout(5, time.Millisecond)
	Store().OnSave(context.Background(), "id", time.Millisecond, nil)
	Cache().OnCacheHit(context.Background(), "layout")
	Cache().OnCacheSet(context.Background(), "svg", 1024)
}

func TestSetEditorHooks(t *testing.T) {
	t.Cleanup(Reset)

	rec := &recordingEditorHooks{}
	SetEditorHooks(rec)

	Editor().OnMutation("add-node", 1, 0, true)
	Editor().OnReject("connect", "3→1")
	Editor().OnLayout(3, time.Millisecond)

	if len(rec.mutations) != 1 || rec.mutations[0] != "add-node" {
		t.Errorf("mutations = %v", rec.mutations)
	}
	if len(rec.rejects) != 1 || rec.rejects[0] != "connect:3→1" {
		t.Errorf("rejects = %v", rec.rejects)
	}
	if rec.layouts != 1 {
		t.Errorf("layouts = %d", rec.layouts)
	}
}

func TestSetStoreHooks(t *testing.T) {
	t.Cleanup(Reset)

	rec := &recordingStoreHooks{}
	SetStoreHooks(rec)

	Store().OnSave(context.Background(), "id", time.Millisecond, nil)
	if rec.saves != 1 {
		t.Errorf("saves = %d", rec.saves)
	}

	// Embedded noop covers the rest of the interface
	Store().OnLoad(context.Background(), "id", time.Millisecond, nil)
	Store().OnDelete(context.Background(), "id", time.Millisecond, nil)
}

func TestSetNilKeepsCurrent(t *testing.T) {
	t.Cleanup(Reset)

	rec := &recordingEditorHooks{}
	SetEditorHooks(rec)
	SetEditorHooks(nil)

	Editor().OnMutation("clear", 0, 0, true)
	if len(rec.mutations) != 1 {
		t.Error("nil registration should keep the current hooks")
	}
}

func TestReset(t *testing.T) {
	rec := &recordingEditorHooks{}
	SetEditorHooks(rec)
	Reset()

	Editor().OnMutation("clear", 0, 0, true)
	if len(rec.mutations) != 0 {
		t.Error("Reset should restore noop hooks")
	}
}
