package dag

import "testing"

func TestValidate(t *testing.T) {
	tests := []struct {
		name         string
		nodes        []string
		edges        []Edge
		wantValid    bool
		wantErrors   []string
		wantWarnings []string
	}{
		{
			name:         "empty graph",
			wantValid:    true,
			wantErrors:   []string{},
			wantWarnings: []string{WarnTooFewNodes},
		},
		{
			name:         "single node",
			nodes:        []string{"1"},
			wantValid:    true,
			wantErrors:   []string{},
			wantWarnings: []string{WarnTooFewNodes},
		},
		{
			name:         "two unconnected nodes",
			nodes:        []string{"1", "2"},
			wantValid:    true,
			wantErrors:   []string{},
			wantWarnings: []string{WarnNoConnections},
		},
		{
			name:  "valid chain",
			nodes: []string{"1", "2"},
			edges: []Edge{
				{ID: "a", From: "1", To: "2"},
			},
			wantValid:    true,
			wantErrors:   []string{},
			wantWarnings: []string{},
		},
		{
			name:  "two-node cycle",
			nodes: []string{"1", "2"},
			edges: []Edge{
				{ID: "a", From: "1", To: "2"},
				{ID: "b", From: "2", To: "1"},
			},
			wantValid:    false,
			wantErrors:   []string{ErrMsgCycle},
			wantWarnings: []string{},
		},
		{
			name:  "self loop",
			nodes: []string{"1", "2"},
			edges: []Edge{
				{ID: "a", From: "1", To: "2"},
				{ID: "b", From: "2", To: "2"},
			},
			wantValid:    false,
			wantErrors:   []string{ErrMsgCycle, ErrMsgSelfLoop},
			wantWarnings: []string{},
		},
		{
			name:  "disconnected node",
			nodes: []string{"1", "2", "3"},
			edges: []Edge{
				{ID: "a", From: "1", To: "2"},
			},
			wantValid:    true,
			wantErrors:   []string{},
			wantWarnings: []string{WarnDisconnected},
		},
		{
			name:  "multiple self loops reported once",
			nodes: []string{"1", "2"},
			edges: []Edge{
				{ID: "a", From: "1", To: "1"},
				{ID: "b", From: "2", To: "2"},
			},
			wantValid:    false,
			wantErrors:   []string{ErrMsgCycle, ErrMsgSelfLoop},
			wantWarnings: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildGraph(t, tt.nodes, tt.edges)
			got := Validate(g)

			want := Report{Valid: tt.wantValid, Errors: tt.wantErrors, Warnings: tt.wantWarnings}
			if !got.Equal(want) {
				t.Errorf("Validate = %+v, want %+v", got, want)
			}
		})
	}
}

func TestValidateIsPure(t *testing.T) {
	g := buildGraph(t, []string{"1", "2"}, []Edge{{ID: "a", From: "1", To: "2"}})

	first := Validate(g)
	second := Validate(g)
	if !first.Equal(second) {
		t.Error("repeated validation of the same graph must yield identical reports")
	}

	// Findings are recomputed from scratch, not accumulated
	g.RemoveEdge("a")
	third := Validate(g)
	if !third.Valid {
		t.Error("report should reflect only the current graph")
	}
	if len(third.Warnings) != 1 || third.Warnings[0] != WarnNoConnections {
		t.Errorf("Warnings = %v, want [%s]", third.Warnings, WarnNoConnections)
	}
}

func TestValidateSlicesNeverNil(t *testing.T) {
	// JSON consumers rely on [] rather than null.
	r := Validate(New())
	if r.Errors == nil || r.Warnings == nil {
		t.Error("Errors and Warnings must be non-nil slices")
	}
}
