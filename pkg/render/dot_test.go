package render

import (
	"strings"
	"testing"

	"github.com/dagboard/dagboard/pkg/dag"
)

func buildGraph(t *testing.T) *dag.Graph {
	t.Helper()
	g := dag.New()
	for _, n := range []dag.Node{
		{ID: "1", Label: "Fetch"},
		{ID: "2", Label: "Build"},
		{ID: "3"},
	} {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}
	if err := g.AddEdge(dag.Edge{ID: "a", From: "1", To: "2"}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := g.AddEdge(dag.Edge{ID: "b", From: "2", To: "3"}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	return g
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(buildGraph(t), Options{})

	if !strings.HasPrefix(dot, "digraph G {") {
		t.Errorf("missing digraph header: %s", dot)
	}
	if !strings.Contains(dot, "rankdir=TB") {
		t.Error("missing top-to-bottom rank direction")
	}

	// Labels are shown; ID is the fallback for unlabeled nodes
	if !strings.Contains(dot, `"1" [label="Fetch"];`) {
		t.Errorf("node 1 missing label: %s", dot)
	}
	if !strings.Contains(dot, `"3" [label="3"];`) {
		t.Errorf("node 3 should fall back to its ID: %s", dot)
	}

	if !strings.Contains(dot, `"1" -> "2";`) {
		t.Errorf("missing edge 1→2: %s", dot)
	}
	if !strings.Contains(dot, `"2" -> "3";`) {
		t.Errorf("missing edge 2→3: %s", dot)
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(buildGraph(t), Options{Detailed: true})

	if !strings.Contains(dot, `label="Fetch\n(1)"`) {
		t.Errorf("detailed label should include the node ID: %s", dot)
	}
	// Nodes whose label equals their ID are not duplicated
	if strings.Contains(dot, `label="3\n(3)"`) {
		t.Errorf("unlabeled node should not repeat its ID: %s", dot)
	}
}

func TestToDOTHighlightInvalid(t *testing.T) {
	g := buildGraph(t)
	if err := g.AddEdge(dag.Edge{ID: "loop", From: "3", To: "3"}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	plain := ToDOT(g, Options{})
	if strings.Contains(plain, "color=red") {
		t.Error("highlight should be off by default")
	}

	highlighted := ToDOT(g, Options{HighlightInvalid: true})
	if !strings.Contains(highlighted, `"3" -> "3" [color=red];`) {
		t.Errorf("self loop should be drawn red: %s", highlighted)
	}
	// Regular edges keep their default style
	if !strings.Contains(highlighted, `"1" -> "2";`) {
		t.Error("regular edges should be unaffected by highlighting")
	}
}

func TestToDOTEscaping(t *testing.T) {
	g := dag.New()
	if err := g.AddNode(dag.Node{ID: "1", Label: `say "hi"`}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}

	dot := ToDOT(g, Options{})
	if !strings.Contains(dot, `label="say \"hi\""`) {
		t.Errorf("quotes should be escaped: %s", dot)
	}
}

func TestToDOTEmptyGraph(t *testing.T) {
	dot := ToDOT(dag.New(), Options{})
	if !strings.HasPrefix(dot, "digraph G {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("empty graph should still produce a valid document: %s", dot)
	}
}
