// Package graph defines the canonical serialization format for dagboard
// graphs.
//
// The format is the JSON shape used for file import/export, API responses,
// and store documents. It is human-readable and designed for round-trip
// fidelity: export → import restores a structurally equal graph (same node
// IDs, labels, positions, and edges, in the same order).
//
// A serialized graph must carry top-level "nodes" and "edges" arrays.
// "graphName" and "timestamp" are optional. Import is strict about the
// required fields: a document where either is absent, or present with a
// non-array shape, is rejected as malformed before any model state is
// touched.
package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/dagboard/dagboard/pkg/dag"
	"github.com/dagboard/dagboard/pkg/errors"
)

// Graph is the canonical serialization format for a dagboard graph.
type Graph struct {
	Nodes     []Node    `json:"nodes" bson:"nodes"`
	Edges     []Edge    `json:"edges" bson:"edges"`
	GraphName string    `json:"graphName,omitempty" bson:"graph_name,omitempty"`
	Timestamp time.Time `json:"timestamp,omitzero" bson:"timestamp,omitempty"`
}

// Node is the serialized node shape.
type Node struct {
	ID    string         `json:"id" bson:"id"`
	Label string         `json:"label,omitempty" bson:"label,omitempty"`
	X     float64        `json:"x" bson:"x"`
	Y     float64        `json:"y" bson:"y"`
	Meta  map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// Edge is the serialized edge shape. The ID is optional on import;
// edges without one are assigned a fresh UUID when converted to the model.
type Edge struct {
	ID   string `json:"id,omitempty" bson:"id,omitempty"`
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// FromGraph converts a model graph to its serialization format.
// Nodes and edges keep the model's insertion order so that display order
// survives a round trip.
func FromGraph(g *dag.Graph, name string, ts time.Time) Graph {
	nodes := g.Nodes()
	edges := g.Edges()

	out := Graph{
		Nodes:     make([]Node, len(nodes)),
		Edges:     make([]Edge, len(edges)),
		GraphName: name,
		Timestamp: ts,
	}
	for i, n := range nodes {
		out.Nodes[i] = Node{ID: n.ID, Label: n.Label, X: n.X, Y: n.Y, Meta: n.Meta.Clone()}
	}
	for i, e := range edges {
		out.Edges[i] = Edge{ID: e.ID, From: e.From, To: e.To}
	}
	return out
}

// ToGraph converts a serialized graph to a model graph.
// Edges without an ID get a generated UUID. Returns an error if the
// structure is internally inconsistent: duplicate node IDs, or edges
// referencing nodes that are not present.
func ToGraph(gj Graph) (*dag.Graph, error) {
	g := dag.New()
	for _, nj := range gj.Nodes {
		n := dag.Node{ID: nj.ID, Label: nj.Label, X: nj.X, Y: nj.Y, Meta: dag.Metadata(nj.Meta).Clone()}
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("add node %s: %w", nj.ID, err)
		}
	}
	for _, ej := range gj.Edges {
		id := ej.ID
		if id == "" {
			id = uuid.NewString()
		}
		if err := g.AddEdge(dag.Edge{ID: id, From: ej.From, To: ej.To}); err != nil {
			return nil, fmt.Errorf("add edge %s→%s: %w", ej.From, ej.To, err)
		}
	}
	return g, nil
}

// Unmarshal deserializes JSON bytes into a Graph, enforcing the required
// top-level shape. It returns an INVALID_FORMAT error when the document is
// not a JSON object, or when "nodes" or "edges" is absent or not an array.
func Unmarshal(data []byte) (Graph, error) {
	var probe struct {
		Nodes json.RawMessage `json:"nodes"`
		Edges json.RawMessage `json:"edges"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return Graph{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid file format")
	}
	if !isJSONArray(probe.Nodes) {
		return Graph{}, errors.New(errors.ErrCodeInvalidFormat, "invalid file format: missing or non-array \"nodes\" field")
	}
	if !isJSONArray(probe.Edges) {
		return Graph{}, errors.New(errors.ErrCodeInvalidFormat, "invalid file format: missing or non-array \"edges\" field")
	}

	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid file format")
	}
	return g, nil
}

// Marshal serializes a Graph to pretty-printed JSON bytes.
func Marshal(g Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write writes a Graph as indented JSON to an io.Writer.
func Write(g Graph, w io.Writer) error {
	return writeTo(g, w)
}

// WriteFile writes a Graph to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(g Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTo(g, f)
}

// Read decodes a serialized graph from an io.Reader.
func Read(r io.Reader) (Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Graph{}, fmt.Errorf("read: %w", err)
	}
	return Unmarshal(data)
}

// ReadFile reads a JSON file and returns the decoded Graph.
// Returns INVALID_FORMAT errors for malformed documents.
func ReadFile(path string) (Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Graph{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}

func writeTo(g Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// isJSONArray reports whether the raw message is present and starts with
// a '[' after leading whitespace.
func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}
