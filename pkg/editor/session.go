// Package editor implements the edit session that orchestrates graph
// mutations.
//
// A [Session] exclusively owns a live [dag.Graph]. Every mutating
// operation runs under the session's lock, so there is a strict linear
// history of graph states even when callers run on independent
// goroutines (HTTP handlers, TUI event loop, autosave timers). The
// session enforces acyclicity at the edit boundary: [Session.Connect]
// rejects any edge that would create a cycle before it enters the model,
// and re-runs validation after every mutation so the latest report always
// reflects the current graph.
//
// Rejected mutations leave the graph untouched and return structured
// errors from the errors package; they are ordinary return values, never
// panics.
package editor

import (
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dagboard/dagboard/pkg/dag"
	"github.com/dagboard/dagboard/pkg/errors"
	"github.com/dagboard/dagboard/pkg/graph"
	"github.com/dagboard/dagboard/pkg/layout"
	"github.com/dagboard/dagboard/pkg/observability"
)

// Bounds of the region where freshly added nodes are dropped. Auto-layout
// is expected to run afterwards, so placement only needs to avoid piling
// every new node on the same spot.
const (
	dropMinX = 40.0
	dropMaxX = 640.0
	dropMinY = 40.0
	dropMaxY = 440.0
)

// Session owns the live graph for one editing context and serializes all
// access to it. Create one with [New].
type Session struct {
	mu     sync.Mutex
	name   string
	graph  *dag.Graph
	report dag.Report
	nextID int
	rng    *rand.Rand
	now    func() time.Time
}

// New creates an empty session with the given display name.
// The node ID counter starts at 1 and is never reused within the session,
// even after deletions, so stale IDs can't silently re-attach edges.
func New(name string) *Session {
	return newSession(name, rand.NewSource(time.Now().UnixNano()))
}

// NewSeeded creates a session whose random node placement is driven by
// the given seed. Deterministic placement is useful in tests.
func NewSeeded(name string, seed int64) *Session {
	return newSession(name, rand.NewSource(seed))
}

func newSession(name string, src rand.Source) *Session {
	s := &Session{
		name:   name,
		graph:  dag.New(),
		nextID: 1,
		rng:    rand.New(src),
		now:    time.Now,
	}
	s.report = dag.Validate(s.graph)
	return s
}

// Name returns the session's display name.
func (s *Session) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// SetName updates the session's display name, used in exports and saves.
func (s *Session) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

// AddNode allocates the next node ID, places the node at a pseudo-random
// position inside the default drop region, and appends it to the graph.
// The label defaults to "Node <id>" when empty.
func (s *Session) AddNode(label string) (dag.Node, error) {
	if err := errors.ValidateNodeLabel(label); err != nil {
		return dag.Node{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := strconv.Itoa(s.nextID)
	s.nextID++
	if label == "" {
		label = "Node " + id
	}

	n := dag.Node{
		ID:    id,
		Label: label,
		X:     dropMinX + s.rng.Float64()*(dropMaxX-dropMinX),
		Y:     dropMinY + s.rng.Float64()*(dropMaxY-dropMinY),
	}
	if err := s.graph.AddNode(n); err != nil {
		return dag.Node{}, errors.Wrap(errors.ErrCodeInternal, err, "add node %s", id)
	}
	s.revalidate("add-node")
	return n, nil
}

// Connect appends a directed edge from src to dst, unless doing so would
// violate acyclicity. Self-referential and cycle-creating edges are
// rejected with an EDGE_REJECTED error and the graph is left unchanged.
func (s *Session) Connect(src, dst string) (dag.Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.graph.Node(src); !ok {
		return dag.Edge{}, errors.New(errors.ErrCodeNodeNotFound, "unknown node %q", src)
	}
	if _, ok := s.graph.Node(dst); !ok {
		return dag.Edge{}, errors.New(errors.ErrCodeNodeNotFound, "unknown node %q", dst)
	}
	if dag.WouldCreateCycle(s.graph, src, dst) {
		observability.Editor().OnReject("connect", fmt.Sprintf("%s→%s", src, dst))
		return dag.Edge{}, errors.New(errors.ErrCodeEdgeRejected, "connecting %s → %s would create a cycle", src, dst)
	}

	e := dag.Edge{ID: uuid.NewString(), From: src, To: dst}
	if err := s.graph.AddEdge(e); err != nil {
		return dag.Edge{}, errors.Wrap(errors.ErrCodeInternal, err, "add edge %s→%s", src, dst)
	}
	s.revalidate("connect")
	return e, nil
}

// DeleteSelection removes the given nodes and edges in one atomic step.
// Node removal cascades to every incident edge, so no dangling edge can
// survive. IDs that no longer exist are skipped; the UI may hold a stale
// selection and deleting is idempotent.
func (s *Session) DeleteSelection(nodeIDs, edgeIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range edgeIDs {
		s.graph.RemoveEdge(id)
	}
	for _, id := range nodeIDs {
		s.graph.RemoveNode(id)
	}
	s.revalidate("delete")
}

// Clear removes every node and edge. The node ID counter is not reset:
// IDs stay unique for the lifetime of the session.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graph.Clear()
	s.revalidate("clear")
}

// AutoLayout computes a layered layout for the current graph and replaces
// every node's position with the result. Topology is untouched.
func (s *Session) AutoLayout() map[string]layout.Position {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	positions := layout.Compute(s.graph)
	for id, p := range positions {
		if n, ok := s.graph.Node(id); ok {
			n.X = p.X
			n.Y = p.Y
		}
	}
	observability.Editor().OnLayout(s.graph.NodeCount(), time.Since(start))
	s.revalidate("auto-layout")
	return positions
}

// ApplyPositions replaces node positions with a previously computed
// assignment, e.g. a cached layout. IDs not present in the graph are
// skipped. Topology is untouched.
func (s *Session) ApplyPositions(positions map[string]layout.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range positions {
		if n, ok := s.graph.Node(id); ok {
			n.X = p.X
			n.Y = p.Y
		}
	}
	s.revalidate("apply-positions")
}

// Load replaces the entire graph wholesale. The node ID counter jumps
// past the highest numeric node ID in the incoming graph so future
// AddNode calls can't collide with loaded nodes.
func (s *Session) Load(g *dag.Graph) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(g)
}

func (s *Session) load(g *dag.Graph) {
	s.graph = g.Clone()
	for _, n := range s.graph.Nodes() {
		if v, err := strconv.Atoi(n.ID); err == nil && v >= s.nextID {
			s.nextID = v + 1
		}
	}
	s.revalidate("load")
}

// Import parses serialized JSON graph data and, if it is well formed,
// replaces the current graph with it. On any failure - malformed JSON,
// missing or non-array "nodes"/"edges" fields, dangling edge references -
// the current graph is left untouched and an INVALID_FORMAT error is
// returned.
func (s *Session) Import(data []byte) error {
	gj, err := graph.Unmarshal(data)
	if err != nil {
		return err
	}
	g, err := graph.ToGraph(gj)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid file format")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gj.GraphName != "" {
		s.name = gj.GraphName
	}
	s.load(g)
	return nil
}

// Export produces a serializable snapshot of the current graph including
// the session name and an export timestamp. State is not mutated.
func (s *Session) Export() graph.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return graph.FromGraph(s.graph, s.name, s.now())
}

// Report returns the validation report for the graph as it stands right
// now. The report is recomputed on every mutation, so it is always in
// sync with the in-memory state.
func (s *Session) Report() dag.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

// Snapshot returns a deep copy of the current graph. Callers (history
// buffer, autosave) can hold or mutate it freely without observing later
// edits.
func (s *Session) Snapshot() *dag.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.Clone()
}

// NodeCount returns the number of nodes in the current graph.
func (s *Session) NodeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.NodeCount()
}

// EdgeCount returns the number of edges in the current graph.
func (s *Session) EdgeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.EdgeCount()
}

// revalidate recomputes the report. Callers must hold s.mu.
func (s *Session) revalidate(op string) {
	s.report = dag.Validate(s.graph)
	observability.Editor().OnMutation(op, s.graph.NodeCount(), s.graph.EdgeCount(), s.report.Valid)
}
