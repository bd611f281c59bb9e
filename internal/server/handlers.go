package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dagboard/dagboard/pkg/cache"
	"github.com/dagboard/dagboard/pkg/dag"
	dagerrors "github.com/dagboard/dagboard/pkg/errors"
	"github.com/dagboard/dagboard/pkg/graph"
	"github.com/dagboard/dagboard/pkg/layout"
	"github.com/dagboard/dagboard/pkg/store"
)

// graphResponse is the standard mutation response: the full current graph
// plus its validation report, so the UI can redraw without a second call.
type graphResponse struct {
	Graph  graph.Graph `json:"graph"`
	Report dag.Report  `json:"report"`
}

func (s *Server) currentState() graphResponse {
	return graphResponse{
		Graph:  s.session.Export(),
		Report: s.session.Report(),
	}
}

// settle records the mutated state in the history buffer.
func (s *Server) settle() {
	s.history.Push(s.session.Snapshot())
}

// =============================================================================
// Graph state
// =============================================================================

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.currentState())
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Report())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Export())
}

// =============================================================================
// Mutations
// =============================================================================

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Label string `json:"label"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}

	node, err := s.session.AddNode(req.Label)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	s.settle()

	writeJSON(w, http.StatusCreated, map[string]any{
		"node":   graph.Node{ID: node.ID, Label: node.Label, X: node.X, Y: node.Y},
		"report": s.session.Report(),
	})
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From string `json:"from"`
		To   string `json:"to"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}

	edge, err := s.session.Connect(req.From, req.To)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	s.settle()

	writeJSON(w, http.StatusCreated, map[string]any{
		"edge":   graph.Edge{ID: edge.ID, From: edge.From, To: edge.To},
		"report": s.session.Report(),
	})
}

func (s *Server) handleDeleteSelection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NodeIDs []string `json:"nodeIds"`
		EdgeIDs []string `json:"edgeIds"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}

	s.session.DeleteSelection(req.NodeIDs, req.EdgeIDs)
	s.settle()
	writeJSON(w, http.StatusOK, s.currentState())
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.session.Clear()
	s.settle()
	writeJSON(w, http.StatusOK, s.currentState())
}

func (s *Server) handleAutoLayout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := cache.LayoutKey(s.topologyHash())

	if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var positions map[string]layout.Position
		if err := json.Unmarshal(data, &positions); err == nil {
			s.session.ApplyPositions(positions)
			s.settle()
			writeJSON(w, http.StatusOK, s.currentState())
			return
		}
	}

	positions := s.session.AutoLayout()
	s.settle()

	if data, err := json.Marshal(positions); err == nil {
		if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
			s.logger.Warn("cache layout", "err", err)
		}
	}
	writeJSON(w, http.StatusOK, s.currentState())
}

// topologyHash identifies the graph's layout-relevant content: node order
// and edges, positions excluded. Two graphs with the same hash get the
// same layout.
func (s *Server) topologyHash() string {
	export := s.session.Export()
	type topo struct {
		Nodes []string    `json:"nodes"`
		Edges [][2]string `json:"edges"`
	}
	t := topo{Nodes: make([]string, len(export.Nodes)), Edges: make([][2]string, len(export.Edges))}
	for i, n := range export.Nodes {
		t.Nodes[i] = n.ID
	}
	for i, e := range export.Edges {
		t.Edges[i] = [2]string{e.From, e.To}
	}
	data, _ := json.Marshal(t)
	return cache.Hash(data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, s.logger, dagerrors.Wrap(dagerrors.ErrCodeInvalidFormat, err, "read body"))
		return
	}

	if err := s.session.Import(data); err != nil {
		writeError(w, s.logger, err)
		return
	}
	s.settle()
	writeJSON(w, http.StatusOK, s.currentState())
}

// =============================================================================
// History
// =============================================================================

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	g, ok := s.history.Undo()
	if !ok {
		writeError(w, s.logger, dagerrors.New(dagerrors.ErrCodeInvalidInput, "nothing to undo"))
		return
	}
	s.session.Load(g)
	writeJSON(w, http.StatusOK, s.currentState())
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	g, ok := s.history.Redo()
	if !ok {
		writeError(w, s.logger, dagerrors.New(dagerrors.ErrCodeInvalidInput, "nothing to redo"))
		return
	}
	s.session.Load(g)
	writeJSON(w, http.StatusOK, s.currentState())
}

// =============================================================================
// Persistence
// =============================================================================

func (s *Server) handleSaveGraph(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if r.ContentLength > 0 {
		if err := decodeBody(r, &req); err != nil {
			writeError(w, s.logger, err)
			return
		}
	}

	export := s.session.Export()
	name := req.Name
	if name == "" {
		name = export.GraphName
	}
	if err := dagerrors.ValidateGraphName(name); err != nil {
		writeError(w, s.logger, err)
		return
	}

	doc := &store.Document{
		ID:     req.ID,
		Name:   name,
		Nodes:  export.Nodes,
		Edges:  export.Edges,
		Report: s.session.Report(),
	}
	saved, err := s.store.SaveGraph(r.Context(), doc)
	if err != nil {
		writeError(w, s.logger, dagerrors.Wrap(dagerrors.ErrCodeStorage, err, "save graph"))
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleListGraphs(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.ListGraphs(r.Context())
	if err != nil {
		writeError(w, s.logger, dagerrors.Wrap(dagerrors.ErrCodeStorage, err, "list graphs"))
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleGetStoredGraph(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := s.loadDocument(w, r, id)
	if doc == nil || err != nil {
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleLoadGraph(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := s.loadDocument(w, r, id)
	if doc == nil || err != nil {
		return
	}

	g, err := graph.ToGraph(graph.Graph{Nodes: doc.Nodes, Edges: doc.Edges})
	if err != nil {
		writeError(w, s.logger, dagerrors.Wrap(dagerrors.ErrCodeInvalidGraph, err, "stored graph %s is corrupt", id))
		return
	}
	s.session.SetName(doc.Name)
	s.session.Load(g)
	s.settle()
	writeJSON(w, http.StatusOK, s.currentState())
}

func (s *Server) handleDeleteGraph(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := dagerrors.ValidateGraphID(id); err != nil {
		writeError(w, s.logger, err)
		return
	}
	if err := s.store.DeleteGraph(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, s.logger, dagerrors.New(dagerrors.ErrCodeGraphNotFound, "graph %q not found", id))
			return
		}
		writeError(w, s.logger, dagerrors.Wrap(dagerrors.ErrCodeStorage, err, "delete graph"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// loadDocument fetches a stored document, writing the error response
// itself on failure. Returns nil when the response is already written.
func (s *Server) loadDocument(w http.ResponseWriter, r *http.Request, id string) (*store.Document, error) {
	if err := dagerrors.ValidateGraphID(id); err != nil {
		writeError(w, s.logger, err)
		return nil, err
	}
	doc, err := s.store.LoadGraph(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, s.logger, dagerrors.New(dagerrors.ErrCodeGraphNotFound, "graph %q not found", id))
			return nil, err
		}
		writeError(w, s.logger, dagerrors.Wrap(dagerrors.ErrCodeStorage, err, "load graph"))
		return nil, err
	}
	return doc, nil
}
