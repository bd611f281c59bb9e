// Package store defines the persistence collaborator contract for saved
// graphs, with in-memory, MongoDB, and PostgreSQL backends.
//
// The core never persists anything itself; it hands a [Document] -
// serialized nodes and edges plus the latest validation report - to a
// [Store], and treats save failures as external events that leave the
// in-memory state untouched.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/dagboard/dagboard/pkg/dag"
	"github.com/dagboard/dagboard/pkg/graph"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a requested graph does not exist.
	ErrNotFound = errors.New("graph not found")
)

// Document is the persisted form of a graph: the serialized node and edge
// collections, the validation report at save time, and server-assigned
// timestamps.
type Document struct {
	ID        string       `json:"id" bson:"_id"`
	Name      string       `json:"name" bson:"name"`
	Nodes     []graph.Node `json:"nodes" bson:"nodes"`
	Edges     []graph.Edge `json:"edges" bson:"edges"`
	Report    dag.Report   `json:"report" bson:"report"`
	CreatedAt time.Time    `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time    `json:"updatedAt" bson:"updated_at"`
}

// Store is the interface for graph persistence backends.
type Store interface {
	// SaveGraph creates or replaces a graph document. A document without
	// an ID gets a generated one; CreatedAt is set on first save and
	// UpdatedAt on every save. The stored document is returned.
	SaveGraph(ctx context.Context, doc *Document) (*Document, error)

	// LoadGraph retrieves a graph document by ID.
	// Returns ErrNotFound if no document with that ID exists.
	LoadGraph(ctx context.Context, id string) (*Document, error)

	// ListGraphs returns all stored graph documents, most recently
	// updated first.
	ListGraphs(ctx context.Context) ([]Document, error)

	// DeleteGraph removes a graph document.
	// Returns ErrNotFound if no document with that ID exists.
	DeleteGraph(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
