// Package postgres implements the graph store on PostgreSQL via pgx.
//
// Graphs are stored in a single table with the node and edge collections
// as JSONB columns. CreateSchema sets the table up; it is idempotent and
// safe to call on every startup.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dagboard/dagboard/pkg/observability"
	"github.com/dagboard/dagboard/pkg/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS graphs (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	nodes      JSONB NOT NULL DEFAULT '[]',
	edges      JSONB NOT NULL DEFAULT '[]',
	report     JSONB NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS graphs_updated_at_idx ON graphs (updated_at DESC);
`

// PGStore persists graph documents in PostgreSQL.
type PGStore struct {
	db  *pgxpool.Pool
	now func() time.Time
}

// New connects to PostgreSQL and returns a ready store.
func New(ctx context.Context, databaseURL string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PGStore{db: pool, now: time.Now}, nil
}

// CreateSchema creates the graphs table if it does not exist.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *PGStore) SaveGraph(ctx context.Context, doc *store.Document) (*store.Document, error) {
	start := time.Now()

	stored := *doc
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	now := s.now()
	stored.UpdatedAt = now
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}

	nodes, err := json.Marshal(stored.Nodes)
	if err != nil {
		return nil, fmt.Errorf("marshal nodes: %w", err)
	}
	edges, err := json.Marshal(stored.Edges)
	if err != nil {
		return nil, fmt.Errorf("marshal edges: %w", err)
	}
	report, err := json.Marshal(stored.Report)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO graphs (id, name, nodes, edges, report, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			nodes = EXCLUDED.nodes,
			edges = EXCLUDED.edges,
			report = EXCLUDED.report,
			updated_at = EXCLUDED.updated_at`,
		stored.ID, stored.Name, nodes, edges, report, stored.CreatedAt, stored.UpdatedAt,
	)
	observability.Store().OnSave(ctx, stored.ID, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("save graph %s: %w", stored.ID, err)
	}
	return &stored, nil
}

func (s *PGStore) LoadGraph(ctx context.Context, id string) (*store.Document, error) {
	start := time.Now()

	row := s.db.QueryRow(ctx, `
		SELECT id, name, nodes, edges, report, created_at, updated_at
		FROM graphs WHERE id = $1`, id)

	doc, err := scanDocument(row)
	if errors.Is(err, pgx.ErrNoRows) {
		observability.Store().OnLoad(ctx, id, time.Since(start), store.ErrNotFound)
		return nil, store.ErrNotFound
	}
	if err != nil {
		observability.Store().OnLoad(ctx, id, time.Since(start), err)
		return nil, fmt.Errorf("load graph %s: %w", id, err)
	}

	observability.Store().OnLoad(ctx, id, time.Since(start), nil)
	return doc, nil
}

func (s *PGStore) ListGraphs(ctx context.Context) ([]store.Document, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, nodes, edges, report, created_at, updated_at
		FROM graphs ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list graphs: %w", err)
	}
	defer rows.Close()

	var docs []store.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan graph: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list graphs: %w", err)
	}
	return docs, nil
}

func (s *PGStore) DeleteGraph(ctx context.Context, id string) error {
	start := time.Now()

	tag, err := s.db.Exec(ctx, `DELETE FROM graphs WHERE id = $1`, id)
	if err != nil {
		observability.Store().OnDelete(ctx, id, time.Since(start), err)
		return fmt.Errorf("delete graph %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		observability.Store().OnDelete(ctx, id, time.Since(start), store.ErrNotFound)
		return store.ErrNotFound
	}

	observability.Store().OnDelete(ctx, id, time.Since(start), nil)
	return nil
}

func (s *PGStore) Close(ctx context.Context) error {
	s.db.Close()
	return nil
}

func scanDocument(row pgx.Row) (*store.Document, error) {
	var (
		doc    store.Document
		nodes  []byte
		edges  []byte
		report []byte
	)
	if err := row.Scan(&doc.ID, &doc.Name, &nodes, &edges, &report, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(nodes, &doc.Nodes); err != nil {
		return nil, fmt.Errorf("decode nodes: %w", err)
	}
	if err := json.Unmarshal(edges, &doc.Edges); err != nil {
		return nil, fmt.Errorf("decode edges: %w", err)
	}
	if err := json.Unmarshal(report, &doc.Report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &doc, nil
}

var _ store.Store = (*PGStore)(nil)
