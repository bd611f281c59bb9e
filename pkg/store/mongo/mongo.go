// Package mongo implements the graph store on MongoDB.
//
// Each graph is one document in a single collection, keyed by _id. The
// document shape mirrors [store.Document] via its bson tags, so saved
// graphs are directly queryable with standard Mongo tooling.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dagboard/dagboard/pkg/observability"
	"github.com/dagboard/dagboard/pkg/store"
)

// Config holds MongoDB connection settings.
type Config struct {
	URI        string // e.g. "mongodb://localhost:27017"
	Database   string // defaults to "dagboard"
	Collection string // defaults to "graphs"
}

// MongoStore persists graph documents in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

// New connects to MongoDB and returns a ready store.
// The connection is verified with a ping before returning.
func New(ctx context.Context, cfg Config) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "dagboard"
	}
	if cfg.Collection == "" {
		cfg.Collection = "graphs"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
		now:    time.Now,
	}, nil
}

func (s *MongoStore) SaveGraph(ctx context.Context, doc *store.Document) (*store.Document, error) {
	start := time.Now()

	stored := *doc
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	now := s.now()
	stored.UpdatedAt = now

	// Preserve CreatedAt across replaces.
	var prev store.Document
	err := s.coll.FindOne(ctx, bson.M{"_id": stored.ID}).Decode(&prev)
	switch {
	case err == nil:
		stored.CreatedAt = prev.CreatedAt
	case errors.Is(err, mongo.ErrNoDocuments):
		stored.CreatedAt = now
	default:
		observability.Store().OnSave(ctx, stored.ID, time.Since(start), err)
		return nil, fmt.Errorf("find graph %s: %w", stored.ID, err)
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": stored.ID}, stored, opts); err != nil {
		observability.Store().OnSave(ctx, stored.ID, time.Since(start), err)
		return nil, fmt.Errorf("save graph %s: %w", stored.ID, err)
	}

	observability.Store().OnSave(ctx, stored.ID, time.Since(start), nil)
	return &stored, nil
}

func (s *MongoStore) LoadGraph(ctx context.Context, id string) (*store.Document, error) {
	start := time.Now()

	var doc store.Document
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		observability.Store().OnLoad(ctx, id, time.Since(start), store.ErrNotFound)
		return nil, store.ErrNotFound
	}
	if err != nil {
		observability.Store().OnLoad(ctx, id, time.Since(start), err)
		return nil, fmt.Errorf("load graph %s: %w", id, err)
	}

	observability.Store().OnLoad(ctx, id, time.Since(start), nil)
	return &doc, nil
}

func (s *MongoStore) ListGraphs(ctx context.Context) ([]store.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list graphs: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []store.Document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode graphs: %w", err)
	}
	return docs, nil
}

func (s *MongoStore) DeleteGraph(ctx context.Context, id string) error {
	start := time.Now()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		observability.Store().OnDelete(ctx, id, time.Since(start), err)
		return fmt.Errorf("delete graph %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		observability.Store().OnDelete(ctx, id, time.Since(start), store.ErrNotFound)
		return store.ErrNotFound
	}

	observability.Store().OnDelete(ctx, id, time.Since(start), nil)
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ store.Store = (*MongoStore)(nil)
