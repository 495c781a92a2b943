package store

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/taskgraph/pkg/graphdoc"
)

// MongoStore is a MongoDB-backed store for production deployments.
// Documents are upserted by graph ID into a single collection.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// MongoConfig configures a MongoDB connection.
type MongoConfig struct {
	// URI is the connection string, e.g. "mongodb://localhost:27017".
	URI string

	// Database is the database name. Defaults to "taskgraph".
	Database string

	// Collection is the collection name. Defaults to "graphs".
	Collection string
}

// NewMongoStore connects to MongoDB and verifies connectivity.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "taskgraph"
	}
	if cfg.Collection == "" {
		cfg.Collection = "graphs"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Get retrieves a graph document by ID.
func (s *MongoStore) Get(ctx context.Context, graphID string) (*graphdoc.Document, error) {
	var doc graphdoc.Document
	err := s.collection.FindOne(ctx, bson.M{"graph_id": graphID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding graph %q: %w", graphID, err)
	}
	return &doc, nil
}

// Put upserts a graph document keyed by its graph ID.
func (s *MongoStore) Put(ctx context.Context, doc *graphdoc.Document) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.collection.ReplaceOne(ctx, bson.M{"graph_id": doc.GraphID}, doc, opts)
	if err != nil {
		return fmt.Errorf("storing graph %q: %w", doc.GraphID, err)
	}
	return nil
}

// Delete removes a graph document.
func (s *MongoStore) Delete(ctx context.Context, graphID string) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"graph_id": graphID})
	if err != nil {
		return fmt.Errorf("deleting graph %q: %w", graphID, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all stored graph IDs in sorted order.
func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	raw, err := s.collection.Distinct(ctx, "graph_id", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("listing graphs: %w", err)
	}

	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
