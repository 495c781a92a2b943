// Package store provides durable persistence for graph documents.
//
// This package defines the [Store] interface with implementations for
// different backends:
//   - memory: In-memory storage for development/testing and the default
//     server mode
//   - mongo: MongoDB-backed storage for production deployments
//
// Stores operate on [graphdoc.Document] values, the flat serialization form
// of a graph, so backends never need to understand adjacency structure.
package store

import (
	"context"
	"errors"

	"github.com/matzehuels/taskgraph/pkg/graphdoc"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a requested graph does not exist.
	ErrNotFound = errors.New("graph not found")

	// ErrUnavailable is returned when the backend cannot be reached.
	ErrUnavailable = errors.New("store unavailable")
)

// Store is the interface for graph persistence backends.
type Store interface {
	// Get retrieves a graph document by ID.
	// Returns ErrNotFound if it does not exist.
	Get(ctx context.Context, graphID string) (*graphdoc.Document, error)

	// Put stores a graph document, replacing any existing document with
	// the same graph ID.
	Put(ctx context.Context, doc *graphdoc.Document) error

	// Delete removes a graph document.
	// Returns ErrNotFound if it does not exist.
	Delete(ctx context.Context, graphID string) error

	// List returns the IDs of all stored graphs in sorted order.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
