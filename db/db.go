// Package db is the persistence gateway of the service. It exposes collection-scoped
// document operations (find, insert, update, delete) behind the Gateway interface, with
// three interchangeable backends:
//
//   - MongoDB (the default document store),
//   - PostgreSQL, storing each document as a JSONB row,
//   - an in-memory store for tests and local experiments.
//
// A single Gateway is built by the bootstrap and injected into every resource service;
// nothing in this package is a process-wide singleton. Callers normally use the typed
// Collection wrapper instead of the raw Gateway.
package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/user/may15-go/apperror"
	"github.com/user/may15-go/config"
)

// Filter is a field-equality predicate. Keys are document field names as they appear in
// JSON/BSON (e.g. "title"). An empty or nil Filter matches every document.
type Filter map[string]any

// Meta holds the store-assigned identity and timestamps every record carries.
// Records embed it (with `bson:",inline"`) so the wire shape is flat.
type Meta struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Metadata gives the gateway access to the embedded Meta of any record.
func (m *Meta) Metadata() *Meta { return m }

// Document is implemented by every record type through its embedded Meta.
type Document interface {
	Metadata() *Meta
}

// Gateway is the contract each backend implements. Every operation is a single,
// independent store call: none of them shares a transaction or a lock with another.
//
// Lookups by id report absence through the boolean result and a nil error, for missing
// and for malformed ids alike.
type Gateway interface {
	// FindMany decodes every document of collection matching filter into out,
	// which must be a pointer to a slice. Documents come back in insertion order.
	FindMany(ctx context.Context, collection string, filter Filter, out any) error
	// FindByID decodes the document with the given id into out.
	FindByID(ctx context.Context, collection, id string, out any) (bool, error)
	// Insert stores doc. Identity and timestamps are already set by the caller.
	Insert(ctx context.Context, collection string, doc Document) error
	// UpdateByID merges the non-empty fields of patch into the stored document, stamps
	// updatedAt and decodes the document as it was BEFORE the update into out.
	UpdateByID(ctx context.Context, collection, id string, patch any, out any) (bool, error)
	// DeleteByID removes the document and decodes it into out.
	DeleteByID(ctx context.Context, collection, id string, out any) (bool, error)
	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
	// Close releases the underlying connection.
	Close(ctx context.Context) error
}

// Now is the clock used for createdAt/updatedAt. Millisecond precision matches what
// MongoDB can store, so every backend returns the exact value it was given.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// parseID converts a hex id; ok is false for malformed ids.
func parseID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

// Open builds the gateway selected by the connection string scheme. It does not dial:
// reachability is checked separately with Ping so the caller decides what a failed
// connection means.
func Open(ctx context.Context, cfg *config.StoreConfig) (Gateway, error) {
	driver, err := cfg.Driver()
	if err != nil {
		return nil, apperror.NewConfigError("invalid connection string", err)
	}

	switch driver {
	case config.DriverMongo:
		return OpenMongo(ctx, cfg.ConnectionURI(), cfg.DatabaseName)
	case config.DriverPostgres:
		return OpenPostgres(cfg.ConnectionURI())
	case config.DriverMemory:
		return NewMemoryGateway(), nil
	default:
		return nil, apperror.NewConfigError(fmt.Sprintf("no gateway for driver %q", driver), nil)
	}
}
