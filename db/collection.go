package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/user/may15-go/apperror"
)

// Record is the constraint satisfied by pointers to record types embedding Meta.
type Record[T any] interface {
	*T
	Document
}

// Collection is a typed view of one named collection on a Gateway.
// Absence is reported as a nil record with a nil error; every store failure is returned
// as an *apperror.AppError of type DatabaseError.
type Collection[T any, P Record[T]] struct {
	gw   Gateway
	name string
}

// NewCollection binds the record type T to a collection name, e.g.
//
//	tags := db.NewCollection[Tag](gw, "tags")
func NewCollection[T any, P Record[T]](gw Gateway, name string) *Collection[T, P] {
	return &Collection[T, P]{gw: gw, name: name}
}

// FindMany returns every record matching filter, in insertion order.
func (c *Collection[T, P]) FindMany(ctx context.Context, filter Filter) ([]T, error) {
	var out []T
	if err := c.gw.FindMany(ctx, c.name, filter, &out); err != nil {
		return nil, c.wrap("find", err)
	}
	return out, nil
}

// FindByID returns the record or nil when the id is missing or malformed.
func (c *Collection[T, P]) FindByID(ctx context.Context, id string) (*T, error) {
	out := new(T)
	found, err := c.gw.FindByID(ctx, c.name, id, out)
	if err != nil {
		return nil, c.wrap("find", err)
	}
	if !found {
		return nil, nil
	}
	return out, nil
}

// Insert assigns a fresh id and timestamps to doc, stores it and returns it.
func (c *Collection[T, P]) Insert(ctx context.Context, doc *T) (*T, error) {
	meta := P(doc).Metadata()
	now := Now()
	meta.ID = primitive.NewObjectID()
	meta.CreatedAt = now
	meta.UpdatedAt = now

	if err := c.gw.Insert(ctx, c.name, P(doc)); err != nil {
		return nil, c.wrap("insert", err)
	}
	return doc, nil
}

// UpdateByID merges patch into the stored record and returns the record as it was
// before the update (nil when nothing matched).
func (c *Collection[T, P]) UpdateByID(ctx context.Context, id string, patch any) (*T, error) {
	out := new(T)
	found, err := c.gw.UpdateByID(ctx, c.name, id, patch, out)
	if err != nil {
		return nil, c.wrap("update", err)
	}
	if !found {
		return nil, nil
	}
	return out, nil
}

// DeleteByID removes the record and returns it (nil when nothing matched).
func (c *Collection[T, P]) DeleteByID(ctx context.Context, id string) (*T, error) {
	out := new(T)
	found, err := c.gw.DeleteByID(ctx, c.name, id, out)
	if err != nil {
		return nil, c.wrap("delete", err)
	}
	if !found {
		return nil, nil
	}
	return out, nil
}

func (c *Collection[T, P]) wrap(op string, err error) error {
	return apperror.NewDatabaseError(fmt.Sprintf("failed to %s %s", op, c.name), err)
}
