package db

import (
	"context"
	"time"

	"github.com/artsfest/festsync/pkg/festival"
)

// Store is the document-store view of the festival database that the sync
// engine works against. Every method addresses the table of one kind.
//
// Identifiers are generated by the store on Insert. Lookups by an
// identifier that is not well-formed behave like lookups of a missing
// record: they return nil without error.
type Store interface {
	// Find returns all records of a kind ordered by creation time.
	Find(ctx context.Context, k festival.Kind) ([]festival.Record, error)

	// FindByID returns the record with the given id, or nil.
	FindByID(ctx context.Context, k festival.Kind, id string) (festival.Record, error)

	// FindByKey returns the record whose natural key equals key, or nil.
	FindByKey(ctx context.Context, k festival.Kind, key string) (festival.Record, error)

	// Insert stores a new record and returns the generated id. The record's
	// ID field is ignored and then set to the new id.
	Insert(ctx context.Context, rec festival.Record) (string, error)

	// Update replaces the content of the record with rec.ID.
	Update(ctx context.Context, rec festival.Record) (UpdateResult, error)

	// Touch sets updated_at of the record with the given id without
	// changing its content. It reports whether the record exists.
	Touch(ctx context.Context, k festival.Kind, id string, at time.Time) (bool, error)
	// Delete removes the record with the given id. It reports whether
	// something was deleted.
	Delete(ctx context.Context, k festival.Kind, id string) (bool, error)
}

// UpdateResult tells whether an update found its target and whether it
// changed any content.
type UpdateResult struct {
	Matched  bool
	Modified bool
}
