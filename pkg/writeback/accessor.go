package writeback

import (
	"context"
	"errors"

	"github.com/budova/aptgraph/pkg/room"
)

var (
	// ErrNoRooms means the store holds no room records.
	ErrNoRooms = errors.New("no rooms found")
	// ErrMissingSchema means a required attribute does not exist on the
	// room record type.
	ErrMissingSchema = errors.New("required attribute missing from room schema")
	// ErrWrite wraps any failed attribute write. The batch is discarded.
	ErrWrite = errors.New("attribute write failed")
	// ErrInvalidSchedule refuses to write a schedule with validation errors.
	ErrInvalidSchedule = errors.New("schedule has validation errors")
)

// Accessor reads room records from a host store and opens units of work
// for writing derived attributes back.
type Accessor interface {
	// ListRooms returns every room record. An empty store yields an empty
	// slice, not an error.
	ListRooms(ctx context.Context) ([]room.Record, error)
	// GetTag returns the named attribute of a record. ok is false when the
	// schema lacks the attribute or the record leaves it unset; use
	// HasAttribute to tell the two apart.
	GetTag(ctx context.Context, rec room.Record, name string) (value any, ok bool, err error)
	// HasAttribute reports whether the room schema defines the attribute.
	HasAttribute(ctx context.Context, name string) (bool, error)
	// Begin opens a unit of work. Writes are visible to ListRooms/GetTag
	// only after Commit.
	Begin(ctx context.Context) (UnitOfWork, error)
}

// UnitOfWork collects attribute writes that are applied together.
type UnitOfWork interface {
	SetAttribute(ctx context.Context, rec room.Record, name string, value any) error
	Commit() error
	Rollback() error
}

// ProgressFunc is called after each lot is written. Returning true asks
// the driver to stop and discard the batch.
type ProgressFunc func(current, max int) (cancel bool)
