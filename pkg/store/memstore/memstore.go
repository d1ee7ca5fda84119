// Package memstore is an in-memory room store used for tests and dry runs.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/budova/aptgraph/pkg/room"
	"github.com/budova/aptgraph/pkg/writeback"
)

// Kind is the storage type of an attribute.
type Kind int

const (
	KindAny Kind = iota
	KindString
	KindNumber
	KindInteger
)

var (
	ErrUnknownRecord = errors.New("unknown room record")
	ErrNoAttribute   = errors.New("attribute not in schema")
	ErrReadOnly      = errors.New("attribute is read-only")
	ErrWrongType     = errors.New("value has wrong type for attribute")
	ErrDone          = errors.New("unit of work already finished")
)

// Record identifies one room in the store.
type Record struct {
	id string
}

func (r Record) RecordID() string { return r.id }

// Store keeps room attributes in memory. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	schema   map[string]Kind
	readOnly map[string]bool
	order    []string
	rows     map[string]map[string]any
}

// New creates a store whose schema holds the given attributes.
func New(schema map[string]Kind) *Store {
	s := &Store{
		schema:   make(map[string]Kind, len(schema)),
		readOnly: make(map[string]bool),
		rows:     make(map[string]map[string]any),
	}
	for name, kind := range schema {
		s.schema[name] = kind
	}
	return s
}

// NewForAttributes creates a store with a schema covering every attribute
// the writeback driver uses.
func NewForAttributes(a writeback.Attributes) *Store {
	a = a.WithDefaults()
	return New(map[string]Kind{
		a.UnitNumber:       KindString,
		a.RoomType:         KindInteger,
		a.Area:             KindNumber,
		a.Level:            KindString,
		a.RoomIndex:        KindString,
		a.ApartmentType:    KindString,
		a.LivingRoomCount:  KindInteger,
		a.AreaFactor:       KindNumber,
		a.AreaWithFactor:   KindNumber,
		a.RoomSalesArea:    KindNumber,
		a.ApartmentArea:    KindNumber,
		a.LivingArea:       KindNumber,
		a.LivingAreaSales:  KindNumber,
		a.GeneralArea:      KindNumber,
		a.GeneralAreaSales: KindNumber,
		a.Department:       KindString,
		a.Occupancy:        KindString,
	})
}

// SetReadOnly marks an attribute as not writable.
func (s *Store) SetReadOnly(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readOnly[name] = true
}

// DropAttribute removes an attribute from the schema and from every row.
func (s *Store) DropAttribute(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.schema, name)
	for _, row := range s.rows {
		delete(row, name)
	}
}

// Add inserts a room with the given attribute values and returns its record.
func (s *Store) Add(id string, values map[string]any) Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := make(map[string]any, len(values))
	for k, v := range values {
		row[k] = v
	}
	if _, exists := s.rows[id]; !exists {
		s.order = append(s.order, id)
	}
	s.rows[id] = row
	return Record{id: id}
}

// Get returns a committed attribute value.
func (s *Store) Get(id, name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.rows[id]
	if !ok {
		return nil, false
	}
	v, ok := row[name]
	return v, ok
}

// Snapshot copies every committed row.
func (s *Store) Snapshot() map[string]map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]map[string]any, len(s.rows))
	for id, row := range s.rows {
		cp := make(map[string]any, len(row))
		for k, v := range row {
			cp[k] = v
		}
		out[id] = cp
	}
	return out
}

func (s *Store) ListRooms(_ context.Context) ([]room.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := make([]room.Record, 0, len(s.order))
	for _, id := range s.order {
		recs = append(recs, Record{id: id})
	}
	return recs, nil
}

func (s *Store) HasAttribute(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.schema[name]
	return ok, nil
}

func (s *Store) GetTag(_ context.Context, rec room.Record, name string) (any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.rows[rec.RecordID()]
	if !ok {
		return nil, false, fmt.Errorf("%w: %s", ErrUnknownRecord, rec.RecordID())
	}
	if _, ok := s.schema[name]; !ok {
		return nil, false, nil
	}
	v, ok := row[name]
	return v, ok, nil
}

func (s *Store) Begin(_ context.Context) (writeback.UnitOfWork, error) {
	return &unitOfWork{store: s, pending: make(map[string]map[string]any)}, nil
}

type unitOfWork struct {
	store   *Store
	pending map[string]map[string]any
	done    bool
}

func (u *unitOfWork) SetAttribute(_ context.Context, rec room.Record, name string, value any) error {
	if u.done {
		return ErrDone
	}
	s := u.store
	s.mu.RLock()
	_, exists := s.rows[rec.RecordID()]
	kind, inSchema := s.schema[name]
	ro := s.readOnly[name]
	s.mu.RUnlock()

	switch {
	case !exists:
		return fmt.Errorf("%w: %s", ErrUnknownRecord, rec.RecordID())
	case !inSchema:
		return fmt.Errorf("%w: %s", ErrNoAttribute, name)
	case ro:
		return fmt.Errorf("%w: %s", ErrReadOnly, name)
	case !kindAccepts(kind, value):
		return fmt.Errorf("%w: %s got %T", ErrWrongType, name, value)
	}

	row, ok := u.pending[rec.RecordID()]
	if !ok {
		row = make(map[string]any)
		u.pending[rec.RecordID()] = row
	}
	row[name] = value
	return nil
}

func (u *unitOfWork) Commit() error {
	if u.done {
		return ErrDone
	}
	u.done = true
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, values := range u.pending {
		row := s.rows[id]
		for k, v := range values {
			row[k] = v
		}
	}
	return nil
}

func (u *unitOfWork) Rollback() error {
	if u.done {
		return nil
	}
	u.done = true
	u.pending = nil
	return nil
}

func kindAccepts(kind Kind, value any) bool {
	switch kind {
	case KindString:
		_, ok := value.(string)
		return ok
	case KindNumber:
		_, ok := value.(float64)
		return ok
	case KindInteger:
		_, ok := value.(int)
		return ok
	default:
		return true
	}
}
