package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/livefire2015/ez-rental/src/models"
)

// Option configures a MemoryStore
type Option[T Entity[T]] func(*MemoryStore[T])

type uniqueKey[T any] struct {
	name string
	fn   func(T) string
}

// WithUniqueKey rejects an upsert when another record has the same non-empty key
func WithUniqueKey[T Entity[T]](name string, fn func(T) string) Option[T] {
	return func(s *MemoryStore[T]) {
		s.uniques = append(s.uniques, uniqueKey[T]{name: name, fn: fn})
	}
}

// MemoryStore keeps records in insertion order. Replacing a record keeps its position.
// Records are copied on the way in and out so callers never share slices with the store.
type MemoryStore[T Entity[T]] struct {
	mu sync.RWMutex

	entity  string
	index   map[uuid.UUID]int
	records []T
	uniques []uniqueKey[T]
}

// NewMemoryStore creates an empty store for the named entity
func NewMemoryStore[T Entity[T]](entity string, opts ...Option[T]) *MemoryStore[T] {
	s := &MemoryStore[T]{
		entity: entity,
		index:  map[uuid.UUID]int{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns a copy of the record with the given id
func (s *MemoryStore[T]) Get(_ context.Context, id uuid.UUID) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s %s: %w", s.entity, id, models.ErrNotFound)
	}
	return s.records[i].Clone(), nil
}

// List returns a snapshot of every record in catalog order
func (s *MemoryStore[T]) List(_ context.Context) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, len(s.records))
	for i, r := range s.records {
		out[i] = r.Clone()
	}
	return out, nil
}

// Upsert validates the record and inserts it or replaces the record with the same id
func (s *MemoryStore[T]) Upsert(_ context.Context, entity T) error {
	id := entity.EntityID()
	if id == uuid.Nil {
		return &models.ConflictError{
			Entity: s.entity,
			ID:     id,
			Err:    models.NewValidationError(s.entity, "id", "is required"),
		}
	}
	if err := entity.Validate(); err != nil {
		return &models.ConflictError{Entity: s.entity, ID: id, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.uniques {
		key := u.fn(entity)
		if key == "" {
			continue
		}
		for _, r := range s.records {
			if r.EntityID() != id && u.fn(r) == key {
				return &models.ConflictError{
					Entity: s.entity,
					ID:     id,
					Err:    fmt.Errorf("%s %q already used by %s", u.name, key, r.EntityID()),
				}
			}
		}
	}

	if i, ok := s.index[id]; ok {
		s.records[i] = entity.Clone()
		return nil
	}
	s.index[id] = len(s.records)
	s.records = append(s.records, entity.Clone())
	return nil
}

// Len returns the number of records
func (s *MemoryStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
