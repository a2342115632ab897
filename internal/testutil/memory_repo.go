package testutil

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/turtacn/potvault/internal/domain/potential"
	"github.com/turtacn/potvault/pkg/errors"
	pottypes "github.com/turtacn/potvault/pkg/types/potential"
)

// MemoryRepository is an in-memory potential.Repository for unit tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*potential.PotentialFile

	// SaveErr, when set, is returned by every Save call.
	SaveErr error
	// FindErr, when set, is returned by every FindByTags call.
	FindErr error
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[uuid.UUID]*potential.PotentialFile)}
}

func (r *MemoryRepository) Save(_ context.Context, pf *potential.PotentialFile) error {
	if r.SaveErr != nil {
		return r.SaveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *pf
	r.items[pf.ID] = &clone
	return nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id uuid.UUID) (*potential.PotentialFile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pf, ok := r.items[id]
	if !ok {
		return nil, errors.New(errors.CodePotentialNotFound, "potential not found").
			WithDetail("id=" + id.String())
	}
	clone := *pf
	return &clone, nil
}

func (r *MemoryRepository) FindByTags(_ context.Context, filter pottypes.TagFilter) ([]*potential.PotentialFile, error) {
	if r.FindErr != nil {
		return nil, r.FindErr
	}
	if filter.Empty() {
		return nil, errors.New(errors.CodeCatalogEmptyFilter, "at least one query tag is required")
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*potential.PotentialFile
	for _, pf := range r.items {
		if matches(pf, filter) {
			clone := *pf
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *MemoryRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.items)), nil
}

func matches(pf *potential.PotentialFile, f pottypes.TagFilter) bool {
	if f.Name != nil && pf.Name != *f.Name {
		return false
	}
	if f.Element != nil && pf.Element != *f.Element {
		return false
	}
	if f.Functional != nil && pf.Functional != *f.Functional {
		return false
	}
	if f.Version != nil && pf.Version != *f.Version {
		return false
	}
	if f.Fingerprint != nil && pf.Fingerprint != *f.Fingerprint {
		return false
	}
	return true
}

// MemoryStore is an in-memory potential.ContentStore for unit tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte

	// PutErr, when set, is returned by every Put call.
	PutErr error
}

// NewMemoryStore creates an empty in-memory content store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Put(_ context.Context, key string, raw []byte) error {
	if s.PutErr != nil {
		return s.PutErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), raw...)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.objects[key]
	if !ok {
		return nil, errors.NotFound("object not found").WithDetail("key=" + key)
	}
	return append([]byte(nil), raw...), nil
}

// Len returns the number of stored objects.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
