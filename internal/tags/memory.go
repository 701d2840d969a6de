package tags

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryTagRepository is an in-memory tag store for scaffolding/tests.
type MemoryTagRepository struct {
	mu   sync.RWMutex
	tags map[uuid.UUID]*Tag
}

// NewMemoryTagRepository constructs the repository.
func NewMemoryTagRepository() *MemoryTagRepository {
	return &MemoryTagRepository{
		tags: make(map[uuid.UUID]*Tag),
	}
}

// Put seeds a record directly, bypassing service validation.
func (m *MemoryTagRepository) Put(record *Tag) {
	if record == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tags[record.ID] = cloneTag(record)
}

// Create inserts the supplied tag.
func (m *MemoryTagRepository) Create(_ context.Context, record *Tag) (*Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := cloneTag(record)
	m.tags[copied.ID] = copied
	return cloneTag(copied), nil
}

// Update persists changes for an existing tag.
func (m *MemoryTagRepository) Update(_ context.Context, record *Tag) (*Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tags[record.ID]; !ok {
		return nil, &TagNotFoundError{ID: record.ID}
	}
	copied := cloneTag(record)
	m.tags[copied.ID] = copied
	return cloneTag(copied), nil
}

// GetByID retrieves a tag by identifier.
func (m *MemoryTagRepository) GetByID(_ context.Context, id uuid.UUID) (*Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.tags[id]
	if !ok {
		return nil, &TagNotFoundError{ID: id}
	}
	return cloneTag(record), nil
}

// GetByIDs resolves every id, preserving input order.
func (m *MemoryTagRepository) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Tag, 0, len(ids))
	for _, id := range ids {
		record, ok := m.tags[id]
		if !ok {
			return nil, &TagNotFoundError{ID: id}
		}
		out = append(out, cloneTag(record))
	}
	return out, nil
}

// GetAll returns every tag in stable id order.
func (m *MemoryTagRepository) GetAll(_ context.Context) ([]*Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Tag, 0, len(m.tags))
	for _, record := range m.tags {
		out = append(out, cloneTag(record))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}
