package routes

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryRouteRepository is an in-memory route store for scaffolding/tests.
type MemoryRouteRepository struct {
	mu     sync.RWMutex
	routes map[uuid.UUID]*Route
	byURL  map[string]uuid.UUID
}

// NewMemoryRouteRepository constructs the repository.
func NewMemoryRouteRepository() *MemoryRouteRepository {
	return &MemoryRouteRepository{
		routes: make(map[uuid.UUID]*Route),
		byURL:  make(map[string]uuid.UUID),
	}
}

// Create inserts the route, enforcing URL uniqueness.
func (m *MemoryRouteRepository) Create(_ context.Context, record *Route) (*Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if holder, ok := m.byURL[record.URL]; ok && holder != record.ID {
		return nil, &URLTakenError{URL: record.URL, HolderID: holder, Requested: record.Target()}
	}

	copied := CloneRoute(record)
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	m.routes[copied.ID] = copied
	m.byURL[copied.URL] = copied.ID
	return CloneRoute(copied), nil
}

// Update rebinds an existing route, enforcing URL uniqueness.
func (m *MemoryRouteRepository) Update(_ context.Context, record *Route) (*Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.routes[record.ID]
	if !ok {
		return nil, &RouteNotFoundError{Key: record.ID.String()}
	}
	if holder, taken := m.byURL[record.URL]; taken && holder != record.ID {
		return nil, &URLTakenError{URL: record.URL, HolderID: holder, Requested: record.Target()}
	}

	delete(m.byURL, current.URL)
	copied := CloneRoute(record)
	m.routes[copied.ID] = copied
	m.byURL[copied.URL] = copied.ID
	return CloneRoute(copied), nil
}

// GetByID retrieves a route by identifier.
func (m *MemoryRouteRepository) GetByID(_ context.Context, id uuid.UUID) (*Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.routes[id]
	if !ok {
		return nil, &RouteNotFoundError{Key: id.String()}
	}
	return CloneRoute(record), nil
}

// GetByURL retrieves a route by its bound URL.
func (m *MemoryRouteRepository) GetByURL(_ context.Context, url string) (*Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byURL[url]
	if !ok {
		return nil, &RouteNotFoundError{Key: url}
	}
	return CloneRoute(m.routes[id]), nil
}

// GetByTarget finds the route bound to the given target, if any.
func (m *MemoryRouteRepository) GetByTarget(_ context.Context, target Target) (*Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, record := range m.routes {
		if record.TargetKind == target.Kind && record.TargetID == target.ID {
			return CloneRoute(record), nil
		}
	}
	return nil, &RouteNotFoundError{Key: string(target.Kind) + ":" + target.ID.String()}
}

// Delete removes a route by id; absent ids are a no-op.
func (m *MemoryRouteRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if record, ok := m.routes[id]; ok {
		delete(m.byURL, record.URL)
		delete(m.routes, id)
	}
	return nil
}

// DeleteByTarget removes every route bound to the target.
func (m *MemoryRouteRepository) DeleteByTarget(_ context.Context, target Target) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, record := range m.routes {
		if record.TargetKind == target.Kind && record.TargetID == target.ID {
			delete(m.byURL, record.URL)
			delete(m.routes, id)
		}
	}
	return nil
}
