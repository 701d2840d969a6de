package search

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryIndex is a map-backed interfaces.SearchIndex used in tests and by
// callers that do not need persistence or ranking. Match walks every string
// value in the stored documents and returns ids in stable order.
type MemoryIndex struct {
	mu   sync.RWMutex
	docs map[string]map[string]any
}

// NewMemoryIndex builds an empty in-memory index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		docs: map[string]map[string]any{},
	}
}

func (m *MemoryIndex) Upsert(_ context.Context, id string, doc map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[id] = cloneDocument(doc)
	return nil
}

func (m *MemoryIndex) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, id)
	return nil
}

func (m *MemoryIndex) Match(_ context.Context, query string, limit int) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return []string{}, nil
	}

	ids := make([]string, 0)
	for id, doc := range m.docs {
		if documentContains(doc, needle) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if limit > 0 && limit < len(ids) {
		ids = ids[:limit]
	}
	return ids, nil
}

func (m *MemoryIndex) Close() error {
	return nil
}

// Len reports how many documents the index holds.
func (m *MemoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

// Document returns a copy of the stored document, if present.
func (m *MemoryIndex) Document(id string) (map[string]any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, false
	}
	return cloneDocument(doc), true
}

func documentContains(value any, needle string) bool {
	switch v := value.(type) {
	case string:
		return strings.Contains(strings.ToLower(v), needle)
	case []string:
		for _, item := range v {
			if strings.Contains(strings.ToLower(item), needle) {
				return true
			}
		}
	case []any:
		for _, item := range v {
			if documentContains(item, needle) {
				return true
			}
		}
	case map[string]any:
		for _, item := range v {
			if documentContains(item, needle) {
				return true
			}
		}
	}
	return false
}

func cloneDocument(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for key, value := range doc {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return cloneDocument(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), v...)
	default:
		return value
	}
}
