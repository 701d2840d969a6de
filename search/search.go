// Package search exports the index synchronization contracts for module consumers.
package search

import (
	"github.com/goliatone/go-pagekit/internal/pages"
	"github.com/goliatone/go-pagekit/internal/search"
	"github.com/goliatone/go-pagekit/pkg/interfaces"
)

type (
	Synchronizer = search.Synchronizer
	Report       = search.Report
	Failure      = search.Failure
	SyncError    = search.SyncError

	Index       = interfaces.SearchIndex
	BleveIndex  = search.BleveIndex
	MemoryIndex = search.MemoryIndex
)

// ErrIndexSync marks failures to propagate persisted state into the index.
var ErrIndexSync = search.ErrIndexSync

// NewBleveIndex opens or creates a bleve index; an empty path keeps it in memory.
func NewBleveIndex(path string, opts ...search.BleveOption) (*BleveIndex, error) {
	return search.NewBleveIndex(path, opts...)
}

// NewMemoryIndex builds a map-backed index for tests and embedded use.
func NewMemoryIndex() *MemoryIndex {
	return search.NewMemoryIndex()
}

// NewSynchronizer builds a synchronizer over the given index and page store.
func NewSynchronizer(index Index, pageRepo pages.Repository, opts ...search.SynchronizerOption) *Synchronizer {
	return search.NewSynchronizer(index, pageRepo, opts...)
}

// BuildDocument flattens a page aggregate into the indexed document shape.
func BuildDocument(page *pages.Page) map[string]any {
	return search.BuildDocument(page)
}
