package search

import (
	"context"
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/goliatone/go-pagekit/internal/logging"
	"github.com/goliatone/go-pagekit/pkg/interfaces"
)

// defaultMatchLimit bounds unlimited Match calls.
const defaultMatchLimit = 100

// BleveIndex implements interfaces.SearchIndex on a bleve full-text index.
// With an empty path the index lives in memory, which is what the tests and
// embedded callers use; a non-empty path persists to disk.
type BleveIndex struct {
	mu     sync.RWMutex
	index  bleve.Index
	path   string
	logger interfaces.Logger
}

// BleveOption configures a BleveIndex.
type BleveOption func(*BleveIndex)

// WithBleveLogger sets the index logger.
func WithBleveLogger(logger interfaces.Logger) BleveOption {
	return func(b *BleveIndex) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBleveIndex opens or creates a bleve index at path. An empty path
// creates a memory-only index.
func NewBleveIndex(path string, opts ...BleveOption) (*BleveIndex, error) {
	b := &BleveIndex{
		path:   path,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(b)
	}

	mapping := buildIndexMapping()

	if path == "" {
		index, err := bleve.NewMemOnly(mapping)
		if err != nil {
			return nil, fmt.Errorf("search: create memory index: %w", err)
		}
		b.index = index
		return b, nil
	}

	index, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		index, err = bleve.New(path, mapping)
	}
	if err != nil {
		return nil, fmt.Errorf("search: open index %q: %w", path, err)
	}
	b.index = index
	b.logger.Info("search index ready", "path", path)
	return b, nil
}

func buildIndexMapping() mapping.IndexMapping {
	docMapping := bleve.NewDocumentMapping()

	textField := bleve.NewTextFieldMapping()
	docMapping.AddFieldMappingsAt("title", textField)
	docMapping.AddFieldMappingsAt("lead", textField)
	docMapping.AddFieldMappingsAt("content", textField)

	keywordField := bleve.NewTextFieldMapping()
	keywordField.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", keywordField)
	docMapping.AddFieldMappingsAt("type", keywordField)
	docMapping.AddFieldMappingsAt("website_id", keywordField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// Upsert indexes the document under id, replacing any previous body.
func (b *BleveIndex) Upsert(_ context.Context, id string, doc map[string]any) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.index.Index(id, doc)
}

// Delete removes the document. Deleting an absent id is a no-op.
func (b *BleveIndex) Delete(_ context.Context, id string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.index.Delete(id)
}

// Match returns document ids whose text fields match the query, best hits
// first.
func (b *BleveIndex) Match(ctx context.Context, query string, limit int) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if limit <= 0 {
		limit = defaultMatchLimit
	}

	matchQuery := bleve.NewMatchQuery(query)
	request := bleve.NewSearchRequestOptions(matchQuery, limit, 0, false)

	result, err := b.index.SearchInContext(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("search: execute match: %w", err)
	}

	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// Close releases the index resources.
func (b *BleveIndex) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.index.Close()
}
