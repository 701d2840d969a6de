package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-pagekit/internal/events"
	"github.com/goliatone/go-pagekit/internal/logging"
	"github.com/goliatone/go-pagekit/internal/pages"
	"github.com/goliatone/go-pagekit/pkg/interfaces"
	"github.com/google/uuid"
)

// ErrIndexSync marks a failure to propagate persisted state into the search
// index. Index failures never undo the store write; callers decide whether
// to retry, reindex, or ignore.
var ErrIndexSync = errors.New("search: index sync failed")

// SyncError carries the page and operation that failed to sync.
type SyncError struct {
	PageID uuid.UUID
	Op     string
	Err    error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("search: %s page %s: %v", e.Op, e.PageID, e.Err)
}

func (e *SyncError) Unwrap() error {
	return ErrIndexSync
}

// Cause returns the underlying backend error.
func (e *SyncError) Cause() error {
	return e.Err
}

// Report tallies a bulk reindex run. Failed pages are recorded and skipped;
// the run itself always completes.
type Report struct {
	Total    int
	Indexed  int
	Failed   int
	Failures []Failure
}

// Failure names one page that could not be reindexed.
type Failure struct {
	PageID uuid.UUID
	Err    error
}

// Synchronizer keeps the search index in step with the page store. It always
// re-reads the persisted aggregate before indexing, so the document reflects
// what was actually committed rather than what a caller thinks it wrote.
type Synchronizer struct {
	index  interfaces.SearchIndex
	pages  pages.Repository
	logger interfaces.Logger
}

// SynchronizerOption configures a Synchronizer.
type SynchronizerOption func(*Synchronizer)

// WithLogger sets the synchronizer logger.
func WithLogger(logger interfaces.Logger) SynchronizerOption {
	return func(s *Synchronizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSynchronizer builds a synchronizer over the given index and page store.
func NewSynchronizer(index interfaces.SearchIndex, pageRepo pages.Repository, opts ...SynchronizerOption) *Synchronizer {
	s := &Synchronizer{
		index:  index,
		pages:  pageRepo,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Index re-reads the page and upserts its document. A page that no longer
// exists is removed from the index instead, which keeps a stale update event
// from resurrecting a deleted document.
func (s *Synchronizer) Index(ctx context.Context, pageID uuid.UUID) error {
	page, err := s.pages.GetByID(ctx, pageID)
	if err != nil {
		var notFound *pages.PageNotFoundError
		if errors.As(err, &notFound) {
			return s.Remove(ctx, pageID)
		}
		return &SyncError{PageID: pageID, Op: "load", Err: err}
	}

	doc := BuildDocument(page)
	if err := ValidateDocument(doc); err != nil {
		return &SyncError{PageID: pageID, Op: "validate", Err: err}
	}
	if err := s.index.Upsert(ctx, pageID.String(), doc); err != nil {
		return &SyncError{PageID: pageID, Op: "upsert", Err: err}
	}
	return nil
}

// Remove deletes the page's document. Removing an absent document is a no-op.
func (s *Synchronizer) Remove(ctx context.Context, pageID uuid.UUID) error {
	if err := s.index.Delete(ctx, pageID.String()); err != nil {
		return &SyncError{PageID: pageID, Op: "delete", Err: err}
	}
	return nil
}

// ReindexAll walks every stored page and rebuilds its document. Individual
// failures are tallied and skipped so one broken page cannot abort the run.
func (s *Synchronizer) ReindexAll(ctx context.Context) (*Report, error) {
	ids, err := s.pages.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("search: list pages for reindex: %w", err)
	}

	report := &Report{Total: len(ids)}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := s.Index(ctx, id); err != nil {
			report.Failed++
			report.Failures = append(report.Failures, Failure{PageID: id, Err: err})
			s.logger.Warn("reindex page failed", "page_id", id, "error", err)
			continue
		}
		report.Indexed++
	}

	s.logger.Info("reindex complete", "total", report.Total, "indexed", report.Indexed, "failed", report.Failed)
	return report, nil
}

// Bind subscribes the synchronizer to the page lifecycle events. Handlers
// only log sync failures; by the time an event fires the store write has
// already been committed.
func (s *Synchronizer) Bind(bus *events.Bus) {
	bus.Subscribe(pages.KindPageCreated, func(ctx context.Context, evt interfaces.Event) {
		if created, ok := evt.(pages.PageCreated); ok && created.Page != nil {
			s.logSyncError(s.Index(ctx, created.Page.ID))
		}
	})
	bus.Subscribe(pages.KindPageUpdated, func(ctx context.Context, evt interfaces.Event) {
		if updated, ok := evt.(pages.PageUpdated); ok && updated.Page != nil {
			s.logSyncError(s.Index(ctx, updated.Page.ID))
		}
	})
	bus.Subscribe(pages.KindPageDeleted, func(ctx context.Context, evt interfaces.Event) {
		if deleted, ok := evt.(pages.PageDeleted); ok {
			s.logSyncError(s.Remove(ctx, deleted.PageID))
		}
	})
}

func (s *Synchronizer) logSyncError(err error) {
	if err == nil {
		return
	}
	s.logger.Error("index sync failed", "error", err)
}
