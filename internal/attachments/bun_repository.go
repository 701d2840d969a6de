package attachments

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunAttachmentRepository resolves attachments through go-repository-bun.
type BunAttachmentRepository struct {
	db   *bun.DB
	repo repository.Repository[*Attachment]
}

// NewBunAttachmentRepository constructs an attachment repository without caching.
func NewBunAttachmentRepository(db *bun.DB) *BunAttachmentRepository {
	return NewBunAttachmentRepositoryWithCache(db, nil, nil)
}

// NewBunAttachmentRepositoryWithCache constructs an attachment repository
// with optional read-through caching.
func NewBunAttachmentRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunAttachmentRepository {
	base := NewAttachmentRepository(db)
	return &BunAttachmentRepository{
		db:   db,
		repo: wrapWithCache(base, cacheService, keySerializer),
	}
}

func (r *BunAttachmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*Attachment, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil, &AttachmentsNotFoundError{IDs: []uuid.UUID{id}}
		}
		return nil, fmt.Errorf("attachment repository error: %w", err)
	}
	return record, nil
}

// GetByIDs loads the requested attachments preserving input order and
// reporting every unresolved id.
func (r *BunAttachmentRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*Attachment, error) {
	if len(ids) == 0 {
		return []*Attachment{}, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, id.String())
	}

	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.id IN (?)", bun.In(keys))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("attachment repository error: %w", err)
	}

	byID := make(map[uuid.UUID]*Attachment, len(records))
	for _, record := range records {
		byID[record.ID] = record
	}

	out := make([]*Attachment, 0, len(ids))
	var missing []uuid.UUID
	for _, id := range ids {
		record, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		out = append(out, record)
	}
	if len(missing) > 0 {
		return nil, &AttachmentsNotFoundError{IDs: missing}
	}
	return out, nil
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
