package tags

import (
	"fmt"

	"context"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunTagRepository persists tags through go-repository-bun.
type BunTagRepository struct {
	db   *bun.DB
	repo repository.Repository[*Tag]
}

// NewBunTagRepository constructs a tag repository without caching.
func NewBunTagRepository(db *bun.DB) *BunTagRepository {
	return NewBunTagRepositoryWithCache(db, nil, nil)
}

// NewBunTagRepositoryWithCache constructs a tag repository with optional
// read-through caching.
func NewBunTagRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunTagRepository {
	base := NewTagRepository(db)
	return &BunTagRepository{
		db:   db,
		repo: wrapWithCache(base, cacheService, keySerializer),
	}
}

func (r *BunTagRepository) Create(ctx context.Context, record *Tag) (*Tag, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunTagRepository) Update(ctx context.Context, record *Tag) (*Tag, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns("name", "language_id", "website_id", "updated_at"),
	)
	if err != nil {
		return nil, mapRepositoryError(err, record.ID)
	}
	return updated, nil
}

func (r *BunTagRepository) GetByID(ctx context.Context, id uuid.UUID) (*Tag, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id)
	}
	return record, nil
}

// GetByIDs loads the requested tags and reorders them to match input order;
// any unresolved id fails the whole lookup.
func (r *BunTagRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*Tag, error) {
	if len(ids) == 0 {
		return []*Tag{}, nil
	}

	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.id IN (?)", bun.In(uuidStrings(ids)))
		}),
	)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*Tag, len(records))
	for _, record := range records {
		byID[record.ID] = record
	}

	out := make([]*Tag, 0, len(ids))
	for _, id := range ids {
		record, ok := byID[id]
		if !ok {
			return nil, &TagNotFoundError{ID: id}
		}
		out = append(out, record)
	}
	return out, nil
}

func (r *BunTagRepository) GetAll(ctx context.Context) ([]*Tag, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.id ASC")
		}),
	)
	return records, err
}

func mapRepositoryError(err error, id uuid.UUID) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &TagNotFoundError{ID: id}
	}
	return fmt.Errorf("tag repository error: %w", err)
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
