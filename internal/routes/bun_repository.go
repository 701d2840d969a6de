package routes

import (
	"context"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRouteRepository persists routes through go-repository-bun. URL
// uniqueness is double-checked before writes so conflicts surface as
// URLTakenError instead of a raw constraint violation.
type BunRouteRepository struct {
	db   *bun.DB
	repo repository.Repository[*Route]
}

// NewBunRouteRepository constructs a route repository without caching.
func NewBunRouteRepository(db *bun.DB) *BunRouteRepository {
	return NewBunRouteRepositoryWithCache(db, nil, nil)
}

// NewBunRouteRepositoryWithCache constructs a route repository with optional
// read-through caching.
func NewBunRouteRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunRouteRepository {
	base := NewRouteRepository(db)
	return &BunRouteRepository{
		db:   db,
		repo: wrapWithCache(base, cacheService, keySerializer),
	}
}

func (r *BunRouteRepository) Create(ctx context.Context, record *Route) (*Route, error) {
	if err := r.checkURLFree(ctx, record.URL, record.ID); err != nil {
		return nil, err
	}
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunRouteRepository) Update(ctx context.Context, record *Route) (*Route, error) {
	if err := r.checkURLFree(ctx, record.URL, record.ID); err != nil {
		return nil, err
	}
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns("url", "target_kind", "target_id", "updated_at"),
	)
	if err != nil {
		return nil, mapRouteError(err, record.ID.String())
	}
	return updated, nil
}

func (r *BunRouteRepository) GetByID(ctx context.Context, id uuid.UUID) (*Route, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRouteError(err, id.String())
	}
	return record, nil
}

func (r *BunRouteRepository) GetByURL(ctx context.Context, url string) (*Route, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.url = ?", url)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRouteError(err, url)
	}
	if len(records) == 0 {
		return nil, &RouteNotFoundError{Key: url}
	}
	return records[0], nil
}

func (r *BunRouteRepository) GetByTarget(ctx context.Context, target Target) (*Route, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.target_kind = ?", target.Kind).
				Where("?TableAlias.target_id = ?", target.ID)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &RouteNotFoundError{Key: string(target.Kind) + ":" + target.ID.String()}
	}
	return records[0], nil
}

func (r *BunRouteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if r.db == nil {
		return fmt.Errorf("route repository: database not configured")
	}
	_, err := r.db.NewDelete().
		Model((*Route)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	return err
}

func (r *BunRouteRepository) DeleteByTarget(ctx context.Context, target Target) error {
	if r.db == nil {
		return fmt.Errorf("route repository: database not configured")
	}
	_, err := r.db.NewDelete().
		Model((*Route)(nil)).
		Where("?TableAlias.target_kind = ?", target.Kind).
		Where("?TableAlias.target_id = ?", target.ID).
		Exec(ctx)
	return err
}

func (r *BunRouteRepository) checkURLFree(ctx context.Context, url string, selfID uuid.UUID) error {
	existing, err := r.GetByURL(ctx, url)
	if err != nil {
		var notFound *RouteNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	if existing.ID == selfID {
		return nil
	}
	return &URLTakenError{URL: url, HolderID: existing.ID}
}

func mapRouteError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &RouteNotFoundError{Key: key}
	}
	return fmt.Errorf("route repository error: %w", err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
