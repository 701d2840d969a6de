package routes

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository abstracts storage for routes. URL uniqueness across the whole
// system is this store's invariant: Create and Update fail with a
// URLTakenError when another route already holds the URL.
type Repository interface {
	Create(ctx context.Context, record *Route) (*Route, error)
	Update(ctx context.Context, record *Route) (*Route, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Route, error)
	GetByURL(ctx context.Context, url string) (*Route, error)
	GetByTarget(ctx context.Context, target Target) (*Route, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByTarget(ctx context.Context, target Target) error
}

// NewRouteRepository builds the go-repository-bun handler set for routes.
func NewRouteRepository(db *bun.DB) repository.Repository[*Route] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Route]{
		NewRecord: func() *Route { return &Route{} },
		GetID: func(r *Route) uuid.UUID {
			return r.ID
		},
		SetID: func(r *Route, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "url"
		},
		GetIdentifierValue: func(r *Route) string {
			return r.URL
		},
	})
}
