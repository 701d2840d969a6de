package pages

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository abstracts aggregate storage for pages. CreateAggregate and
// UpdateAggregate persist the page together with its variants, their routes,
// tag references and attachment references; either everything is stored or
// nothing is. Returned aggregates are fully hydrated.
type Repository interface {
	CreateAggregate(ctx context.Context, page *Page) (*Page, error)
	UpdateAggregate(ctx context.Context, page *Page) (*Page, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Page, error)
	List(ctx context.Context) ([]*Page, error)
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Select(ctx context.Context, filter Filter) ([]*Page, error)
	Count(ctx context.Context, filter Filter) (int, error)
}

// NewPageRepository builds the go-repository-bun handler set for page rows.
func NewPageRepository(db *bun.DB) repository.Repository[*Page] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Page]{
		NewRecord: func() *Page { return &Page{} },
		GetID: func(p *Page) uuid.UUID {
			return p.ID
		},
		SetID: func(p *Page, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(p *Page) string {
			return p.ID.String()
		},
	})
}

// NewVariantRepository builds the go-repository-bun handler set for variant rows.
func NewVariantRepository(db *bun.DB) repository.Repository[*PageVariant] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*PageVariant]{
		NewRecord: func() *PageVariant { return &PageVariant{} },
		GetID: func(v *PageVariant) uuid.UUID {
			return v.ID
		},
		SetID: func(v *PageVariant, id uuid.UUID) {
			v.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(v *PageVariant) string {
			return v.ID.String()
		},
	})
}
