package tags

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository abstracts storage for tag records. GetByIDs resolves every id
// or fails naming the first unresolved one; callers rely on result order
// matching input order.
type Repository interface {
	Create(ctx context.Context, record *Tag) (*Tag, error)
	Update(ctx context.Context, record *Tag) (*Tag, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Tag, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*Tag, error)
	GetAll(ctx context.Context) ([]*Tag, error)
}

// NewTagRepository builds the go-repository-bun handler set for tags.
func NewTagRepository(db *bun.DB) repository.Repository[*Tag] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Tag]{
		NewRecord: func() *Tag { return &Tag{} },
		GetID: func(t *Tag) uuid.UUID {
			return t.ID
		},
		SetID: func(t *Tag, id uuid.UUID) {
			t.ID = id
		},
		GetIdentifier: func() string {
			return "name"
		},
		GetIdentifierValue: func(t *Tag) string {
			return t.Name
		},
	})
}
