package attachments

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository is the attachment store contract the page reconciler consumes.
// GetByIDs preserves input order and reports every unresolved id.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Attachment, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*Attachment, error)
}

// NewAttachmentRepository builds the go-repository-bun handler set.
func NewAttachmentRepository(db *bun.DB) repository.Repository[*Attachment] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Attachment]{
		NewRecord: func() *Attachment { return &Attachment{} },
		GetID: func(a *Attachment) uuid.UUID {
			return a.ID
		},
		SetID: func(a *Attachment, id uuid.UUID) {
			a.ID = id
		},
		GetIdentifier: func() string {
			return "name"
		},
		GetIdentifierValue: func(a *Attachment) string {
			return a.Name
		},
	})
}
