package pages

import "github.com/google/uuid"

const (
	// KindPageCreated is emitted after a page aggregate is first persisted.
	KindPageCreated = "pagekit.page.created"
	// KindPageUpdated is emitted after an existing aggregate is persisted.
	KindPageUpdated = "pagekit.page.updated"
	// KindPageDeleted is emitted after a page aggregate is removed.
	KindPageDeleted = "pagekit.page.deleted"
)

// PageCreated signals that a new page and its variants were persisted.
type PageCreated struct {
	Page *Page
}

func (PageCreated) Kind() string { return KindPageCreated }

// PageUpdated signals that an existing page aggregate changed.
type PageUpdated struct {
	Page *Page
}

func (PageUpdated) Kind() string { return KindPageUpdated }

// PageDeleted signals that a page aggregate was removed.
type PageDeleted struct {
	PageID uuid.UUID
}

func (PageDeleted) Kind() string { return KindPageDeleted }
