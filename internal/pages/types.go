package pages

import (
	"time"

	"github.com/goliatone/go-pagekit/internal/attachments"
	"github.com/goliatone/go-pagekit/internal/domain"
	"github.com/goliatone/go-pagekit/internal/routes"
	"github.com/goliatone/go-pagekit/internal/tags"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Page is the aggregate root for one piece of content. Variants, their
// routes and tag references, and the attachment references are loaded and
// persisted as a single unit; no other component writes these fields.
type Page struct {
	bun.BaseModel `bun:"table:pages,alias:p"`

	ID        uuid.UUID       `bun:",pk,type:uuid" json:"id"`
	Type      domain.PageType `bun:"type,notnull,default:'page'" json:"type"`
	WebsiteID uuid.UUID       `bun:"website_id,notnull,type:uuid" json:"website_id"`
	CreatedAt time.Time       `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time       `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Variants    []*PageVariant            `bun:"rel:has-many,join:id=page_id" json:"page_variants,omitempty"`
	Attachments []*attachments.Attachment `bun:"-" json:"attachments,omitempty"`
}

// Variant returns the variant with the given id, or nil.
func (p *Page) Variant(id uuid.UUID) *PageVariant {
	for _, variant := range p.Variants {
		if variant != nil && variant.ID == id {
			return variant
		}
	}
	return nil
}

// PageVariant is the language-specific rendering of a page. The language id
// is immutable once persisted; the optional route is exclusively owned by
// the variant, the tags are shared references into the tag store.
type PageVariant struct {
	bun.BaseModel `bun:"table:page_variants,alias:pv"`

	ID          uuid.UUID            `bun:",pk,type:uuid" json:"id"`
	PageID      uuid.UUID            `bun:"page_id,notnull,type:uuid" json:"page_id"`
	LanguageID  uuid.UUID            `bun:"language_id,notnull,type:uuid" json:"language_id"`
	Status      domain.VariantStatus `bun:"status,notnull,default:'draft'" json:"status"`
	Title       string               `bun:"title" json:"title"`
	Lead        string               `bun:"lead" json:"lead"`
	Content     string               `bun:"content" json:"content"`
	PublishedAt *time.Time           `bun:"published_at,nullzero" json:"published_at,omitempty"`
	CreatedAt   time.Time            `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time            `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	// Page is the owning aggregate, set as a direct object relation before
	// validation runs; the page may not be persisted yet.
	Page  *Page         `bun:"-" json:"-"`
	Route *routes.Route `bun:"-" json:"route,omitempty"`
	Tags  []*tags.Tag   `bun:"-" json:"tags,omitempty"`
}

// IsPublished reports whether the variant is publicly visible.
func (v *PageVariant) IsPublished() bool {
	return v.Status.IsPublished()
}

// PageAttachment is the join row binding attachments to a page, ordered by
// position as supplied in the payload.
type PageAttachment struct {
	bun.BaseModel `bun:"table:page_attachments,alias:pa"`

	PageID       uuid.UUID `bun:"page_id,pk,type:uuid" json:"page_id"`
	AttachmentID uuid.UUID `bun:"attachment_id,pk,type:uuid" json:"attachment_id"`
	Position     int       `bun:"position,notnull,default:0" json:"position"`
}

// VariantTag is the join row binding shared tags to a variant, ordered by
// position as supplied in the payload.
type VariantTag struct {
	bun.BaseModel `bun:"table:page_variant_tags,alias:pvt"`

	VariantID uuid.UUID `bun:"variant_id,pk,type:uuid" json:"variant_id"`
	TagID     uuid.UUID `bun:"tag_id,pk,type:uuid" json:"tag_id"`
	Position  int       `bun:"position,notnull,default:0" json:"position"`
}

// VariantPayload is one entry of a partial-update payload. Absent fields
// leave the corresponding variant state untouched; see the reconciler for
// the create/update split and the route/tag replacement semantics.
type VariantPayload struct {
	ID         domain.Optional[uuid.UUID]            `json:"id"`
	LanguageID domain.Optional[uuid.UUID]            `json:"language_id"`
	Status     domain.Optional[domain.VariantStatus] `json:"status"`
	Title      domain.Optional[string]               `json:"title"`
	Lead       domain.Optional[string]               `json:"lead"`
	Content    domain.Optional[string]               `json:"content"`
	Route      domain.Optional[string]               `json:"route"`
	TagIDs     domain.Optional[[]uuid.UUID]          `json:"tag_ids"`
}

// CreatePageRequest is the inbound payload for creating a page aggregate.
// Unknown payload keys are dropped during decoding by construction.
type CreatePageRequest struct {
	Type          domain.Optional[domain.PageType] `json:"type"`
	WebsiteID     uuid.UUID                        `json:"website_id"`
	AttachmentIDs domain.Optional[[]uuid.UUID]     `json:"attachment_ids"`
	Variants      []VariantPayload                 `json:"pageVariants"`
}

// UpdatePageRequest is the inbound payload for a sparse update. A nil
// Variants list leaves every existing variant untouched; an absent
// AttachmentIDs key preserves the current attachment set.
type UpdatePageRequest struct {
	ID            uuid.UUID                        `json:"id"`
	Type          domain.Optional[domain.PageType] `json:"type"`
	AttachmentIDs domain.Optional[[]uuid.UUID]     `json:"attachment_ids"`
	Variants      []VariantPayload                 `json:"pageVariants"`
}

func clonePage(src *Page) *Page {
	if src == nil {
		return nil
	}
	copied := *src
	copied.Variants = cloneVariants(&copied, src.Variants)
	copied.Attachments = attachments.CloneAttachments(src.Attachments)
	return &copied
}

func cloneVariants(owner *Page, src []*PageVariant) []*PageVariant {
	if src == nil {
		return nil
	}
	out := make([]*PageVariant, 0, len(src))
	for _, variant := range src {
		out = append(out, cloneVariant(owner, variant))
	}
	return out
}

func cloneVariant(owner *Page, src *PageVariant) *PageVariant {
	if src == nil {
		return nil
	}
	copied := *src
	copied.Page = owner
	copied.PublishedAt = cloneTimePtr(src.PublishedAt)
	copied.Route = routes.CloneRoute(src.Route)
	copied.Tags = tags.CloneTags(src.Tags)
	return &copied
}

func cloneTimePtr(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}
