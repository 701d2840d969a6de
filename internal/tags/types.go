package tags

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Tag is a shared, language-scoped label. Variants reference tags by id;
// the tag store stays the single owner of the records.
type Tag struct {
	bun.BaseModel `bun:"table:tags,alias:t"`

	ID         uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Name       string    `bun:"name,notnull" json:"name"`
	LanguageID uuid.UUID `bun:"language_id,notnull,type:uuid" json:"language_id"`
	WebsiteID  uuid.UUID `bun:"website_id,notnull,type:uuid" json:"website_id"`
	CreatedAt  time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

func cloneTag(src *Tag) *Tag {
	if src == nil {
		return nil
	}
	copied := *src
	return &copied
}

// CloneTags deep-copies a tag slice; used by repositories handing records
// across the store boundary.
func CloneTags(src []*Tag) []*Tag {
	if src == nil {
		return nil
	}
	out := make([]*Tag, 0, len(src))
	for _, tag := range src {
		out = append(out, cloneTag(tag))
	}
	return out
}
