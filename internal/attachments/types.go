package attachments

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Attachment is an opaque file reference. The physical bytes live behind an
// external store; the reconciler only cares about resolving ids.
type Attachment struct {
	bun.BaseModel `bun:"table:attachments,alias:a"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	MimeType  string    `bun:"mime_type" json:"mime_type"`
	Size      int64     `bun:"size,notnull,default:0" json:"size"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

func cloneAttachment(src *Attachment) *Attachment {
	if src == nil {
		return nil
	}
	copied := *src
	return &copied
}

// CloneAttachments deep-copies an attachment slice.
func CloneAttachments(src []*Attachment) []*Attachment {
	if src == nil {
		return nil
	}
	out := make([]*Attachment, 0, len(src))
	for _, record := range src {
		out = append(out, cloneAttachment(record))
	}
	return out
}
