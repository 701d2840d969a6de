package attachments

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var ErrAttachmentNotFound = errors.New("attachments: attachment not found")

// AttachmentsNotFoundError reports every id a batch lookup failed to resolve.
type AttachmentsNotFoundError struct {
	IDs []uuid.UUID
}

func (e *AttachmentsNotFoundError) Error() string {
	if e == nil || len(e.IDs) == 0 {
		return ErrAttachmentNotFound.Error()
	}
	missing := make([]string, 0, len(e.IDs))
	for _, id := range e.IDs {
		missing = append(missing, id.String())
	}
	return fmt.Sprintf("%s: ids=[%s]", ErrAttachmentNotFound.Error(), strings.Join(missing, ", "))
}

func (e *AttachmentsNotFoundError) Unwrap() error {
	return ErrAttachmentNotFound
}
