package tags

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNameRequired     = errors.New("tags: name is required")
	ErrLanguageRequired = errors.New("tags: language is required")
	ErrWebsiteRequired  = errors.New("tags: website is required")
	ErrTagNotFound      = errors.New("tags: tag not found")
)

// TagNotFoundError reports an unresolved tag reference.
type TagNotFoundError struct {
	ID uuid.UUID
}

func (e *TagNotFoundError) Error() string {
	if e == nil {
		return ErrTagNotFound.Error()
	}
	return fmt.Sprintf("%s: id=%s", ErrTagNotFound.Error(), e.ID)
}

func (e *TagNotFoundError) Unwrap() error {
	return ErrTagNotFound
}
