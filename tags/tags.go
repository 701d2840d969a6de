// Package tags exports the shared tag contracts for module consumers.
package tags

import "github.com/goliatone/go-pagekit/internal/tags"

type (
	Tag        = tags.Tag
	Service    = tags.Service
	Repository = tags.Repository

	CreateTagRequest = tags.CreateTagRequest
	UpdateTagRequest = tags.UpdateTagRequest

	TagCreated = tags.TagCreated
	TagUpdated = tags.TagUpdated

	TagNotFoundError = tags.TagNotFoundError
)

const (
	KindTagCreated = tags.KindTagCreated
	KindTagUpdated = tags.KindTagUpdated
)

var (
	ErrNameRequired     = tags.ErrNameRequired
	ErrLanguageRequired = tags.ErrLanguageRequired
	ErrWebsiteRequired  = tags.ErrWebsiteRequired
	ErrTagNotFound      = tags.ErrTagNotFound
)
