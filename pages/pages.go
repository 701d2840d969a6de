// Package pages exports the page aggregate contracts for module consumers.
package pages

import (
	"github.com/goliatone/go-pagekit/internal/domain"
	"github.com/goliatone/go-pagekit/internal/pages"
)

// Core aggregate types.
type (
	Page           = pages.Page
	PageVariant    = pages.PageVariant
	PageAttachment = pages.PageAttachment
	VariantTag     = pages.VariantTag
)

// Payload types. Optional fields distinguish absent keys from zero values.
type (
	CreatePageRequest = pages.CreatePageRequest
	UpdatePageRequest = pages.UpdatePageRequest
	VariantPayload    = pages.VariantPayload
)

// Service contracts.
type (
	Service    = pages.Service
	Repository = pages.Repository
	Querier    = pages.Querier
)

// Query types.
type (
	Filter    = pages.Filter
	Condition = pages.Condition
	Operator  = pages.Operator
	Order     = pages.Order
)

// Domain value types.
type (
	PageType      = domain.PageType
	VariantStatus = domain.VariantStatus
)

// Events.
type (
	PageCreated = pages.PageCreated
	PageUpdated = pages.PageUpdated
	PageDeleted = pages.PageDeleted
)

// Error types.
type (
	ValidationError      = pages.ValidationError
	PageNotFoundError    = pages.PageNotFoundError
	VariantNotFoundError = pages.VariantNotFoundError
)

// Page types.
const (
	PageTypePage     = domain.PageTypePage
	PageTypeBlogPost = domain.PageTypeBlogPost
	PageTypeCMS      = domain.PageTypeCMS
)

// Variant statuses.
const (
	StatusDraft     = domain.StatusDraft
	StatusPublished = domain.StatusPublished
)

// Query operators and fields.
const (
	OpEquals = pages.OpEquals
	OpIn     = pages.OpIn
	OpMatch  = pages.OpMatch

	FieldID         = pages.FieldID
	FieldType       = pages.FieldType
	FieldWebsiteID  = pages.FieldWebsiteID
	FieldLanguageID = pages.FieldLanguageID
	FieldStatus     = pages.FieldStatus
	FieldText       = pages.FieldText

	OrderAsc  = pages.OrderAsc
	OrderDesc = pages.OrderDesc
)

// Event kinds.
const (
	KindPageCreated = pages.KindPageCreated
	KindPageUpdated = pages.KindPageUpdated
	KindPageDeleted = pages.KindPageDeleted
)

// Validation rule sentinels.
var (
	ErrPageNotFound            = pages.ErrPageNotFound
	ErrVariantNotFound         = pages.ErrVariantNotFound
	ErrWebsiteRequired         = pages.ErrWebsiteRequired
	ErrPageTypeInvalid         = pages.ErrPageTypeInvalid
	ErrStatusInvalid           = pages.ErrStatusInvalid
	ErrLanguageRequired        = pages.ErrLanguageRequired
	ErrPageAssociationRequired = pages.ErrPageAssociationRequired
	ErrPublishedRouteRequired  = pages.ErrPublishedRouteRequired
	ErrPublishedLeadRequired   = pages.ErrPublishedLeadRequired
	ErrTagLanguageMismatch     = pages.ErrTagLanguageMismatch
	ErrRouteReserved           = pages.ErrRouteReserved
	ErrUnsupportedFilter       = pages.ErrUnsupportedFilter
)

// Optional wraps a payload field so absence survives JSON decoding.
type Optional[T any] = domain.Optional[T]

// Some wraps a present payload value.
func Some[T any](value T) Optional[T] {
	return domain.Some(value)
}

// None returns an absent payload value.
func None[T any]() Optional[T] {
	return domain.None[T]()
}

// NewFilter builds an empty query filter.
func NewFilter() Filter {
	return pages.NewFilter()
}
