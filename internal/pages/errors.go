package pages

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrPageNotFound indicates the requested page does not exist.
	ErrPageNotFound = errors.New("pages: page not found")
	// ErrVariantNotFound indicates a payload referenced a variant id that
	// does not belong to the page.
	ErrVariantNotFound = errors.New("pages: variant not found")
	// ErrWebsiteRequired indicates a create payload without a website id.
	ErrWebsiteRequired = errors.New("pages: website id is required")
	// ErrPageTypeInvalid indicates an unknown page type value.
	ErrPageTypeInvalid = errors.New("pages: invalid page type")
	// ErrStatusInvalid indicates an unknown variant status value.
	ErrStatusInvalid = errors.New("pages: invalid variant status")
	// ErrLanguageRequired indicates a new variant without a language id.
	ErrLanguageRequired = errors.New("pages: variant language id is required")
	// ErrPageAssociationRequired indicates a variant validated without its
	// owning page reference.
	ErrPageAssociationRequired = errors.New("pages: variant requires a page association")
	// ErrPublishedRouteRequired indicates a published variant without a route.
	ErrPublishedRouteRequired = errors.New("pages: published variant requires a route")
	// ErrPublishedLeadRequired indicates a published blog post variant with
	// an empty lead.
	ErrPublishedLeadRequired = errors.New("pages: published blog post requires a lead")
	// ErrTagLanguageMismatch indicates a tag whose language differs from
	// the variant it is attached to.
	ErrTagLanguageMismatch = errors.New("pages: tag language does not match variant language")
	// ErrRouteReserved indicates a route URL inside the reserved namespace.
	ErrRouteReserved = errors.New("pages: route url is reserved")
	// ErrUnsupportedFilter indicates a query filter on an unrecognized field
	// or with an unrecognized operator.
	ErrUnsupportedFilter = errors.New("pages: unsupported query filter")
)

// PageNotFoundError carries the id that failed to resolve.
type PageNotFoundError struct {
	ID uuid.UUID
}

func (e *PageNotFoundError) Error() string {
	return fmt.Sprintf("pages: page %s not found", e.ID)
}

func (e *PageNotFoundError) Unwrap() error {
	return ErrPageNotFound
}

// VariantNotFoundError carries the payload variant id that did not match
// any variant of the target page.
type VariantNotFoundError struct {
	PageID    uuid.UUID
	VariantID uuid.UUID
}

func (e *VariantNotFoundError) Error() string {
	return fmt.Sprintf("pages: variant %s not found on page %s", e.VariantID, e.PageID)
}

func (e *VariantNotFoundError) Unwrap() error {
	return ErrVariantNotFound
}

// ValidationError reports a violated aggregate rule together with the page
// and variant it was detected on. Rule is one of the package sentinels.
type ValidationError struct {
	Rule       error
	PageID     uuid.UUID
	VariantID  uuid.UUID
	LanguageID uuid.UUID
	Detail     string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%v (page=%s variant=%s)", e.Rule, e.PageID, e.VariantID)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Rule
}

func newValidationError(rule error, page *Page, variant *PageVariant, detail string) *ValidationError {
	verr := &ValidationError{Rule: rule, Detail: detail}
	if page != nil {
		verr.PageID = page.ID
	}
	if variant != nil {
		verr.VariantID = variant.ID
		verr.LanguageID = variant.LanguageID
	}
	return verr
}
