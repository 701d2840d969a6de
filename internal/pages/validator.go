package pages

import (
	"strings"

	"github.com/goliatone/go-pagekit/internal/routes"
)

// variantValidator checks a single variant against the aggregate rules.
// Validation is side effect free and runs against the in-memory aggregate
// before anything is persisted.
type variantValidator struct{}

func (variantValidator) Validate(page *Page, variant *PageVariant) error {
	if variant.Page == nil {
		return newValidationError(ErrPageAssociationRequired, page, variant, "")
	}

	if !variant.Status.Valid() {
		return newValidationError(ErrStatusInvalid, page, variant, string(variant.Status))
	}

	if variant.Route != nil && routes.IsReserved(variant.Route.URL) {
		return newValidationError(ErrRouteReserved, page, variant, variant.Route.URL)
	}

	if variant.IsPublished() {
		if variant.Route == nil {
			return newValidationError(ErrPublishedRouteRequired, page, variant, "")
		}
		if page.Type.IsBlogPost() && strings.TrimSpace(variant.Lead) == "" {
			return newValidationError(ErrPublishedLeadRequired, page, variant, "")
		}
	}

	for _, tag := range variant.Tags {
		if tag.LanguageID != variant.LanguageID {
			return newValidationError(ErrTagLanguageMismatch, page, variant, "tag "+tag.ID.String())
		}
	}

	return nil
}
