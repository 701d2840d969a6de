package pages

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-pagekit/internal/domain"
	"github.com/goliatone/go-pagekit/internal/routes"
	"github.com/goliatone/go-pagekit/internal/tags"
	"github.com/google/uuid"
)

// variantReconciler folds a list of variant payloads into the in-memory
// aggregate. All changes happen on the aggregate only; nothing is persisted
// here, so a failed entry leaves the stored state untouched.
type variantReconciler struct {
	tags      tags.Repository
	validator variantValidator
	now       func() time.Time
	id        func() uuid.UUID
}

func newVariantReconciler(tagRepo tags.Repository, now func() time.Time, id func() uuid.UUID) *variantReconciler {
	return &variantReconciler{
		tags: tagRepo,
		now:  now,
		id:   id,
	}
}

// Reconcile applies the payload entries in order, then validates every
// variant of the page against the aggregate rules.
func (r *variantReconciler) Reconcile(ctx context.Context, page *Page, payloads []VariantPayload) error {
	for _, payload := range payloads {
		variant, err := r.resolve(page, payload)
		if err != nil {
			return err
		}
		if err := r.apply(ctx, variant, payload); err != nil {
			return err
		}
	}

	for _, variant := range page.Variants {
		if err := r.validator.Validate(page, variant); err != nil {
			return err
		}
	}

	return nil
}

// resolve returns the variant the payload addresses, creating and attaching
// a new one when the payload carries no id.
func (r *variantReconciler) resolve(page *Page, payload VariantPayload) (*PageVariant, error) {
	if id, ok := payload.ID.Value(); ok {
		variant := page.Variant(id)
		if variant == nil {
			return nil, &VariantNotFoundError{PageID: page.ID, VariantID: id}
		}
		return variant, nil
	}

	languageID, ok := payload.LanguageID.Value()
	if !ok || languageID == uuid.Nil {
		return nil, newValidationError(ErrLanguageRequired, page, nil, "")
	}

	now := r.now()
	variant := &PageVariant{
		ID:         r.id(),
		PageID:     page.ID,
		LanguageID: languageID,
		Status:     domain.StatusDraft,
		Page:       page,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	page.Variants = append(page.Variants, variant)
	return variant, nil
}

// apply copies the present payload fields onto the variant. The language id
// of an existing variant is immutable and silently ignored when supplied.
func (r *variantReconciler) apply(ctx context.Context, variant *PageVariant, payload VariantPayload) error {
	if raw, ok := payload.Status.Value(); ok {
		status := domain.NormalizeStatus(string(raw))
		if !status.Valid() {
			return newValidationError(ErrStatusInvalid, variant.Page, variant, string(raw))
		}
		if status.IsPublished() && !variant.Status.IsPublished() && variant.PublishedAt == nil {
			stamp := r.now()
			variant.PublishedAt = &stamp
		}
		variant.Status = status
	}

	if title, ok := payload.Title.Value(); ok {
		variant.Title = title
	}
	if lead, ok := payload.Lead.Value(); ok {
		variant.Lead = lead
	}
	if content, ok := payload.Content.Value(); ok {
		variant.Content = content
	}

	if err := r.applyRoute(variant, payload); err != nil {
		return err
	}
	if err := r.applyTags(ctx, variant, payload); err != nil {
		return err
	}

	variant.UpdatedAt = r.now()
	return nil
}

func (r *variantReconciler) applyRoute(variant *PageVariant, payload VariantPayload) error {
	raw, ok := payload.Route.Value()
	if !ok {
		return nil
	}

	if strings.TrimSpace(raw) == "" {
		variant.Route = nil
		return nil
	}

	url, err := routes.NormalizeURL(raw)
	if err != nil {
		return err
	}

	if variant.Route != nil {
		variant.Route.URL = url
		variant.Route.PointsAt(routes.Target{Kind: routes.TargetVariant, ID: variant.ID})
		variant.Route.UpdatedAt = r.now()
		return nil
	}

	route := routes.BuildFor(url, routes.Target{Kind: routes.TargetVariant, ID: variant.ID})
	route.ID = r.id()
	route.CreatedAt = r.now()
	route.UpdatedAt = route.CreatedAt
	variant.Route = route
	return nil
}

func (r *variantReconciler) applyTags(ctx context.Context, variant *PageVariant, payload VariantPayload) error {
	ids, ok := payload.TagIDs.Value()
	if !ok {
		return nil
	}

	if len(ids) == 0 {
		variant.Tags = nil
		return nil
	}

	resolved, err := r.tags.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	variant.Tags = resolved
	return nil
}
