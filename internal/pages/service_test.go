package pages_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-pagekit/internal/attachments"
	"github.com/goliatone/go-pagekit/internal/domain"
	"github.com/goliatone/go-pagekit/internal/pages"
	"github.com/goliatone/go-pagekit/internal/routes"
	"github.com/goliatone/go-pagekit/internal/tags"
	"github.com/goliatone/go-pagekit/pkg/interfaces"
	"github.com/google/uuid"
)

type sinkRecorder struct {
	events []interfaces.Event
}

func (s *sinkRecorder) Dispatch(_ context.Context, evt interfaces.Event) {
	s.events = append(s.events, evt)
}

func (s *sinkRecorder) kinds() []string {
	out := make([]string, 0, len(s.events))
	for _, evt := range s.events {
		out = append(out, evt.Kind())
	}
	return out
}

type fixture struct {
	pageRepo       *pages.MemoryPageRepository
	tagRepo        *tags.MemoryTagRepository
	attachmentRepo *attachments.MemoryAttachmentRepository
	sink           *sinkRecorder
	svc            pages.Service
	languageEN     uuid.UUID
	languageDE     uuid.UUID
	websiteID      uuid.UUID
	now            time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		pageRepo:       pages.NewMemoryPageRepository(),
		tagRepo:        tags.NewMemoryTagRepository(),
		attachmentRepo: attachments.NewMemoryAttachmentRepository(),
		sink:           &sinkRecorder{},
		languageEN:     uuid.New(),
		languageDE:     uuid.New(),
		websiteID:      uuid.New(),
		now:            time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = pages.NewService(f.pageRepo, f.tagRepo, f.attachmentRepo, f.sink,
		pages.WithClock(func() time.Time { return f.now }),
	)
	return f
}

func (f *fixture) seedTag(t *testing.T, name string, languageID uuid.UUID) *tags.Tag {
	t.Helper()
	tag := &tags.Tag{
		ID:         uuid.New(),
		Name:       name,
		LanguageID: languageID,
		WebsiteID:  f.websiteID,
	}
	f.tagRepo.Put(tag)
	return tag
}

func (f *fixture) createPage(t *testing.T, req pages.CreatePageRequest) *pages.Page {
	t.Helper()
	page, err := f.svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	return page
}

func TestServiceCreatePage(t *testing.T) {
	f := newFixture(t)
	tagged := f.seedTag(t, "news", f.languageEN)

	page := f.createPage(t, pages.CreatePageRequest{
		WebsiteID: f.websiteID,
		Variants: []pages.VariantPayload{
			{
				LanguageID: domain.Some(f.languageEN),
				Status:     domain.Some(domain.StatusPublished),
				Title:      domain.Some("Hello"),
				Lead:       domain.Some("Intro"),
				Content:    domain.Some("Body"),
				Route:      domain.Some("Hello World/Page"),
				TagIDs:     domain.Some([]uuid.UUID{tagged.ID}),
			},
			{
				LanguageID: domain.Some(f.languageDE),
				Title:      domain.Some("Hallo"),
			},
		},
	})

	if page.Type != domain.PageTypePage {
		t.Fatalf("expected default type page, got %q", page.Type)
	}
	if len(page.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(page.Variants))
	}

	published := page.Variants[0]
	if !published.IsPublished() {
		t.Fatalf("expected first variant published, got %q", published.Status)
	}
	if published.PublishedAt == nil || !published.PublishedAt.Equal(f.now) {
		t.Fatalf("expected publish stamp %v, got %v", f.now, published.PublishedAt)
	}
	if published.Route == nil || published.Route.URL != "hello-world/page" {
		t.Fatalf("expected normalized route, got %+v", published.Route)
	}
	if len(published.Tags) != 1 || published.Tags[0].ID != tagged.ID {
		t.Fatalf("expected tag %s attached, got %+v", tagged.ID, published.Tags)
	}

	draft := page.Variants[1]
	if draft.Status != domain.StatusDraft {
		t.Fatalf("expected second variant draft, got %q", draft.Status)
	}
	if draft.PublishedAt != nil {
		t.Fatalf("draft should have no publish stamp")
	}

	kinds := f.sink.kinds()
	if len(kinds) != 1 || kinds[0] != pages.KindPageCreated {
		t.Fatalf("expected PageCreated event, got %v", kinds)
	}
}

func TestServiceCreateRequiresWebsite(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), pages.CreatePageRequest{})
	if !errors.Is(err, pages.ErrWebsiteRequired) {
		t.Fatalf("expected ErrWebsiteRequired, got %v", err)
	}
}

func TestServiceCreateRejectsUnknownType(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), pages.CreatePageRequest{
		WebsiteID: f.websiteID,
		Type:      domain.Some(domain.PageType("landing")),
	})
	if !errors.Is(err, pages.ErrPageTypeInvalid) {
		t.Fatalf("expected ErrPageTypeInvalid, got %v", err)
	}
}

func TestServiceCreateNewVariantRequiresLanguage(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), pages.CreatePageRequest{
		WebsiteID: f.websiteID,
		Variants: []pages.VariantPayload{
			{Title: domain.Some("No language")},
		},
	})
	if !errors.Is(err, pages.ErrLanguageRequired) {
		t.Fatalf("expected ErrLanguageRequired, got %v", err)
	}
}

func TestServiceUpdateSparsePayload(t *testing.T) {
	f := newFixture(t)
	tagged := f.seedTag(t, "news", f.languageEN)

	page := f.createPage(t, pages.CreatePageRequest{
		WebsiteID: f.websiteID,
		Variants: []pages.VariantPayload{
			{
				LanguageID: domain.Some(f.languageEN),
				Status:     domain.Some(domain.StatusPublished),
				Title:      domain.Some("Original"),
				Lead:       domain.Some("Lead"),
				Content:    domain.Some("Content"),
				Route:      domain.Some("original"),
				TagIDs:     domain.Some([]uuid.UUID{tagged.ID}),
			},
		},
	})
	variant := page.Variants[0]

	updated, err := f.svc.Update(context.Background(), pages.UpdatePageRequest{
		ID: page.ID,
		Variants: []pages.VariantPayload{
			{
				ID:    domain.Some(variant.ID),
				Title: domain.Some("Renamed"),
			},
		},
	})
	if err != nil {
		t.Fatalf("update page: %v", err)
	}

	got := updated.Variant(variant.ID)
	if got.Title != "Renamed" {
		t.Fatalf("expected renamed title, got %q", got.Title)
	}
	if got.Lead != "Lead" || got.Content != "Content" {
		t.Fatalf("absent fields must stay untouched, got lead=%q content=%q", got.Lead, got.Content)
	}
	if got.Status != domain.StatusPublished {
		t.Fatalf("absent status must stay untouched, got %q", got.Status)
	}
	if got.Route == nil || got.Route.URL != "original" {
		t.Fatalf("absent route must stay untouched, got %+v", got.Route)
	}
	if len(got.Tags) != 1 {
		t.Fatalf("absent tag_ids must stay untouched, got %d tags", len(got.Tags))
	}
}

func TestServiceUpdateIgnoresLanguageChange(t *testing.T) {
	f := newFixture(t)
	page := f.createPage(t, pages.CreatePageRequest{
		WebsiteID: f.websiteID,
		Variants: []pages.VariantPayload{
			{LanguageID: domain.Some(f.languageEN), Title: domain.Some("EN")},
		},
	})
	variant := page.Variants[0]

	updated, err := f.svc.Update(context.Background(), pages.UpdatePageRequest{
		ID: page.ID,
		Variants: []pages.VariantPayload{
			{
				ID:         domain.Some(variant.ID),
				LanguageID: domain.Some(f.languageDE),
				Title:      domain.Some("Still EN"),
			},
		},
	})
	if err != nil {
		t.Fatalf("update page: %v", err)
	}

	got := updated.Variant(variant.ID)
	if got.LanguageID != f.languageEN {
		t.Fatalf("language must be immutable, got %s", got.LanguageID)
	}
	if got.Title != "Still EN" {
		t.Fatalf("other payload fields still apply, got %q", got.Title)
	}
}

func TestServiceUpdateUnknownVariant(t *testing.T) {
	f := newFixture(t)
	page := f.createPage(t, pages.CreatePageRequest{
		WebsiteID: f.websiteID,
		Variants: []pages.VariantPayload{
			{LanguageID: domain.Some(f.languageEN)},
		},
	})

	missingID := uuid.New()
	_, err := f.svc.Update(context.Background(), pages.UpdatePageRequest{
		ID: page.ID,
		Variants: []pages.VariantPayload{
			{ID: domain.Some(missingID), Title: domain.Some("nope")},
		},
	})

	var notFound *pages.VariantNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected VariantNotFoundError, got %v", err)
	}
	if notFound.VariantID != missingID {
		t.Fatalf("expected variant id %s in error, got %s", missingID, notFound.VariantID)
	}
}

func TestServiceUpdateRouteLifecycle(t *testing.T) {
	f := newFixture(t)
	page := f.createPage(t, pages.CreatePageRequest{
		WebsiteID: f.websiteID,
		Variants: []pages.VariantPayload{
			{LanguageID: domain.Some(f.languageEN), Title: domain.Some("EN")},
		},
	})
	variant := page.Variants[0]
	ctx := context.Background()

	// Add a route.
	updated, err := f.svc.Update(ctx, pages.UpdatePageRequest{
		ID: page.ID,
		Variants: []pages.VariantPayload{
			{ID: domain.Some(variant.ID), Route: domain.Some("first-url")},
		},
	})
	if err != nil {
		t.Fatalf("add route: %v", err)
	}
	first := updated.Variant(variant.ID).Route
	if first == nil || first.URL != "first-url" {
		t.Fatalf("expected route first-url, got %+v", first)
	}
	if first.TargetKind != routes.TargetVariant || first.TargetID != variant.ID {
		t.Fatalf("route must target the variant, got %+v", first)
	}

	// Replace it: the route row is kept, only the URL changes.
	updated, err = f.svc.Update(ctx, pages.UpdatePageRequest{
		ID: page.ID,
		Variants: []pages.VariantPayload{
			{ID: domain.Some(variant.ID), Route: domain.Some("second-url")},
		},
	})
	if err != nil {
		t.Fatalf("replace route: %v", err)
	}
	second := updated.Variant(variant.ID).Route
	if second == nil || second.URL != "second-url" {
		t.Fatalf("expected route second-url, got %+v", second)
	}
	if second.ID != first.ID {
		t.Fatalf("route replacement must keep the route id, got %s != %s", second.ID, first.ID)
	}

	// Remove it with an explicit empty string.
	updated, err = f.svc.Update(ctx, pages.UpdatePageRequest{
		ID: page.ID,
		Variants: []pages.VariantPayload{
			{ID: domain.Some(variant.ID), Route: domain.Some("")},
		},
	})
	if err != nil {
		t.Fatalf("remove route: %v", err)
	}
	if updated.Variant(variant.ID).Route != nil {
		t.Fatalf("expected route removed, got %+v", updated.Variant(variant.ID).Route)
	}
}

func TestServiceUpdateTagReplacement(t *testing.T) {
	f := newFixture(t)
	one := f.seedTag(t, "one", f.languageEN)
	two := f.seedTag(t, "two", f.languageEN)
	three := f.seedTag(t, "three", f.languageEN)

	page := f.createPage(t, pages.CreatePageRequest{
		WebsiteID: f.websiteID,
		Variants: []pages.VariantPayload{
			{
				LanguageID: domain.Some(f.languageEN),
				TagIDs:     domain.Some([]uuid.UUID{one.ID, two.ID}),
			},
		},
	})
	variant := page.Variants[0]
	ctx := context.Background()

	replacement := []uuid.UUID{three.ID, one.ID}
	apply := func() *pages.Page {
		updated, err := f.svc.Update(ctx, pages.UpdatePageRequest{
			ID: page.ID,
			Variants: []pages.VariantPayload{
				{ID: domain.Some(variant.ID), TagIDs: domain.Some(replacement)},
			},
		})
		if err != nil {
			t.Fatalf("replace tags: %v", err)
		}
		return updated
	}

	// Applying the same payload twice converges on the same state.
	for i := 0; i < 2; i++ {
		updated := apply()
		got := updated.Variant(variant.ID).Tags
		if len(got) != 2 || got[0].ID != three.ID || got[1].ID != one.ID {
			t.Fatalf("attempt %d: expected tags [three one], got %+v", i+1, got)
		}
	}

	// An explicit empty list clears the set.
	updated, err := f.svc.Update(ctx, pages.UpdatePageRequest{
		ID: page.ID,
		Variants: []pages.VariantPayload{
			{ID: domain.Some(variant.ID), TagIDs: domain.Some([]uuid.UUID{})},
		},
	})
	if err != nil {
		t.Fatalf("clear tags: %v", err)
	}
	if len(updated.Variant(variant.ID).Tags) != 0 {
		t.Fatalf("expected no tags, got %+v", updated.Variant(variant.ID).Tags)
	}
}

func TestServiceUpdateMissingTagFailsWithoutPersisting(t *testing.T) {
	f := newFixture(t)
	one := f.seedTag(t, "one", f.languageEN)

	page := f.createPage(t, pages.CreatePageRequest{
		WebsiteID: f.websiteID,
		Variants: []pages.VariantPayload{
			{
				LanguageID: domain.Some(f.languageEN),
				Title:      domain.Some("Before"),
				TagIDs:     domain.Some([]uuid.UUID{one.ID}),
			},
		},
	})
	variant := page.Variants[0]

	_, err := f.svc.Update(context.Background(), pages.UpdatePageRequest{
		ID: page.ID,
		Variants: []pages.VariantPayload{
			{
				ID:     domain.Some(variant.ID),
				Title:  domain.Some("After"),
				TagIDs: domain.Some([]uuid.UUID{uuid.New()}),
			},
		},
	})
	if !errors.Is(err, tags.ErrTagNotFound) {
		t.Fatalf("expected tag not found, got %v", err)
	}

	stored, err := f.pageRepo.GetByID(context.Background(), page.ID)
	if err != nil {
		t.Fatalf("reload page: %v", err)
	}
	got := stored.Variant(variant.ID)
	if got.Title != "Before" || len(got.Tags) != 1 || got.Tags[0].ID != one.ID {
		t.Fatalf("failed update must not persist partial state, got %+v", got)
	}
}

func TestServiceValidationPublishedRequiresRoute(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), pages.CreatePageRequest{
		WebsiteID: f.websiteID,
		Variants: []pages.VariantPayload{
			{
				LanguageID: domain.Some(f.languageEN),
				Status:     domain.Some(domain.StatusPublished),
				Title:      domain.Some("No route"),
			},
		},
	})
	if !errors.Is(err, pages.ErrPublishedRouteRequired) {
		t.Fatalf("expected ErrPublishedRouteRequired, got %v", err)
	}

	var verr *pages.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
}

func TestServiceValidationFailureKeepsStoreUntouched(t *testing.T) {
	f := newFixture(t)
	page := f.createPage(t, pages.CreatePageRequest{
		WebsiteID: f.websiteID,
		Variants: []pages.VariantPayload{
			{
				LanguageID: domain.Some(f.languageEN),
				Title:      domain.Some("Draft"),
				Content:    domain.Some("Body"),
			},
		},
	})
	variant := page.Variants[0]

	// Publishing without a route fails after the content edit was folded in.
	_, err := f.svc.Update(context.Background(), pages.UpdatePageRequest{
		ID: page.ID,
		Variants: []pages.VariantPayload{
			{
				ID:      domain.Some(variant.ID),
				Status:  domain.Some(domain.StatusPublished),
				Content: domain.Some("Changed"),
			},
		},
	})
	if !errors.Is(err, pages.ErrPublishedRouteRequired) {
		t.Fatalf("expected ErrPublishedRouteRequired, got %v", err)
	}

	stored, err := f.pageRepo.GetByID(context.Background(), page.ID)
	if err != nil {
		t.Fatalf("reload page: %v", err)
	}
	got := stored.Variant(variant.ID)
	if got.Content != "Body" || got.Status != domain.StatusDraft {
		t.Fatalf("failed update must roll back entirely, got status=%q content=%q", got.Status, got.Content)
	}
}

func TestServiceValidationBlogPostLead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := pages.CreatePageRequest{
		WebsiteID: f.websiteID,
		Type:      domain.Some(domain.PageTypeBlogPost),
		Variants: []pages.VariantPayload{
			{
				LanguageID: domain.Some(f.languageEN),
				Status:     domain.Some(domain.StatusPublished),
				Title:      domain.Some("Post"),
				Lead:       domain.Some("   "),
				Route:      domain.Some("post"),
			},
		},
	}
	if _, err := f.svc.Create(ctx, req); !errors.Is(err, pages.ErrPublishedLeadRequired) {
		t.Fatalf("expected ErrPublishedLeadRequired, got %v", err)
	}

	req.Variants[0].Lead = domain.Some("A real lead")
	if _, err := f.svc.Create(ctx, req); err != nil {
		t.Fatalf("create with lead: %v", err)
	}
}

func TestServiceValidationTagLanguageMismatch(t *testing.T) {
	f := newFixture(t)
	german := f.seedTag(t, "nachrichten", f.languageDE)

	_, err := f.svc.Create(context.Background(), pages.CreatePageRequest{
		WebsiteID: f.websiteID,
		Variants: []pages.VariantPayload{
			{
				LanguageID: domain.Some(f.languageEN),
				TagIDs:     domain.Some([]uuid.UUID{german.ID}),
			},
		},
	})
	if !errors.Is(err, pages.ErrTagLanguageMismatch) {
		t.Fatalf("expected ErrTagLanguageMismatch, got %v", err)
	}
}

func TestServiceValidationReservedRoute(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), pages.CreatePageRequest{
		WebsiteID: f.websiteID,
		Variants: []pages.VariantPayload{
			{
				LanguageID: domain.Some(f.languageEN),
				Route:      domain.Some("backend/settings"),
			},
		},
	})
	if !errors.Is(err, pages.ErrRouteReserved) {
		t.Fatalf("expected ErrRouteReserved, got %v", err)
	}
}

func TestServiceAttachmentsResolved(t *testing.T) {
	f := newFixture(t)
	first := &attachments.Attachment{ID: uuid.New(), Name: "hero.jpg"}
	second := &attachments.Attachment{ID: uuid.New(), Name: "doc.pdf"}
	f.attachmentRepo.Put(first)
	f.attachmentRepo.Put(second)

	page := f.createPage(t, pages.CreatePageRequest{
		WebsiteID:     f.websiteID,
		AttachmentIDs: domain.Some([]uuid.UUID{second.ID, first.ID}),
	})
	if len(page.Attachments) != 2 || page.Attachments[0].ID != second.ID {
		t.Fatalf("expected attachments in payload order, got %+v", page.Attachments)
	}

	_, err := f.svc.Create(context.Background(), pages.CreatePageRequest{
		WebsiteID:     f.websiteID,
		AttachmentIDs: domain.Some([]uuid.UUID{uuid.New()}),
	})
	if !errors.Is(err, attachments.ErrAttachmentNotFound) {
		t.Fatalf("expected attachment not found, got %v", err)
	}
}

func TestServiceDeleteEmitsEvent(t *testing.T) {
	f := newFixture(t)
	page := f.createPage(t, pages.CreatePageRequest{WebsiteID: f.websiteID})

	if err := f.svc.Delete(context.Background(), page.ID); err != nil {
		t.Fatalf("delete page: %v", err)
	}
	if _, err := f.pageRepo.GetByID(context.Background(), page.ID); !errors.Is(err, pages.ErrPageNotFound) {
		t.Fatalf("expected page gone, got %v", err)
	}

	kinds := f.sink.kinds()
	last := kinds[len(kinds)-1]
	if last != pages.KindPageDeleted {
		t.Fatalf("expected PageDeleted event, got %v", kinds)
	}
}
