package pagekit_test

import (
	"context"
	"testing"

	pagekit "github.com/goliatone/go-pagekit"
	"github.com/goliatone/go-pagekit/pages"
	"github.com/goliatone/go-pagekit/tags"
	"github.com/google/uuid"
)

func newModule(t *testing.T, mutate func(*pagekit.Config)) *pagekit.Module {
	t.Helper()
	cfg := pagekit.DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	module, err := pagekit.New(cfg)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	t.Cleanup(func() {
		_ = module.Close()
	})
	return module
}

func TestModuleLifecycleKeepsIndexInStep(t *testing.T) {
	module := newModule(t, nil)
	ctx := context.Background()
	websiteID := pagekit.WebsiteID("docs.example.com")
	languageID := pagekit.LanguageID("en")

	tag, err := module.Tags().Create(ctx, tags.CreateTagRequest{
		Name:       "guides",
		LanguageID: languageID,
		WebsiteID:  websiteID,
	})
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}

	page, err := module.Pages().Create(ctx, pages.CreatePageRequest{
		WebsiteID: websiteID,
		Variants: []pages.VariantPayload{
			{
				LanguageID: pages.Some(languageID),
				Status:     pages.Some(pages.StatusPublished),
				Title:      pages.Some("Getting started"),
				Lead:       pages.Some("First steps"),
				Content:    pages.Some("Install the module and wire a database"),
				Route:      pages.Some("docs/getting-started"),
				TagIDs:     pages.Some([]uuid.UUID{tag.ID}),
			},
		},
	})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}

	// The create event already synced the index; a text query finds the page.
	found, err := module.Query().Fetch(ctx, pages.NewFilter().
		Where(pages.FieldText, pages.OpMatch, "wire a database"))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(found) != 1 || found[0].ID != page.ID {
		t.Fatalf("expected the created page via text match, got %d results", len(found))
	}

	// Updates re-sync the document.
	variant := page.Variants[0]
	if _, err := module.Pages().Update(ctx, pages.UpdatePageRequest{
		ID: page.ID,
		Variants: []pages.VariantPayload{
			{ID: pages.Some(variant.ID), Content: pages.Some("Totally rewritten body")},
		},
	}); err != nil {
		t.Fatalf("update page: %v", err)
	}

	stale, err := module.Query().Count(ctx, pages.NewFilter().
		Where(pages.FieldText, pages.OpMatch, "wire a database"))
	if err != nil {
		t.Fatalf("count stale: %v", err)
	}
	if stale != 0 {
		t.Fatalf("expected old content dropped from index, got %d hits", stale)
	}

	fresh, err := module.Query().Count(ctx, pages.NewFilter().
		Where(pages.FieldText, pages.OpMatch, "rewritten"))
	if err != nil {
		t.Fatalf("count fresh: %v", err)
	}
	if fresh != 1 {
		t.Fatalf("expected updated content indexed, got %d hits", fresh)
	}

	// Deletes drop the document.
	if err := module.Pages().Delete(ctx, page.ID); err != nil {
		t.Fatalf("delete page: %v", err)
	}
	gone, err := module.Query().Count(ctx, pages.NewFilter().
		Where(pages.FieldText, pages.OpMatch, "rewritten"))
	if err != nil {
		t.Fatalf("count gone: %v", err)
	}
	if gone != 0 {
		t.Fatalf("expected deleted page out of the index, got %d hits", gone)
	}
}

func TestModuleReindexAll(t *testing.T) {
	module := newModule(t, nil)
	ctx := context.Background()
	websiteID := pagekit.WebsiteID("blog.example.com")
	languageID := pagekit.LanguageID("en")

	for i := 0; i < 3; i++ {
		if _, err := module.Pages().Create(ctx, pages.CreatePageRequest{
			WebsiteID: websiteID,
			Variants: []pages.VariantPayload{
				{LanguageID: pages.Some(languageID), Title: pages.Some("Post")},
			},
		}); err != nil {
			t.Fatalf("create page %d: %v", i, err)
		}
	}

	report, err := module.Search().ReindexAll(ctx)
	if err != nil {
		t.Fatalf("reindex all: %v", err)
	}
	if report.Total != 3 || report.Indexed != 3 || report.Failed != 0 {
		t.Fatalf("expected clean 3/3/0 run, got %+v", report)
	}
}

func TestModuleSearchDisabled(t *testing.T) {
	module := newModule(t, func(cfg *pagekit.Config) {
		cfg.Features.Search = false
	})
	ctx := context.Background()

	if module.Search() != nil {
		t.Fatalf("expected no synchronizer when search is disabled")
	}

	// Text queries fall back to repository scans.
	page, err := module.Pages().Create(ctx, pages.CreatePageRequest{
		WebsiteID: pagekit.WebsiteID("plain.example.com"),
		Variants: []pages.VariantPayload{
			{
				LanguageID: pages.Some(pagekit.LanguageID("en")),
				Title:      pages.Some("Standalone page"),
			},
		},
	})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}

	found, err := module.Query().Fetch(ctx, pages.NewFilter().
		Where(pages.FieldText, pages.OpMatch, "Standalone"))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(found) != 1 || found[0].ID != page.ID {
		t.Fatalf("expected repository scan to find the page, got %d results", len(found))
	}
}

func TestModuleDeterministicIdentifiers(t *testing.T) {
	if pagekit.LanguageID("en") != pagekit.LanguageID("en") {
		t.Fatalf("language ids must be deterministic")
	}
	if pagekit.LanguageID("en") == pagekit.LanguageID("de") {
		t.Fatalf("distinct codes must map to distinct ids")
	}
	if pagekit.WebsiteID("a.example.com") == pagekit.WebsiteID("b.example.com") {
		t.Fatalf("distinct keys must map to distinct ids")
	}
}
