package pages_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-pagekit/internal/domain"
	"github.com/goliatone/go-pagekit/internal/pages"
	"github.com/goliatone/go-pagekit/internal/search"
	"github.com/google/uuid"
)

func seedQueryPages(t *testing.T, f *fixture) (*pages.Page, *pages.Page, *pages.Page) {
	t.Helper()

	article := f.createPage(t, pages.CreatePageRequest{
		WebsiteID: f.websiteID,
		Type:      domain.Some(domain.PageTypeBlogPost),
		Variants: []pages.VariantPayload{
			{
				LanguageID: domain.Some(f.languageEN),
				Title:      domain.Some("Release notes"),
				Content:    domain.Some("Everything that shipped this quarter"),
			},
		},
	})
	landing := f.createPage(t, pages.CreatePageRequest{
		WebsiteID: f.websiteID,
		Variants: []pages.VariantPayload{
			{
				LanguageID: domain.Some(f.languageEN),
				Status:     domain.Some(domain.StatusPublished),
				Title:      domain.Some("Welcome"),
				Route:      domain.Some("welcome"),
			},
		},
	})
	german := f.createPage(t, pages.CreatePageRequest{
		WebsiteID: f.websiteID,
		Variants: []pages.VariantPayload{
			{
				LanguageID: domain.Some(f.languageDE),
				Title:      domain.Some("Impressum"),
			},
		},
	})
	return article, landing, german
}

func TestQuerierEquals(t *testing.T) {
	f := newFixture(t)
	article, _, _ := seedQueryPages(t, f)
	q := pages.NewQuerier(f.pageRepo)

	got, err := q.Fetch(context.Background(), pages.NewFilter().
		Where(pages.FieldType, pages.OpEquals, string(domain.PageTypeBlogPost)))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 1 || got[0].ID != article.ID {
		t.Fatalf("expected only the blog post, got %d results", len(got))
	}

	count, err := q.Count(context.Background(), pages.NewFilter().
		Where(pages.FieldWebsiteID, pages.OpEquals, f.websiteID))
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 pages for website, got %d", count)
	}
}

func TestQuerierIn(t *testing.T) {
	f := newFixture(t)
	article, landing, _ := seedQueryPages(t, f)
	q := pages.NewQuerier(f.pageRepo)

	got, err := q.Fetch(context.Background(), pages.NewFilter().
		Where(pages.FieldID, pages.OpIn, []uuid.UUID{article.ID, landing.ID}))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(got))
	}
}

func TestQuerierVariantFields(t *testing.T) {
	f := newFixture(t)
	_, landing, german := seedQueryPages(t, f)
	q := pages.NewQuerier(f.pageRepo)

	got, err := q.Fetch(context.Background(), pages.NewFilter().
		Where(pages.FieldStatus, pages.OpEquals, string(domain.StatusPublished)))
	if err != nil {
		t.Fatalf("fetch by status: %v", err)
	}
	if len(got) != 1 || got[0].ID != landing.ID {
		t.Fatalf("expected the published landing page, got %d results", len(got))
	}

	got, err = q.Fetch(context.Background(), pages.NewFilter().
		Where(pages.FieldLanguageID, pages.OpEquals, f.languageDE))
	if err != nil {
		t.Fatalf("fetch by language: %v", err)
	}
	if len(got) != 1 || got[0].ID != german.ID {
		t.Fatalf("expected the german page, got %d results", len(got))
	}
}

func TestQuerierRejectsUnsupportedFilters(t *testing.T) {
	f := newFixture(t)
	q := pages.NewQuerier(f.pageRepo)
	ctx := context.Background()

	cases := []pages.Filter{
		pages.NewFilter().Where("author", pages.OpEquals, "x"),
		pages.NewFilter().Where(pages.FieldText, pages.OpEquals, "x"),
		pages.NewFilter().Where(pages.FieldStatus, pages.OpMatch, "x"),
		{OrderBy: "title"},
	}
	for i, filter := range cases {
		if _, err := q.Fetch(ctx, filter); !errors.Is(err, pages.ErrUnsupportedFilter) {
			t.Fatalf("case %d: expected ErrUnsupportedFilter, got %v", i, err)
		}
		if _, err := q.Count(ctx, filter); !errors.Is(err, pages.ErrUnsupportedFilter) {
			t.Fatalf("case %d: count expected ErrUnsupportedFilter, got %v", i, err)
		}
	}
}

func TestQuerierTextMatchWithoutIndex(t *testing.T) {
	f := newFixture(t)
	article, _, _ := seedQueryPages(t, f)
	q := pages.NewQuerier(f.pageRepo)

	got, err := q.Fetch(context.Background(), pages.NewFilter().
		Where(pages.FieldText, pages.OpMatch, "shipped"))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 1 || got[0].ID != article.ID {
		t.Fatalf("expected substring scan to find the article, got %d results", len(got))
	}
}

func TestQuerierTextMatchWithIndex(t *testing.T) {
	f := newFixture(t)
	article, landing, _ := seedQueryPages(t, f)
	ctx := context.Background()

	index := search.NewMemoryIndex()
	for _, page := range []*pages.Page{article, landing} {
		if err := index.Upsert(ctx, page.ID.String(), search.BuildDocument(page)); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	// Stale entries: a deleted page and a malformed id must be skipped.
	if err := index.Upsert(ctx, uuid.NewString(), map[string]any{"title": "Release notes leftover"}); err != nil {
		t.Fatalf("upsert stale: %v", err)
	}
	if err := index.Upsert(ctx, "not-a-uuid", map[string]any{"title": "Release garbage"}); err != nil {
		t.Fatalf("upsert malformed: %v", err)
	}

	q := pages.NewQuerier(f.pageRepo, pages.WithQuerierIndex(index))

	got, err := q.Fetch(ctx, pages.NewFilter().
		Where(pages.FieldText, pages.OpMatch, "Release"))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 1 || got[0].ID != article.ID {
		t.Fatalf("expected only the live article, got %d results", len(got))
	}

	count, err := q.Count(ctx, pages.NewFilter().
		Where(pages.FieldText, pages.OpMatch, "Release"))
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}

	// Residual conditions still apply to index hits.
	got, err = q.Fetch(ctx, pages.NewFilter().
		Where(pages.FieldText, pages.OpMatch, "Release").
		Where(pages.FieldType, pages.OpEquals, string(domain.PageTypePage)))
	if err != nil {
		t.Fatalf("fetch with residual: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected residual filter to drop the hit, got %d results", len(got))
	}
}

func TestQuerierPagination(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 5; i++ {
		f.createPage(t, pages.CreatePageRequest{WebsiteID: f.websiteID})
	}
	q := pages.NewQuerier(f.pageRepo)
	ctx := context.Background()

	page1, err := q.Fetch(ctx, pages.Filter{Limit: 2, OrderBy: "created_at", Order: pages.OrderAsc})
	if err != nil {
		t.Fatalf("fetch page 1: %v", err)
	}
	if len(page1) != 2 {
		t.Fatalf("expected 2 results, got %d", len(page1))
	}

	tail, err := q.Fetch(ctx, pages.Filter{Limit: 2, Offset: 4, OrderBy: "created_at", Order: pages.OrderAsc})
	if err != nil {
		t.Fatalf("fetch tail: %v", err)
	}
	if len(tail) != 1 {
		t.Fatalf("expected 1 trailing result, got %d", len(tail))
	}

	beyond, err := q.Fetch(ctx, pages.Filter{Limit: 2, Offset: 10})
	if err != nil {
		t.Fatalf("fetch beyond: %v", err)
	}
	if len(beyond) != 0 {
		t.Fatalf("expected no results beyond the set, got %d", len(beyond))
	}
}
