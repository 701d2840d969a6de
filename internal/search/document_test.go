package search_test

import (
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-pagekit/internal/domain"
	"github.com/goliatone/go-pagekit/internal/pages"
	"github.com/goliatone/go-pagekit/internal/routes"
	"github.com/goliatone/go-pagekit/internal/search"
	"github.com/goliatone/go-pagekit/internal/tags"
	"github.com/google/uuid"
)

func TestBuildDocumentFlattensVariants(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	languageID := uuid.New()
	page := &pages.Page{
		ID:        uuid.New(),
		Type:      domain.PageTypeBlogPost,
		WebsiteID: uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
		Variants: []*pages.PageVariant{
			{
				ID:         uuid.New(),
				LanguageID: languageID,
				Status:     domain.StatusPublished,
				Title:      "Launch day",
				Lead:       "We shipped",
				Content:    "Full story",
				Route:      &routes.Route{ID: uuid.New(), URL: "launch-day"},
				Tags: []*tags.Tag{
					{ID: uuid.New(), Name: "news", LanguageID: languageID},
				},
			},
			{
				ID:         uuid.New(),
				LanguageID: uuid.New(),
				Status:     domain.StatusDraft,
				Title:      "Tag der Einführung",
			},
		},
	}

	doc := search.BuildDocument(page)

	if doc["id"] != page.ID.String() {
		t.Fatalf("expected document id %s, got %v", page.ID, doc["id"])
	}
	if doc["type"] != string(domain.PageTypeBlogPost) {
		t.Fatalf("expected type blog-post, got %v", doc["type"])
	}

	titles, _ := doc["title"].([]string)
	if len(titles) != 2 || titles[0] != "Launch day" || titles[1] != "Tag der Einführung" {
		t.Fatalf("expected both titles flattened, got %v", titles)
	}

	variants, _ := doc["variants"].([]any)
	if len(variants) != 2 {
		t.Fatalf("expected 2 variant entries, got %d", len(variants))
	}
	first, _ := variants[0].(map[string]any)
	if first["route"] != "launch-day" {
		t.Fatalf("expected route on first variant, got %v", first["route"])
	}
	names, _ := first["tags"].([]string)
	if len(names) != 1 || names[0] != "news" {
		t.Fatalf("expected tag names, got %v", first["tags"])
	}
	second, _ := variants[1].(map[string]any)
	if _, ok := second["route"]; ok {
		t.Fatalf("routeless variant must omit the route key")
	}

	if err := search.ValidateDocument(doc); err != nil {
		t.Fatalf("built document must validate: %v", err)
	}
}

func TestValidateDocumentRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		doc  map[string]any
		want string
	}{
		{
			name: "missing required fields",
			doc:  map[string]any{"id": uuid.NewString()},
			want: "invalid document",
		},
		{
			name: "empty id",
			doc: map[string]any{
				"id":         "",
				"type":       "page",
				"website_id": uuid.NewString(),
				"variants":   []any{},
			},
			want: "invalid document",
		},
		{
			name: "variant without language",
			doc: map[string]any{
				"id":         uuid.NewString(),
				"type":       "page",
				"website_id": uuid.NewString(),
				"variants": []any{
					map[string]any{"status": "draft"},
				},
			},
			want: "language_id",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := search.ValidateDocument(tc.doc)
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}
