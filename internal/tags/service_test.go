package tags_test

import (
	"context"
	"errors"
	"testing"
	"time"

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

func TestTagServiceCreate(t *testing.T) {
	repo := tags.NewMemoryTagRepository()
	sink := &sinkRecorder{}
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	fixedID := uuid.New()
	svc := tags.NewService(repo, sink,
		tags.WithClock(func() time.Time { return now }),
		tags.WithIDGenerator(func() uuid.UUID { return fixedID }),
	)

	created, err := svc.Create(context.Background(), tags.CreateTagRequest{
		Name:       "  News  ",
		LanguageID: uuid.New(),
		WebsiteID:  uuid.New(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != fixedID {
		t.Fatalf("expected generated id %s, got %s", fixedID, created.ID)
	}
	if created.Name != "News" {
		t.Fatalf("expected trimmed name, got %q", created.Name)
	}
	if !created.CreatedAt.Equal(now) || !created.UpdatedAt.Equal(now) {
		t.Fatalf("expected clock stamps, got %v/%v", created.CreatedAt, created.UpdatedAt)
	}

	if len(sink.events) != 1 || sink.events[0].Kind() != tags.KindTagCreated {
		t.Fatalf("expected TagCreated event, got %v", sink.events)
	}
}

func TestTagServiceCreateValidation(t *testing.T) {
	svc := tags.NewService(tags.NewMemoryTagRepository(), nil)
	ctx := context.Background()
	languageID := uuid.New()
	websiteID := uuid.New()

	cases := []struct {
		name string
		req  tags.CreateTagRequest
		want error
	}{
		{"blank name", tags.CreateTagRequest{Name: "  ", LanguageID: languageID, WebsiteID: websiteID}, tags.ErrNameRequired},
		{"missing language", tags.CreateTagRequest{Name: "x", WebsiteID: websiteID}, tags.ErrLanguageRequired},
		{"missing website", tags.CreateTagRequest{Name: "x", LanguageID: languageID}, tags.ErrWebsiteRequired},
	}
	for _, tc := range cases {
		if _, err := svc.Create(ctx, tc.req); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestTagServiceUpdate(t *testing.T) {
	repo := tags.NewMemoryTagRepository()
	sink := &sinkRecorder{}
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)
	clock := created
	svc := tags.NewService(repo, sink,
		tags.WithClock(func() time.Time { return clock }),
	)
	ctx := context.Background()

	tag, err := svc.Create(ctx, tags.CreateTagRequest{
		Name:       "News",
		LanguageID: uuid.New(),
		WebsiteID:  uuid.New(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	clock = updated
	renamed, err := svc.Update(ctx, tags.UpdateTagRequest{ID: tag.ID, Name: "Updates"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if renamed.Name != "Updates" {
		t.Fatalf("expected renamed tag, got %q", renamed.Name)
	}
	if !renamed.UpdatedAt.Equal(updated) {
		t.Fatalf("expected updated stamp %v, got %v", updated, renamed.UpdatedAt)
	}
	if renamed.LanguageID != tag.LanguageID || renamed.WebsiteID != tag.WebsiteID {
		t.Fatalf("scope fields must stay fixed")
	}

	// A blank name keeps the current one.
	kept, err := svc.Update(ctx, tags.UpdateTagRequest{ID: tag.ID, Name: "   "})
	if err != nil {
		t.Fatalf("update blank: %v", err)
	}
	if kept.Name != "Updates" {
		t.Fatalf("expected name kept, got %q", kept.Name)
	}

	if len(sink.events) != 3 || sink.events[1].Kind() != tags.KindTagUpdated {
		t.Fatalf("expected TagUpdated events, got %d", len(sink.events))
	}
}

func TestTagServiceUpdateUnknownTag(t *testing.T) {
	svc := tags.NewService(tags.NewMemoryTagRepository(), nil)
	_, err := svc.Update(context.Background(), tags.UpdateTagRequest{ID: uuid.New(), Name: "x"})
	if !errors.Is(err, tags.ErrTagNotFound) {
		t.Fatalf("expected tag not found, got %v", err)
	}
}

func TestTagRepositoryGetByIDsOrder(t *testing.T) {
	repo := tags.NewMemoryTagRepository()
	ctx := context.Background()

	first := &tags.Tag{ID: uuid.New(), Name: "a", LanguageID: uuid.New(), WebsiteID: uuid.New()}
	second := &tags.Tag{ID: uuid.New(), Name: "b", LanguageID: first.LanguageID, WebsiteID: first.WebsiteID}
	repo.Put(first)
	repo.Put(second)

	got, err := repo.GetByIDs(ctx, []uuid.UUID{second.ID, first.ID})
	if err != nil {
		t.Fatalf("get by ids: %v", err)
	}
	if len(got) != 2 || got[0].ID != second.ID || got[1].ID != first.ID {
		t.Fatalf("expected input order preserved, got %+v", got)
	}

	missing := uuid.New()
	if _, err := repo.GetByIDs(ctx, []uuid.UUID{first.ID, missing}); !errors.Is(err, tags.ErrTagNotFound) {
		t.Fatalf("expected tag not found for %s, got %v", missing, err)
	}
}
