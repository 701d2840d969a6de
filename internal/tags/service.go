package tags

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-pagekit/pkg/interfaces"
	"github.com/google/uuid"
)

// Service exposes tag management use-cases.
type Service interface {
	Create(ctx context.Context, req CreateTagRequest) (*Tag, error)
	Update(ctx context.Context, req UpdateTagRequest) (*Tag, error)
	Get(ctx context.Context, id uuid.UUID) (*Tag, error)
	List(ctx context.Context) ([]*Tag, error)
}

// CreateTagRequest captures the information required to create a tag.
type CreateTagRequest struct {
	Name       string
	LanguageID uuid.UUID
	WebsiteID  uuid.UUID
}

// UpdateTagRequest mutates an existing tag; only the name is mutable, the
// language and website scope are fixed at creation.
type UpdateTagRequest struct {
	ID   uuid.UUID
	Name string
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// IDGenerator mints identifiers for new records.
type IDGenerator func() uuid.UUID

// WithIDGenerator overrides the id generator.
func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

type service struct {
	tags Repository
	sink interfaces.EventSink
	now  func() time.Time
	id   IDGenerator
}

// NewService constructs a tag service. The sink receives TagCreated and
// TagUpdated after the store write succeeds; pass nil to skip events.
func NewService(tags Repository, sink interfaces.EventSink, opts ...ServiceOption) Service {
	s := &service{
		tags: tags,
		sink: sink,
		now:  time.Now,
		id:   uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, req CreateTagRequest) (*Tag, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if req.LanguageID == uuid.Nil {
		return nil, ErrLanguageRequired
	}
	if req.WebsiteID == uuid.Nil {
		return nil, ErrWebsiteRequired
	}

	now := s.now()
	record := &Tag{
		ID:         s.id(),
		Name:       name,
		LanguageID: req.LanguageID,
		WebsiteID:  req.WebsiteID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := s.tags.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	if s.sink != nil {
		s.sink.Dispatch(ctx, TagCreated{Tag: created})
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, req UpdateTagRequest) (*Tag, error) {
	record, err := s.tags.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		record.Name = name
	}
	if strings.TrimSpace(record.Name) == "" {
		return nil, ErrNameRequired
	}
	record.UpdatedAt = s.now()

	updated, err := s.tags.Update(ctx, record)
	if err != nil {
		return nil, err
	}

	if s.sink != nil {
		s.sink.Dispatch(ctx, TagUpdated{Tag: updated})
	}
	return updated, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Tag, error) {
	return s.tags.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*Tag, error) {
	return s.tags.GetAll(ctx)
}
