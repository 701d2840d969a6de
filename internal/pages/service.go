package pages

import (
	"context"
	"time"

	"github.com/goliatone/go-pagekit/internal/attachments"
	"github.com/goliatone/go-pagekit/internal/domain"
	"github.com/goliatone/go-pagekit/internal/logging"
	"github.com/goliatone/go-pagekit/internal/tags"
	"github.com/goliatone/go-pagekit/pkg/interfaces"
	"github.com/google/uuid"
)

// Service exposes the page aggregate use-cases. Create and Update fold a
// partial payload into the aggregate, validate the result on the in-memory
// copy, and persist only when every rule passes.
type Service interface {
	Create(ctx context.Context, req CreatePageRequest) (*Page, error)
	Update(ctx context.Context, req UpdatePageRequest) (*Page, error)
	Get(ctx context.Context, id uuid.UUID) (*Page, error)
	List(ctx context.Context) ([]*Page, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// IDGenerator mints identifiers for new records.
type IDGenerator func() uuid.UUID

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides the id generator.
func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	pages       Repository
	attachments attachments.Repository
	sink        interfaces.EventSink
	reconciler  *variantReconciler
	logger      interfaces.Logger
	now         func() time.Time
	id          IDGenerator
}

// NewService constructs a page service. The sink receives PageCreated,
// PageUpdated and PageDeleted after the store write succeeds; pass nil to
// skip events.
func NewService(pageRepo Repository, tagRepo tags.Repository, attachmentRepo attachments.Repository, sink interfaces.EventSink, opts ...ServiceOption) Service {
	s := &service{
		pages:       pageRepo,
		attachments: attachmentRepo,
		sink:        sink,
		logger:      logging.NoOp(),
		now:         time.Now,
		id:          uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reconciler = newVariantReconciler(tagRepo, s.now, func() uuid.UUID { return s.id() })
	return s
}

func (s *service) Create(ctx context.Context, req CreatePageRequest) (*Page, error) {
	if req.WebsiteID == uuid.Nil {
		return nil, ErrWebsiteRequired
	}

	pageType, err := resolvePageType(req.Type, domain.PageTypePage)
	if err != nil {
		return nil, err
	}

	now := s.now()
	page := &Page{
		ID:        s.id(),
		Type:      pageType,
		WebsiteID: req.WebsiteID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.applyAttachments(ctx, page, req.AttachmentIDs); err != nil {
		return nil, err
	}
	if err := s.reconciler.Reconcile(ctx, page, req.Variants); err != nil {
		return nil, err
	}

	persisted, err := s.pages.CreateAggregate(ctx, page)
	if err != nil {
		return nil, err
	}
	s.logger.Info("page created", "page_id", persisted.ID, "variants", len(persisted.Variants))

	if s.sink != nil {
		s.sink.Dispatch(ctx, PageCreated{Page: persisted})
	}
	return persisted, nil
}

func (s *service) Update(ctx context.Context, req UpdatePageRequest) (*Page, error) {
	page, err := s.pages.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Type.IsSet() {
		pageType, err := resolvePageType(req.Type, page.Type)
		if err != nil {
			return nil, err
		}
		page.Type = pageType
	}

	if err := s.applyAttachments(ctx, page, req.AttachmentIDs); err != nil {
		return nil, err
	}
	if err := s.reconciler.Reconcile(ctx, page, req.Variants); err != nil {
		return nil, err
	}
	page.UpdatedAt = s.now()

	persisted, err := s.pages.UpdateAggregate(ctx, page)
	if err != nil {
		return nil, err
	}
	s.logger.Info("page updated", "page_id", persisted.ID, "variants", len(persisted.Variants))

	if s.sink != nil {
		s.sink.Dispatch(ctx, PageUpdated{Page: persisted})
	}
	return persisted, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Page, error) {
	return s.pages.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*Page, error) {
	return s.pages.List(ctx)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.pages.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("page deleted", "page_id", id)

	if s.sink != nil {
		s.sink.Dispatch(ctx, PageDeleted{PageID: id})
	}
	return nil
}

// applyAttachments replaces the attachment references when the payload
// carries the key. Every referenced attachment must exist.
func (s *service) applyAttachments(ctx context.Context, page *Page, ids domain.Optional[[]uuid.UUID]) error {
	requested, ok := ids.Value()
	if !ok {
		return nil
	}
	if len(requested) == 0 {
		page.Attachments = nil
		return nil
	}
	resolved, err := s.attachments.GetByIDs(ctx, requested)
	if err != nil {
		return err
	}
	page.Attachments = resolved
	return nil
}

// resolvePageType normalizes an optional payload type: absent or empty
// falls back, anything else must be a known type.
func resolvePageType(opt domain.Optional[domain.PageType], fallback domain.PageType) (domain.PageType, error) {
	raw, ok := opt.Value()
	if !ok || raw == "" {
		return fallback, nil
	}
	if !raw.Valid() {
		return "", ErrPageTypeInvalid
	}
	return raw, nil
}
