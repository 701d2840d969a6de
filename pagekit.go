// Package pagekit is an embeddable content backend: pages with per-language
// variants, exclusive routes, shared tags, and a search index kept in step
// with the store through domain events.
package pagekit

import (
	"github.com/goliatone/go-pagekit/internal/attachments"
	"github.com/goliatone/go-pagekit/internal/di"
	"github.com/goliatone/go-pagekit/internal/events"
	"github.com/goliatone/go-pagekit/internal/identity"
	"github.com/goliatone/go-pagekit/internal/pages"
	"github.com/goliatone/go-pagekit/internal/routes"
	"github.com/goliatone/go-pagekit/internal/search"
	"github.com/goliatone/go-pagekit/internal/tags"
	"github.com/goliatone/go-pagekit/pkg/interfaces"
	"github.com/google/uuid"
)

// PageService exports the page service contract.
type PageService = pages.Service

// TagService exports the tag service contract.
type TagService = tags.Service

// PageQuerier exports the read facade over the page store.
type PageQuerier = pages.Querier

// Synchronizer exports the search index synchronizer.
type Synchronizer = search.Synchronizer

// SearchIndex exports the full-text backend contract.
type SearchIndex = interfaces.SearchIndex

// EventBus exports the domain event bus.
type EventBus = events.Bus

// PageRepository exports the page aggregate store contract.
type PageRepository = pages.Repository

// TagRepository exports the tag store contract.
type TagRepository = tags.Repository

// AttachmentRepository exports the attachment store contract.
type AttachmentRepository = attachments.Repository

// RouteRepository exports the route store contract.
type RouteRepository = routes.Repository

// Module is the top level runtime facade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI
// overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Pages returns the configured page service.
func (m *Module) Pages() PageService {
	return m.container.PageService()
}

// Tags returns the configured tag service.
func (m *Module) Tags() TagService {
	return m.container.TagService()
}

// Query returns the read facade over the page store.
func (m *Module) Query() *PageQuerier {
	return m.container.Querier()
}

// Search returns the index synchronizer, nil when search is disabled.
func (m *Module) Search() *Synchronizer {
	return m.container.Synchronizer()
}

// Bus returns the domain event bus.
func (m *Module) Bus() *EventBus {
	return m.container.Bus()
}

// Routes returns the configured route store.
func (m *Module) Routes() RouteRepository {
	return m.container.RouteRepository()
}

// Close releases owned resources.
func (m *Module) Close() error {
	return m.container.Close()
}

// LanguageID derives the deterministic identifier for a language code.
// Hosts that key languages by code get stable ids across environments.
func LanguageID(code string) uuid.UUID {
	return identity.LanguageUUID(code)
}

// WebsiteID derives the deterministic identifier for a website key.
func WebsiteID(key string) uuid.UUID {
	return identity.WebsiteUUID(key)
}
