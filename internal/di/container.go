package di

import (
	"time"

	"github.com/goliatone/go-pagekit/internal/attachments"
	"github.com/goliatone/go-pagekit/internal/events"
	"github.com/goliatone/go-pagekit/internal/logging"
	"github.com/goliatone/go-pagekit/internal/logging/gologger"
	"github.com/goliatone/go-pagekit/internal/pages"
	"github.com/goliatone/go-pagekit/internal/routes"
	"github.com/goliatone/go-pagekit/internal/runtimeconfig"
	"github.com/goliatone/go-pagekit/internal/search"
	"github.com/goliatone/go-pagekit/internal/tags"
	"github.com/goliatone/go-pagekit/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

// Container wires module dependencies. Without a database it runs entirely
// on the in-memory stores; WithBunDB switches the repositories to bun.
type Container struct {
	Config runtimeconfig.Config

	bunDB         *bun.DB
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	loggerProvider interfaces.LoggerProvider

	pageRepo       pages.Repository
	tagRepo        tags.Repository
	attachmentRepo attachments.Repository
	routeRepo      routes.Repository

	bus   *events.Bus
	index interfaces.SearchIndex
	sync  *search.Synchronizer

	pageSvc pages.Service
	tagSvc  tags.Service
	querier *pages.Querier
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB switches the repositories to bun-backed storage.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache enables read-through caching on the repositories that support it.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the default logger provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithSearchIndex overrides the default search backend.
func WithSearchIndex(index interfaces.SearchIndex) Option {
	return func(c *Container) {
		c.index = index
	}
}

// WithPageRepository overrides the default page store binding.
func WithPageRepository(repo pages.Repository) Option {
	return func(c *Container) {
		c.pageRepo = repo
	}
}

// WithTagRepository overrides the default tag store binding.
func WithTagRepository(repo tags.Repository) Option {
	return func(c *Container) {
		c.tagRepo = repo
	}
}

// WithAttachmentRepository overrides the default attachment store binding.
func WithAttachmentRepository(repo attachments.Repository) Option {
	return func(c *Container) {
		c.attachmentRepo = repo
	}
}

// WithRouteRepository overrides the default route store binding.
func WithRouteRepository(repo routes.Repository) Option {
	return func(c *Container) {
		c.routeRepo = repo
	}
}

// WithPageService overrides the default page service binding.
func WithPageService(svc pages.Service) Option {
	return func(c *Container) {
		c.pageSvc = svc
	}
}

// WithTagService overrides the default tag service binding.
func WithTagService(svc tags.Service) Option {
	return func(c *Container) {
		c.tagSvc = svc
	}
}

// NewContainer wires the module from configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cacheTTL,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.tagRepo == nil {
		c.tagRepo = tags.NewMemoryTagRepository()
	}
	if c.attachmentRepo == nil {
		c.attachmentRepo = attachments.NewMemoryAttachmentRepository()
	}
	if c.routeRepo == nil {
		c.routeRepo = routes.NewMemoryRouteRepository()
	}
	if c.pageRepo == nil {
		// In memory mode the page store mirrors its route rows into the
		// shared route store so both expose the same URL bindings.
		var pageOpts []pages.MemoryPageOption
		if store, ok := c.routeRepo.(*routes.MemoryRouteRepository); ok {
			pageOpts = append(pageOpts, pages.WithMemoryRouteStore(store))
		}
		c.pageRepo = pages.NewMemoryPageRepository(pageOpts...)
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	c.configureStorage()
	c.configureEvents()
	if err := c.configureSearch(); err != nil {
		return nil, err
	}

	if c.tagSvc == nil {
		c.tagSvc = tags.NewService(c.tagRepo, c.bus)
	}
	if c.pageSvc == nil {
		c.pageSvc = pages.NewService(
			c.pageRepo,
			c.tagRepo,
			c.attachmentRepo,
			c.bus,
			pages.WithLogger(logging.PagesLogger(c.loggerProvider)),
		)
	}

	querierOpts := []pages.QuerierOption{
		pages.WithQuerierLogger(logging.PagesLogger(c.loggerProvider)),
	}
	if c.index != nil {
		querierOpts = append(querierOpts, pages.WithQuerierIndex(c.index))
	}
	c.querier = pages.NewQuerier(c.pageRepo, querierOpts...)

	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}

	name := c.Config.Logging.NormalizedProvider()
	if name == "noop" {
		c.loggerProvider = logging.NoOpProvider()
		return nil
	}

	logCfg := gologger.Config{
		Level:     c.Config.Logging.Level,
		Format:    c.Config.Logging.Format,
		AddSource: c.Config.Logging.AddSource,
		Focus:     c.Config.Logging.Focus,
	}
	if name == "console" && logCfg.Format == "" {
		logCfg.Format = "console"
	}
	provider, err := gologger.NewProvider(logCfg)
	if err != nil {
		return err
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureStorage() {
	if c.bunDB == nil {
		return
	}

	var cacheService repocache.CacheService
	var keySerializer repocache.KeySerializer
	if c.Config.Cache.Enabled {
		cacheService = c.cacheService
		keySerializer = c.keySerializer
	}

	if _, isMemory := c.pageRepo.(*pages.MemoryPageRepository); isMemory {
		c.pageRepo = pages.NewBunPageRepository(c.bunDB)
	}
	if _, isMemory := c.tagRepo.(*tags.MemoryTagRepository); isMemory {
		c.tagRepo = tags.NewBunTagRepositoryWithCache(c.bunDB, cacheService, keySerializer)
	}
	if _, isMemory := c.attachmentRepo.(*attachments.MemoryAttachmentRepository); isMemory {
		c.attachmentRepo = attachments.NewBunAttachmentRepositoryWithCache(c.bunDB, cacheService, keySerializer)
	}
	if _, isMemory := c.routeRepo.(*routes.MemoryRouteRepository); isMemory {
		c.routeRepo = routes.NewBunRouteRepositoryWithCache(c.bunDB, cacheService, keySerializer)
	}
}

func (c *Container) configureEvents() {
	busOpts := []events.BusOption{
		events.WithLogger(logging.EventsLogger(c.loggerProvider)),
	}
	if c.Config.Events.Async {
		busOpts = append(busOpts, events.WithAsyncDelivery(c.Config.Events.QueueDepth))
	}
	c.bus = events.NewBus(busOpts...)
}

func (c *Container) configureSearch() error {
	if !c.Config.Features.Search {
		c.index = nil
		return nil
	}

	if c.index == nil {
		if path := c.Config.Search.IndexPath; path != "" {
			index, err := search.NewBleveIndex(path,
				search.WithBleveLogger(logging.SearchLogger(c.loggerProvider)),
			)
			if err != nil {
				return err
			}
			c.index = index
		} else {
			c.index = search.NewMemoryIndex()
		}
	}

	c.sync = search.NewSynchronizer(c.index, c.pageRepo,
		search.WithLogger(logging.SearchLogger(c.loggerProvider)),
	)
	c.sync.Bind(c.bus)
	return nil
}

// PageService returns the wired page service.
func (c *Container) PageService() pages.Service {
	return c.pageSvc
}

// TagService returns the wired tag service.
func (c *Container) TagService() tags.Service {
	return c.tagSvc
}

// PageRepository returns the wired page store.
func (c *Container) PageRepository() pages.Repository {
	return c.pageRepo
}

// TagRepository returns the wired tag store.
func (c *Container) TagRepository() tags.Repository {
	return c.tagRepo
}

// AttachmentRepository returns the wired attachment store.
func (c *Container) AttachmentRepository() attachments.Repository {
	return c.attachmentRepo
}

// RouteRepository returns the wired route store.
func (c *Container) RouteRepository() routes.Repository {
	return c.routeRepo
}

// Querier returns the read facade over the page store.
func (c *Container) Querier() *pages.Querier {
	return c.querier
}

// Synchronizer returns the search synchronizer, nil when search is disabled.
func (c *Container) Synchronizer() *search.Synchronizer {
	return c.sync
}

// Bus returns the domain event bus.
func (c *Container) Bus() *events.Bus {
	return c.bus
}

// SearchIndex returns the wired search backend, nil when search is disabled.
func (c *Container) SearchIndex() interfaces.SearchIndex {
	return c.index
}

// LoggerProvider returns the wired logger provider, which may be nil when
// logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Close releases owned resources: the event bus worker and the search index.
func (c *Container) Close() error {
	if c.bus != nil {
		c.bus.Close()
	}
	if c.index != nil {
		return c.index.Close()
	}
	return nil
}
