package pages

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-pagekit/internal/domain"
	"github.com/goliatone/go-pagekit/internal/routes"
	"github.com/google/uuid"
)

// MemoryPageRepository is an in-memory aggregate store used in tests and by
// callers that run without a database. Route URL uniqueness is enforced
// across every stored page and within each incoming aggregate, and conflicts
// are detected before any state is mutated so a failed save leaves the store
// untouched.
type MemoryPageRepository struct {
	mu     sync.RWMutex
	pages  map[uuid.UUID]*Page
	routes *routes.MemoryRouteRepository
}

// MemoryPageOption configures the in-memory page store.
type MemoryPageOption func(*MemoryPageRepository)

// WithMemoryRouteStore mirrors the aggregate's route rows into a shared
// route store, so route lookups observe reconciler writes and externally
// registered routes block aggregate URLs.
func WithMemoryRouteStore(store *routes.MemoryRouteRepository) MemoryPageOption {
	return func(r *MemoryPageRepository) {
		r.routes = store
	}
}

// NewMemoryPageRepository builds an empty in-memory page store.
func NewMemoryPageRepository(opts ...MemoryPageOption) *MemoryPageRepository {
	r := &MemoryPageRepository{
		pages: map[uuid.UUID]*Page{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Put seeds the store without uniqueness checks.
func (r *MemoryPageRepository) Put(page *Page) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages[page.ID] = clonePage(page)
}

func (r *MemoryPageRepository) CreateAggregate(ctx context.Context, page *Page) (*Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkRouteConflicts(ctx, page); err != nil {
		return nil, err
	}

	stored := clonePage(page)
	if err := r.mirrorRoutes(ctx, r.pages[stored.ID], stored); err != nil {
		return nil, err
	}
	r.pages[stored.ID] = stored
	return clonePage(stored), nil
}

func (r *MemoryPageRepository) UpdateAggregate(ctx context.Context, page *Page) (*Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous, ok := r.pages[page.ID]
	if !ok {
		return nil, &PageNotFoundError{ID: page.ID}
	}
	if err := r.checkRouteConflicts(ctx, page); err != nil {
		return nil, err
	}

	stored := clonePage(page)
	if err := r.mirrorRoutes(ctx, previous, stored); err != nil {
		return nil, err
	}
	r.pages[stored.ID] = stored
	return clonePage(stored), nil
}

func (r *MemoryPageRepository) GetByID(_ context.Context, id uuid.UUID) (*Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	page, ok := r.pages[id]
	if !ok {
		return nil, &PageNotFoundError{ID: id}
	}
	return clonePage(page), nil
}

func (r *MemoryPageRepository) List(_ context.Context) ([]*Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot(), nil
}

func (r *MemoryPageRepository) ListIDs(_ context.Context) ([]uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(r.pages))
	for id := range r.pages {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids, nil
}

func (r *MemoryPageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	page, ok := r.pages[id]
	if !ok {
		return &PageNotFoundError{ID: id}
	}
	if r.routes != nil {
		for _, variant := range page.Variants {
			if err := r.routes.DeleteByTarget(ctx, routes.Target{Kind: routes.TargetVariant, ID: variant.ID}); err != nil {
				return err
			}
		}
	}
	delete(r.pages, id)
	return nil
}

func (r *MemoryPageRepository) Select(_ context.Context, filter Filter) ([]*Page, error) {
	if err := filter.validate(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Page, 0)
	for _, page := range r.snapshot() {
		if matchesConditions(page, filter.Conditions) {
			out = append(out, page)
		}
	}
	orderPages(out, filter.OrderBy, filter.Order)
	return paginate(out, filter.Offset, filter.Limit), nil
}

func (r *MemoryPageRepository) Count(ctx context.Context, filter Filter) (int, error) {
	unpaged := filter
	unpaged.Limit = 0
	unpaged.Offset = 0
	records, err := r.Select(ctx, unpaged)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// snapshot returns clones of every page in stable id order. Callers must
// hold at least a read lock.
func (r *MemoryPageRepository) snapshot() []*Page {
	out := make([]*Page, 0, len(r.pages))
	for _, page := range r.pages {
		out = append(out, clonePage(page))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// checkRouteConflicts rejects the aggregate when one of its routes claims a
// URL held outside the aggregate: by a variant of another page, by another
// route in the same payload, or by a route store entry that does not target
// one of the page's own variants. The page's own stored routes are replaced
// wholesale on save, so a URL moving between variants of the same page is
// not a conflict. Callers must hold the write lock.
func (r *MemoryPageRepository) checkRouteConflicts(ctx context.Context, page *Page) error {
	own := make(map[uuid.UUID]bool, len(page.Variants))
	for _, variant := range page.Variants {
		own[variant.ID] = true
	}

	claimed := make(map[string]uuid.UUID, len(page.Variants))
	for _, variant := range page.Variants {
		if variant.Route == nil {
			continue
		}
		url := variant.Route.URL

		if holderID, dup := claimed[url]; dup {
			return &routes.URLTakenError{
				URL:       url,
				HolderID:  holderID,
				Requested: variant.Route.Target(),
			}
		}
		claimed[url] = variant.Route.ID

		for _, other := range r.pages {
			if other.ID == page.ID {
				continue
			}
			for _, otherVariant := range other.Variants {
				if otherVariant.Route == nil {
					continue
				}
				if otherVariant.Route.URL == url {
					return &routes.URLTakenError{
						URL:       url,
						HolderID:  otherVariant.Route.ID,
						Requested: variant.Route.Target(),
					}
				}
			}
		}

		if r.routes != nil {
			held, err := r.routes.GetByURL(ctx, url)
			if err == nil && !(held.TargetKind == routes.TargetVariant && own[held.TargetID]) {
				return &routes.URLTakenError{
					URL:       url,
					HolderID:  held.ID,
					Requested: variant.Route.Target(),
				}
			}
		}
	}
	return nil
}

// mirrorRoutes keeps the shared route store in step with the aggregate: the
// previous version's variant routes are dropped, the current version's are
// re-registered. Conflicts were ruled out by checkRouteConflicts first.
func (r *MemoryPageRepository) mirrorRoutes(ctx context.Context, previous, current *Page) error {
	if r.routes == nil {
		return nil
	}
	if previous != nil {
		for _, variant := range previous.Variants {
			if err := r.routes.DeleteByTarget(ctx, routes.Target{Kind: routes.TargetVariant, ID: variant.ID}); err != nil {
				return err
			}
		}
	}
	for _, variant := range current.Variants {
		if err := r.routes.DeleteByTarget(ctx, routes.Target{Kind: routes.TargetVariant, ID: variant.ID}); err != nil {
			return err
		}
		if variant.Route == nil {
			continue
		}
		if _, err := r.routes.Create(ctx, variant.Route); err != nil {
			return err
		}
	}
	return nil
}

// matchesConditions applies validated filter conditions to one page.
// Variant-scoped fields match when any variant satisfies them.
func matchesConditions(page *Page, conditions map[string]Condition) bool {
	for field, cond := range conditions {
		switch field {
		case FieldID:
			if !matchUUID(page.ID, cond) {
				return false
			}
		case FieldWebsiteID:
			if !matchUUID(page.WebsiteID, cond) {
				return false
			}
		case FieldType:
			if !matchString(string(page.Type), cond) {
				return false
			}
		case FieldLanguageID:
			if !anyVariant(page, func(v *PageVariant) bool { return matchUUID(v.LanguageID, cond) }) {
				return false
			}
		case FieldStatus:
			if !anyVariant(page, func(v *PageVariant) bool { return matchString(string(v.Status), cond) }) {
				return false
			}
		case FieldText:
			query, _ := cond.Value.(string)
			if !anyVariant(page, func(v *PageVariant) bool { return variantContains(v, query) }) {
				return false
			}
		}
	}
	return true
}

func anyVariant(page *Page, match func(*PageVariant) bool) bool {
	for _, variant := range page.Variants {
		if match(variant) {
			return true
		}
	}
	return false
}

func variantContains(variant *PageVariant, query string) bool {
	if strings.TrimSpace(query) == "" {
		return false
	}
	needle := strings.ToLower(query)
	for _, haystack := range []string{variant.Title, variant.Lead, variant.Content} {
		if strings.Contains(strings.ToLower(haystack), needle) {
			return true
		}
	}
	return false
}

func matchUUID(id uuid.UUID, cond Condition) bool {
	switch cond.Op {
	case OpEquals:
		return asUUID(cond.Value) == id
	case OpIn:
		for _, candidate := range asUUIDList(cond.Value) {
			if candidate == id {
				return true
			}
		}
	}
	return false
}

func matchString(value string, cond Condition) bool {
	switch cond.Op {
	case OpEquals:
		return asString(cond.Value) == value
	case OpIn:
		for _, candidate := range asStringList(cond.Value) {
			if candidate == value {
				return true
			}
		}
	}
	return false
}

func asUUID(value any) uuid.UUID {
	switch v := value.(type) {
	case uuid.UUID:
		return v
	case string:
		id, err := uuid.Parse(v)
		if err == nil {
			return id
		}
	}
	return uuid.Nil
}

func asUUIDList(value any) []uuid.UUID {
	switch v := value.(type) {
	case []uuid.UUID:
		return v
	case []string:
		out := make([]uuid.UUID, 0, len(v))
		for _, raw := range v {
			out = append(out, asUUID(raw))
		}
		return out
	case uuid.UUID:
		return []uuid.UUID{v}
	}
	return nil
}

func asString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case domain.PageType:
		return string(v)
	case domain.VariantStatus:
		return string(v)
	}
	return ""
}

func asStringList(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case string:
		return []string{v}
	case []domain.PageType:
		out := make([]string, 0, len(v))
		for _, t := range v {
			out = append(out, string(t))
		}
		return out
	case []domain.VariantStatus:
		out := make([]string, 0, len(v))
		for _, s := range v {
			out = append(out, string(s))
		}
		return out
	}
	return nil
}

func orderPages(records []*Page, orderBy string, order Order) {
	if orderBy == "" {
		return
	}
	desc := order == OrderDesc
	sort.SliceStable(records, func(i, j int) bool {
		var less bool
		switch orderBy {
		case "created_at":
			less = records[i].CreatedAt.Before(records[j].CreatedAt)
		case "updated_at":
			less = records[i].UpdatedAt.Before(records[j].UpdatedAt)
		default:
			less = records[i].ID.String() < records[j].ID.String()
		}
		if desc {
			return !less
		}
		return less
	})
}
