package pages

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-pagekit/internal/logging"
	"github.com/goliatone/go-pagekit/pkg/interfaces"
	"github.com/google/uuid"
)

// Operator is the comparison applied by one filter condition.
type Operator string

const (
	// OpEquals matches records whose field equals the condition value.
	OpEquals Operator = "eq"
	// OpIn matches records whose field is one of the condition values.
	OpIn Operator = "in"
	// OpMatch performs a text match across variant title, lead and content.
	// Only valid on FieldText.
	OpMatch Operator = "match"
)

// Recognized filter fields. Variant-level fields match a page when any of
// its variants matches.
const (
	FieldID         = "id"
	FieldType       = "type"
	FieldWebsiteID  = "website_id"
	FieldLanguageID = "language_id"
	FieldStatus     = "status"
	FieldText       = "text"
)

// Order is an optional result ordering hint.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Condition is one (operator, value) pair applied to a field.
type Condition struct {
	Op    Operator
	Value any
}

// Filter describes a page query: conditions per field, plus optional
// ordering and pagination. A zero Filter selects everything.
type Filter struct {
	Conditions map[string]Condition
	OrderBy    string
	Order      Order
	Limit      int
	Offset     int
}

// NewFilter builds an empty filter ready to accept conditions.
func NewFilter() Filter {
	return Filter{Conditions: map[string]Condition{}}
}

// Where adds a condition and returns the filter for chaining.
func (f Filter) Where(field string, op Operator, value any) Filter {
	if f.Conditions == nil {
		f.Conditions = map[string]Condition{}
	}
	f.Conditions[field] = Condition{Op: op, Value: value}
	return f
}

// validate rejects unknown fields and operator/field mismatches before the
// filter reaches a storage backend.
func (f Filter) validate() error {
	for field, cond := range f.Conditions {
		switch field {
		case FieldID, FieldType, FieldWebsiteID, FieldLanguageID, FieldStatus:
			if cond.Op != OpEquals && cond.Op != OpIn {
				return fmt.Errorf("%w: operator %q on field %q", ErrUnsupportedFilter, cond.Op, field)
			}
		case FieldText:
			if cond.Op != OpMatch {
				return fmt.Errorf("%w: operator %q on field %q", ErrUnsupportedFilter, cond.Op, field)
			}
		default:
			return fmt.Errorf("%w: field %q", ErrUnsupportedFilter, field)
		}
	}
	if f.OrderBy != "" {
		switch f.OrderBy {
		case FieldID, "created_at", "updated_at":
		default:
			return fmt.Errorf("%w: order by %q", ErrUnsupportedFilter, f.OrderBy)
		}
	}
	return nil
}

// textCondition extracts the text match condition, if any, and returns the
// filter without it.
func (f Filter) textCondition() (string, Filter, bool) {
	cond, ok := f.Conditions[FieldText]
	if !ok {
		return "", f, false
	}
	query, _ := cond.Value.(string)

	rest := Filter{
		Conditions: make(map[string]Condition, len(f.Conditions)-1),
		OrderBy:    f.OrderBy,
		Order:      f.Order,
		Limit:      f.Limit,
		Offset:     f.Offset,
	}
	for field, c := range f.Conditions {
		if field == FieldText {
			continue
		}
		rest.Conditions[field] = c
	}
	return query, rest, true
}

// Querier is the read-side facade over the page store. When a search index
// is configured, text matches are answered by the index and hydrated from
// the repository; otherwise the repository scans.
type Querier struct {
	repo   Repository
	index  interfaces.SearchIndex
	logger interfaces.Logger
}

// QuerierOption configures a Querier.
type QuerierOption func(*Querier)

// WithQuerierIndex answers text matches from the given search index.
func WithQuerierIndex(index interfaces.SearchIndex) QuerierOption {
	return func(q *Querier) {
		q.index = index
	}
}

// WithQuerierLogger sets the querier logger.
func WithQuerierLogger(logger interfaces.Logger) QuerierOption {
	return func(q *Querier) {
		if logger != nil {
			q.logger = logger
		}
	}
}

// NewQuerier builds the read facade over the given repository.
func NewQuerier(repo Repository, opts ...QuerierOption) *Querier {
	q := &Querier{
		repo:   repo,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Count returns how many pages satisfy the filter.
func (q *Querier) Count(ctx context.Context, filter Filter) (int, error) {
	if err := filter.validate(); err != nil {
		return 0, err
	}

	if query, rest, ok := filter.textCondition(); ok && q.index != nil {
		matches, err := q.fetchMatches(ctx, query, rest)
		if err != nil {
			return 0, err
		}
		return len(matches), nil
	}

	return q.repo.Count(ctx, filter)
}

// Fetch returns the pages satisfying the filter.
func (q *Querier) Fetch(ctx context.Context, filter Filter) ([]*Page, error) {
	if err := filter.validate(); err != nil {
		return nil, err
	}

	if query, rest, ok := filter.textCondition(); ok && q.index != nil {
		matches, err := q.fetchMatches(ctx, query, rest)
		if err != nil {
			return nil, err
		}
		return paginate(matches, rest.Offset, rest.Limit), nil
	}

	return q.repo.Select(ctx, filter)
}

// fetchMatches resolves a text query through the index, hydrates the hits
// from the repository, and applies the remaining conditions in memory.
// Index entries whose page has since been deleted are skipped.
func (q *Querier) fetchMatches(ctx context.Context, query string, rest Filter) ([]*Page, error) {
	ids, err := q.index.Match(ctx, query, 0)
	if err != nil {
		return nil, fmt.Errorf("pages: index match: %w", err)
	}

	out := make([]*Page, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			q.logger.Warn("skipping malformed index hit", "id", raw)
			continue
		}
		page, err := q.repo.GetByID(ctx, id)
		if err != nil {
			var notFound *PageNotFoundError
			if errors.As(err, &notFound) {
				continue
			}
			return nil, err
		}
		if matchesConditions(page, rest.Conditions) {
			out = append(out, page)
		}
	}
	return out, nil
}

func paginate(records []*Page, offset, limit int) []*Page {
	if offset > 0 {
		if offset >= len(records) {
			return []*Page{}
		}
		records = records[offset:]
	}
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records
}
