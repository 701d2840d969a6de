package pages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goliatone/go-pagekit/internal/attachments"
	"github.com/goliatone/go-pagekit/internal/routes"
	"github.com/goliatone/go-pagekit/internal/tags"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunPageRepository persists page aggregates through bun. Every aggregate
// save runs in a single transaction covering the page row, variant rows,
// route rows, tag references and attachment references.
type BunPageRepository struct {
	db *bun.DB
}

// NewBunPageRepository constructs a bun-backed aggregate store.
func NewBunPageRepository(db *bun.DB) *BunPageRepository {
	return &BunPageRepository{db: db}
}

func (r *BunPageRepository) CreateAggregate(ctx context.Context, page *Page) (*Page, error) {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(page).Exec(ctx); err != nil {
			return fmt.Errorf("insert page: %w", err)
		}
		return r.persistChildren(ctx, tx, page)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, page.ID)
}

func (r *BunPageRepository) UpdateAggregate(ctx context.Context, page *Page) (*Page, error) {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model(page).
			Column("type", "website_id", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("update page: %w", err)
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return &PageNotFoundError{ID: page.ID}
		}
		return r.persistChildren(ctx, tx, page)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, page.ID)
}

// persistChildren rewrites the aggregate's child rows to mirror the
// in-memory state: variants are upserted with the language id left alone,
// route and reference rows are replaced wholesale.
func (r *BunPageRepository) persistChildren(ctx context.Context, tx bun.Tx, page *Page) error {
	if err := r.checkRouteConflicts(ctx, tx, page); err != nil {
		return err
	}

	variantIDs := make([]string, 0, len(page.Variants))
	for _, variant := range page.Variants {
		variantIDs = append(variantIDs, variant.ID.String())

		if _, err := tx.NewInsert().
			Model(variant).
			On("CONFLICT (id) DO UPDATE").
			Set("status = EXCLUDED.status").
			Set("title = EXCLUDED.title").
			Set("lead = EXCLUDED.lead").
			Set("content = EXCLUDED.content").
			Set("published_at = EXCLUDED.published_at").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx); err != nil {
			return fmt.Errorf("upsert variant %s: %w", variant.ID, err)
		}
	}

	if len(variantIDs) > 0 {
		if _, err := tx.NewDelete().
			Model((*routes.Route)(nil)).
			Where("?TableAlias.target_kind = ?", routes.TargetVariant).
			Where("?TableAlias.target_id IN (?)", bun.In(variantIDs)).
			Exec(ctx); err != nil {
			return fmt.Errorf("clear variant routes: %w", err)
		}
		if _, err := tx.NewDelete().
			Model((*VariantTag)(nil)).
			Where("?TableAlias.variant_id IN (?)", bun.In(variantIDs)).
			Exec(ctx); err != nil {
			return fmt.Errorf("clear variant tags: %w", err)
		}
	}

	for _, variant := range page.Variants {
		if variant.Route != nil {
			if _, err := tx.NewInsert().Model(variant.Route).Exec(ctx); err != nil {
				return fmt.Errorf("insert route %q: %w", variant.Route.URL, err)
			}
		}
		for position, tag := range variant.Tags {
			row := &VariantTag{VariantID: variant.ID, TagID: tag.ID, Position: position}
			if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
				return fmt.Errorf("insert variant tag: %w", err)
			}
		}
	}

	if _, err := tx.NewDelete().
		Model((*PageAttachment)(nil)).
		Where("?TableAlias.page_id = ?", page.ID).
		Exec(ctx); err != nil {
		return fmt.Errorf("clear page attachments: %w", err)
	}
	for position, attachment := range page.Attachments {
		row := &PageAttachment{PageID: page.ID, AttachmentID: attachment.ID, Position: position}
		if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
			return fmt.Errorf("insert page attachment: %w", err)
		}
	}

	return nil
}

// checkRouteConflicts fails the transaction when a route URL in the
// aggregate is already bound outside the aggregate, or when two variants in
// the same payload claim one URL. Rows targeting the page's own variants are
// excluded: persistChildren replaces them wholesale, so a URL moving between
// variants of the same page is not a conflict.
func (r *BunPageRepository) checkRouteConflicts(ctx context.Context, tx bun.Tx, page *Page) error {
	variantIDs := make([]string, 0, len(page.Variants))
	for _, variant := range page.Variants {
		variantIDs = append(variantIDs, variant.ID.String())
	}

	claimed := make(map[string]uuid.UUID, len(page.Variants))
	for _, variant := range page.Variants {
		if variant.Route == nil {
			continue
		}
		if holderID, dup := claimed[variant.Route.URL]; dup {
			return &routes.URLTakenError{
				URL:       variant.Route.URL,
				HolderID:  holderID,
				Requested: variant.Route.Target(),
			}
		}
		claimed[variant.Route.URL] = variant.Route.ID

		holder := new(routes.Route)
		err := tx.NewSelect().
			Model(holder).
			Where("?TableAlias.url = ?", variant.Route.URL).
			Where("NOT (?TableAlias.target_kind = ? AND ?TableAlias.target_id IN (?))",
				routes.TargetVariant, bun.In(variantIDs)).
			Limit(1).
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return fmt.Errorf("check route url %q: %w", variant.Route.URL, err)
		}
		return &routes.URLTakenError{
			URL:       variant.Route.URL,
			HolderID:  holder.ID,
			Requested: variant.Route.Target(),
		}
	}
	return nil
}

func (r *BunPageRepository) GetByID(ctx context.Context, id uuid.UUID) (*Page, error) {
	page := new(Page)
	err := r.db.NewSelect().
		Model(page).
		Where("?TableAlias.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &PageNotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("load page: %w", err)
	}
	if err := r.hydrate(ctx, page); err != nil {
		return nil, err
	}
	return page, nil
}

func (r *BunPageRepository) List(ctx context.Context) ([]*Page, error) {
	var records []*Page
	if err := r.db.NewSelect().
		Model(&records).
		OrderExpr("?TableAlias.id ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	for _, page := range records {
		if err := r.hydrate(ctx, page); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (r *BunPageRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.NewSelect().
		Model((*Page)(nil)).
		Column("id").
		OrderExpr("?TableAlias.id ASC").
		Scan(ctx, &ids); err != nil {
		return nil, fmt.Errorf("list page ids: %w", err)
	}
	return ids, nil
}

func (r *BunPageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var variantIDs []uuid.UUID
		if err := tx.NewSelect().
			Model((*PageVariant)(nil)).
			Column("id").
			Where("?TableAlias.page_id = ?", id).
			Scan(ctx, &variantIDs); err != nil {
			return fmt.Errorf("list variant ids: %w", err)
		}

		if len(variantIDs) > 0 {
			if _, err := tx.NewDelete().
				Model((*routes.Route)(nil)).
				Where("?TableAlias.target_kind = ?", routes.TargetVariant).
				Where("?TableAlias.target_id IN (?)", bun.In(variantIDs)).
				Exec(ctx); err != nil {
				return fmt.Errorf("delete variant routes: %w", err)
			}
			if _, err := tx.NewDelete().
				Model((*VariantTag)(nil)).
				Where("?TableAlias.variant_id IN (?)", bun.In(variantIDs)).
				Exec(ctx); err != nil {
				return fmt.Errorf("delete variant tags: %w", err)
			}
			if _, err := tx.NewDelete().
				Model((*PageVariant)(nil)).
				Where("?TableAlias.page_id = ?", id).
				Exec(ctx); err != nil {
				return fmt.Errorf("delete variants: %w", err)
			}
		}

		if _, err := tx.NewDelete().
			Model((*PageAttachment)(nil)).
			Where("?TableAlias.page_id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete page attachments: %w", err)
		}

		res, err := tx.NewDelete().
			Model((*Page)(nil)).
			Where("?TableAlias.id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete page: %w", err)
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return &PageNotFoundError{ID: id}
		}
		return nil
	})
}

func (r *BunPageRepository) Select(ctx context.Context, filter Filter) ([]*Page, error) {
	if err := filter.validate(); err != nil {
		return nil, err
	}

	var records []*Page
	q := r.applyFilter(r.db.NewSelect().Model(&records), filter)
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("select pages: %w", err)
	}
	for _, page := range records {
		if err := r.hydrate(ctx, page); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (r *BunPageRepository) Count(ctx context.Context, filter Filter) (int, error) {
	if err := filter.validate(); err != nil {
		return 0, err
	}
	count, err := r.applyFilter(r.db.NewSelect().Model((*Page)(nil)), filter).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count pages: %w", err)
	}
	return count, nil
}

// applyFilter translates validated conditions into SQL. Variant-scoped
// fields become EXISTS subqueries over page_variants.
func (r *BunPageRepository) applyFilter(q *bun.SelectQuery, filter Filter) *bun.SelectQuery {
	for field, cond := range filter.Conditions {
		switch field {
		case FieldID:
			q = applyScalar(q, "?TableAlias.id", cond)
		case FieldType:
			q = applyScalar(q, "?TableAlias.type", cond)
		case FieldWebsiteID:
			q = applyScalar(q, "?TableAlias.website_id", cond)
		case FieldLanguageID:
			q = applyVariantScalar(q, "language_id", cond)
		case FieldStatus:
			q = applyVariantScalar(q, "status", cond)
		case FieldText:
			query, _ := cond.Value.(string)
			pattern := "%" + query + "%"
			q = q.Where(
				"EXISTS (SELECT 1 FROM page_variants AS pv WHERE pv.page_id = ?TableAlias.id AND (pv.title LIKE ? OR pv.lead LIKE ? OR pv.content LIKE ?))",
				pattern, pattern, pattern,
			)
		}
	}

	switch filter.OrderBy {
	case "":
		q = q.OrderExpr("?TableAlias.id ASC")
	default:
		direction := "ASC"
		if filter.Order == OrderDesc {
			direction = "DESC"
		}
		q = q.OrderExpr("?TableAlias.? ?", bun.Ident(filter.OrderBy), bun.Safe(direction))
	}
	return q
}

func applyScalar(q *bun.SelectQuery, column string, cond Condition) *bun.SelectQuery {
	if cond.Op == OpIn {
		return q.Where(column+" IN (?)", bun.In(cond.Value))
	}
	return q.Where(column+" = ?", cond.Value)
}

func applyVariantScalar(q *bun.SelectQuery, column string, cond Condition) *bun.SelectQuery {
	sub := "EXISTS (SELECT 1 FROM page_variants AS pv WHERE pv.page_id = ?TableAlias.id AND pv." + column
	if cond.Op == OpIn {
		return q.Where(sub+" IN (?))", bun.In(cond.Value))
	}
	return q.Where(sub+" = ?)", cond.Value)
}

// hydrate loads the aggregate children: variants in creation order, their
// routes, tag references in stored position order, and attachment
// references in stored position order.
func (r *BunPageRepository) hydrate(ctx context.Context, page *Page) error {
	var variants []*PageVariant
	if err := r.db.NewSelect().
		Model(&variants).
		Where("?TableAlias.page_id = ?", page.ID).
		OrderExpr("?TableAlias.created_at ASC, ?TableAlias.id ASC").
		Scan(ctx); err != nil {
		return fmt.Errorf("load variants: %w", err)
	}
	page.Variants = variants

	variantIDs := make([]uuid.UUID, 0, len(variants))
	byID := make(map[uuid.UUID]*PageVariant, len(variants))
	for _, variant := range variants {
		variant.Page = page
		variantIDs = append(variantIDs, variant.ID)
		byID[variant.ID] = variant
	}

	if len(variantIDs) > 0 {
		var routeRows []*routes.Route
		if err := r.db.NewSelect().
			Model(&routeRows).
			Where("?TableAlias.target_kind = ?", routes.TargetVariant).
			Where("?TableAlias.target_id IN (?)", bun.In(variantIDs)).
			Scan(ctx); err != nil {
			return fmt.Errorf("load routes: %w", err)
		}
		for _, route := range routeRows {
			if variant, ok := byID[route.TargetID]; ok {
				variant.Route = route
			}
		}

		if err := r.hydrateTags(ctx, variantIDs, byID); err != nil {
			return err
		}
	}

	return r.hydrateAttachments(ctx, page)
}

func (r *BunPageRepository) hydrateTags(ctx context.Context, variantIDs []uuid.UUID, byID map[uuid.UUID]*PageVariant) error {
	var refs []*VariantTag
	if err := r.db.NewSelect().
		Model(&refs).
		Where("?TableAlias.variant_id IN (?)", bun.In(variantIDs)).
		OrderExpr("?TableAlias.variant_id ASC, ?TableAlias.position ASC").
		Scan(ctx); err != nil {
		return fmt.Errorf("load variant tag refs: %w", err)
	}
	if len(refs) == 0 {
		return nil
	}

	tagIDs := make([]uuid.UUID, 0, len(refs))
	seen := map[uuid.UUID]bool{}
	for _, ref := range refs {
		if !seen[ref.TagID] {
			seen[ref.TagID] = true
			tagIDs = append(tagIDs, ref.TagID)
		}
	}

	var tagRows []*tags.Tag
	if err := r.db.NewSelect().
		Model(&tagRows).
		Where("?TableAlias.id IN (?)", bun.In(tagIDs)).
		Scan(ctx); err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	tagByID := make(map[uuid.UUID]*tags.Tag, len(tagRows))
	for _, tag := range tagRows {
		tagByID[tag.ID] = tag
	}

	for _, ref := range refs {
		variant, ok := byID[ref.VariantID]
		if !ok {
			continue
		}
		if tag, ok := tagByID[ref.TagID]; ok {
			variant.Tags = append(variant.Tags, tag)
		}
	}
	return nil
}

func (r *BunPageRepository) hydrateAttachments(ctx context.Context, page *Page) error {
	var refs []*PageAttachment
	if err := r.db.NewSelect().
		Model(&refs).
		Where("?TableAlias.page_id = ?", page.ID).
		OrderExpr("?TableAlias.position ASC").
		Scan(ctx); err != nil {
		return fmt.Errorf("load page attachment refs: %w", err)
	}
	if len(refs) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.AttachmentID)
	}

	var rows []*attachments.Attachment
	if err := r.db.NewSelect().
		Model(&rows).
		Where("?TableAlias.id IN (?)", bun.In(ids)).
		Scan(ctx); err != nil {
		return fmt.Errorf("load attachments: %w", err)
	}
	attByID := make(map[uuid.UUID]*attachments.Attachment, len(rows))
	for _, row := range rows {
		attByID[row.ID] = row
	}

	page.Attachments = make([]*attachments.Attachment, 0, len(refs))
	for _, ref := range refs {
		if attachment, ok := attByID[ref.AttachmentID]; ok {
			page.Attachments = append(page.Attachments, attachment)
		}
	}
	return nil
}
