package pagekit

import (
	"context"
	"fmt"

	"github.com/goliatone/go-pagekit/internal/attachments"
	"github.com/goliatone/go-pagekit/internal/pages"
	"github.com/goliatone/go-pagekit/internal/routes"
	"github.com/goliatone/go-pagekit/internal/tags"
	"github.com/uptrace/bun"
)

// Models returns every bun model the module persists, in dependency order.
// Host applications running their own migration tooling can fold these into
// their schema; CreateTables covers the embedded case.
func Models() []any {
	return []any{
		(*pages.Page)(nil),
		(*pages.PageVariant)(nil),
		(*tags.Tag)(nil),
		(*routes.Route)(nil),
		(*attachments.Attachment)(nil),
		(*pages.PageAttachment)(nil),
		(*pages.VariantTag)(nil),
	}
}

// CreateTables creates the module schema if it does not exist yet.
func CreateTables(ctx context.Context, db *bun.DB) error {
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("pagekit: create table %T: %w", model, err)
		}
	}
	return nil
}
