package pagescmd

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-pagekit/internal/commands"
	"github.com/goliatone/go-pagekit/internal/logging"
	"github.com/goliatone/go-pagekit/internal/pages"
	"github.com/goliatone/go-pagekit/pkg/interfaces"
	"github.com/google/uuid"
)

const (
	createPageMessageType = "pagekit.pages.create"
	updatePageMessageType = "pagekit.pages.update"
	deletePageMessageType = "pagekit.pages.delete"
)

// CreatePageCommand requests creation of a page aggregate from a payload.
type CreatePageCommand struct {
	Request pages.CreatePageRequest `json:"request"`
}

// Type implements command.Message.
func (CreatePageCommand) Type() string { return createPageMessageType }

// Validate ensures the payload carries the identifiers handlers depend on.
func (m CreatePageCommand) Validate() error {
	errs := validation.Errors{}
	if m.Request.WebsiteID == uuid.Nil {
		errs["website_id"] = validation.NewError("pagekit.pages.create.website_required", "website_id is required")
	}
	for i, payload := range m.Request.Variants {
		if _, hasID := payload.ID.Value(); hasID {
			errs[fmt.Sprintf("pageVariants.%d.id", i)] = validation.NewError(
				"pagekit.pages.create.variant_id_forbidden", "variant ids are assigned on creation")
			continue
		}
		if languageID, ok := payload.LanguageID.Value(); !ok || languageID == uuid.Nil {
			errs[fmt.Sprintf("pageVariants.%d.language_id", i)] = validation.NewError(
				"pagekit.pages.create.language_required", "language_id is required for new variants")
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CreatePageHandler creates pages via the page service using the shared
// command handler foundation.
type CreatePageHandler struct {
	inner *commands.Handler[CreatePageCommand]
}

// NewCreatePageHandler constructs a handler wired to the provided page service.
func NewCreatePageHandler(service pages.Service, logger interfaces.Logger, opts ...commands.HandlerOption[CreatePageCommand]) *CreatePageHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg CreatePageCommand) error {
		_, err := service.Create(ctx, msg.Request)
		return err
	}

	handlerOpts := []commands.HandlerOption[CreatePageCommand]{
		commands.WithLogger[CreatePageCommand](baseLogger),
		commands.WithOperation[CreatePageCommand]("pages.create"),
		commands.WithMessageFields(func(msg CreatePageCommand) map[string]any {
			fields := map[string]any{
				"variants": len(msg.Request.Variants),
			}
			if msg.Request.WebsiteID != uuid.Nil {
				fields["website_id"] = msg.Request.WebsiteID
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[CreatePageCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CreatePageHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[CreatePageCommand].Execute.
func (h *CreatePageHandler) Execute(ctx context.Context, msg CreatePageCommand) error {
	return h.inner.Execute(ctx, msg)
}

// UpdatePageCommand requests a sparse update of an existing page aggregate.
type UpdatePageCommand struct {
	Request pages.UpdatePageRequest `json:"request"`
}

// Type implements command.Message.
func (UpdatePageCommand) Type() string { return updatePageMessageType }

// Validate ensures the command targets a concrete page.
func (m UpdatePageCommand) Validate() error {
	errs := validation.Errors{}
	if m.Request.ID == uuid.Nil {
		errs["id"] = validation.NewError("pagekit.pages.update.id_required", "page id is required")
	}
	for i, payload := range m.Request.Variants {
		id, hasID := payload.ID.Value()
		if hasID && id == uuid.Nil {
			errs[fmt.Sprintf("pageVariants.%d.id", i)] = validation.NewError(
				"pagekit.pages.update.variant_id_invalid", "variant id must be a valid identifier when provided")
			continue
		}
		if !hasID {
			if languageID, ok := payload.LanguageID.Value(); !ok || languageID == uuid.Nil {
				errs[fmt.Sprintf("pageVariants.%d.language_id", i)] = validation.NewError(
					"pagekit.pages.update.language_required", "language_id is required for new variants")
			}
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdatePageHandler applies sparse updates via the page service.
type UpdatePageHandler struct {
	inner *commands.Handler[UpdatePageCommand]
}

// NewUpdatePageHandler constructs a handler wired to the provided page service.
func NewUpdatePageHandler(service pages.Service, logger interfaces.Logger, opts ...commands.HandlerOption[UpdatePageCommand]) *UpdatePageHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg UpdatePageCommand) error {
		_, err := service.Update(ctx, msg.Request)
		return err
	}

	handlerOpts := []commands.HandlerOption[UpdatePageCommand]{
		commands.WithLogger[UpdatePageCommand](baseLogger),
		commands.WithOperation[UpdatePageCommand]("pages.update"),
		commands.WithMessageFields(func(msg UpdatePageCommand) map[string]any {
			return map[string]any{
				"page_id":  msg.Request.ID,
				"variants": len(msg.Request.Variants),
			}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[UpdatePageCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &UpdatePageHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[UpdatePageCommand].Execute.
func (h *UpdatePageHandler) Execute(ctx context.Context, msg UpdatePageCommand) error {
	return h.inner.Execute(ctx, msg)
}

// DeletePageCommand requests removal of a page aggregate.
type DeletePageCommand struct {
	PageID uuid.UUID `json:"page_id"`
}

// Type implements command.Message.
func (DeletePageCommand) Type() string { return deletePageMessageType }

// Validate ensures the command targets a concrete page.
func (m DeletePageCommand) Validate() error {
	errs := validation.Errors{}
	if m.PageID == uuid.Nil {
		errs["page_id"] = validation.NewError("pagekit.pages.delete.id_required", "page_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DeletePageHandler removes pages via the page service.
type DeletePageHandler struct {
	inner *commands.Handler[DeletePageCommand]
}

// NewDeletePageHandler constructs a handler wired to the provided page service.
func NewDeletePageHandler(service pages.Service, logger interfaces.Logger, opts ...commands.HandlerOption[DeletePageCommand]) *DeletePageHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg DeletePageCommand) error {
		return service.Delete(ctx, msg.PageID)
	}

	handlerOpts := []commands.HandlerOption[DeletePageCommand]{
		commands.WithLogger[DeletePageCommand](baseLogger),
		commands.WithOperation[DeletePageCommand]("pages.delete"),
		commands.WithMessageFields(func(msg DeletePageCommand) map[string]any {
			return map[string]any{"page_id": msg.PageID}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[DeletePageCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &DeletePageHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[DeletePageCommand].Execute.
func (h *DeletePageHandler) Execute(ctx context.Context, msg DeletePageCommand) error {
	return h.inner.Execute(ctx, msg)
}
