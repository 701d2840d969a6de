package searchcmd

import (
	"context"
	"time"

	"github.com/goliatone/go-pagekit/internal/commands"
	"github.com/goliatone/go-pagekit/internal/logging"
	"github.com/goliatone/go-pagekit/internal/search"
	"github.com/goliatone/go-pagekit/pkg/interfaces"
)

const reindexMessageType = "pagekit.search.reindex"

// ReindexCommand requests a full rebuild of the search index from the page
// store. The run tolerates per-page failures; OnReport receives the tally.
type ReindexCommand struct {
	OnReport func(*search.Report) `json:"-"`
}

// Type implements command.Message.
func (ReindexCommand) Type() string { return reindexMessageType }

// Validate implements command.Message; the command carries no required fields.
func (ReindexCommand) Validate() error { return nil }

// ReindexHandler drives the synchronizer's bulk rebuild.
type ReindexHandler struct {
	inner *commands.Handler[ReindexCommand]
}

// NewReindexHandler constructs a handler wired to the provided synchronizer.
// Bulk reindexing can outlive the default command timeout, so it runs
// without one unless a caller overrides it.
func NewReindexHandler(synchronizer *search.Synchronizer, logger interfaces.Logger, opts ...commands.HandlerOption[ReindexCommand]) *ReindexHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ReindexCommand) error {
		report, err := synchronizer.ReindexAll(ctx)
		if err != nil {
			return err
		}
		if msg.OnReport != nil {
			msg.OnReport(report)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ReindexCommand]{
		commands.WithLogger[ReindexCommand](baseLogger),
		commands.WithOperation[ReindexCommand]("search.reindex"),
		commands.WithTimeout[ReindexCommand](time.Duration(0)),
		commands.WithTelemetry(commands.DefaultTelemetry[ReindexCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ReindexHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ReindexCommand].Execute.
func (h *ReindexHandler) Execute(ctx context.Context, msg ReindexCommand) error {
	return h.inner.Execute(ctx, msg)
}
