package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-pagekit/internal/attachments"
	"github.com/goliatone/go-pagekit/internal/pages"
	"github.com/goliatone/go-pagekit/internal/routes"
	"github.com/goliatone/go-pagekit/internal/search"
	"github.com/goliatone/go-pagekit/internal/tags"
)

const (
	codeMessageInvalid = "PAGEKIT_MESSAGE_INVALID"
	codeCanceled       = "PAGEKIT_COMMAND_CANCELED"
	codeTimeout        = "PAGEKIT_COMMAND_TIMEOUT"
	codeContextError   = "PAGEKIT_COMMAND_CONTEXT_ERROR"
	codeRuleViolated   = "PAGEKIT_RULE_VIOLATED"
	codeEntityNotFound = "PAGEKIT_ENTITY_NOT_FOUND"
	codeRouteConflict  = "PAGEKIT_ROUTE_CONFLICT"
	codeIndexSync      = "PAGEKIT_INDEX_SYNC_FAILED"
	codeExecuteFailed  = "PAGEKIT_COMMAND_FAILED"
)

func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command message invalid").
		WithTextCode(codeMessageInvalid)
}

func wrapContextError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution cancelled").
			WithTextCode(codeCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution deadline exceeded").
			WithTextCode(codeTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command context error").
			WithTextCode(codeContextError)
	}
}

// wrapExecuteError maps domain failures onto go-errors categories: aggregate
// rule violations stay validation errors, unresolved references surface as
// not-found, route URL collisions as conflicts, index propagation failures
// as external errors. Anything unrecognized is a plain command failure.
func wrapExecuteError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case isRuleViolation(err):
		return goerrors.Wrap(err, goerrors.CategoryValidation, "command rejected by aggregate rules").
			WithTextCode(codeRuleViolated)
	case isEntityNotFound(err):
		return goerrors.Wrap(err, goerrors.CategoryNotFound, "command target not found").
			WithTextCode(codeEntityNotFound)
	case isRouteConflict(err):
		return goerrors.Wrap(err, goerrors.CategoryConflict, "route url already bound").
			WithTextCode(codeRouteConflict)
	case errors.Is(err, search.ErrIndexSync):
		return goerrors.Wrap(err, goerrors.CategoryExternal, "search index sync failed").
			WithTextCode(codeIndexSync)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").
			WithTextCode(codeExecuteFailed)
	}
}

var ruleSentinels = []error{
	pages.ErrWebsiteRequired,
	pages.ErrPageTypeInvalid,
	pages.ErrStatusInvalid,
	pages.ErrLanguageRequired,
	pages.ErrPageAssociationRequired,
	pages.ErrPublishedRouteRequired,
	pages.ErrPublishedLeadRequired,
	pages.ErrTagLanguageMismatch,
	pages.ErrRouteReserved,
	tags.ErrNameRequired,
	tags.ErrLanguageRequired,
	tags.ErrWebsiteRequired,
	routes.ErrURLRequired,
	routes.ErrURLInvalid,
}

var notFoundSentinels = []error{
	pages.ErrPageNotFound,
	pages.ErrVariantNotFound,
	tags.ErrTagNotFound,
	attachments.ErrAttachmentNotFound,
	routes.ErrRouteNotFound,
}

func isRuleViolation(err error) bool {
	var verr *pages.ValidationError
	if errors.As(err, &verr) {
		return true
	}
	for _, sentinel := range ruleSentinels {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func isEntityNotFound(err error) bool {
	for _, sentinel := range notFoundSentinels {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func isRouteConflict(err error) bool {
	var taken *routes.URLTakenError
	return errors.As(err, &taken) || errors.Is(err, routes.ErrURLTaken)
}
