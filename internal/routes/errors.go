package routes

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrURLRequired   = errors.New("routes: url is required")
	ErrURLInvalid    = errors.New("routes: url contains invalid segments")
	ErrURLTaken      = errors.New("routes: url already bound")
	ErrRouteNotFound = errors.New("routes: route not found")
)

// InvalidURLError names the segment that failed normalization.
type InvalidURLError struct {
	URL     string
	Segment string
}

func (e *InvalidURLError) Error() string {
	if e == nil {
		return ErrURLInvalid.Error()
	}
	return fmt.Sprintf("%s: url=%q segment=%q", ErrURLInvalid.Error(), e.URL, e.Segment)
}

func (e *InvalidURLError) Unwrap() error {
	return ErrURLInvalid
}

// URLTakenError reports a uniqueness conflict with the route that holds the URL.
type URLTakenError struct {
	URL       string
	HolderID  uuid.UUID
	Requested Target
}

func (e *URLTakenError) Error() string {
	if e == nil {
		return ErrURLTaken.Error()
	}
	return fmt.Sprintf("%s: url=%q holder=%s", ErrURLTaken.Error(), e.URL, e.HolderID)
}

func (e *URLTakenError) Unwrap() error {
	return ErrURLTaken
}

// RouteNotFoundError reports a missing route lookup.
type RouteNotFoundError struct {
	Key string
}

func (e *RouteNotFoundError) Error() string {
	if e == nil || e.Key == "" {
		return ErrRouteNotFound.Error()
	}
	return fmt.Sprintf("%s: %s", ErrRouteNotFound.Error(), e.Key)
}

func (e *RouteNotFoundError) Unwrap() error {
	return ErrRouteNotFound
}
