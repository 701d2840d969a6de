package routes

import (
	"strings"

	"github.com/goliatone/go-slug"
)

// ReservedPrefix is the namespace routes may never live in; it is owned by
// the administrative surface of the host application.
const ReservedPrefix = "backend/"

// IsReserved reports whether the URL falls into the reserved namespace.
func IsReserved(url string) bool {
	return strings.HasPrefix(strings.TrimLeft(strings.TrimSpace(url), "/"), ReservedPrefix)
}

// NormalizeURL canonicalizes a route URL: no surrounding slashes, each
// segment normalized through the default slug rules. The reserved-namespace
// rule is validated separately so callers get a dedicated error for it.
func NormalizeURL(url string) (string, error) {
	trimmed := strings.Trim(strings.TrimSpace(url), "/")
	if trimmed == "" {
		return "", ErrURLRequired
	}

	segments := strings.Split(trimmed, "/")
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		if slug.IsValid(segment) {
			out = append(out, segment)
			continue
		}
		normalized, err := slug.Normalize(segment)
		if err != nil || normalized == "" {
			return "", &InvalidURLError{URL: url, Segment: segment}
		}
		out = append(out, normalized)
	}
	if len(out) == 0 {
		return "", ErrURLRequired
	}
	return strings.Join(out, "/"), nil
}
