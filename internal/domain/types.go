package domain

import "strings"

// PageType classifies a page aggregate. Blog posts carry an extra
// publish-readiness rule (a published variant must have a lead).
type PageType string

const (
	PageTypePage     PageType = "page"
	PageTypeBlogPost PageType = "blog-post"
	PageTypeCMS      PageType = "cms"
)

// Valid reports whether the type is one of the known page kinds.
func (t PageType) Valid() bool {
	switch t {
	case PageTypePage, PageTypeBlogPost, PageTypeCMS:
		return true
	}
	return false
}

// IsBlogPost reports whether the page participates in blog publishing rules.
func (t PageType) IsBlogPost() bool {
	return t == PageTypeBlogPost
}

// VariantStatus is the lifecycle state of a page variant.
type VariantStatus string

const (
	StatusDraft     VariantStatus = "draft"
	StatusPublished VariantStatus = "published"
)

// Valid reports whether the status is a known lifecycle state.
func (s VariantStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished:
		return true
	}
	return false
}

// IsPublished reports whether the status makes the variant publicly visible.
func (s VariantStatus) IsPublished() bool {
	return s == StatusPublished
}

// NormalizeStatus lowercases the input and falls back to draft when empty,
// mirroring the default applied to create payloads.
func NormalizeStatus(value string) VariantStatus {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return StatusDraft
	}
	return VariantStatus(value)
}
