package routes

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// TargetKind discriminates what a route points at. Routes targeting other
// routes encode HTTP redirects.
type TargetKind string

const (
	TargetVariant TargetKind = "variant"
	TargetRoute   TargetKind = "route"
)

// Valid reports whether the kind is a known route target.
func (k TargetKind) Valid() bool {
	switch k {
	case TargetVariant, TargetRoute:
		return true
	}
	return false
}

// Target is the tagged union a route resolves to: (kind, id).
type Target struct {
	Kind TargetKind `json:"kind"`
	ID   uuid.UUID  `json:"id"`
}

// Route binds a unique URL to a target. A route created for a page variant
// has no lifecycle of its own: it is replaced or removed by the variant
// reconciler and cascades with the variant.
type Route struct {
	bun.BaseModel `bun:"table:routes,alias:r"`

	ID         uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	URL        string     `bun:"url,notnull,unique" json:"url"`
	TargetKind TargetKind `bun:"target_kind,notnull" json:"target_kind"`
	TargetID   uuid.UUID  `bun:"target_id,notnull,type:uuid" json:"target_id"`
	CreatedAt  time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// BuildFor constructs an unpersisted route bound to the given target.
func BuildFor(url string, target Target) *Route {
	return &Route{
		URL:        url,
		TargetKind: target.Kind,
		TargetID:   target.ID,
	}
}

// Target returns the tagged union the route points at.
func (r *Route) Target() Target {
	return Target{Kind: r.TargetKind, ID: r.TargetID}
}

// PointsAt redirects the route to a new target ("re-routes" it).
func (r *Route) PointsAt(target Target) {
	r.TargetKind = target.Kind
	r.TargetID = target.ID
}

// CloneRoute deep-copies a route record.
func CloneRoute(src *Route) *Route {
	if src == nil {
		return nil
	}
	copied := *src
	return &copied
}
