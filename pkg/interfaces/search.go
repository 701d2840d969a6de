package interfaces

import "context"

// SearchIndex is the contract the synchronizer requires from a full-text
// backend. Upsert and Delete must be idempotent: re-indexing the same
// document id replaces the previous body, deleting an absent id is a no-op.
type SearchIndex interface {
	Upsert(ctx context.Context, id string, doc map[string]any) error
	Delete(ctx context.Context, id string) error
	Match(ctx context.Context, query string, limit int) ([]string, error)
	Close() error
}

// EventSink receives domain events after the owning aggregate has been
// committed. Implementations decide whether delivery is synchronous or
// deferred; they must preserve emission order for events about the same
// entity.
type EventSink interface {
	Dispatch(ctx context.Context, evt Event)
}

// Event is a committed domain fact carried to sinks.
type Event interface {
	Kind() string
}
