package domain

import "encoding/json"

// Optional is an explicit present/absent wrapper for sparse update payloads.
// It keeps "the key was omitted" distinguishable from "the key was set to
// the zero value", which the reconciler relies on: an absent route leaves
// the existing route untouched, an explicitly empty route removes it.
type Optional[T any] struct {
	value T
	set   bool
}

// Some wraps a present value.
func Some[T any](value T) Optional[T] {
	return Optional[T]{value: value, set: true}
}

// None returns an absent value.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// IsSet reports whether the payload carried the field.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// Value returns the wrapped value and whether it was present.
func (o Optional[T]) Value() (T, bool) {
	return o.value, o.set
}

// ValueOr returns the wrapped value, or fallback when absent.
func (o Optional[T]) ValueOr(fallback T) T {
	if !o.set {
		return fallback
	}
	return o.value
}

// UnmarshalJSON marks the field as present. Keys omitted from the payload
// never reach this method, so absence survives JSON decoding.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	o.value = value
	o.set = true
	return nil
}

// MarshalJSON emits the wrapped value; absent fields encode as null and
// should be elided by callers via omitempty-style handling.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
