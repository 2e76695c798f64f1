// Package normalization maps loosely written configuration strings onto
// enum values.
package normalization

import (
	"fmt"
	"slices"
	"strings"
)

// Normalizer resolves case- and whitespace-insensitive aliases to values
// of T. Unknown input resolves to the fallback.
type Normalizer[T comparable] struct {
	values   map[string]T
	keys     []string
	fallback T
}

// NewNormalizer indexes values by their cleaned alias.
func NewNormalizer[T comparable](values map[string]T, fallback T) *Normalizer[T] {
	n := &Normalizer[T]{values: make(map[string]T, len(values)), fallback: fallback}
	for alias, v := range values {
		key := clean(alias)
		n.values[key] = v
		n.keys = append(n.keys, key)
	}
	slices.Sort(n.keys)
	return n
}

// Normalize returns the value for raw, or the fallback. Empty input is the
// fallback too.
func (n *Normalizer[T]) Normalize(raw string) T {
	if v, ok := n.values[clean(raw)]; ok {
		return v
	}
	return n.fallback
}

// Parse is Normalize that rejects unknown, non-empty input.
func (n *Normalizer[T]) Parse(raw string) (T, error) {
	key := clean(raw)
	if key == "" {
		return n.fallback, nil
	}
	if v, ok := n.values[key]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("unknown value %q (valid: %s)", raw, strings.Join(n.keys, ", "))
}

// Keys lists the accepted aliases in sorted order.
func (n *Normalizer[T]) Keys() []string { return slices.Clone(n.keys) }

func clean(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
