package extraction

import (
	"txnsense/pkg/metrics"
)

// Matcher is one pattern for one field. Match must be pure and must not panic on any
// input; a non-match returns false.
type Matcher[T any] struct {
	Name  string
	Match func(text string) (T, bool)
}

// firstMatch runs matchers in order and returns the first value produced.
func firstMatch[T any](field, text string, matchers []Matcher[T]) (T, string, bool) {
	for _, m := range matchers {
		if v, ok := m.Match(text); ok {
			metrics.IncFieldMatch(field, m.Name)
			return v, m.Name, true
		}
	}
	metrics.IncFieldMiss(field)
	var zero T
	return zero, "", false
}
