package validatron

import (
	"cmp"
	"fmt"
	"slices"
)

// Validatable is implemented by types that can be exhaustively validated.
// Implementations should recursively validate internal structures and
// return either nil or the complete Errors collection, typically by
// delegating to a package-level compiled Schema.
type Validatable interface {
	Validate() error
}

// ValidateSlice validates every element of a sequence independently,
// tagging failures with their index. A failing element never stops the
// sweep. Intended for hand-written Validate implementations on container
// types.
func ValidateSlice[S ~[]E, E Validatable](s S) error {
	eb := NewErrorBuilder()
	for i, e := range s {
		eb.AtIndex(i, func() {
			eb.Merge(e.Validate())
		})
	}
	return eb.Err()
}

// ValidateMap validates every value of a mapping independently, tagging
// failures with their rendered key. Keys are visited in sorted order so
// repeated calls produce identical error sequences.
func ValidateMap[M ~map[K]V, K cmp.Ordered, V Validatable](m M) error {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	eb := NewErrorBuilder()
	for _, k := range keys {
		v := m[k]
		eb.AtKey(fmt.Sprintf("%v", k), func() {
			eb.Merge(v.Validate())
		})
	}
	return eb.Err()
}
