package validatron

import (
	"errors"
	"fmt"
	"strings"
)

// Kinds reported by the built-in constraint functions. A custom constraint
// reports whatever kind it registers under.
const (
	KindMin       = "min"
	KindMax       = "max"
	KindEqual     = "equal"
	KindOptionMin = "option_min"
	KindOptionMax = "option_max"
	KindMaxLen    = "max_len"
	KindMinLen    = "min_len"
	KindRequired  = "required"
	KindPredicate = "predicate"
	KindUUID      = "uuid"
	KindVariant   = "variant"
	KindInvalid   = "invalid"
)

// Error represents a single validation failure. Path identifies where in
// the value graph the failure occurred, Kind identifies which constraint was
// violated, and Detail carries the human-readable context. Constraints never
// set the path themselves; the traversal attaches it.
type Error struct {
	Path   Path   `json:"path"`
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

func (e Error) Error() string {
	if len(e.Path) == 0 {
		return e.Detail
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Detail)
}

// Errors is the ordered, append-only collection of failures produced by one
// validation call. Order of appearance equals traversal order; entries are
// never deduplicated, reordered, or dropped. An empty collection is never
// returned to callers: success is a nil error.
type Errors []Error

func (es Errors) Error() string {
	if len(es) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(es))
	for _, e := range es {
		parts = append(parts, e.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (es *Errors) Add(e Error) {
	*es = append(*es, e)
}

func (es Errors) IsEmpty() bool {
	return len(es) == 0
}

// Has reports whether any failure occurred at the rendered path, e.g.
// "outer.inner" or "seq[1]".
func (es Errors) Has(path string) bool {
	for _, e := range es {
		if e.Path.String() == path {
			return true
		}
	}
	return false
}

// Get returns the detail messages recorded at the rendered path.
func (es Errors) Get(path string) []string {
	var details []string
	for _, e := range es {
		if e.Path.String() == path {
			details = append(details, e.Detail)
		}
	}
	return details
}

// Paths returns the distinct rendered paths in first-seen order.
func (es Errors) Paths() []string {
	var paths []string
	seen := make(map[string]bool)
	for _, e := range es {
		p := e.Path.String()
		if !seen[p] {
			paths = append(paths, p)
			seen[p] = true
		}
	}
	return paths
}

// Extract recovers the Errors collection from an error returned by a
// Validate call. It returns nil if err carries no validation failures.
func Extract(err error) Errors {
	if err == nil {
		return nil
	}

	var verrs Errors
	if errors.As(err, &verrs) {
		return verrs
	}

	return nil
}

// IsValidationError reports whether err carries validation failures, as
// opposed to a schema-construction error or any other failure class.
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}

	var verrs Errors
	return errors.As(err, &verrs)
}
