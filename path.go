package validatron

import (
	"encoding/json"
	"strconv"
	"strings"
)

type segmentKind uint8

const (
	segField segmentKind = iota
	segIndex
	segKey
	segVariant
)

// Segment is a single structural locator within a Path: a struct field, a
// sequence index, a map key, or an enum variant tag.
type Segment struct {
	kind  segmentKind
	name  string
	index int
}

// Field locates a named struct field.
func Field(name string) Segment {
	return Segment{kind: segField, name: name}
}

// Index locates an element of a sequence.
func Index(i int) Segment {
	return Segment{kind: segIndex, index: i}
}

// Key locates a value of a mapping by its rendered key.
func Key(k string) Segment {
	return Segment{kind: segKey, name: k}
}

// Variant locates the active case of a sum-typed value.
func Variant(name string) Segment {
	return Segment{kind: segVariant, name: name}
}

func (s Segment) String() string {
	switch s.kind {
	case segIndex:
		return "[" + strconv.Itoa(s.index) + "]"
	case segKey:
		// Quoting keeps a map key distinguishable from a sequence index
		// in the rendered form: m["1"] vs seq[1].
		return "[" + strconv.Quote(s.name) + "]"
	case segVariant:
		return "(" + s.name + ")"
	default:
		return s.name
	}
}

// MarshalJSON renders the segment as a single-key object, keeping the error
// shape stable for external reporting: {"field":…}, {"index":…}, {"key":…},
// or {"variant":…}.
func (s Segment) MarshalJSON() ([]byte, error) {
	switch s.kind {
	case segIndex:
		return json.Marshal(map[string]int{"index": s.index})
	case segKey:
		return json.Marshal(map[string]string{"key": s.name})
	case segVariant:
		return json.Marshal(map[string]string{"variant": s.name})
	default:
		return json.Marshal(map[string]string{"field": s.name})
	}
}

// Path is the ordered sequence of segments identifying where a failure
// occurred. An empty path means the error applies to the root value.
type Path []Segment

// String renders the path in a compact dotted form, e.g.
// "outer.inner", "seq[1]", "payment(Card).number".
func (p Path) String() string {
	var b strings.Builder
	for _, s := range p {
		if s.kind == segField && b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.String())
	}
	return b.String()
}
