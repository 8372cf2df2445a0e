package validatron

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Schema is the compiled, per-type validation plan: a fixed, ordered list of
// field plans produced by a Builder. It is independent of any particular
// value, never changes after construction, and is safe for unsynchronized
// concurrent use.
type Schema[T any] struct {
	typ    reflect.Type
	fields []fieldPlan
}

// TypeName returns the name of the struct type this schema validates.
func (s *Schema[T]) TypeName() string {
	return s.typ.String()
}

// Validate walks the declared fields in declaration order and returns nil
// when no constraint failed, otherwise the complete Errors collection. A
// failure in one field, element, or nested value never suppresses
// diagnostics for the rest of the traversal.
func (s *Schema[T]) Validate(v T) error {
	eb := NewErrorBuilder()
	rv := reflect.ValueOf(v)
	for i := range s.fields {
		fp := &s.fields[i]
		fv := rv.FieldByIndex(fp.index)
		eb.AtField(fp.name, func() {
			fp.validate(fv, eb)
		})
	}
	return eb.Err()
}

// fieldPlan holds every compiled action for one field: scalar constraints,
// element constraints, the recurse marker, and the enum dispatch table.
type fieldPlan struct {
	name        string
	index       []int
	constraints []boundConstraint
	elems       []boundConstraint
	nested      bool
	variants    map[reflect.Type]string
}

type boundConstraint struct {
	kind  string
	apply Applier
}

func (fp *fieldPlan) validate(v reflect.Value, eb *ErrorBuilder) {
	for _, c := range fp.constraints {
		if f := c.apply(v); f != nil {
			eb.Add(f.Kind, f.Detail)
		}
	}

	if len(fp.elems) > 0 || fp.nested {
		fp.traverse(v, eb)
	}

	if fp.variants != nil {
		fp.dispatchVariant(v, eb)
	}
}

// traverse unwraps optional fields and fans out over collections; a scalar
// nested field recurses directly. Absent optionals are vacuously valid.
func (fp *fieldPlan) traverse(v reflect.Value, eb *ErrorBuilder) {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
		switch v.Type().Elem().Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			v = v.Elem()
		default:
			// Recursing through the pointer keeps pointer-receiver
			// Validate implementations reachable.
			fp.recurse(v, eb)
			return
		}
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			ev := v.Index(i)
			eb.AtIndex(i, func() {
				fp.validateElement(ev, eb)
			})
		}
	case reflect.Map:
		for _, entry := range sortedEntries(v) {
			eb.AtKey(entry.key, func() {
				fp.validateElement(entry.val, eb)
			})
		}
	default:
		fp.recurse(v, eb)
	}
}

func (fp *fieldPlan) validateElement(v reflect.Value, eb *ErrorBuilder) {
	for _, c := range fp.elems {
		if f := c.apply(v); f != nil {
			eb.Add(f.Kind, f.Detail)
		}
	}
	if fp.nested {
		fp.recurse(v, eb)
	}
}

func (fp *fieldPlan) recurse(v reflect.Value, eb *ErrorBuilder) {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
	}
	if val, ok := v.Interface().(Validatable); ok {
		eb.Merge(val.Validate())
	}
}

// dispatchVariant validates the payload of the active enum case under a
// Variant path segment. An interface holding a type outside the declared
// set is itself a validation failure, reported at the field's path.
func (fp *fieldPlan) dispatchVariant(v reflect.Value, eb *ErrorBuilder) {
	if v.IsNil() {
		return
	}

	payload := v.Elem()
	name, ok := fp.variants[payload.Type()]
	if !ok {
		eb.Addf(KindVariant, "unexpected variant type %s", payload.Type())
		return
	}
	if payload.Kind() == reflect.Pointer && payload.IsNil() {
		// A typed-nil payload carries no value to validate, same as an
		// absent optional.
		return
	}

	eb.AtVariant(name, func() {
		if val, ok := payload.Interface().(Validatable); ok {
			eb.Merge(val.Validate())
		}
	})
}

type mapEntry struct {
	key string
	val reflect.Value
}

// sortedEntries renders and orders map keys so repeated validations of the
// same value produce identical error sequences despite Go's randomized map
// iteration.
func sortedEntries(v reflect.Value) []mapEntry {
	entries := make([]mapEntry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		entries = append(entries, mapEntry{
			key: fmt.Sprintf("%v", iter.Key().Interface()),
			val: iter.Value(),
		})
	}
	slices.SortFunc(entries, func(a, b mapEntry) int {
		return strings.Compare(a.key, b.key)
	})
	return entries
}
