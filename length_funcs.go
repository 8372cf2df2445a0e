package validatron

import (
	"fmt"
	"reflect"
)

// maxLenFunc bounds the element count of any sized container: slice, array,
// map, or string. It applies to the count, never the element contents.
var maxLenFunc = Func{
	Name: KindMaxLen,
	Bind: func(ft reflect.Type, param any) (Applier, error) {
		return bindLength(ft, param, KindMaxLen)
	},
}

// minLenFunc is the lower length bound.
var minLenFunc = Func{
	Name: KindMinLen,
	Bind: func(ft reflect.Type, param any) (Applier, error) {
		return bindLength(ft, param, KindMinLen)
	},
}

func bindLength(ft reflect.Type, param any, kind string) (Applier, error) {
	elem, optional := derefType(ft)
	switch elem.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.String:
	default:
		return nil, fmt.Errorf("%s: requires a sized container field, got %s", kind, ft)
	}

	bound, err := paramAs(reflect.TypeOf(int(0)), param)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	n := int(bound.Int())
	if n < 0 {
		return nil, fmt.Errorf("%s: length bound must not be negative, got %d", kind, n)
	}

	upper := kind == KindMaxLen
	return func(v reflect.Value) *Failure {
		v, present := unwrap(v, optional)
		if !present {
			return nil
		}
		length := v.Len()
		if upper && length > n {
			return failf(kind, "sequence has too many elements, it has %d but the maximum is %d", length, n)
		}
		if !upper && length < n {
			return failf(kind, "sequence does not have enough elements, it has %d but the minimum is %d", length, n)
		}
		return nil
	}, nil
}
