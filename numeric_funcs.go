package validatron

import (
	"fmt"
	"reflect"
)

// minFunc validates that an ordered value is greater than or equal to the
// declared bound. On an optional field the check binds against the element
// type and an absent value is vacuously valid.
var minFunc = Func{
	Name: KindMin,
	Bind: func(ft reflect.Type, param any) (Applier, error) {
		return bindOrdered(ft, param, KindMin, false)
	},
}

// maxFunc validates that an ordered value is less than or equal to the
// declared bound.
var maxFunc = Func{
	Name: KindMax,
	Bind: func(ft reflect.Type, param any) (Applier, error) {
		return bindOrdered(ft, param, KindMax, false)
	},
}

// optionMinFunc is the explicitly optional-aware form of min: it applies
// only to optional ordered fields and treats absence as valid. It exists
// because a plain ordinal comparison has no defined meaning on an absent
// value.
var optionMinFunc = Func{
	Name: KindOptionMin,
	Bind: func(ft reflect.Type, param any) (Applier, error) {
		return bindOrdered(ft, param, KindOptionMin, true)
	},
}

// optionMaxFunc is the optional-aware form of max.
var optionMaxFunc = Func{
	Name: KindOptionMax,
	Bind: func(ft reflect.Type, param any) (Applier, error) {
		return bindOrdered(ft, param, KindOptionMax, true)
	},
}

func bindOrdered(ft reflect.Type, param any, kind string, wantOptional bool) (Applier, error) {
	elem, optional := derefType(ft)
	if wantOptional && !optional {
		return nil, fmt.Errorf("%s: requires an optional field, got %s", kind, ft)
	}
	if !isOrdered(elem.Kind()) {
		return nil, fmt.Errorf("%s: requires an ordered field, got %s", kind, ft)
	}

	bound, err := paramAs(elem, param)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}

	lower := kind == KindMin || kind == KindOptionMin
	return func(v reflect.Value) *Failure {
		v, present := unwrap(v, optional)
		if !present {
			return nil
		}
		if lower && compare(v, bound) < 0 {
			return failf(kind, "%v is less than %v", v.Interface(), bound.Interface())
		}
		if !lower && compare(v, bound) > 0 {
			return failf(kind, "'%v' is greater than '%v'", v.Interface(), bound.Interface())
		}
		return nil
	}, nil
}
