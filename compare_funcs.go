package validatron

import (
	"fmt"
	"reflect"
)

// equalFunc validates exact equality against a declared value. Parameters
// are ordinary Go values, so computed or constructed values compare the same
// way literals do.
var equalFunc = Func{
	Name: KindEqual,
	Bind: func(ft reflect.Type, param any) (Applier, error) {
		elem, optional := derefType(ft)

		expect, err := paramAs(elem, param)
		if err != nil {
			return nil, fmt.Errorf("equal: %w", err)
		}

		want := expect.Interface()
		return func(v reflect.Value) *Failure {
			v, present := unwrap(v, optional)
			if !present {
				return nil
			}
			if !reflect.DeepEqual(v.Interface(), want) {
				return failf(KindEqual, "%v != %v", v.Interface(), want)
			}
			return nil
		}, nil
	},
}

// requiredFunc demands that an optional field holds a value. It is the one
// constraint evaluated on an absent optional.
var requiredFunc = Func{
	Name: KindRequired,
	Bind: func(ft reflect.Type, param any) (Applier, error) {
		if param != nil {
			return nil, fmt.Errorf("required: takes no parameter, got %v", param)
		}
		switch ft.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		default:
			return nil, fmt.Errorf("required: requires an optional field, got %s", ft)
		}

		return func(v reflect.Value) *Failure {
			if v.IsNil() {
				return failf(KindRequired, "value is required")
			}
			return nil
		}, nil
	},
}

// predicateFunc delegates to an arbitrary user-supplied boolean function.
// The parameter must be a func(T) bool where T accepts the field's value;
// the failure message is synthesized, so no source inspection is needed.
var predicateFunc = Func{
	Name: KindPredicate,
	Bind: func(ft reflect.Type, param any) (Applier, error) {
		pt := reflect.TypeOf(param)
		if pt == nil || pt.Kind() != reflect.Func ||
			pt.NumIn() != 1 || pt.NumOut() != 1 || pt.Out(0).Kind() != reflect.Bool {
			return nil, fmt.Errorf("predicate: parameter must be a func(T) bool, got %T", param)
		}

		elem, optional := derefType(ft)
		if !elem.AssignableTo(pt.In(0)) {
			return nil, fmt.Errorf("predicate: func argument %s does not accept field type %s", pt.In(0), ft)
		}

		fn := reflect.ValueOf(param)
		return func(v reflect.Value) *Failure {
			v, present := unwrap(v, optional)
			if !present {
				return nil
			}
			if !fn.Call([]reflect.Value{v})[0].Bool() {
				return failf(KindPredicate, "predicate failed")
			}
			return nil
		}, nil
	},
}
