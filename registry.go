package validatron

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"reflect"
)

// ErrDuplicateFunc is returned when registering a constraint function under
// a name that is already taken.
var ErrDuplicateFunc = errors.New("constraint function already registered")

// Failure is the outcome of a failed constraint check. Constraint functions
// are path-agnostic: only the traversal knows the structural location, so a
// Failure carries kind and detail, never a path.
type Failure struct {
	Kind   string
	Detail string
}

func failf(kind, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Applier is a constraint specialized for a single field: it checks one
// value and returns nil on success. All type checking happened at Bind time,
// so an Applier never panics on the field type it was bound to.
type Applier func(v reflect.Value) *Failure

// Func is a named constraint function. Bind performs the construction-time
// check that the function applies to the declared field type with the
// supplied parameter, returning an Applier specialized for that field. A
// mismatch is a schema-construction error, never a runtime panic.
type Func struct {
	Name string
	Bind func(ft reflect.Type, param any) (Applier, error)
}

// Registry maps constraint names to functions. Built-ins are preloaded;
// user functions registered through Register dispatch identically to
// built-ins. A registry is mutable only until handed to a Builder; there is
// no package-level registry.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry returns a registry preloaded with the built-in constraint set.
func NewRegistry() *Registry {
	r := &Registry{funcs: make(map[string]Func, len(builtins))}
	for _, f := range builtins {
		r.funcs[f.Name] = f
	}
	return r
}

// Register adds a named constraint function. Registering over an existing
// name, built-in or custom, is rejected.
func (r *Registry) Register(f Func) error {
	if f.Name == "" || f.Bind == nil {
		return errors.New("constraint function needs a name and a bind func")
	}
	if _, ok := r.funcs[f.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateFunc, f.Name)
	}
	r.funcs[f.Name] = f
	return nil
}

func (r *Registry) lookup(name string) (Func, bool) {
	f, ok := r.funcs[name]
	return f, ok
}

// builtins is assembled from the per-family constraint files.
var builtins = []Func{
	minFunc,
	maxFunc,
	optionMinFunc,
	optionMaxFunc,
	equalFunc,
	requiredFunc,
	predicateFunc,
	maxLenFunc,
	minLenFunc,
	uuidFunc,
}

// Binding helpers shared by the built-in constraint functions.

func isOrdered(k reflect.Kind) bool {
	return isInt(k) || isUint(k) || isFloat(k) || k == reflect.String
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uint64
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

// derefType unwraps one level of pointer, reporting whether the field is
// optional. Constraints bind against the element type and skip absent
// values at validation time.
func derefType(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() == reflect.Pointer {
		return t.Elem(), true
	}
	return t, false
}

// unwrap resolves an optional field's value. ok is false when the value is
// absent and the constraint must not be evaluated.
func unwrap(v reflect.Value, optional bool) (reflect.Value, bool) {
	if !optional {
		return v, true
	}
	if v.IsNil() {
		return v, false
	}
	return v.Elem(), true
}

// paramAs converts a declared parameter to the field's type, rejecting any
// conversion that would lose information. This is the heart of the eager
// parameter type check: a mismatch surfaces at schema construction.
func paramAs(ft reflect.Type, param any) (reflect.Value, error) {
	if param == nil {
		return reflect.Value{}, errors.New("parameter must not be nil")
	}

	pv := reflect.ValueOf(param)
	pt := pv.Type()
	if pt == ft {
		return pv, nil
	}

	target := reflect.New(ft).Elem()
	switch {
	case isInt(pt.Kind()):
		return convertInt(target, pv.Int(), param)
	case isUint(pt.Kind()):
		if pv.Uint() > math.MaxInt64 {
			if !isUint(ft.Kind()) || target.OverflowUint(pv.Uint()) {
				return reflect.Value{}, conversionError(param, ft)
			}
			target.SetUint(pv.Uint())
			return target, nil
		}
		return convertInt(target, int64(pv.Uint()), param)
	case isFloat(pt.Kind()):
		f := pv.Float()
		if isFloat(ft.Kind()) {
			if target.OverflowFloat(f) {
				return reflect.Value{}, conversionError(param, ft)
			}
			target.SetFloat(f)
			return target, nil
		}
		if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
			return reflect.Value{}, conversionError(param, ft)
		}
		return convertInt(target, int64(f), param)
	case pt.Kind() == reflect.String && ft.Kind() == reflect.String:
		target.SetString(pv.String())
		return target, nil
	case pt.Kind() == ft.Kind() && pt.ConvertibleTo(ft):
		return pv.Convert(ft), nil
	}
	return reflect.Value{}, conversionError(param, ft)
}

// convertInt stores an integer-valued parameter into a target of any
// numeric kind, rejecting overflow and sign loss.
func convertInt(target reflect.Value, i int64, param any) (reflect.Value, error) {
	switch {
	case isInt(target.Kind()):
		if target.OverflowInt(i) {
			return reflect.Value{}, conversionError(param, target.Type())
		}
		target.SetInt(i)
	case isUint(target.Kind()):
		if i < 0 || target.OverflowUint(uint64(i)) {
			return reflect.Value{}, conversionError(param, target.Type())
		}
		target.SetUint(uint64(i))
	case isFloat(target.Kind()):
		target.SetFloat(float64(i))
	default:
		return reflect.Value{}, conversionError(param, target.Type())
	}
	return target, nil
}

func conversionError(param any, ft reflect.Type) error {
	return fmt.Errorf("cannot use parameter %v (%T) as %s", param, param, ft)
}

// compare reports -1, 0, or 1 ordering a against b. Both values carry the
// same ordered type; binding guarantees this.
func compare(a, b reflect.Value) int {
	switch {
	case isInt(a.Kind()):
		return cmp.Compare(a.Int(), b.Int())
	case isUint(a.Kind()):
		return cmp.Compare(a.Uint(), b.Uint())
	case isFloat(a.Kind()):
		return cmp.Compare(a.Float(), b.Float())
	default:
		return cmp.Compare(a.String(), b.String())
	}
}
