package validatron

import (
	"errors"
	"fmt"
	"reflect"
)

// Schema-construction errors. They are reported once, when the schema is
// built, and never surface as validation failures at runtime.
var (
	ErrNotStruct           = errors.New("schema target must be a struct type")
	ErrUnknownField        = errors.New("unknown field")
	ErrDuplicateField      = errors.New("field declared more than once")
	ErrUnknownConstraint   = errors.New("unknown constraint")
	ErrDuplicateConstraint = errors.New("constraint declared more than once for field")
	ErrIncompatibleRules   = errors.New("incompatible constraints")
	ErrBadParameter        = errors.New("constraint parameter does not type-check")
	ErrNotValidatable      = errors.New("nested type does not implement Validatable")
	ErrNotCollection       = errors.New("element constraints require a collection field")
	ErrNotInterface        = errors.New("enum field must be an interface type")
	ErrBadVariant          = errors.New("invalid enum variant")
)

// NewRule pairs a constraint name with its declared parameter. The pair is
// resolved against the builder's registry at Build time.
func NewRule(name string, param any) Rule {
	return Rule{Name: name, Param: param}
}

// Rule is a single declared constraint: which named function to apply and
// with what parameter.
type Rule struct {
	Name  string
	Param any
}

// VariantCase declares one case of a sum-typed field: the concrete payload
// type and the tag reported in error paths.
type VariantCase struct {
	Name string
	Type reflect.Type
}

// NewVariant declares the enum case with payload type C under the given tag.
func NewVariant[C any](name string) VariantCase {
	return VariantCase{Name: name, Type: reflect.TypeOf((*C)(nil)).Elem()}
}

// Builder collects per-field declarations for type T and compiles them into
// a Schema. Declaration order is preserved as traversal order. All
// declaration problems are collected and reported together by Build.
type Builder[T any] struct {
	registry *Registry
	decls    []*fieldDecl
	errs     []error
}

type fieldDecl struct {
	name     string
	rules    []Rule
	elemSet  bool
	elems    []Rule
	nested   bool
	enumSet  bool
	variants []VariantCase
}

// New starts a schema builder for T using the built-in constraint set.
func New[T any]() *Builder[T] {
	return NewWith[T](NewRegistry())
}

// NewWith starts a schema builder for T using an explicit registry, which
// may carry user-registered constraint functions alongside the built-ins.
func NewWith[T any](registry *Registry) *Builder[T] {
	return &Builder[T]{registry: registry}
}

// Field declares scalar constraints for a named field, applied in the given
// order.
func (b *Builder[T]) Field(name string, rules ...Rule) *Builder[T] {
	d := b.decl(name)
	if d.rules != nil {
		b.errs = append(b.errs, fmt.Errorf("%w: %q", ErrDuplicateField, name))
		return b
	}
	if len(rules) == 0 {
		b.errs = append(b.errs, fmt.Errorf("field %q declared without constraints", name))
		return b
	}
	d.rules = rules
	return b
}

// Each declares constraints applied to every element of a sequence, array,
// or map field. Constraints bind against the element type.
func (b *Builder[T]) Each(name string, rules ...Rule) *Builder[T] {
	d := b.decl(name)
	if d.elemSet {
		b.errs = append(b.errs, fmt.Errorf("%w: %q", ErrDuplicateField, name))
		return b
	}
	if len(rules) == 0 {
		b.errs = append(b.errs, fmt.Errorf("field %q declared without element constraints", name))
		return b
	}
	d.elemSet = true
	d.elems = rules
	return b
}

// Nested marks a field for recursive validation: the field's type, its
// element type for collections, or its pointee for optionals must implement
// Validatable. Absent optionals are vacuously valid.
func (b *Builder[T]) Nested(name string) *Builder[T] {
	d := b.decl(name)
	if d.nested {
		b.errs = append(b.errs, fmt.Errorf("%w: %q", ErrDuplicateField, name))
		return b
	}
	d.nested = true
	return b
}

// Enum declares a sum-typed field: an interface whose dynamic type selects
// the active variant. Only the active variant's payload is validated, under
// a Variant path segment. Payload types that do not implement Validatable
// are unit variants and trivially valid.
func (b *Builder[T]) Enum(name string, variants ...VariantCase) *Builder[T] {
	d := b.decl(name)
	if d.enumSet {
		b.errs = append(b.errs, fmt.Errorf("%w: %q", ErrDuplicateField, name))
		return b
	}
	d.enumSet = true
	d.variants = variants
	return b
}

func (b *Builder[T]) decl(name string) *fieldDecl {
	for _, d := range b.decls {
		if d.name == name {
			return d
		}
	}
	d := &fieldDecl{name: name}
	b.decls = append(b.decls, d)
	return d
}

// Build compiles the declarations into an immutable Schema. Every malformed
// declaration is reported; none is deferred to validation time.
func (b *Builder[T]) Build() (*Schema[T], error) {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", ErrNotStruct, rt)
	}

	errs := b.errs
	s := &Schema[T]{typ: rt}
	for _, d := range b.decls {
		plan, err := b.compileField(rt, d)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		s.fields = append(s.fields, plan)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("schema for %s: %w", rt, errors.Join(errs...))
	}
	return s, nil
}

// MustBuild is Build for package-level schema variables; it panics on any
// construction error.
func (b *Builder[T]) MustBuild() *Schema[T] {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

func (b *Builder[T]) compileField(rt reflect.Type, d *fieldDecl) (fieldPlan, error) {
	sf, ok := rt.FieldByName(d.name)
	if !ok {
		return fieldPlan{}, fmt.Errorf("%w: %s.%s", ErrUnknownField, rt, d.name)
	}
	if !sf.IsExported() {
		return fieldPlan{}, fmt.Errorf("%w: %s.%s is unexported", ErrUnknownField, rt, d.name)
	}

	plan := fieldPlan{name: d.name, index: sf.Index}
	ft := sf.Type

	bound, err := b.compileRules(d.name, ft, d.rules)
	if err != nil {
		return fieldPlan{}, err
	}
	plan.constraints = bound

	if d.elemSet {
		et, err := elementType(ft)
		if err != nil {
			return fieldPlan{}, fmt.Errorf("field %q: %w", d.name, err)
		}
		elems, err := b.compileRules(d.name, et, d.elems)
		if err != nil {
			return fieldPlan{}, err
		}
		plan.elems = elems
	}

	if d.nested {
		if err := checkValidatable(ft); err != nil {
			return fieldPlan{}, fmt.Errorf("field %q: %w", d.name, err)
		}
		plan.nested = true
	}

	if d.enumSet {
		variants, err := compileVariants(ft, d.variants)
		if err != nil {
			return fieldPlan{}, fmt.Errorf("field %q: %w", d.name, err)
		}
		plan.variants = variants
	}

	return plan, nil
}

func (b *Builder[T]) compileRules(field string, ft reflect.Type, rules []Rule) ([]boundConstraint, error) {
	var bound []boundConstraint
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		fn, ok := b.registry.lookup(r.Name)
		if !ok {
			return nil, fmt.Errorf("%w: %q on field %q", ErrUnknownConstraint, r.Name, field)
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("%w: %q on field %q", ErrDuplicateConstraint, r.Name, field)
		}
		seen[r.Name] = true

		apply, err := fn.Bind(ft, r.Param)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %w", ErrBadParameter, field, err)
		}
		bound = append(bound, boundConstraint{kind: r.Name, apply: apply})
	}

	if err := checkBoundsAgree(field, ft, rules); err != nil {
		return nil, err
	}
	return bound, nil
}

// checkBoundsAgree rejects a min bound declared above its max counterpart on
// the same field.
func checkBoundsAgree(field string, ft reflect.Type, rules []Rule) error {
	lo, hi := findParam(rules, KindMin, KindOptionMin), findParam(rules, KindMax, KindOptionMax)
	if lo == nil || hi == nil {
		return nil
	}

	elem, _ := derefType(ft)
	lov, err := paramAs(elem, lo)
	if err != nil {
		return nil
	}
	hiv, err := paramAs(elem, hi)
	if err != nil {
		return nil
	}
	if compare(lov, hiv) > 0 {
		return fmt.Errorf("%w: field %q: min %v exceeds max %v", ErrIncompatibleRules, field, lo, hi)
	}
	return nil
}

func findParam(rules []Rule, names ...string) any {
	for _, r := range rules {
		for _, n := range names {
			if r.Name == n {
				return r.Param
			}
		}
	}
	return nil
}

var validatableType = reflect.TypeOf((*Validatable)(nil)).Elem()

// checkValidatable verifies, at construction time, that a recurse-marked
// field can actually be recursed into: after unwrapping optionals and
// collections its type must implement Validatable.
func checkValidatable(ft reflect.Type) error {
	core := ft
	if core.Kind() == reflect.Pointer {
		// Pointer fields recurse through the pointer itself, which also
		// reaches pointer-receiver implementations.
		if core.Implements(validatableType) {
			return nil
		}
		core = core.Elem()
	}
	switch core.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		core = core.Elem()
	}
	if core.Implements(validatableType) {
		return nil
	}
	if reflect.PointerTo(core).Implements(validatableType) {
		return fmt.Errorf("%w: %s implements Validate with a pointer receiver; use a value receiver or declare a pointer element", ErrNotValidatable, core)
	}
	return fmt.Errorf("%w: %s", ErrNotValidatable, core)
}

func elementType(ft reflect.Type) (reflect.Type, error) {
	t, _ := derefType(ft)
	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return t.Elem(), nil
	}
	return nil, fmt.Errorf("%w: got %s", ErrNotCollection, ft)
}

func compileVariants(ft reflect.Type, cases []VariantCase) (map[reflect.Type]string, error) {
	if ft.Kind() != reflect.Interface {
		return nil, fmt.Errorf("%w: got %s", ErrNotInterface, ft)
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("%w: no variants declared", ErrBadVariant)
	}

	variants := make(map[reflect.Type]string, len(cases))
	names := make(map[string]bool, len(cases))
	for _, c := range cases {
		if c.Name == "" || c.Type == nil {
			return nil, fmt.Errorf("%w: variant needs a name and a type", ErrBadVariant)
		}
		if !c.Type.Implements(ft) && !reflect.PointerTo(c.Type).Implements(ft) {
			return nil, fmt.Errorf("%w: %s does not implement %s", ErrBadVariant, c.Type, ft)
		}
		if _, dup := variants[c.Type]; dup || names[c.Name] {
			return nil, fmt.Errorf("%w: duplicate variant %q", ErrBadVariant, c.Name)
		}
		variants[c.Type] = c.Name
		names[c.Name] = true

		// Value payloads carried behind the interface as pointers still
		// dispatch to the same variant tag.
		if pt := reflect.PointerTo(c.Type); c.Type.Kind() != reflect.Pointer {
			if _, exists := variants[pt]; !exists {
				variants[pt] = c.Name
			}
		}
	}
	return variants, nil
}
