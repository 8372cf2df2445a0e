package validatron

import "fmt"

// ErrorBuilder accumulates failures during one validation call. It owns the
// in-progress Errors collection and the current path prefix; entering a
// field, element, or variant pushes a segment which is popped on every exit
// path, so nested failures always carry the full structural location.
//
// A builder is bound to a single synchronous call and must not be shared
// across goroutines.
type ErrorBuilder struct {
	prefix Path
	errs   Errors
}

func NewErrorBuilder() *ErrorBuilder {
	return &ErrorBuilder{}
}

// Add records a failure of the given kind at the current path.
func (b *ErrorBuilder) Add(kind, detail string) {
	b.errs = append(b.errs, Error{Path: b.path(), Kind: kind, Detail: detail})
}

// Addf records a failure with a formatted detail message.
func (b *ErrorBuilder) Addf(kind, format string, args ...any) {
	b.Add(kind, fmt.Sprintf(format, args...))
}

// At runs fn with the path extended by seg. The segment is popped when fn
// returns, success or failure.
func (b *ErrorBuilder) At(seg Segment, fn func()) {
	b.prefix = append(b.prefix, seg)
	defer func() {
		b.prefix = b.prefix[:len(b.prefix)-1]
	}()
	fn()
}

func (b *ErrorBuilder) AtField(name string, fn func()) {
	b.At(Field(name), fn)
}

func (b *ErrorBuilder) AtIndex(i int, fn func()) {
	b.At(Index(i), fn)
}

func (b *ErrorBuilder) AtKey(k string, fn func()) {
	b.At(Key(k), fn)
}

func (b *ErrorBuilder) AtVariant(name string, fn func()) {
	b.At(Variant(name), fn)
}

// Merge appends every failure from a nested validation result, rebasing each
// path under the current prefix. A nil err is a no-op. An error that carries
// no Errors collection (a hand-written Validate returning a plain error) is
// recorded as a single failure of kind "invalid" at the current path.
func (b *ErrorBuilder) Merge(err error) {
	if err == nil {
		return
	}

	nested := Extract(err)
	if nested == nil {
		b.Add(KindInvalid, err.Error())
		return
	}

	for _, e := range nested {
		b.errs = append(b.errs, Error{
			Path:   append(b.path(), e.Path...),
			Kind:   e.Kind,
			Detail: e.Detail,
		})
	}
}

// HasErrors reports whether any failure has been recorded so far.
func (b *ErrorBuilder) HasErrors() bool {
	return len(b.errs) > 0
}

// Err returns nil when no failure was recorded, otherwise the complete
// collection. This is the single aggregation and exit point of a validation
// call.
func (b *ErrorBuilder) Err() error {
	if len(b.errs) == 0 {
		return nil
	}
	return b.errs
}

// path snapshots the current prefix. The copy has no spare capacity, so
// appending nested segments to it never aliases the builder's stack.
func (b *ErrorBuilder) path() Path {
	if len(b.prefix) == 0 {
		return nil
	}
	p := make(Path, len(b.prefix))
	copy(p, b.prefix)
	return p
}
