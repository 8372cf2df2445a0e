// Package validatron is a data-structure validation engine: given an
// in-memory value, typically deserialized user input, it checks a compiled
// set of per-field constraints and reports every violation, not just the
// first one.
//
// Validation is declarative. A schema is built once per type through the
// Builder API, which resolves each (constraint name, parameter) pair against
// a Registry of constraint functions and rejects malformed declarations
// eagerly: unknown constraint names, parameters that do not type-check
// against the field, and duplicate or contradictory declarations all fail at
// Build time, never during validation.
//
// # Architecture
//
// Core building blocks:
//   - Error / Errors      – a single failure (path, kind, detail) and the
//     ordered collection returned from one validation call
//   - Path / Segment      – structural location of a failure: field name,
//     collection index, map key, or enum variant
//   - ErrorBuilder        – scoped accumulator threading the current path
//     prefix through recursive traversal
//   - Func / Registry     – named constraint functions; built-ins and
//     user-registered functions dispatch identically
//   - Builder / Schema    – compiles per-field declarations into an ordered,
//     immutable traversal plan and drives it
//
// # Usage
//
//	type User struct {
//		Age  int
//		Tags []string
//	}
//
//	var userSchema = validatron.New[User]().
//		Field("Age", validatron.NewRule("min", 18), validatron.NewRule("max", 130)).
//		Field("Tags", validatron.NewRule("max_len", 5)).
//		MustBuild()
//
//	func (u User) Validate() error { return userSchema.Validate(u) }
//
// A failed validation returns an Errors value carrying every violation with
// its structural path; use Extract to recover it from a plain error.
//
// # Error Handling
//
// Two disjoint error classes exist. Schema-construction errors are returned
// from Build (or panicked by MustBuild) and wrap sentinel errors such as
// ErrUnknownConstraint, so they can be tested with errors.Is. Validation
// failures are always returned as Errors, never panicked: a malformed field
// never suppresses diagnostics for sibling fields, collection elements, or
// nested structures.
//
// # Performance Considerations
//
// Compiled schemas are immutable and safe for unsynchronized concurrent use.
// Each Validate call owns its own accumulator; traversal is synchronous,
// allocation-light, and always runs to completion.
package validatron
