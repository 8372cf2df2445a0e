package validatron_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsat/validatron"
)

func TestErrors_Error(t *testing.T) {
	t.Run("returns default message when empty", func(t *testing.T) {
		var errs validatron.Errors
		assert.Equal(t, "validation failed", errs.Error())
	})

	t.Run("renders path and detail", func(t *testing.T) {
		var errs validatron.Errors
		errs.Add(validatron.Error{
			Path:   validatron.Path{validatron.Field("age")},
			Kind:   validatron.KindMin,
			Detail: "17 is less than 18",
		})
		assert.Equal(t, "validation failed: age: 17 is less than 18", errs.Error())
	})

	t.Run("joins multiple failures in order", func(t *testing.T) {
		var errs validatron.Errors
		errs.Add(validatron.Error{
			Path:   validatron.Path{validatron.Field("age")},
			Detail: "too small",
		})
		errs.Add(validatron.Error{
			Path:   validatron.Path{validatron.Field("name")},
			Detail: "too long",
		})
		assert.Equal(t, "validation failed: age: too small; name: too long", errs.Error())
	})

	t.Run("root-level failure has no path prefix", func(t *testing.T) {
		var errs validatron.Errors
		errs.Add(validatron.Error{Kind: validatron.KindPredicate, Detail: "predicate failed"})
		assert.Equal(t, "validation failed: predicate failed", errs.Error())
	})
}

func TestErrors_Inspection(t *testing.T) {
	errs := validatron.Errors{
		{Path: validatron.Path{validatron.Field("a")}, Kind: validatron.KindMin, Detail: "first"},
		{Path: validatron.Path{validatron.Field("a")}, Kind: validatron.KindMax, Detail: "second"},
		{Path: validatron.Path{validatron.Field("b"), validatron.Index(1)}, Kind: validatron.KindMax, Detail: "third"},
	}

	t.Run("has", func(t *testing.T) {
		assert.True(t, errs.Has("a"))
		assert.True(t, errs.Has("b[1]"))
		assert.False(t, errs.Has("b"))
	})

	t.Run("get preserves order", func(t *testing.T) {
		assert.Equal(t, []string{"first", "second"}, errs.Get("a"))
		assert.Nil(t, errs.Get("missing"))
	})

	t.Run("paths are unique and in first-seen order", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b[1]"}, errs.Paths())
	})

	t.Run("is empty", func(t *testing.T) {
		assert.False(t, errs.IsEmpty())
		assert.True(t, validatron.Errors{}.IsEmpty())
	})
}

func TestExtract(t *testing.T) {
	t.Run("extracts collection from plain error value", func(t *testing.T) {
		var err error = validatron.Errors{{Kind: validatron.KindMin, Detail: "nope"}}
		got := validatron.Extract(err)
		require.Len(t, got, 1)
		assert.Equal(t, validatron.KindMin, got[0].Kind)
	})

	t.Run("extracts collection from wrapped error", func(t *testing.T) {
		var err error = validatron.Errors{{Detail: "nope"}}
		wrapped := fmt.Errorf("request rejected: %w", err)
		require.Len(t, validatron.Extract(wrapped), 1)
	})

	t.Run("returns nil for nil error", func(t *testing.T) {
		assert.Nil(t, validatron.Extract(nil))
	})

	t.Run("returns nil for unrelated error", func(t *testing.T) {
		assert.Nil(t, validatron.Extract(errors.New("boom")))
	})
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, validatron.IsValidationError(validatron.Errors{{Detail: "x"}}))
	assert.False(t, validatron.IsValidationError(errors.New("boom")))
	assert.False(t, validatron.IsValidationError(nil))
}
