package depstore

import (
	"testing"

	"github.com/abdul-hamid-achik/fixspec/packages/core/expand"
	"github.com/abdul-hamid-achik/fixspec/packages/core/lifecycle"
	"github.com/abdul-hamid-achik/fixspec/packages/core/names"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Record(t *testing.T) {
	s := New()
	key := names.Parse("test_one")

	require.True(t, s.Record(&Entry{Key: key, State: lifecycle.Passed, Value: 1, HasValue: true}))
	assert.False(t, s.Record(&Entry{Key: key, State: lifecycle.Passed, Value: 2, HasValue: true}))

	e, ok := s.Get(names.Parse("TEST_ONE"), nil)
	require.True(t, ok)
	assert.Equal(t, 1, e.Value)
	assert.Equal(t, 1, s.Len())
}

func TestStore_Lookup(t *testing.T) {
	d1 := expand.Path{}.With("tests", "d1")
	d2 := expand.Path{}.With("tests", "d2")
	a := names.Parse(`a\test_one`)
	b := names.Parse(`b\test_one`)

	s := New()
	s.Expect(a, []expand.Path{d1.With("test_a.go", "a1"), d1.With("test_a.go", "a2"), d2.With("test_a.go", "a1")})
	s.Expect(b, []expand.Path{d1, d2})

	t.Run("nothing recorded yet", func(t *testing.T) {
		found, missing := s.Lookup(b, d1.With("test_a.go", "a1"))
		assert.Empty(t, found)
		require.Len(t, missing, 1)
		assert.True(t, missing[0].Equal(d1))
	})

	s.Record(&Entry{Key: b, Path: d1, State: lifecycle.Passed, Value: "b", HasValue: true})
	s.Record(&Entry{Key: a, Path: d1.With("test_a.go", "a1"), State: lifecycle.Passed})
	s.Record(&Entry{Key: a, Path: d1.With("test_a.go", "a2"), State: lifecycle.NotApplicable})

	t.Run("only compatible instances", func(t *testing.T) {
		found, missing := s.Lookup(b, d1.With("test_a.go", "a1"))
		require.Len(t, found, 1)
		assert.Equal(t, "b", found[0].Value)
		assert.Empty(t, missing)
	})

	t.Run("not applicable instances are ignored", func(t *testing.T) {
		found, missing := s.Lookup(a, d1)
		require.Len(t, found, 1)
		assert.True(t, found[0].Path.Equal(d1.With("test_a.go", "a1")))
		assert.Empty(t, missing)
	})

	t.Run("other branches are missing until they run", func(t *testing.T) {
		_, missing := s.Lookup(a, d2)
		require.Len(t, missing, 1)
	})

	assert.Len(t, s.Expected(a), 3)
}
