package expand

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan(t *testing.T) {
	t.Run("no levels yields the single empty path", func(t *testing.T) {
		paths := Plan(nil)
		require.Len(t, paths, 1)
		assert.Empty(t, paths[0])
	})

	t.Run("a level without variants does not multiply", func(t *testing.T) {
		paths := Plan([]Level{
			{Name: "tests", Variants: []string{"a1", "a2"}},
			{Name: "tests/test_c.go"},
		})
		require.Len(t, paths, 2)
		assert.Equal(t, "a1", paths[0].String())
		assert.Equal(t, "a2", paths[1].String())
	})

	t.Run("cross product in definition order", func(t *testing.T) {
		paths := Plan([]Level{
			{Name: "tests", Variants: []string{"database_x", "database_y"}},
			{Name: "tests/test_orders.go", Variants: []string{"processor_a", "processor_b"}},
		})
		var got []string
		for _, p := range paths {
			got = append(got, p.String())
		}
		assert.Equal(t, []string{
			"database_x/processor_a",
			"database_x/processor_b",
			"database_y/processor_a",
			"database_y/processor_b",
		}, got)
	})
}

func TestPath(t *testing.T) {
	base := Path{}.With("tests", "d1")
	a := base.With("test_a.go", "a1")
	b1 := base.With("test_b.go", "b1")
	other := Path{}.With("tests", "d2")

	assert.Len(t, base, 1)
	assert.True(t, a.HasPrefix(base))
	assert.False(t, base.HasPrefix(a))
	assert.True(t, a.Compatible(b1))
	assert.True(t, b1.Compatible(base))
	assert.False(t, a.Compatible(other))
	assert.True(t, Path(nil).Compatible(a))
	assert.True(t, a.Equal(base.With("test_a.go", "a1")))
	assert.False(t, a.Equal(b1))
}

func TestWalk(t *testing.T) {
	t.Run("identity level", func(t *testing.T) {
		var branches []Branch
		Walk(nil, []any{1}, Level{Name: "f"}, nil, func(b Branch) { branches = append(branches, b) })
		require.Len(t, branches, 1)
		assert.Equal(t, []any{1}, branches[0].Args)
		assert.Empty(t, branches[0].Path)
	})

	t.Run("forks and visits in order", func(t *testing.T) {
		var events []string
		setup := func(v string, args []any) ([]any, error) {
			events = append(events, "setup "+v)
			if v == "broken" {
				return nil, errors.New("no database")
			}
			return append(append([]any{}, args...), v), nil
		}
		var branches []Branch
		Walk(nil, []any{1}, Level{Name: "f", Variants: []string{"a1", "broken", "a2"}}, setup, func(b Branch) {
			events = append(events, "visit "+b.Variant)
			branches = append(branches, b)
		})

		assert.Equal(t, []string{"setup a1", "visit a1", "setup broken", "visit broken", "setup a2", "visit a2"}, events)
		require.Len(t, branches, 3)
		assert.Equal(t, []any{1, "a1"}, branches[0].Args)
		assert.Error(t, branches[1].Err)
		assert.Equal(t, "a2", branches[2].Path.String())
	})
}
