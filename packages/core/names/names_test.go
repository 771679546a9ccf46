package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	tests := []struct {
		in   string
		want Key
		str  string
	}{
		{"test_one", Key{Function: "test_one"}, "test_one"},
		{`example\test_one`, Key{Namespace: "example", Function: "test_one"}, `example\test_one`},
		{"Test::test_one", Key{Class: "Test", Function: "test_one"}, "Test::test_one"},
		{`\example\Test::test_one`, Key{Namespace: "example", Class: "Test", Function: "test_one"}, `example\Test::test_one`},
		{`test\database\test_insert_record`, Key{Namespace: `test\database`, Function: "test_insert_record"}, `test\database\test_insert_record`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			k := Parse(tt.in)
			assert.Equal(t, tt.want, k)
			assert.Equal(t, tt.str, k.String())
		})
	}

	assert.True(t, Parse("Test::a").IsMethod())
	assert.Equal(t, Parse("TEST::A").Canonical(), Parse("test::a").Canonical())
}

func TestIndex_Add(t *testing.T) {
	x := NewIndex()
	require.NoError(t, x.Add(Parse("test_one")))
	require.NoError(t, x.Add(Parse(`example\test_one`)))

	err := x.Add(Parse("Test_One"))
	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, 2, x.Len())

	k, ok := x.Lookup(Parse("TEST_ONE"))
	require.True(t, ok)
	assert.Equal(t, "test_one", k.Function)
}

// resolutionIndex registers the four tests of the name resolution example:
// a free function and a method named test_one, both in the global namespace
// and in namespace example.
func resolutionIndex(t *testing.T) *Index {
	t.Helper()
	x := NewIndex()
	for _, s := range []string{
		"test_one", "test_two",
		"Test::test_one", "Test::test_two",
		`example\test_one`, `example\test_two`,
		`example\Test::test_one`, `example\Test::test_two`,
	} {
		require.NoError(t, x.Add(Parse(s)))
	}
	return x
}

func TestIndex_Resolve(t *testing.T) {
	x := resolutionIndex(t)

	tests := []struct {
		caller string
		ref    string
		want   string
	}{
		// global function
		{"test_two", "test_one", "test_one"},
		{"test_two", "Test::test_one", "Test::test_one"},
		{"test_two", `example\test_one`, `example\test_one`},
		{"test_two", `example\Test::test_one`, `example\Test::test_one`},
		// global method
		{"Test::test_two", "test_one", "Test::test_one"},
		{"Test::test_two", "::test_one", "test_one"},
		{"Test::test_two", `example\test_one`, `example\test_one`},
		{"Test::test_two", `example\Test::test_one`, `example\Test::test_one`},
		// namespaced function
		{`example\test_two`, "test_one", `example\test_one`},
		{`example\test_two`, "Test::test_one", `example\Test::test_one`},
		{`example\test_two`, `\test_one`, "test_one"},
		{`example\test_two`, `\Test::test_one`, "Test::test_one"},
		// namespaced method
		{`example\Test::test_two`, "test_one", `example\Test::test_one`},
		{`example\Test::test_two`, "::test_one", `example\test_one`},
		{`example\Test::test_two`, `\test_one`, "test_one"},
		{`example\Test::test_two`, `\Test::test_one`, "Test::test_one"},
	}

	for _, tt := range tests {
		t.Run(tt.caller+" -> "+tt.ref, func(t *testing.T) {
			k, err := x.Resolve(Parse(tt.caller), tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, k.String())
		})
	}
}

func TestIndex_Resolve_Fallback(t *testing.T) {
	x := NewIndex()
	for _, s := range []string{`a\test_one`, `b\test_one`, "helper_test"} {
		require.NoError(t, x.Add(Parse(s)))
	}

	t.Run("sibling namespace from the root", func(t *testing.T) {
		k, err := x.Resolve(Parse(`a\test_two`), `b\test_one`)
		require.NoError(t, err)
		assert.Equal(t, `b\test_one`, k.String())
	})

	t.Run("bare name falls back to global", func(t *testing.T) {
		k, err := x.Resolve(Parse(`a\test_two`), "helper_test")
		require.NoError(t, err)
		assert.Equal(t, "helper_test", k.String())
	})

	t.Run("case-insensitive", func(t *testing.T) {
		k, err := x.Resolve(Parse(`a\test_two`), "TEST_ONE")
		require.NoError(t, err)
		assert.Equal(t, `a\test_one`, k.String())
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := x.Resolve(Parse(`a\test_two`), "test_three")
		var unresolved *UnresolvedError
		require.ErrorAs(t, err, &unresolved)
		assert.Equal(t, "test_three", unresolved.Ref)
	})

	t.Run("anchored names do not search the caller namespace", func(t *testing.T) {
		_, err := x.Resolve(Parse(`a\test_two`), `\test_one`)
		assert.Error(t, err)
	})
}
