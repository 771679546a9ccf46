package fixture

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/fixspec/packages/core/suite"
	"github.com/abdul-hamid-achik/fixspec/packages/core/testctx"
)

type counter struct {
	n int
}

func (c *counter) Setup() []any               { c.n++; return []any{c.n} }
func (c *counter) Setup_run_fast(n int) []any { return []any{n, "fast"} }
func (c *counter) Helper()                    {}
func (c *counter) TestCount(n int)            {}

func bindFunc(t *testing.T, name string, fn any) *Callable {
	t.Helper()
	c, err := newCallable(suite.Func(name, fn))
	require.NoError(t, err)
	return c
}

func TestBind(t *testing.T) {
	t.Run("file fixtures and runs", func(t *testing.T) {
		f := suite.File("test_a.go", "a",
			suite.Func("setup_file", func() {}),
			suite.Func("teardown_file", func() {}),
			suite.Func("Setup", func() {}),
			suite.Func("teardown", func() {}),
			suite.Func("setup_run_one", func() []any { return []any{1} }),
			suite.Func("setup_run_two", func() []any { return []any{2} }),
			suite.Func("TEARDOWN_RUN_TWO", func(int) {}),
			suite.Func("helper", func() {}),
			suite.Func("test_x", func() {}),
		)

		b, err := Bind(f)
		require.NoError(t, err)
		assert.NotNil(t, b.SetupFile)
		assert.NotNil(t, b.TeardownFile)
		assert.NotNil(t, b.Setup)
		assert.NotNil(t, b.Teardown)
		require.Len(t, b.Runs, 2)
		assert.Equal(t, "one", b.Runs[0].ID)
		assert.Nil(t, b.Runs[0].Teardown)
		assert.Equal(t, "two", b.Runs[1].ID)
		assert.NotNil(t, b.Runs[1].Teardown)

		level := b.Level()
		assert.Equal(t, "test_a.go", level.Name)
		assert.Equal(t, []string{"one", "two"}, level.Variants)

		run, ok := b.Run("two")
		assert.True(t, ok)
		assert.Equal(t, "two", run.ID)
		_, ok = b.Run("three")
		assert.False(t, ok)
	})

	t.Run("teardown_run without setup_run", func(t *testing.T) {
		d := suite.Dir("tests", suite.Func("teardown_run_x", func() {}))
		_, err := Bind(d)
		var bindErr *BindingError
		require.ErrorAs(t, err, &bindErr)
		assert.Equal(t, "tests", bindErr.Node)
		assert.Contains(t, bindErr.Error(), "teardown_run_x has no matching setup_run_x")
	})

	t.Run("duplicate fixture", func(t *testing.T) {
		f := suite.File("f.go", "", suite.Func("setup", func() {}), suite.Func("SETUP", func() {}))
		_, err := Bind(f)
		assert.ErrorContains(t, err, "SETUP is defined more than once")
	})

	t.Run("setup_file outside a file", func(t *testing.T) {
		d := suite.Dir("tests", suite.Func("setup_file", func() {}))
		_, err := Bind(d)
		assert.ErrorContains(t, err, "setup_file is only allowed at file level, not in a directory")
	})

	t.Run("test in a directory", func(t *testing.T) {
		d := suite.Dir("tests", suite.Func("test_stray", func() {}))
		_, err := Bind(d)
		assert.ErrorContains(t, err, "test test_stray must be defined in a file or a group")
	})

	t.Run("fixture that is not a function", func(t *testing.T) {
		f := suite.File("f.go", "", suite.Func("setup", 42))
		_, err := Bind(f)
		assert.ErrorContains(t, err, "setup is not a function")
	})

	t.Run("invalid placement", func(t *testing.T) {
		f := suite.File("f.go", "", suite.Dir("nested"))
		_, err := Bind(f)
		assert.ErrorContains(t, err, "a file cannot contain a directory (nested)")
	})

	t.Run("group methods", func(t *testing.T) {
		g := suite.Group("Counter", &counter{})
		b, err := Bind(g)
		require.NoError(t, err)
		assert.NotNil(t, b.Setup)
		require.Len(t, b.Runs, 1)
		assert.Equal(t, "fast", b.Runs[0].ID)
		require.Len(t, g.Children, 1)
		assert.Equal(t, "testCount", g.Children[0].Name)

		recv, err := b.Receiver(nil)
		require.NoError(t, err)
		out, replaced, err := b.Setup.Call(recv, nil, nil)
		require.NoError(t, err)
		assert.True(t, replaced)
		assert.Equal(t, []any{1}, out)
	})

	t.Run("group constructor", func(t *testing.T) {
		g := suite.Group("Counter", func(start int) (*counter, error) {
			if start < 0 {
				return nil, errors.New("negative start")
			}
			return &counter{n: start}, nil
		})
		b, err := Bind(g)
		require.NoError(t, err)

		recv, err := b.Receiver([]any{10})
		require.NoError(t, err)
		assert.Equal(t, 10, recv.Interface().(*counter).n)

		_, err = b.Receiver([]any{-1})
		assert.EqualError(t, err, "negative start")
	})
}

func TestCallable_Call(t *testing.T) {
	t.Run("no results keep the vector", func(t *testing.T) {
		c := bindFunc(t, "setup", func(a int, b string) {})
		out, replaced, err := c.Call(reflect.Value{}, []any{1, "x"}, nil)
		require.NoError(t, err)
		assert.False(t, replaced)
		assert.Equal(t, []any{1, "x"}, out)
	})

	t.Run("vector result replaces", func(t *testing.T) {
		c := bindFunc(t, "setup", func(a int) []any { return []any{a + 1, a + 2} })
		out, replaced, err := c.Call(reflect.Value{}, []any{1}, nil)
		require.NoError(t, err)
		assert.True(t, replaced)
		assert.Equal(t, []any{2, 3}, out)
	})

	t.Run("several results replace", func(t *testing.T) {
		c := bindFunc(t, "setup", func() (int, string, error) { return 7, "seven", nil })
		out, replaced, err := c.Call(reflect.Value{}, nil, nil)
		require.NoError(t, err)
		assert.True(t, replaced)
		assert.Equal(t, []any{7, "seven"}, out)
	})

	t.Run("returned error", func(t *testing.T) {
		c := bindFunc(t, "setup", func() ([]any, error) { return nil, errors.New("boom") })
		_, _, err := c.Call(reflect.Value{}, nil, nil)
		assert.EqualError(t, err, "boom")
	})

	t.Run("context parameter", func(t *testing.T) {
		var got *testctx.Context
		c := bindFunc(t, "test_one", func(n int, ctx *testctx.Context) { got = ctx })
		assert.True(t, c.WantsContext())

		ctx := testctx.New(testctx.Options{})
		_, _, err := c.Call(reflect.Value{}, []any{1}, ctx)
		require.NoError(t, err)
		assert.Same(t, ctx, got)
	})

	t.Run("variadic", func(t *testing.T) {
		var sum int
		c := bindFunc(t, "test_sum", func(first int, rest ...int) {
			sum = first
			for _, r := range rest {
				sum += r
			}
		})
		_, _, err := c.Call(reflect.Value{}, []any{1, 2, 3}, nil)
		require.NoError(t, err)
		assert.Equal(t, 6, sum)

		_, _, err = c.Call(reflect.Value{}, nil, nil)
		var argErr *ArgumentError
		require.ErrorAs(t, err, &argErr)
		assert.Equal(t, ArityMismatch, argErr.Kind)
		assert.Equal(t, "test_sum expects at least 1 arguments, got 0", argErr.Error())
	})

	t.Run("nil argument", func(t *testing.T) {
		var got *counter
		called := false
		c := bindFunc(t, "test_nil", func(c *counter) { got, called = c, true })
		_, _, err := c.Call(reflect.Value{}, []any{nil}, nil)
		require.NoError(t, err)
		assert.True(t, called)
		assert.Nil(t, got)
	})

	t.Run("panics propagate", func(t *testing.T) {
		c := bindFunc(t, "test_panic", func() { panic("kaboom") })
		assert.PanicsWithValue(t, "kaboom", func() {
			_, _, _ = c.Call(reflect.Value{}, nil, nil)
		})
	})
}

func TestCallable_Accepts(t *testing.T) {
	c := bindFunc(t, "test_one", func(n int, s string) {})

	tests := []struct {
		name string
		args []any
		kind MismatchKind
		ok   bool
	}{
		{name: "exact", args: []any{1, "a"}, ok: true},
		{name: "too few", args: []any{1}, kind: ArityMismatch},
		{name: "too many", args: []any{1, "a", 2}, kind: ArityMismatch},
		{name: "wrong type", args: []any{"a", "b"}, kind: TypeMismatch},
		{name: "nil for value type", args: []any{nil, "b"}, kind: TypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Accepts(tt.args)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			var argErr *ArgumentError
			require.ErrorAs(t, err, &argErr)
			assert.Equal(t, tt.kind, argErr.Kind)
		})
	}

	t.Run("interface parameters take anything", func(t *testing.T) {
		c := bindFunc(t, "test_any", func(v any) {})
		assert.NoError(t, c.Accepts([]any{struct{}{}}))
		assert.NoError(t, c.Accepts([]any{nil}))
	})

	t.Run("type mismatch message", func(t *testing.T) {
		err := c.Accepts([]any{1, 2})
		assert.EqualError(t, err, "test_one: argument 2 has type int, want string")
	})
}

func TestCallable_Invoke(t *testing.T) {
	t.Run("parameterless fixture ignores the vector", func(t *testing.T) {
		called := false
		c := bindFunc(t, "teardown", func() { called = true })
		out, err := c.Invoke(reflect.Value{}, []any{1, 2}, nil)
		require.NoError(t, err)
		assert.True(t, called)
		assert.Equal(t, []any{1, 2}, out)
	})

	t.Run("parameterless fixture may replace the vector", func(t *testing.T) {
		c := bindFunc(t, "setup_run_a1", func() []any { return []any{3} })
		out, err := c.Invoke(reflect.Value{}, []any{1}, nil)
		require.NoError(t, err)
		assert.Equal(t, []any{3}, out)
	})

	t.Run("declared parameters must fit", func(t *testing.T) {
		c := bindFunc(t, "setup", func(s string) {})
		_, err := c.Invoke(reflect.Value{}, []any{1}, nil)
		var argErr *ArgumentError
		require.ErrorAs(t, err, &argErr)
		assert.Equal(t, TypeMismatch, argErr.Kind)
	})
}
