package assertions

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// Equal fails unless want and got are equal according to go-cmp. The
// failure message carries the diff (-want +got).
func Equal(want, got any, msg ...string) {
	if diff := cmp.Diff(want, got); diff != "" {
		Fail(message(msg, "values are not equal (-want +got):\n"+diff))
	}
}

// True fails unless cond holds.
func True(cond bool, msg ...string) {
	if !cond {
		Fail(message(msg, "expected true, got false"))
	}
}

// False fails unless cond is false.
func False(cond bool, msg ...string) {
	if cond {
		Fail(message(msg, "expected false, got true"))
	}
}

// Nil fails unless v is nil or a nil pointer, map, slice, chan or func.
func Nil(v any, msg ...string) {
	if !isNil(v) {
		Fail(message(msg, fmt.Sprintf("expected nil, got %#v", v)))
	}
}

// Throws runs fn and returns what it raised: the recovered panic value or
// the error it returned. It fails when fn neither panics nor returns an
// error. Signals raised by fn (failures and skips) are re-raised.
func Throws(fn func() error) (raised any) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := AsFailure(r); ok {
				panic(r)
			}
			if _, ok := AsSkipped(r); ok {
				panic(r)
			}
			raised = r
		}
	}()

	if err := fn(); err != nil {
		return err
	}
	Fail("expected the function to panic or return an error")
	return nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func message(custom []string, fallback string) string {
	if len(custom) == 0 {
		return fallback
	}
	return strings.Join(custom, " ") + "\n" + fallback
}
