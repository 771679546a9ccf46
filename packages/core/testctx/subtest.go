package testctx

import "github.com/abdul-hamid-achik/fixspec/packages/assertions"

// SubtestRunner isolates assertion failures inside a block.
type SubtestRunner interface {
	Subtest(fn func())
}

type subtests struct {
	failures []string
	failed   bool
}

// Subtest runs fn at once. An assertion failure inside fn is recorded and
// execution continues after the call; anything else raised by fn, such as
// a skip, propagates. A failure without a message is recorded as
// "subtest failed" unless fn already reported one through Errorf.
func (s *subtests) Subtest(fn func()) {
	before := len(s.failures)
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		f, ok := assertions.AsFailure(r)
		if !ok {
			panic(r)
		}
		switch {
		case f.Message != "":
			s.record(f.Message)
		case len(s.failures) == before:
			s.record("subtest failed")
		default:
			s.failed = true
		}
	}()
	fn()
}

func (s *subtests) record(msg string) {
	s.failed = true
	if msg != "" {
		s.failures = append(s.failures, msg)
	}
}
