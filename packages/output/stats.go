package output

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/abdul-hamid-achik/fixspec/packages/core/runner"
)

// maxLatencyUs bounds the recorded durations to one minute.
const maxLatencyUs = 60_000_000

// DurationStats summarizes the durations of the executed instances.
type DurationStats struct {
	Count int
	P50   time.Duration
	P95   time.Duration
	Max   time.Duration
}

// ComputeStats builds duration percentiles from the results that ran a test
// body. Results produced without running anything, such as binding errors,
// are left out.
func ComputeStats(results []*runner.TestResult) DurationStats {
	h := hdrhistogram.New(1, maxLatencyUs, 3)
	for _, r := range results {
		if r.Duration <= 0 {
			continue
		}
		us := r.Duration.Microseconds()
		if us < 1 {
			us = 1
		}
		if us > maxLatencyUs {
			us = maxLatencyUs
		}
		_ = h.RecordValue(us)
	}

	if h.TotalCount() == 0 {
		return DurationStats{}
	}
	return DurationStats{
		Count: int(h.TotalCount()),
		P50:   time.Duration(h.ValueAtQuantile(50)) * time.Microsecond,
		P95:   time.Duration(h.ValueAtQuantile(95)) * time.Microsecond,
		Max:   time.Duration(h.Max()) * time.Microsecond,
	}
}
