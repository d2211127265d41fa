package evaluate

import (
	"math"
	"runtime"
	"sort"
	"time"

	"github.com/cwbudde/algo-filterdesign/filter"
)

// measureRuntime times the realized filter over a deterministic synthetic
// buffer and reports the median trial duration together with the heap
// delta of realizing the filter. The timed window runs on a locked OS
// thread with a fresh GC cycle behind it, so scheduling and collector
// noise stay out of the median.
func measureRuntime(m *filter.Model, bufferSize, trials int) (time.Duration, int) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	signal := syntheticSignal(bufferSize)
	buf := make([]float64, bufferSize)

	runtime.GC()

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	runner := m.Realize()
	runtime.ReadMemStats(&after)

	allocBytes := int(after.TotalAlloc - before.TotalAlloc)

	// Warm-up pass so lazy initialization stays out of the timings.
	copy(buf, signal)
	runner.ProcessBlock(buf)

	times := make([]time.Duration, trials)
	for i := range times {
		runner.Reset()
		copy(buf, signal)

		start := time.Now()
		runner.ProcessBlock(buf)
		times[i] = time.Since(start)
	}

	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	return times[len(times)/2], allocBytes
}

// syntheticSignal builds the fixed timing input: a three-tone mix that
// exercises both pass and stop regions regardless of the filter under
// test.
func syntheticSignal(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		t := float64(i)
		out[i] = math.Sin(2*math.Pi*0.01*t) +
			0.5*math.Sin(2*math.Pi*0.13*t) +
			0.25*math.Sin(2*math.Pi*0.37*t)
	}
	return out
}
