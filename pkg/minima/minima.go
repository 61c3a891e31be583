// Package minima extracts local floor estimates from noisy oscillator
// frequency series. Pressure peaks show up as sparse dips in frequency, so a
// fixed-size window can hold too few low points for a stable floor estimate
// or so many that unrelated samples dilute it. The adaptive scan grows each
// window until it holds enough very-low points, then averages the smallest
// few into a single value.
package minima

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Params defines parameters for the adaptive window scan
type Params struct {
	// BaseWindow is the starting window length in samples
	BaseWindow int

	// BottomN is how many of the smallest window values are averaged into
	// the floor estimate. A window stops growing once it holds at least
	// this many very-low points.
	BottomN int

	// LowPercentile (0-100) sets the very-low threshold: values at or below
	// this percentile of the current window count toward BottomN
	LowPercentile float64

	// GrowthFactor multiplies the window length on each growth step, rounding
	// up. Must be greater than 1.
	GrowthFactor float64

	// MaxWindow caps the window length in samples. Zero means 4x BaseWindow.
	MaxWindow int
}

// DefaultParams returns the parameters used for bench captures at the
// standard 10 Hz sample rate
func DefaultParams() Params {
	return Params{
		BaseWindow:    300, // 30 seconds of samples
		BottomN:       3,
		LowPercentile: 25,
		GrowthFactor:  1.5,
		MaxWindow:     0, // 4x BaseWindow
	}
}

// EffectiveMaxWindow resolves the MaxWindow default
func (p Params) EffectiveMaxWindow() int {
	if p.MaxWindow > 0 {
		return p.MaxWindow
	}
	return 4 * p.BaseWindow
}

// Scan locates a window starting at start that holds at least BottomN
// very-low points and reports the mean of the BottomN smallest values in it.
// The window begins at BaseWindow samples and grows by GrowthFactor until the
// stop condition is met or growth is blocked by both the length cap and the
// end of the series; a blocked window falls back to averaging the smallest
// min(BottomN, len(window)) values it holds. The second return is false when
// no value can be produced, which happens when start is at or past the end
// of values.
func Scan(values []float64, start int, p Params) (float64, bool) {
	n := len(values)
	if start < 0 || start >= n {
		return 0, false
	}

	maxLength := p.EffectiveMaxWindow()
	length := p.BaseWindow

	for {
		end := start + length
		if end < start {
			end = start
		}
		if end > n {
			end = n
		}
		window := values[start:end]

		if len(window) > 0 && veryLowCount(window, p.LowPercentile) >= p.BottomN {
			return bottomMean(window, p.BottomN)
		}

		next := grownLength(length, p.GrowthFactor)
		if next > maxLength {
			next = maxLength
		}
		nextEnd := start + next
		if nextEnd > n {
			nextEnd = n
		}
		if nextEnd <= end {
			// Growth is blocked; average whatever the window holds.
			k := p.BottomN
			if len(window) < k {
				k = len(window)
			}
			return bottomMean(window, k)
		}
		length = next
	}
}

// BuildSeries runs Scan at every start index from 0 through
// max(0, len(values)-BaseWindow) inclusive, collecting the non-absent
// results in start-index order. The final start index always has a full
// base-length window available when the series itself is long enough.
func BuildSeries(values []float64, p Params) []float64 {
	if len(values) == 0 {
		return []float64{}
	}

	last := len(values) - p.BaseWindow
	if last < 0 {
		last = 0
	}

	series := make([]float64, 0, last+1)
	for start := 0; start <= last; start++ {
		if v, ok := Scan(values, start, p); ok {
			series = append(series, v)
		}
	}
	return series
}

// FixedScan reports the mean of the bottomN smallest values in a fixed-size
// window starting at start. Unlike Scan it requires the whole window to fit:
// a window that would run past the end of the series yields no value. This
// is the behavior of the original bench-processing scripts and remains
// available for comparing captures against their archived results.
func FixedScan(values []float64, start, window, bottomN int) (float64, bool) {
	if start < 0 || window <= 0 {
		return 0, false
	}
	if start+window > len(values) {
		return 0, false
	}
	return bottomMean(values[start:start+window], bottomN)
}

// FixedSeries runs FixedScan at every start index that fits a full window,
// from 0 through len(values)-window inclusive.
func FixedSeries(values []float64, window, bottomN int) []float64 {
	if window <= 0 || window > len(values) {
		return []float64{}
	}

	series := make([]float64, 0, len(values)-window+1)
	for start := 0; start+window <= len(values); start++ {
		if v, ok := FixedScan(values, start, window, bottomN); ok {
			series = append(series, v)
		}
	}
	return series
}

// veryLowCount counts window values at or below the percentile threshold.
// The threshold is the inverse empirical CDF, so the count is at least one
// for any non-empty window and positive percentile.
func veryLowCount(window []float64, percentile float64) int {
	sorted := make([]float64, len(window))
	copy(sorted, window)
	sort.Float64s(sorted)

	frac := percentile / 100
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	threshold := stat.Quantile(frac, stat.Empirical, sorted, nil)

	count := 0
	for _, v := range sorted {
		if v > threshold {
			break
		}
		count++
	}
	return count
}

// bottomMean averages the k smallest values in window, selected by value
// with ties broken arbitrarily. k is capped at the window size; a mean over
// nothing yields no value.
func bottomMean(window []float64, k int) (float64, bool) {
	if k > len(window) {
		k = len(window)
	}
	if k <= 0 {
		return 0, false
	}

	sorted := make([]float64, len(window))
	copy(sorted, window)
	sort.Float64s(sorted)

	return stat.Mean(sorted[:k], nil), true
}

// grownLength applies the growth factor, rounding up and forcing a strict
// increase so the scan always terminates.
func grownLength(length int, factor float64) int {
	next := int(math.Ceil(float64(length) * factor))
	if next <= length {
		next = length + 1
	}
	return next
}
