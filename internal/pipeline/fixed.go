package pipeline

import (
	"github.com/oculab/tonoflow/pkg/minima"
)

// FixedExtractor scans non-growing windows of the base length, the behavior
// of the original analysis scripts. Windows that would run past the end of
// the series are dropped rather than shortened.
type FixedExtractor struct {
	window  int
	bottomN int
}

// NewFixedExtractor creates a fixed-window extractor
func NewFixedExtractor(window, bottomN int) *FixedExtractor {
	return &FixedExtractor{
		window:  window,
		bottomN: bottomN,
	}
}

// Extract computes the minima series using fixed-length window scans
func (e *FixedExtractor) Extract(samples []float64) []float64 {
	return minima.FixedSeries(samples, e.window, e.bottomN)
}
