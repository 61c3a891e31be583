package pipeline

import (
	"github.com/oculab/tonoflow/pkg/minima"
)

// AdaptiveExtractor scans with windows that grow until they hold enough
// very-low samples, so pulse dips are captured even when they are sparse.
type AdaptiveExtractor struct {
	params minima.Params
}

// NewAdaptiveExtractor creates an adaptive extractor with the given
// scan parameters
func NewAdaptiveExtractor(params minima.Params) *AdaptiveExtractor {
	return &AdaptiveExtractor{params: params}
}

// Extract computes the minima series using adaptive window scans
func (e *AdaptiveExtractor) Extract(samples []float64) []float64 {
	return minima.BuildSeries(samples, e.params)
}
