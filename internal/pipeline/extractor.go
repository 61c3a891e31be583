package pipeline

// Extractor defines the interface for minima extraction strategies.
// Implementations reduce a frequency sample sequence to the series of
// per-window lowest-sample averages the calibration mapper consumes.
type Extractor interface {
	// Extract computes one minima value per window start position,
	// omitting positions where no value could be produced
	Extract(samples []float64) []float64
}

// ExtractorType identifies the extraction strategy
type ExtractorType string

const (
	// ExtractorTypeAdaptive grows each scan window until enough very-low
	// samples are present
	ExtractorTypeAdaptive ExtractorType = "adaptive"

	// ExtractorTypeFixed scans fixed-length windows of the base size
	ExtractorTypeFixed ExtractorType = "fixed"
)
