// Package pipeline turns raw oscillator frequency samples into pressure
// readings using pluggable minima extraction strategies.
// The stages run in a fixed order: temperature compensation, minima
// extraction, then piecewise calibration mapping.
package pipeline

import (
	"go.uber.org/zap"

	"github.com/oculab/tonoflow/pkg/calibration"
	"github.com/oculab/tonoflow/pkg/config"
	"github.com/oculab/tonoflow/pkg/drift"
	"github.com/oculab/tonoflow/pkg/minima"
)

// Pipeline converts frequency samples to pressures using a pluggable
// extraction strategy and a device calibration curve.
type Pipeline struct {
	extractor  Extractor
	curve      *calibration.Curve
	processing config.ProcessingData
	logger     *zap.SugaredLogger
}

// Result holds the output of one pipeline run
type Result struct {
	// Compensated is the input series after temperature compensation
	Compensated []float64

	// Minima is the per-window minima series
	Minima []float64

	// Pressures is the converted pressure series
	Pressures []float64

	// Skipped counts minima that could not be mapped to a pressure
	Skipped int
}

// New creates a Pipeline with the extraction strategy named in the
// processing configuration. An unknown strategy name falls back to the
// adaptive extractor with a warning.
func New(processing config.ProcessingData, curve *calibration.Curve, logger *zap.SugaredLogger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	params := minima.Params{
		BaseWindow:    processing.BaseWindow,
		BottomN:       processing.BottomN,
		LowPercentile: processing.LowPercentile,
		GrowthFactor:  processing.GrowthFactor,
		MaxWindow:     processing.MaxWindow,
	}

	var extractor Extractor
	switch ExtractorType(processing.Extractor) {
	case ExtractorTypeAdaptive:
		extractor = NewAdaptiveExtractor(params)
	case ExtractorTypeFixed:
		extractor = NewFixedExtractor(processing.BaseWindow, processing.BottomN)
	default:
		if processing.Extractor != "" {
			logger.Warnf("unknown extractor type %q, using adaptive", processing.Extractor)
		}
		extractor = NewAdaptiveExtractor(params)
	}

	return &Pipeline{
		extractor:  extractor,
		curve:      curve,
		processing: processing,
		logger:     logger,
	}
}

// Process runs the full conversion over a sample series.
func (p *Pipeline) Process(samples []float64) (*Result, error) {
	if p.curve.Len() == 0 {
		return nil, calibration.ErrNoData
	}

	compensated := drift.Compensate(samples,
		p.processing.MeasuredTempC, p.processing.ReferenceTempC, p.processing.TempCoefficient)

	minimaSeries := p.extractor.Extract(compensated)

	result := &Result{
		Compensated: compensated,
		Minima:      minimaSeries,
		Pressures:   make([]float64, 0, len(minimaSeries)),
	}

	low, high := p.curve.FreqRange()
	for i, m := range minimaSeries {
		if m < low || m > high {
			p.logger.Debugf("window %d: frequency %.3f Hz is outside the calibrated range %.1f to %.1f, extrapolating", i, m, low, high)
		}
		pressure, err := p.curve.Pressure(m)
		if err != nil {
			p.logger.Warnf("skipping window %d: %v", i, err)
			result.Skipped++
			continue
		}
		result.Pressures = append(result.Pressures, pressure)
	}

	return result, nil
}

// SetExtractor allows runtime switching of the extraction strategy
func (p *Pipeline) SetExtractor(extractor Extractor) {
	p.extractor = extractor
}
