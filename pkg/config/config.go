package config

import "fmt"

// DefaultProcessing returns the standard processing parameters: a 30-second
// base window at 10 Hz sampling, the bottom three samples averaged, and no
// temperature compensation (reference and measured both at body temperature).
func DefaultProcessing() ProcessingData {
	return ProcessingData{
		MeasuredTempC:   37.0,
		ReferenceTempC:  37.0,
		TempCoefficient: 0,
		Extractor:       "adaptive",
		BaseWindow:      300,
		BottomN:         3,
		LowPercentile:   25,
		GrowthFactor:    1.5,
		MaxWindow:       0,
	}
}

// WithDefaults returns a copy with unset extraction knobs replaced by the
// standard values. The temperature fields are left alone: with a zero
// coefficient they have no effect, and an explicit zero is meaningful there.
// A zero LowPercentile counts as unset; to aim the threshold at the exact
// window minimum, use a small positive percentile instead.
func (p ProcessingData) WithDefaults() ProcessingData {
	def := DefaultProcessing()
	if p.Extractor == "" {
		p.Extractor = def.Extractor
	}
	if p.BaseWindow == 0 {
		p.BaseWindow = def.BaseWindow
	}
	if p.BottomN == 0 {
		p.BottomN = def.BottomN
	}
	if p.LowPercentile == 0 {
		p.LowPercentile = def.LowPercentile
	}
	if p.GrowthFactor == 0 {
		p.GrowthFactor = def.GrowthFactor
	}
	return p
}

// Validate rejects parameter combinations the pipeline cannot run with.
// It is called after WithDefaults, before any samples are processed, so a
// bad configuration fails the run up front rather than partway through.
func (d *Data) Validate() error {
	p := d.Processing
	if p.BaseWindow <= 0 {
		return fmt.Errorf("processing: base-window must be positive, got %d", p.BaseWindow)
	}
	if p.BottomN <= 0 {
		return fmt.Errorf("processing: bottom-n must be positive, got %d", p.BottomN)
	}
	if p.GrowthFactor <= 1 {
		return fmt.Errorf("processing: growth-factor must exceed 1, got %g", p.GrowthFactor)
	}
	if p.LowPercentile < 0 || p.LowPercentile > 100 {
		return fmt.Errorf("processing: low-percentile must be between 0 and 100, got %g", p.LowPercentile)
	}
	if p.MaxWindow != 0 && p.MaxWindow < p.BaseWindow {
		return fmt.Errorf("processing: max-window %d is smaller than base-window %d", p.MaxWindow, p.BaseWindow)
	}
	return nil
}
