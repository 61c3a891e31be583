package pipeline

import (
	"errors"
	"math"
	"testing"

	"github.com/oculab/tonoflow/pkg/calibration"
	"github.com/oculab/tonoflow/pkg/config"
)

func testCurve(t *testing.T) *calibration.Curve {
	t.Helper()
	curve, err := calibration.NewCurve([]calibration.Segment{
		{FreqLow: 484.8, FreqHigh: 487.8, PressureAtLow: 45, PressureAtHigh: 37.5},
		{FreqLow: 487.8, FreqHigh: 490.2, PressureAtLow: 37.5, PressureAtHigh: 30},
		{FreqLow: 490.2, FreqHigh: 493.8, PressureAtLow: 30, PressureAtHigh: 22.5},
		{FreqLow: 493.8, FreqHigh: 498.8, PressureAtLow: 22.5, PressureAtHigh: 15},
		{FreqLow: 498.8, FreqHigh: 505, PressureAtLow: 15, PressureAtHigh: 7.5},
		{FreqLow: 505, FreqHigh: 570, PressureAtLow: 7.5, PressureAtHigh: 0},
	})
	if err != nil {
		t.Fatalf("building test curve: %v", err)
	}
	return curve
}

func TestProcess(t *testing.T) {
	processing := config.ProcessingData{
		Extractor:     "adaptive",
		BaseWindow:    3,
		BottomN:       2,
		LowPercentile: 50,
		GrowthFactor:  2,
	}

	samples := []float64{500.2, 498.9, 499.1, 500.0, 499.9, 498.8, 499.3}

	p := New(processing, testCurve(t), nil)
	result, err := p.Process(samples)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// no compensation configured, so the input passes through unchanged
	for i, value := range result.Compensated {
		if value != samples[i] {
			t.Errorf("compensated[%d]: expected %v unchanged, got %v", i, samples[i], value)
		}
	}

	expectedMinima := []float64{499.0, 499.0, 499.5, 499.35, 499.05}
	if len(result.Minima) != len(expectedMinima) {
		t.Fatalf("expected %d minima, got %d", len(expectedMinima), len(result.Minima))
	}
	for i, m := range result.Minima {
		if math.Abs(m-expectedMinima[i]) > 1e-9 {
			t.Errorf("minima[%d]: expected %.4f, got %.4f", i, expectedMinima[i], m)
		}
	}

	// all minima sit inside the 498.8-505 Hz segment
	expectedPressures := []float64{14.758065, 14.758065, 14.153226, 14.334677, 14.697581}
	if len(result.Pressures) != len(expectedPressures) {
		t.Fatalf("expected %d pressures, got %d", len(expectedPressures), len(result.Pressures))
	}
	for i, pressure := range result.Pressures {
		if math.Abs(pressure-expectedPressures[i]) > 1e-6 {
			t.Errorf("pressures[%d]: expected %.6f, got %.6f", i, expectedPressures[i], pressure)
		}
	}

	if result.Skipped != 0 {
		t.Errorf("expected no skipped windows, got %d", result.Skipped)
	}
}

func TestProcessTemperatureCompensation(t *testing.T) {
	processing := config.ProcessingData{
		MeasuredTempC:   40.0,
		ReferenceTempC:  37.0,
		TempCoefficient: 0.1,
		Extractor:       "adaptive",
		BaseWindow:      3,
		BottomN:         3,
		LowPercentile:   100,
		GrowthFactor:    2,
	}

	samples := []float64{500.2, 499.8, 501.0}

	p := New(processing, testCurve(t), nil)
	result, err := p.Process(samples)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// three degrees above reference at 0.1 Hz per degree shifts every
	// sample down by 0.3 Hz
	expectedCompensated := []float64{499.9, 499.5, 500.7}
	for i, value := range result.Compensated {
		if math.Abs(value-expectedCompensated[i]) > 1e-9 {
			t.Errorf("compensated[%d]: expected %.4f, got %.4f", i, expectedCompensated[i], value)
		}
	}

	if len(result.Minima) != 1 {
		t.Fatalf("expected a single minima value, got %d", len(result.Minima))
	}
	if math.Abs(result.Minima[0]-500.033333) > 1e-6 {
		t.Errorf("expected minima 500.033333, got %.6f", result.Minima[0])
	}
	if len(result.Pressures) != 1 {
		t.Fatalf("expected a single pressure, got %d", len(result.Pressures))
	}
	if math.Abs(result.Pressures[0]-13.508065) > 1e-6 {
		t.Errorf("expected pressure 13.508065, got %.6f", result.Pressures[0])
	}
}

func TestProcessExtractorStrategies(t *testing.T) {
	samples := []float64{501, 502, 503, 504, 497, 498, 505, 505}

	base := config.ProcessingData{
		BaseWindow:    4,
		BottomN:       2,
		LowPercentile: 25,
		GrowthFactor:  1.5,
	}

	adaptive := base
	adaptive.Extractor = "adaptive"
	fixed := base
	fixed.Extractor = "fixed"

	adaptiveResult, err := New(adaptive, testCurve(t), nil).Process(samples)
	if err != nil {
		t.Fatalf("adaptive: %v", err)
	}
	fixedResult, err := New(fixed, testCurve(t), nil).Process(samples)
	if err != nil {
		t.Fatalf("fixed: %v", err)
	}

	// the first window holds only one very-low sample, so the adaptive
	// scan grows to reach the 497/498 dip while the fixed scan cannot
	if math.Abs(adaptiveResult.Minima[0]-497.5) > 1e-9 {
		t.Errorf("adaptive: expected first minima 497.5, got %.4f", adaptiveResult.Minima[0])
	}
	if math.Abs(fixedResult.Minima[0]-501.5) > 1e-9 {
		t.Errorf("fixed: expected first minima 501.5, got %.4f", fixedResult.Minima[0])
	}

	if math.Abs(adaptiveResult.Pressures[0]-16.95) > 1e-6 {
		t.Errorf("adaptive: expected first pressure 16.95, got %.6f", adaptiveResult.Pressures[0])
	}
	if math.Abs(fixedResult.Pressures[0]-11.733871) > 1e-6 {
		t.Errorf("fixed: expected first pressure 11.733871, got %.6f", fixedResult.Pressures[0])
	}
}

func TestProcessUnknownExtractorFallsBack(t *testing.T) {
	processing := config.ProcessingData{
		Extractor:     "bogus",
		BaseWindow:    3,
		BottomN:       2,
		LowPercentile: 50,
		GrowthFactor:  2,
	}

	p := New(processing, testCurve(t), nil)
	if _, ok := p.extractor.(*AdaptiveExtractor); !ok {
		t.Errorf("expected fallback to the adaptive extractor, got %T", p.extractor)
	}
}

func TestSetExtractor(t *testing.T) {
	processing := config.ProcessingData{
		Extractor:     "adaptive",
		BaseWindow:    4,
		BottomN:       2,
		LowPercentile: 25,
		GrowthFactor:  1.5,
	}
	samples := []float64{501, 502, 503, 504, 497, 498, 505, 505}

	p := New(processing, testCurve(t), nil)
	p.SetExtractor(NewFixedExtractor(4, 2))

	result, err := p.Process(samples)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(result.Minima[0]-501.5) > 1e-9 {
		t.Errorf("expected fixed-window minima 501.5 after switch, got %.4f", result.Minima[0])
	}
}

func TestProcessEmptyCurve(t *testing.T) {
	processing := config.ProcessingData{
		Extractor:     "adaptive",
		BaseWindow:    3,
		BottomN:       2,
		LowPercentile: 50,
		GrowthFactor:  2,
	}

	p := New(processing, &calibration.Curve{}, nil)
	if _, err := p.Process([]float64{500, 501}); !errors.Is(err, calibration.ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestProcessEmptyInput(t *testing.T) {
	processing := config.ProcessingData{
		Extractor:     "adaptive",
		BaseWindow:    3,
		BottomN:       2,
		LowPercentile: 50,
		GrowthFactor:  2,
	}

	result, err := New(processing, testCurve(t), nil).Process(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Minima) != 0 || len(result.Pressures) != 0 {
		t.Errorf("expected empty output for empty input, got %d minima and %d pressures",
			len(result.Minima), len(result.Pressures))
	}
}
