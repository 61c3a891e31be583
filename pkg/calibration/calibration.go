// Package calibration converts transducer oscillator frequencies to pressure
// readings using a piecewise-linear calibration table.
package calibration

import (
	"errors"
	"fmt"
)

// ErrNoData is returned when a conversion is attempted against an empty
// calibration table.
var ErrNoData = errors.New("no calibration data")

// Segment is one linear piece of a calibration table: across the frequency
// band [FreqLow, FreqHigh] the pressure runs linearly from PressureAtLow to
// PressureAtHigh. For this class of transducer frequency falls as pressure
// rises, so PressureAtLow is normally the larger of the two.
type Segment struct {
	FreqLow        float64
	FreqHigh       float64
	PressureAtLow  float64
	PressureAtHigh float64
}

// Slope returns the pressure change per unit frequency across the segment.
// A zero-width segment has no usable slope and reports zero.
func (s Segment) Slope() float64 {
	if s.FreqHigh == s.FreqLow {
		return 0
	}
	return (s.PressureAtHigh - s.PressureAtLow) / (s.FreqHigh - s.FreqLow)
}

// Curve is a calibration table ordered by ascending frequency.
type Curve struct {
	segments []Segment
}

// NewCurve builds a curve from segments sorted by ascending FreqLow.
// Empty tables, inverted segments (FreqHigh below FreqLow), unsorted input,
// and overlapping segments are rejected. Zero-width segments are allowed;
// the conversion maps them to their boundary pressure.
func NewCurve(segments []Segment) (*Curve, error) {
	if len(segments) == 0 {
		return nil, ErrNoData
	}

	for i, seg := range segments {
		if seg.FreqHigh < seg.FreqLow {
			return nil, fmt.Errorf("segment %d: frequency bounds inverted (%.3f > %.3f)",
				i, seg.FreqLow, seg.FreqHigh)
		}
		if i == 0 {
			continue
		}
		prev := segments[i-1]
		if seg.FreqLow < prev.FreqLow {
			return nil, fmt.Errorf("segment %d: table not sorted by ascending frequency", i)
		}
		if seg.FreqLow < prev.FreqHigh {
			return nil, fmt.Errorf("segment %d: overlaps previous segment (starts at %.3f, previous ends at %.3f)",
				i, seg.FreqLow, prev.FreqHigh)
		}
	}

	curve := &Curve{segments: make([]Segment, len(segments))}
	copy(curve.segments, segments)
	return curve, nil
}

// Len returns the number of segments in the table.
func (c *Curve) Len() int {
	if c == nil {
		return 0
	}
	return len(c.segments)
}

// Segments returns a copy of the table in ascending frequency order.
func (c *Curve) Segments() []Segment {
	if c == nil {
		return nil
	}
	segments := make([]Segment, len(c.segments))
	copy(segments, c.segments)
	return segments
}

// FreqRange returns the lowest and highest calibrated frequencies. Input
// outside this band is extrapolated by Pressure rather than rejected.
func (c *Curve) FreqRange() (low, high float64) {
	if c == nil || len(c.segments) == 0 {
		return 0, 0
	}
	return c.segments[0].FreqLow, c.segments[len(c.segments)-1].FreqHigh
}

// Pressure converts an oscillator frequency to a pressure reading.
//
// Frequencies inside a segment interpolate linearly within it. Segments are
// scanned in ascending order over closed frequency intervals, so a shared
// boundary resolves to the earlier segment and a zero-width segment reports
// its boundary pressure wherever it sits in the table. A frequency below
// the table follows the first segment's slope downward and one above the
// table follows the last segment's slope upward, so out-of-range input
// still yields a value rather than an error. Both cases are the same line
// equation, so the conversion picks the governing segment and evaluates it:
//
//	p = p_at_low + (freq - f_low) * slope
func (c *Curve) Pressure(freq float64) (float64, error) {
	if c == nil || len(c.segments) == 0 {
		return 0, ErrNoData
	}

	seg := c.segments[len(c.segments)-1]
	for _, s := range c.segments {
		if freq <= s.FreqHigh {
			seg = s
			break
		}
	}

	if seg.FreqHigh == seg.FreqLow {
		return seg.PressureAtLow, nil
	}
	return seg.PressureAtLow + (freq-seg.FreqLow)*seg.Slope(), nil
}

// Frequency converts a pressure reading back to the oscillator frequency
// that would produce it, extrapolating on the edge segments the same way
// Pressure does. The inversion relies on pressure falling as frequency
// rises across the table, which holds for this transducer family. A
// zero-slope governing segment cannot be inverted and reports its boundary
// frequency. The scan order mirrors Pressure, so a shared boundary resolves
// to the same segment in both directions.
func (c *Curve) Frequency(pressure float64) (float64, error) {
	if c == nil || len(c.segments) == 0 {
		return 0, ErrNoData
	}

	seg := c.segments[len(c.segments)-1]
	for _, s := range c.segments {
		if pressure >= s.PressureAtHigh {
			seg = s
			break
		}
	}

	if seg.Slope() == 0 {
		return seg.FreqLow, nil
	}
	return seg.FreqLow + (pressure-seg.PressureAtLow)/seg.Slope(), nil
}

// ContinuityIssues reports boundary defects between consecutive segments:
// frequency gaps and pressure steps. Shared boundaries are expected to
// coincide exactly, since both sides come from the same table entry. A
// discontinuous table is suspicious but still usable, so callers typically
// log these as warnings rather than failing.
func (c *Curve) ContinuityIssues() []string {
	if c == nil {
		return nil
	}

	var issues []string
	for i := 1; i < len(c.segments); i++ {
		prev := c.segments[i-1]
		next := c.segments[i]
		if next.FreqLow != prev.FreqHigh {
			issues = append(issues, fmt.Sprintf("gap between segments %d and %d: %.3f Hz to %.3f Hz",
				i-1, i, prev.FreqHigh, next.FreqLow))
		}
		if next.PressureAtLow != prev.PressureAtHigh {
			issues = append(issues, fmt.Sprintf("pressure step between segments %d and %d: %.3f to %.3f",
				i-1, i, prev.PressureAtHigh, next.PressureAtLow))
		}
	}
	return issues
}
