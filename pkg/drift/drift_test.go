package drift

import (
	"math"
	"testing"
)

func TestOffset(t *testing.T) {
	tests := []struct {
		name          string
		measuredTemp  float64
		referenceTemp float64
		coefficient   float64
		expected      float64
		epsilon       float64
	}{
		{
			name:          "three degrees above reference",
			measuredTemp:  40.0,
			referenceTemp: 37.0,
			coefficient:   0.1,
			expected:      -0.3,
			epsilon:       1e-9,
		},
		{
			name:          "at reference temperature",
			measuredTemp:  37.0,
			referenceTemp: 37.0,
			coefficient:   0.1,
			expected:      0.0,
			epsilon:       0,
		},
		{
			name:          "below reference",
			measuredTemp:  30.0,
			referenceTemp: 37.0,
			coefficient:   0.5,
			expected:      3.5,
			epsilon:       1e-9,
		},
		{
			name:          "negative coefficient inverts the correction",
			measuredTemp:  40.0,
			referenceTemp: 37.0,
			coefficient:   -0.2,
			expected:      0.6,
			epsilon:       1e-9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Offset(tt.measuredTemp, tt.referenceTemp, tt.coefficient)
			if math.Abs(got-tt.expected) > tt.epsilon {
				t.Errorf("expected %.4f ± %v, got %.4f", tt.expected, tt.epsilon, got)
			}
		})
	}
}

func TestCompensate(t *testing.T) {
	tests := []struct {
		name          string
		samples       []float64
		measuredTemp  float64
		referenceTemp float64
		coefficient   float64
		expected      []float64
		epsilon       float64
	}{
		{
			name:          "warm capture shifts down",
			samples:       []float64{500.2, 499.8, 501.0},
			measuredTemp:  40.0,
			referenceTemp: 37.0,
			coefficient:   0.1,
			expected:      []float64{499.9, 499.5, 500.7},
			epsilon:       1e-9,
		},
		{
			name:          "at reference temperature is the identity",
			samples:       []float64{484.8, 505.0, 570.0},
			measuredTemp:  37.0,
			referenceTemp: 37.0,
			coefficient:   0.1,
			expected:      []float64{484.8, 505.0, 570.0},
			epsilon:       0,
		},
		{
			name:          "cold capture shifts up",
			samples:       []float64{490.0, 490.0},
			measuredTemp:  30.0,
			referenceTemp: 37.0,
			coefficient:   0.5,
			expected:      []float64{493.5, 493.5},
			epsilon:       1e-9,
		},
		{
			name:          "empty input",
			samples:       []float64{},
			measuredTemp:  40.0,
			referenceTemp: 37.0,
			coefficient:   0.1,
			expected:      []float64{},
			epsilon:       0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compensate(tt.samples, tt.measuredTemp, tt.referenceTemp, tt.coefficient)

			if len(got) != len(tt.expected) {
				t.Fatalf("expected %d results, got %d", len(tt.expected), len(got))
			}

			for i, val := range got {
				if math.Abs(val-tt.expected[i]) > tt.epsilon {
					t.Errorf("sample %d: expected %.4f ± %v, got %.4f",
						i, tt.expected[i], tt.epsilon, val)
				}
			}
		})
	}
}

// Every compensated element must equal the original plus the scalar offset,
// bit for bit, and the input must be left untouched.
func TestCompensateMatchesOffset(t *testing.T) {
	samples := []float64{510.33, 484.8, 569.99, 0, -12.5, 505}
	original := make([]float64, len(samples))
	copy(original, samples)

	offset := Offset(42.0, 37.0, 0.125)
	got := Compensate(samples, 42.0, 37.0, 0.125)

	for i := range samples {
		if got[i] != samples[i]+offset {
			t.Errorf("sample %d: expected %v, got %v", i, samples[i]+offset, got[i])
		}
		if samples[i] != original[i] {
			t.Errorf("sample %d: input was modified from %v to %v", i, original[i], samples[i])
		}
	}
}
