package datafile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "samples.csv")
	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return filename
}

func TestReadSamples(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected []float64
	}{
		{
			name:     "two columns with header uses the second column",
			content:  "Time,Frequency_Hz\n0,500.25\n1,499.75\n2,501\n",
			expected: []float64{500.25, 499.75, 501},
		},
		{
			name:     "single column without header",
			content:  "500.25\n499.75\n",
			expected: []float64{500.25, 499.75},
		},
		{
			name:     "single column with header",
			content:  "Frequency_Hz\n500.5\n",
			expected: []float64{500.5},
		},
		{
			name:     "whitespace around values is tolerated",
			content:  "0, 500.5 \n1, 499.5 \n",
			expected: []float64{500.5, 499.5},
		},
		{
			name:     "empty file yields an empty series",
			content:  "",
			expected: []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadSamples(writeTemp(t, tt.content))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(got) != len(tt.expected) {
				t.Fatalf("expected %d samples, got %d", len(tt.expected), len(got))
			}
			for i, value := range got {
				if value != tt.expected[i] {
					t.Errorf("sample %d: expected %v, got %v", i, tt.expected[i], value)
				}
			}
		})
	}
}

func TestReadSamplesErrors(t *testing.T) {
	if _, err := ReadSamples(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("expected an error for a missing file")
	}

	_, err := ReadSamples(writeTemp(t, "500.5\nnot-a-number\n"))
	if err == nil {
		t.Fatal("expected an error for junk past the header row")
	}
	if !strings.Contains(err.Error(), "row 2") {
		t.Errorf("expected the error to name row 2, got %q", err)
	}
}

func TestWriteSeriesRoundTrip(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "out.csv")
	values := []float64{500.25, 499.75, 501, 13.548387096774194}

	if err := WriteSeries(filename, "Frequency_Hz", values); err != nil {
		t.Fatalf("writing series: %v", err)
	}

	got, err := ReadSamples(filename)
	if err != nil {
		t.Fatalf("reading series back: %v", err)
	}
	if len(got) != len(values) {
		t.Fatalf("expected %d values, got %d", len(values), len(got))
	}
	for i, value := range got {
		if value != values[i] {
			t.Errorf("value %d: expected %v back, got %v", i, values[i], value)
		}
	}
}
