// Package datafile reads and writes the CSV sample files the conversion
// pipeline consumes and produces.
package datafile

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ReadSamples reads oscillator frequency samples from a CSV file. Rows with
// two or more columns yield the second column, matching loggers that emit a
// timestamp or row index first; single-column rows yield the value itself.
// A leading header row is skipped.
func ReadSamples(filename string) ([]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open samples file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read samples file: %w", err)
	}

	samples := []float64{}
	for i, record := range records {
		if len(record) == 0 {
			continue
		}

		field := record[0]
		if len(record) >= 2 {
			field = record[1]
		}

		value, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			// tolerate a header row, but only at the top of the file
			if i == 0 {
				continue
			}
			return nil, fmt.Errorf("row %d: failed to parse sample %q", i+1, field)
		}
		samples = append(samples, value)
	}

	return samples, nil
}

// WriteSeries writes values to a two-column CSV file with a row index first,
// so the output can be fed back through ReadSamples unchanged. The column
// parameter names the value column in the header.
func WriteSeries(filename, column string, values []float64) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write([]string{"Index", column}); err != nil {
		return err
	}
	for i, value := range values {
		record := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(value, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
