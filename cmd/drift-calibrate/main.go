package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// TempFreqReading represents one bench sweep point: the oscillator frequency
// observed while the transducer was held at a known temperature
type TempFreqReading struct {
	Temperature float64
	Frequency   float64
	Drift       float64 // Deviation from the baseline frequency
}

// ModelType represents different drift compensation models
type ModelType string

const (
	ModelConstant ModelType = "constant"
	ModelLinear   ModelType = "linear"
)

// CalibrationResult contains the analysis results for a specific model
type CalibrationResult struct {
	ModelType            ModelType
	ModelName            string
	BaselineFrequency    float64
	Coefficients         []float64 // Model coefficients [c0, c1] where drift = c0 + c1*T
	RSquared             float64
	AdjustedRSquared     float64
	MeanAbsoluteError    float64
	RootMeanSquaredError float64
	AIC                  float64 // Akaike Information Criterion (lower is better)
	BIC                  float64 // Bayesian Information Criterion (lower is better)
	SampleCount          int
	TemperatureRange     [2]float64
	DriftRange           [2]float64
}

// ComparisonResults contains all model results for comparison
type ComparisonResults struct {
	Models    []CalibrationResult
	BestByR2  CalibrationResult
	BestByAIC CalibrationResult
	BestByBIC CalibrationResult
}

func main() {
	// Command line flags
	var (
		inputFile = flag.String("input", "", "CSV file of temperature,frequency bench readings (required)")
		baseline  = flag.Float64("baseline", 0, "Baseline frequency in Hz at the reference temperature (required)")
		refTemp   = flag.Float64("reference-temp", 37.0, "Reference temperature in °C")
		csvOutput = flag.String("csv", "", "Optional CSV output file path for residuals")
	)
	flag.Parse()

	if *inputFile == "" || *baseline <= 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s -input <sweep.csv> -baseline <frequency-hz>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	fmt.Printf("Transducer Temperature Drift Calibration\n")
	fmt.Printf("========================================\n\n")
	fmt.Printf("Configuration:\n")
	fmt.Printf("  Input: %s\n", *inputFile)
	fmt.Printf("  Baseline Frequency: %.3f Hz\n", *baseline)
	fmt.Printf("  Reference Temperature: %.1f°C\n\n", *refTemp)

	readings, err := loadReadings(*inputFile, *baseline)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}

	if len(readings) < 10 {
		fmt.Fprintf(os.Stderr, "Error: Not enough data points (%d). Need at least 10.\n", len(readings))
		os.Exit(1)
	}

	fmt.Printf("Collected %d data points\n\n", len(readings))

	// Test all models
	results := testAllModels(readings, *baseline)

	// Display comparison
	displayComparison(results)

	// Display best model details
	displayBestModelDetails(results.BestByAIC)

	// Suggest pipeline configuration for the best model
	generateConfigSnippet(results.BestByAIC, *refTemp)

	// Optionally export to CSV
	if *csvOutput != "" {
		if err := exportCSV(*csvOutput, readings, results.BestByAIC); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing CSV: %v\n", err)
		} else {
			fmt.Printf("\nData exported to: %s\n", *csvOutput)
		}
	}
}

func loadReadings(filename string, baseline float64) ([]TempFreqReading, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	var readings []TempFreqReading
	for i, record := range records {
		if len(record) < 2 {
			return nil, fmt.Errorf("row %d: expected temperature,frequency columns", i+1)
		}

		temp, tempErr := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		freq, freqErr := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if tempErr != nil || freqErr != nil {
			// tolerate a header row, but only at the top of the file
			if i == 0 {
				continue
			}
			return nil, fmt.Errorf("row %d: failed to parse %q", i+1, record)
		}

		readings = append(readings, TempFreqReading{
			Temperature: temp,
			Frequency:   freq,
			Drift:       freq - baseline,
		})
	}

	return readings, nil
}

func testAllModels(readings []TempFreqReading, baseline float64) ComparisonResults {
	models := []CalibrationResult{
		fitConstantModel(readings, baseline),
		fitLinearModel(readings, baseline),
	}

	var comparison ComparisonResults
	comparison.Models = models

	// Best by R²
	bestR2 := models[0]
	for _, m := range models {
		if m.RSquared > bestR2.RSquared {
			bestR2 = m
		}
	}
	comparison.BestByR2 = bestR2

	// Best by AIC (lower is better, balances fit quality with model complexity)
	bestAIC := models[0]
	for _, m := range models {
		if m.AIC < bestAIC.AIC {
			bestAIC = m
		}
	}
	comparison.BestByAIC = bestAIC

	// Best by BIC (lower is better, penalizes complexity more than AIC)
	bestBIC := models[0]
	for _, m := range models {
		if m.BIC < bestBIC.BIC {
			bestBIC = m
		}
	}
	comparison.BestByBIC = bestBIC

	return comparison
}

func extractSeries(readings []TempFreqReading) (temps, drifts []float64) {
	temps = make([]float64, len(readings))
	drifts = make([]float64, len(readings))
	for i, r := range readings {
		temps[i] = r.Temperature
		drifts[i] = r.Drift
	}
	return temps, drifts
}

func fitConstantModel(readings []TempFreqReading, baseline float64) CalibrationResult {
	temps, drifts := extractSeries(readings)

	// Constant model: drift = c0 (mean drift)
	meanDrift := stat.Mean(drifts, nil)

	result := CalibrationResult{
		ModelType:         ModelConstant,
		ModelName:         "Constant Offset",
		BaselineFrequency: baseline,
		Coefficients:      []float64{meanDrift},
		SampleCount:       len(readings),
	}
	result.finishMetrics(temps, drifts, 1)
	return result
}

func fitLinearModel(readings []TempFreqReading, baseline float64) CalibrationResult {
	temps, drifts := extractSeries(readings)

	// Linear regression: drift = c0 + c1*T
	intercept, slope := stat.LinearRegression(temps, drifts, nil, false)

	result := CalibrationResult{
		ModelType:         ModelLinear,
		ModelName:         "Linear",
		BaselineFrequency: baseline,
		Coefficients:      []float64{intercept, slope},
		SampleCount:       len(readings),
	}
	result.finishMetrics(temps, drifts, 2)
	return result
}

// evaluateModel predicts the drift at a temperature
func evaluateModel(model CalibrationResult, temp float64) float64 {
	predicted := model.Coefficients[0]
	if len(model.Coefficients) > 1 {
		predicted += model.Coefficients[1] * temp
	}
	return predicted
}

// finishMetrics fills the residual-based fit metrics. k is the number of
// model parameters.
func (r *CalibrationResult) finishMetrics(temps, drifts []float64, k float64) {
	n := float64(len(drifts))
	meanDrift := stat.Mean(drifts, nil)

	var sumAbs, sumSq, ssTot float64
	for i, drift := range drifts {
		residual := drift - evaluateModel(*r, temps[i])
		sumAbs += math.Abs(residual)
		sumSq += residual * residual
		ssTot += (drift - meanDrift) * (drift - meanDrift)
	}

	r.MeanAbsoluteError = sumAbs / n
	r.RootMeanSquaredError = math.Sqrt(sumSq / n)
	if ssTot > 0 {
		r.RSquared = 1 - sumSq/ssTot
	}
	if n-k-1 > 0 {
		r.AdjustedRSquared = 1 - ((1-r.RSquared)*(n-1))/(n-k-1)
	}

	// AIC = 2k + n*ln(SSE/n); BIC trades the 2k penalty for k*ln(n).
	// A perfect fit has no defined log-likelihood term and simply wins.
	if sumSq > 0 {
		r.AIC = 2*k + n*math.Log(sumSq/n)
		r.BIC = k*math.Log(n) + n*math.Log(sumSq/n)
	} else {
		r.AIC = math.Inf(-1)
		r.BIC = math.Inf(-1)
	}

	tempMin, tempMax := minMax(temps)
	driftMin, driftMax := minMax(drifts)
	r.TemperatureRange = [2]float64{tempMin, tempMax}
	r.DriftRange = [2]float64{driftMin, driftMax}
}

func minMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

func displayComparison(results ComparisonResults) {
	fmt.Printf("Model Comparison\n")
	fmt.Printf("================\n\n")

	// Sort models by AIC for display
	models := make([]CalibrationResult, len(results.Models))
	copy(models, results.Models)
	sort.Slice(models, func(i, j int) bool {
		return models[i].AIC < models[j].AIC
	})

	fmt.Printf("%-15s | %8s | %8s | %8s | %10s | %10s\n", "Model", "R²", "Adj R²", "RMSE(Hz)", "AIC", "BIC")
	fmt.Printf("----------------+----------+----------+----------+------------+------------\n")

	for _, m := range models {
		marker := ""
		if m.ModelType == results.BestByAIC.ModelType {
			marker = " ← BEST (AIC)"
		}
		fmt.Printf("%-15s | %8.4f | %8.4f | %8.3f | %10.2f | %10.2f%s\n",
			m.ModelName, m.RSquared, m.AdjustedRSquared, m.RootMeanSquaredError, m.AIC, m.BIC, marker)
	}

	fmt.Printf("\nRecommendation:\n")
	fmt.Printf("  Best model by AIC: %s\n", results.BestByAIC.ModelName)
	if results.BestByAIC.ModelType != results.BestByBIC.ModelType {
		fmt.Printf("  Best model by BIC: %s (more conservative, penalizes complexity)\n", results.BestByBIC.ModelName)
	}

	if results.BestByAIC.ModelType == ModelLinear && results.BestByAIC.RSquared < 0.3 {
		fmt.Printf("\n  ⚠ WARNING: Low R² (%.4f) - temperature may not be the primary drift factor!\n", results.BestByAIC.RSquared)
		fmt.Printf("  Consider other factors: supply voltage, aging, mounting stress\n")
	}
}

func displayBestModelDetails(model CalibrationResult) {
	fmt.Printf("\nBest Model: %s\n", model.ModelName)
	fmt.Printf("==========\n\n")
	fmt.Printf("  Baseline frequency: %.3f Hz\n", model.BaselineFrequency)
	fmt.Printf("  Samples: %d\n", model.SampleCount)
	fmt.Printf("  Temperature range: %.1f°C to %.1f°C\n", model.TemperatureRange[0], model.TemperatureRange[1])
	fmt.Printf("  Drift range: %.3f Hz to %.3f Hz\n", model.DriftRange[0], model.DriftRange[1])

	switch model.ModelType {
	case ModelLinear:
		fmt.Printf("  Drift model: drift = %.4f + %.4f*T\n", model.Coefficients[0], model.Coefficients[1])
		fmt.Printf("  (T in °C, drift in Hz)\n\n")
		for temp := model.TemperatureRange[0]; temp <= model.TemperatureRange[1]+0.01; temp += 5 {
			fmt.Printf("  At %5.1f°C: %8.4f Hz drift\n", temp, evaluateModel(model, temp))
		}
	case ModelConstant:
		fmt.Printf("  Drift model: drift = %.4f Hz at any temperature\n", model.Coefficients[0])
	}
}

func generateConfigSnippet(model CalibrationResult, referenceTemp float64) {
	fmt.Printf("\nSuggested Configuration\n")
	fmt.Printf("=======================\n\n")

	if model.ModelType != ModelLinear {
		fmt.Printf("  Temperature does not usefully predict the drift in this sweep.\n")
		fmt.Printf("  Leave temp-coefficient at 0 and investigate other drift sources.\n")
		return
	}

	fmt.Printf("# The pipeline adds (reference - measured) * coefficient to every sample,\n")
	fmt.Printf("# which cancels the fitted linear drift.\n")
	fmt.Printf("processing:\n")
	fmt.Printf("  temp-coefficient: %.6f\n", model.Coefficients[1])
	fmt.Printf("  reference-temp-c: %.1f\n", referenceTemp)
}

func exportCSV(filename string, readings []TempFreqReading, model CalibrationResult) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	// Write header
	header := []string{"Temperature_C", "Frequency_Hz", "Drift_Hz", "Predicted_Drift_Hz", "Residual_Hz"}
	if err := writer.Write(header); err != nil {
		return err
	}

	// Write data rows
	for _, r := range readings {
		predicted := evaluateModel(model, r.Temperature)
		residual := r.Drift - predicted

		record := []string{
			fmt.Sprintf("%.2f", r.Temperature),
			fmt.Sprintf("%.3f", r.Frequency),
			fmt.Sprintf("%.3f", r.Drift),
			fmt.Sprintf("%.3f", predicted),
			fmt.Sprintf("%.3f", residual),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
