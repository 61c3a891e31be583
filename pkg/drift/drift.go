// Package drift compensates oscillator frequency readings for measurement
// temperature. Resonant pressure transducers shift frequency as ambient
// temperature moves away from the temperature the calibration table was
// recorded at; the correction is a constant linear offset applied to every
// sample of a capture.
package drift

// Offset returns the frequency correction in Hz for a capture taken at
// measuredTemp: (referenceTemp - measuredTemp) * coefficient, with the
// coefficient in Hz per degree. A capture taken at the reference temperature
// needs no correction.
func Offset(measuredTemp, referenceTemp, coefficient float64) float64 {
	return (referenceTemp - measuredTemp) * coefficient
}

// Compensate returns a new series with the temperature offset added to every
// sample. The input slice is never modified and the output always has the
// same length and order.
func Compensate(samples []float64, measuredTemp, referenceTemp, coefficient float64) []float64 {
	offset := Offset(measuredTemp, referenceTemp, coefficient)
	compensated := make([]float64, len(samples))
	for i, s := range samples {
		compensated[i] = s + offset
	}
	return compensated
}
