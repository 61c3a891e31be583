// Package main provides a synthetic transducer signal generator for exercising the processing pipeline offline.
package main

import (
	"flag"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/oculab/tonoflow/internal/datafile"
	"github.com/oculab/tonoflow/pkg/calibration"
)

// TransducerEmulator generates synthetic oscillator frequency samples by
// simulating the pressure on the sensing membrane and mapping it through a
// factory calibration curve.
//
// Higher pressure lowers the oscillator frequency, so the cardiac pulse
// shows up as periodic dips below the resting frequency and a blink as a
// short, much deeper dip. The minima extraction stage hunts for exactly
// these dips.
type TransducerEmulator struct {
	rng   *rand.Rand
	curve *calibration.Curve

	basePressure float64 // mmHg, resting pressure between pulses
	sampleRate   float64 // samples per second

	pulseRate      float64 // Hz, cardiac rate (1.2 ≈ 72 bpm)
	pulseAmplitude float64 // mmHg, ocular pulse height
	respRate       float64 // Hz, respiratory modulation
	respDepth      float64 // mmHg

	noise          float64 // Hz, peak-to-peak oscillator jitter
	driftPerMinute float64 // Hz/min, slow thermal drift
	blinkChance    float64 // per-sample probability of a blink artifact
	blinkSpike     float64 // mmHg, additional pressure during a blink
}

func NewTransducerEmulator(seed int64, curve *calibration.Curve) *TransducerEmulator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &TransducerEmulator{
		rng:            rand.New(rand.NewSource(seed)),
		curve:          curve,
		basePressure:   15,
		sampleRate:     10,
		pulseRate:      1.2,
		pulseAmplitude: 1.5,
		respRate:       0.25,
		respDepth:      0.4,
		noise:          0.3,
		driftPerMinute: 0,
		blinkChance:    0.002,
		blinkSpike:     15,
	}
}

// GenerateSeries produces n consecutive frequency samples.
func (e *TransducerEmulator) GenerateSeries(n int) []float64 {
	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) / e.sampleRate

		// Raised-cosine pulse so the pressure rests at the baseline and
		// peaks once per beat.
		cardiac := e.pulseAmplitude * 0.5 * (1 - math.Cos(2*math.Pi*e.pulseRate*t))
		resp := e.respDepth * math.Sin(2*math.Pi*e.respRate*t)

		pressure := e.basePressure + cardiac + resp
		if e.rng.Float64() < e.blinkChance {
			pressure += e.blinkSpike * e.rng.Float64()
		}

		// The factory curve is never empty, so the inversion cannot fail.
		freq, _ := e.curve.Frequency(pressure)
		freq += e.driftPerMinute * t / 60
		freq += (e.rng.Float64() - 0.5) * e.noise

		samples[i] = freq
	}
	return samples
}

// factoryTable is the calibration the simulated transducer family ships with.
func factoryTable() []calibration.Segment {
	return []calibration.Segment{
		{FreqLow: 484.8, FreqHigh: 487.8, PressureAtLow: 45, PressureAtHigh: 37.5},
		{FreqLow: 487.8, FreqHigh: 490.2, PressureAtLow: 37.5, PressureAtHigh: 30},
		{FreqLow: 490.2, FreqHigh: 493.8, PressureAtLow: 30, PressureAtHigh: 22.5},
		{FreqLow: 493.8, FreqHigh: 498.8, PressureAtLow: 22.5, PressureAtHigh: 15},
		{FreqLow: 498.8, FreqHigh: 505, PressureAtLow: 15, PressureAtHigh: 7.5},
		{FreqLow: 505, FreqHigh: 570, PressureAtLow: 7.5, PressureAtHigh: 0},
	}
}

func main() {
	var (
		samples    = flag.Int("samples", 3000, "number of samples to generate")
		rate       = flag.Float64("rate", 10, "sampling rate in Hz")
		outputFile = flag.String("output", "frequencies.csv", "output CSV file")
		seed       = flag.Int64("seed", 0, "random seed (0 uses the clock)")
		pressure   = flag.Float64("pressure", 15, "resting pressure in mmHg")
		pulse      = flag.Float64("pulse", 1.5, "ocular pulse amplitude in mmHg")
		noise      = flag.Float64("noise", 0.3, "peak-to-peak oscillator jitter in Hz")
		drift      = flag.Float64("drift", 0, "thermal drift in Hz per minute")
	)
	flag.Parse()

	curve, err := calibration.NewCurve(factoryTable())
	if err != nil {
		log.Fatalf("building factory curve: %v", err)
	}

	emulator := NewTransducerEmulator(*seed, curve)
	emulator.sampleRate = *rate
	emulator.basePressure = *pressure
	emulator.pulseAmplitude = *pulse
	emulator.noise = *noise
	emulator.driftPerMinute = *drift

	log.Printf("Transducer Simulator: %d samples at %.1f Hz, resting pressure %.1f mmHg", *samples, *rate, *pressure)

	series := emulator.GenerateSeries(*samples)
	if err := datafile.WriteSeries(*outputFile, "Frequency_Hz", series); err != nil {
		log.Fatalf("failed to write %s: %v", *outputFile, err)
	}

	log.Printf("wrote %d samples to %s", len(series), *outputFile)
}
