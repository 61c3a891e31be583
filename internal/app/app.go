package app

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/oculab/tonoflow/internal/datafile"
	"github.com/oculab/tonoflow/internal/log"
	"github.com/oculab/tonoflow/internal/pipeline"
	"github.com/oculab/tonoflow/pkg/calibration"
	"github.com/oculab/tonoflow/pkg/config"
)

// App represents one batch conversion run
type App struct {
	configProvider config.Provider
	inputFile      string
	outputFile     string
	extractor      string
	logger         *zap.SugaredLogger
}

// New creates a new application instance. A non-empty extractor overrides
// the extraction strategy named in the configuration.
func New(configProvider config.Provider, inputFile, outputFile, extractor string, logger *zap.SugaredLogger) *App {
	return &App{
		configProvider: configProvider,
		inputFile:      inputFile,
		outputFile:     outputFile,
		extractor:      extractor,
		logger:         logger,
	}
}

// Run executes the conversion and blocks until it completes
func (a *App) Run(ctx context.Context) error {
	data, err := a.configProvider.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	data.Processing = data.Processing.WithDefaults()
	if a.extractor != "" {
		data.Processing.Extractor = a.extractor
	}
	if err := data.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	curve, err := a.buildCurve(data.Calibration)
	if err != nil {
		return fmt.Errorf("building calibration curve: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	samples, err := datafile.ReadSamples(a.inputFile)
	if err != nil {
		return err
	}
	log.Infof("read %s samples from %s", humanize.Comma(int64(len(samples))), a.inputFile)

	pipe := pipeline.New(data.Processing, curve, a.logger)
	result, err := pipe.Process(samples)
	if err != nil {
		return fmt.Errorf("processing samples: %w", err)
	}
	log.Infof("extracted %s window minima with the %s extractor",
		humanize.Comma(int64(len(result.Minima))), data.Processing.Extractor)
	if result.Skipped > 0 {
		log.Warnf("skipped %d windows that could not be mapped", result.Skipped)
	}
	if len(result.Pressures) > 0 {
		log.Infof("pressure range %.1f to %.1f mmHg, mean %.1f",
			floats.Min(result.Pressures), floats.Max(result.Pressures), stat.Mean(result.Pressures, nil))
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if a.outputFile == "" {
		log.Infof("no output file given, skipping export")
		return nil
	}
	if err := datafile.WriteSeries(a.outputFile, "Pressure_mmHg", result.Pressures); err != nil {
		return err
	}
	log.Infof("wrote %s pressure readings to %s", humanize.Comma(int64(len(result.Pressures))), a.outputFile)

	return nil
}

// buildCurve converts the configured segment table into a calibration curve,
// logging continuity problems without failing the run.
func (a *App) buildCurve(calib config.CalibrationData) (*calibration.Curve, error) {
	segments := make([]calibration.Segment, len(calib.Segments))
	for i, s := range calib.Segments {
		segments[i] = calibration.Segment{
			FreqLow:        s.FreqLow,
			FreqHigh:       s.FreqHigh,
			PressureAtLow:  s.PressureAtLow,
			PressureAtHigh: s.PressureAtHigh,
		}
	}

	curve, err := calibration.NewCurve(segments)
	if err != nil {
		return nil, err
	}

	for _, issue := range curve.ContinuityIssues() {
		log.Warnf("calibration table: %s", issue)
	}
	if calib.DeviceID != "" {
		log.Infof("loaded calibration table for device %s (%d segments)", calib.DeviceID, curve.Len())
	}

	return curve, nil
}
