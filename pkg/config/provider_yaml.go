package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements Provider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *Data
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*Data, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	// Load into temporary struct with YAML tags
	var yamlConfig struct {
		Processing  ProcessingYAML  `yaml:"processing,omitempty"`
		Calibration CalibrationYAML `yaml:"calibration,omitempty"`
	}

	err = yaml.Unmarshal(cfgFile, &yamlConfig)
	if err != nil {
		return nil, err
	}

	// Convert to our internal format
	config := &Data{
		Processing: ProcessingData{
			MeasuredTempC:   yamlConfig.Processing.MeasuredTempC,
			ReferenceTempC:  yamlConfig.Processing.ReferenceTempC,
			TempCoefficient: yamlConfig.Processing.TempCoefficient,
			Extractor:       yamlConfig.Processing.Extractor,
			BaseWindow:      yamlConfig.Processing.BaseWindow,
			BottomN:         yamlConfig.Processing.BottomN,
			LowPercentile:   yamlConfig.Processing.LowPercentile,
			GrowthFactor:    yamlConfig.Processing.GrowthFactor,
			MaxWindow:       yamlConfig.Processing.MaxWindow,
		},
		Calibration: CalibrationData{
			DeviceID: yamlConfig.Calibration.DeviceID,
			Segments: make([]SegmentData, len(yamlConfig.Calibration.Segments)),
		},
	}

	for i, segment := range yamlConfig.Calibration.Segments {
		config.Calibration.Segments[i] = SegmentData{
			FreqLow:        segment.FreqLow,
			FreqHigh:       segment.FreqHigh,
			PressureAtLow:  segment.PressureAtLow,
			PressureAtHigh: segment.PressureAtHigh,
		}
	}

	y.config = config
	return config, nil
}

// GetProcessing returns the processing configuration
func (y *YAMLProvider) GetProcessing() (*ProcessingData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &y.config.Processing, nil
}

// GetCalibration returns the calibration table configuration
func (y *YAMLProvider) GetCalibration() (*CalibrationData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &y.config.Calibration, nil
}

// IsReadOnly returns true since YAML files are read-only through this interface
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

// YAML-specific structs with proper YAML tags for parsing the file format
type ProcessingYAML struct {
	MeasuredTempC   float64 `yaml:"measured-temp-c,omitempty"`
	ReferenceTempC  float64 `yaml:"reference-temp-c,omitempty"`
	TempCoefficient float64 `yaml:"temp-coefficient,omitempty"`
	Extractor       string  `yaml:"extractor,omitempty"`
	BaseWindow      int     `yaml:"base-window,omitempty"`
	BottomN         int     `yaml:"bottom-n,omitempty"`
	LowPercentile   float64 `yaml:"low-percentile,omitempty"`
	GrowthFactor    float64 `yaml:"growth-factor,omitempty"`
	MaxWindow       int     `yaml:"max-window,omitempty"`
}

type CalibrationYAML struct {
	DeviceID string        `yaml:"device-id,omitempty"`
	Segments []SegmentYAML `yaml:"segments"`
}

type SegmentYAML struct {
	FreqLow        float64 `yaml:"freq-low"`
	FreqHigh       float64 `yaml:"freq-high"`
	PressureAtLow  float64 `yaml:"pressure-at-low"`
	PressureAtHigh float64 `yaml:"pressure-at-high"`
}
