package config

// Provider defines the interface for configuration data sources
type Provider interface {
	// Load complete configuration
	LoadConfig() (*Data, error)

	// Get specific configuration sections
	GetProcessing() (*ProcessingData, error)
	GetCalibration() (*CalibrationData, error)

	// Configuration management (for SQLite-specific operations)
	IsReadOnly() bool
	Close() error
}

// Data represents the complete configuration structure
type Data struct {
	Processing  ProcessingData  `json:"processing"`
	Calibration CalibrationData `json:"calibration,omitempty"`
}

// ProcessingData holds the tuning for the frequency-to-pressure pipeline
type ProcessingData struct {
	// Temperature compensation. TempCoefficient is in Hz per degree C;
	// zero disables compensation regardless of the temperatures.
	MeasuredTempC   float64 `json:"measured_temp_c,omitempty"`
	ReferenceTempC  float64 `json:"reference_temp_c,omitempty"`
	TempCoefficient float64 `json:"temp_coefficient,omitempty"`

	// Minima extraction
	Extractor     string  `json:"extractor,omitempty"`
	BaseWindow    int     `json:"base_window,omitempty"`
	BottomN       int     `json:"bottom_n,omitempty"`
	LowPercentile float64 `json:"low_percentile,omitempty"`
	GrowthFactor  float64 `json:"growth_factor,omitempty"`
	MaxWindow     int     `json:"max_window,omitempty"`
}

// CalibrationData holds a device's piecewise calibration table
type CalibrationData struct {
	DeviceID string        `json:"device_id,omitempty"`
	Segments []SegmentData `json:"segments"`
}

// SegmentData is one row of the calibration table
type SegmentData struct {
	FreqLow        float64 `json:"freq_low"`
	FreqHigh       float64 `json:"freq_high"`
	PressureAtLow  float64 `json:"pressure_at_low"`
	PressureAtHigh float64 `json:"pressure_at_high"`
}
