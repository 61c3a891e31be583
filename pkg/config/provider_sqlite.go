package config

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteProvider implements Provider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// EnsureSchema creates the configuration tables if they do not exist yet
func (s *SQLiteProvider) EnsureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS configs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS processing_configs (
			config_id INTEGER NOT NULL REFERENCES configs(id),
			measured_temp_c REAL NOT NULL DEFAULT 0,
			reference_temp_c REAL NOT NULL DEFAULT 0,
			temp_coefficient REAL NOT NULL DEFAULT 0,
			extractor TEXT,
			base_window INTEGER NOT NULL DEFAULT 0,
			bottom_n INTEGER NOT NULL DEFAULT 0,
			low_percentile REAL NOT NULL DEFAULT 0,
			growth_factor REAL NOT NULL DEFAULT 0,
			max_window INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS calibration_configs (
			config_id INTEGER NOT NULL REFERENCES configs(id),
			device_id TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS calibration_segments (
			config_id INTEGER NOT NULL REFERENCES configs(id),
			position INTEGER NOT NULL,
			freq_low REAL NOT NULL,
			freq_high REAL NOT NULL,
			pressure_at_low REAL NOT NULL,
			pressure_at_high REAL NOT NULL
		)`,
	}

	for _, statement := range statements {
		if _, err := s.db.Exec(statement); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*Data, error) {
	config := &Data{}

	// Load processing parameters
	processing, err := s.GetProcessing()
	if err != nil {
		return nil, fmt.Errorf("failed to load processing config: %w", err)
	}
	config.Processing = *processing

	// Load calibration table
	calibration, err := s.GetCalibration()
	if err != nil {
		return nil, fmt.Errorf("failed to load calibration table: %w", err)
	}
	config.Calibration = *calibration

	return config, nil
}

// GetProcessing returns processing configuration from the database
func (s *SQLiteProvider) GetProcessing() (*ProcessingData, error) {
	query := `
		SELECT measured_temp_c, reference_temp_c, temp_coefficient, extractor,
		       base_window, bottom_n, low_percentile, growth_factor, max_window
		FROM processing_configs
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')
	`

	var processing ProcessingData
	var extractor sql.NullString

	err := s.db.QueryRow(query).Scan(
		&processing.MeasuredTempC, &processing.ReferenceTempC, &processing.TempCoefficient,
		&extractor, &processing.BaseWindow, &processing.BottomN,
		&processing.LowPercentile, &processing.GrowthFactor, &processing.MaxWindow,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			// No row stored yet; an all-zero section defers to the defaults
			return &ProcessingData{}, nil
		}
		return nil, fmt.Errorf("failed to query processing config: %w", err)
	}

	if extractor.Valid {
		processing.Extractor = extractor.String
	}

	return &processing, nil
}

// GetCalibration returns the calibration table from the database
func (s *SQLiteProvider) GetCalibration() (*CalibrationData, error) {
	calibration := &CalibrationData{}

	var deviceID sql.NullString
	err := s.db.QueryRow(`
		SELECT device_id FROM calibration_configs
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')
	`).Scan(&deviceID)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to query calibration config: %w", err)
	}
	if deviceID.Valid {
		calibration.DeviceID = deviceID.String
	}

	query := `
		SELECT freq_low, freq_high, pressure_at_low, pressure_at_high
		FROM calibration_segments
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')
		ORDER BY position
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query calibration segments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var segment SegmentData
		err := rows.Scan(
			&segment.FreqLow, &segment.FreqHigh,
			&segment.PressureAtLow, &segment.PressureAtHigh,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan calibration segment row: %w", err)
		}
		calibration.Segments = append(calibration.Segments, segment)
	}

	return calibration, nil
}

// IsReadOnly returns false since SQLite configurations can be modified
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Write methods for configuration management

// SaveConfig saves complete configuration to the database
func (s *SQLiteProvider) SaveConfig(data *Data) error {
	// Start transaction
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Find or create the config record
	configID, err := s.getOrCreateConfigID(tx)
	if err != nil {
		return fmt.Errorf("failed to resolve config record: %w", err)
	}

	// Clear existing data
	if err := s.clearExistingConfig(tx, configID); err != nil {
		return fmt.Errorf("failed to clear existing config: %w", err)
	}

	// Insert processing parameters
	if err := s.insertProcessingConfig(tx, configID, &data.Processing); err != nil {
		return fmt.Errorf("failed to insert processing config: %w", err)
	}

	// Insert calibration table
	if err := s.insertCalibration(tx, configID, &data.Calibration); err != nil {
		return fmt.Errorf("failed to insert calibration table: %w", err)
	}

	if _, err := tx.Exec(`UPDATE configs SET updated_at = datetime('now') WHERE id = ?`, configID); err != nil {
		return fmt.Errorf("failed to touch config record: %w", err)
	}

	// Commit transaction
	return tx.Commit()
}

func (s *SQLiteProvider) insertConfig(tx *sql.Tx, name string) (int64, error) {
	query := `INSERT INTO configs (name, created_at, updated_at) VALUES (?, datetime('now'), datetime('now'))`
	result, err := tx.Exec(query, name)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *SQLiteProvider) clearExistingConfig(tx *sql.Tx, configID int64) error {
	queries := []string{
		"DELETE FROM processing_configs WHERE config_id = ?",
		"DELETE FROM calibration_configs WHERE config_id = ?",
		"DELETE FROM calibration_segments WHERE config_id = ?",
	}

	for _, query := range queries {
		if _, err := tx.Exec(query, configID); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteProvider) insertProcessingConfig(tx *sql.Tx, configID int64, processing *ProcessingData) error {
	query := `
		INSERT INTO processing_configs (
			config_id, measured_temp_c, reference_temp_c, temp_coefficient,
			extractor, base_window, bottom_n, low_percentile, growth_factor, max_window
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tx.Exec(query,
		configID, processing.MeasuredTempC, processing.ReferenceTempC, processing.TempCoefficient,
		nullString(processing.Extractor), processing.BaseWindow, processing.BottomN,
		processing.LowPercentile, processing.GrowthFactor, processing.MaxWindow,
	)
	return err
}

func (s *SQLiteProvider) insertCalibration(tx *sql.Tx, configID int64, calibration *CalibrationData) error {
	query := `INSERT INTO calibration_configs (config_id, device_id) VALUES (?, ?)`
	if _, err := tx.Exec(query, configID, nullString(calibration.DeviceID)); err != nil {
		return err
	}

	segmentQuery := `
		INSERT INTO calibration_segments (
			config_id, position, freq_low, freq_high, pressure_at_low, pressure_at_high
		) VALUES (?, ?, ?, ?, ?, ?)
	`
	for i, segment := range calibration.Segments {
		_, err := tx.Exec(segmentQuery,
			configID, i, segment.FreqLow, segment.FreqHigh,
			segment.PressureAtLow, segment.PressureAtHigh,
		)
		if err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}
	}
	return nil
}

func (s *SQLiteProvider) getConfigID(tx *sql.Tx) (int64, error) {
	var configID int64
	err := tx.QueryRow("SELECT id FROM configs WHERE name = 'default'").Scan(&configID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("no configuration found")
		}
		return 0, err
	}
	return configID, nil
}

// getOrCreateConfigID gets existing config ID or creates a new one
func (s *SQLiteProvider) getOrCreateConfigID(tx *sql.Tx) (int64, error) {
	configID, err := s.getConfigID(tx)
	if err != nil {
		// Create default config if it doesn't exist
		configID, err = s.insertConfig(tx, "default")
		if err != nil {
			return 0, fmt.Errorf("failed to create default config: %w", err)
		}
	}
	return configID, nil
}

// nullString converts empty strings to SQL NULL
func nullString(s string) sql.NullString {
	return sql.NullString{
		String: s,
		Valid:  s != "",
	}
}
