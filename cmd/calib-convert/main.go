package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/oculab/tonoflow/pkg/calibration"
	"github.com/oculab/tonoflow/pkg/config"
)

func main() {
	var (
		yamlFile   = flag.String("yaml", "", "Path to YAML configuration file (required)")
		sqliteFile = flag.String("sqlite", "", "Path to SQLite database file (required)")
		force      = flag.Bool("force", false, "Overwrite existing SQLite database")
		dryRun     = flag.Bool("dry-run", false, "Show what would be done without executing")
	)
	flag.Parse()

	if *yamlFile == "" || *sqliteFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -yaml <config.yaml> -sqlite <config.db>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Check if YAML file exists
	if _, err := os.Stat(*yamlFile); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: YAML file does not exist: %s\n", *yamlFile)
		os.Exit(1)
	}

	// Check if SQLite file already exists
	if _, err := os.Stat(*sqliteFile); err == nil && !*force {
		fmt.Fprintf(os.Stderr, "Error: SQLite file already exists: %s\n", *sqliteFile)
		fmt.Fprintf(os.Stderr, "Use -force to overwrite or choose a different filename\n")
		os.Exit(1)
	}

	fmt.Printf("Converting calibration configuration to SQLite...\n")
	fmt.Printf("  Source: %s\n", *yamlFile)
	fmt.Printf("  Target: %s\n", *sqliteFile)

	if *dryRun {
		fmt.Println("DRY RUN - No changes will be made")
	}

	// Load YAML configuration
	fmt.Printf("Loading YAML configuration...\n")
	yamlProvider := config.NewYAMLProvider(*yamlFile)
	data, err := yamlProvider.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading YAML configuration: %v\n", err)
		os.Exit(1)
	}

	data.Processing = data.Processing.WithDefaults()
	if err := data.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: configuration is not valid: %v\n", err)
		os.Exit(1)
	}

	// Reject calibration tables the converter itself could not process
	curve, err := buildCurve(data.Calibration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: calibration table is not valid: %v\n", err)
		os.Exit(1)
	}
	for _, issue := range curve.ContinuityIssues() {
		fmt.Printf("  Warning: %s\n", issue)
	}
	fmt.Printf("  Loaded calibration table with %d segments\n", curve.Len())

	// Every stored table carries a device ID so converted pressures can be
	// traced back to the transducer they were calibrated against
	if data.Calibration.DeviceID == "" {
		data.Calibration.DeviceID = uuid.New().String()
		fmt.Printf("  Assigned device ID: %s\n", data.Calibration.DeviceID)
	}

	if *dryRun {
		printConfigSummary(data)
		fmt.Println("DRY RUN complete - no database created")
		return
	}

	// Remove existing SQLite file if force is specified
	if *force {
		if err := os.Remove(*sqliteFile); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error removing existing SQLite file: %v\n", err)
			os.Exit(1)
		}
	}

	// Create and populate the SQLite database
	fmt.Printf("Creating SQLite database...\n")
	if err := createSQLiteDatabase(*sqliteFile, data); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating SQLite database: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Conversion completed successfully!\n")
	fmt.Printf("You can now use the SQLite backend with: -config-backend sqlite -config %s\n", *sqliteFile)
}

func buildCurve(calib config.CalibrationData) (*calibration.Curve, error) {
	segments := make([]calibration.Segment, len(calib.Segments))
	for i, s := range calib.Segments {
		segments[i] = calibration.Segment{
			FreqLow:        s.FreqLow,
			FreqHigh:       s.FreqHigh,
			PressureAtLow:  s.PressureAtLow,
			PressureAtHigh: s.PressureAtHigh,
		}
	}
	return calibration.NewCurve(segments)
}

func createSQLiteDatabase(dbPath string, data *config.Data) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	provider, err := config.NewSQLiteProvider(dbPath)
	if err != nil {
		return fmt.Errorf("failed to create SQLite provider: %w", err)
	}
	defer provider.Close()

	if err := provider.EnsureSchema(); err != nil {
		return err
	}

	fmt.Printf("  Inserting processing parameters...\n")
	fmt.Printf("  Inserting %d calibration segments...\n", len(data.Calibration.Segments))

	if err := provider.SaveConfig(data); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Printf("  Configuration successfully inserted into database\n")
	return nil
}

func printConfigSummary(data *config.Data) {
	fmt.Println("\nConfiguration Summary:")
	fmt.Printf("Device: %s\n", data.Calibration.DeviceID)

	p := data.Processing
	fmt.Printf("\nProcessing:\n")
	fmt.Printf("  - extractor: %s\n", p.Extractor)
	fmt.Printf("  - windows: base %d, max %d, bottom %d\n", p.BaseWindow, p.MaxWindow, p.BottomN)
	fmt.Printf("  - threshold: %gth percentile, growth factor %g\n", p.LowPercentile, p.GrowthFactor)
	if p.TempCoefficient != 0 {
		fmt.Printf("  - temperature compensation: %g Hz/°C (measured %.1f°C, reference %.1f°C)\n",
			p.TempCoefficient, p.MeasuredTempC, p.ReferenceTempC)
	}

	fmt.Printf("\nCalibration Segments (%d):\n", len(data.Calibration.Segments))
	for _, s := range data.Calibration.Segments {
		fmt.Printf("  - %.1f to %.1f Hz -> %.1f to %.1f mmHg\n",
			s.FreqLow, s.FreqHigh, s.PressureAtLow, s.PressureAtHigh)
	}
}
