package main

import (
	"flag"
	"fmt"
	"os"
	"reflect"

	"github.com/oculab/tonoflow/pkg/config"
)

func main() {
	var (
		yamlFile   = flag.String("yaml", "", "Path to YAML configuration file")
		sqliteFile = flag.String("sqlite", "", "Path to SQLite configuration file")
	)
	flag.Parse()

	if *yamlFile == "" || *sqliteFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -yaml <config.yaml> -sqlite <config.db>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	fmt.Println("Configuration Comparison Test")
	fmt.Println("===========================")

	// Load YAML configuration
	fmt.Printf("Loading YAML configuration: %s\n", *yamlFile)
	yamlProvider := config.NewYAMLProvider(*yamlFile)
	yamlConfig, err := yamlProvider.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading YAML config: %v\n", err)
		os.Exit(1)
	}

	// Load SQLite configuration
	fmt.Printf("Loading SQLite configuration: %s\n", *sqliteFile)
	sqliteProvider, err := config.NewSQLiteProvider(*sqliteFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating SQLite provider: %v\n", err)
		os.Exit(1)
	}
	defer sqliteProvider.Close()

	sqliteConfig, err := sqliteProvider.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading SQLite config: %v\n", err)
		os.Exit(1)
	}

	// Compare configurations
	fmt.Println("\nComparison Results:")
	fmt.Println("==================")

	fmt.Println("\nProcessing Configuration:")
	if compareProcessing(yamlConfig.Processing, sqliteConfig.Processing) {
		fmt.Println("✓ Processing configuration matches")
	} else {
		fmt.Println("✗ Processing configuration differs")
		printProcessingDiff(yamlConfig.Processing, sqliteConfig.Processing)
	}

	fmt.Println("\nCalibration Configuration:")
	compareCalibration(yamlConfig.Calibration, sqliteConfig.Calibration)

	fmt.Println("\nTest completed!")
}

func compareProcessing(yaml, sqlite config.ProcessingData) bool {
	tolerance := 0.000001
	return abs(yaml.MeasuredTempC-sqlite.MeasuredTempC) < tolerance &&
		abs(yaml.ReferenceTempC-sqlite.ReferenceTempC) < tolerance &&
		abs(yaml.TempCoefficient-sqlite.TempCoefficient) < tolerance &&
		yaml.Extractor == sqlite.Extractor &&
		yaml.BaseWindow == sqlite.BaseWindow &&
		yaml.BottomN == sqlite.BottomN &&
		abs(yaml.LowPercentile-sqlite.LowPercentile) < tolerance &&
		abs(yaml.GrowthFactor-sqlite.GrowthFactor) < tolerance &&
		yaml.MaxWindow == sqlite.MaxWindow
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func printProcessingDiff(yaml, sqlite config.ProcessingData) {
	if yaml.Extractor != sqlite.Extractor {
		fmt.Printf("  Extractor: YAML='%s', SQLite='%s'\n", yaml.Extractor, sqlite.Extractor)
	}
	if yaml.BaseWindow != sqlite.BaseWindow {
		fmt.Printf("  BaseWindow: YAML=%d, SQLite=%d\n", yaml.BaseWindow, sqlite.BaseWindow)
	}
	if yaml.BottomN != sqlite.BottomN {
		fmt.Printf("  BottomN: YAML=%d, SQLite=%d\n", yaml.BottomN, sqlite.BottomN)
	}
	if yaml.MaxWindow != sqlite.MaxWindow {
		fmt.Printf("  MaxWindow: YAML=%d, SQLite=%d\n", yaml.MaxWindow, sqlite.MaxWindow)
	}
	if yaml.TempCoefficient != sqlite.TempCoefficient {
		fmt.Printf("  TempCoefficient: YAML=%g, SQLite=%g\n", yaml.TempCoefficient, sqlite.TempCoefficient)
	}
}

func compareCalibration(yaml, sqlite config.CalibrationData) {
	if yaml.DeviceID == sqlite.DeviceID {
		fmt.Printf("✓ Device ID matches (%s)\n", yaml.DeviceID)
	} else {
		fmt.Printf("✗ Device ID: YAML='%s', SQLite='%s'\n", yaml.DeviceID, sqlite.DeviceID)
	}

	fmt.Printf("Segments - YAML: %d, SQLite: %d\n", len(yaml.Segments), len(sqlite.Segments))
	if len(yaml.Segments) != len(sqlite.Segments) {
		fmt.Println("✗ Segment count mismatch")
		return
	}

	fmt.Println("✓ Segment count matches")
	for i, yamlSegment := range yaml.Segments {
		sqliteSegment := sqlite.Segments[i]
		if reflect.DeepEqual(yamlSegment, sqliteSegment) {
			fmt.Printf("✓ Segment %d matches (%.1f to %.1f Hz)\n", i, yamlSegment.FreqLow, yamlSegment.FreqHigh)
		} else {
			fmt.Printf("✗ Segment %d differs: YAML=%+v, SQLite=%+v\n", i, yamlSegment, sqliteSegment)
		}
	}
}
