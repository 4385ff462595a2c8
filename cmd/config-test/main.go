package main

import (
	"flag"
	"fmt"
	"os"
	"reflect"

	"github.com/chrissnell/sieveanalysis/pkg/config"
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

	fmt.Println("\nComparison Results:")
	fmt.Println("==================")

	mismatches := 0
	mismatches += compareSection("Server", yamlConfig.Server, sqliteConfig.Server)
	mismatches += compareSection("Analysis", yamlConfig.Analysis, sqliteConfig.Analysis)
	mismatches += compareSection("Log", yamlConfig.Log, sqliteConfig.Log)

	if mismatches > 0 {
		fmt.Printf("\n%d field(s) differ\n", mismatches)
		os.Exit(2)
	}
	fmt.Println("\nTest completed!")
}

// compareSection prints one line per differing field and returns how many differ
func compareSection(name string, yaml, sqlite interface{}) int {
	yv := reflect.ValueOf(yaml)
	sv := reflect.ValueOf(sqlite)
	t := yv.Type()

	diffs := 0
	for i := 0; i < t.NumField(); i++ {
		yf := yv.Field(i).Interface()
		sf := sv.Field(i).Interface()
		if !reflect.DeepEqual(yf, sf) {
			if diffs == 0 {
				fmt.Printf("✗ %s configuration differs\n", name)
			}
			fmt.Printf("  %s: YAML='%v', SQLite='%v'\n", t.Field(i).Name, yf, sf)
			diffs++
		}
	}

	if diffs == 0 {
		fmt.Printf("✓ %s configuration matches\n", name)
	}
	return diffs
}
