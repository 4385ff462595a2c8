package sampleio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chrissnell/sieveanalysis/internal/gradation"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies a sample file encoding
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// DetectFormat picks the format from the file extension
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: unsupported file type %q (want .csv, .xlsx, .yaml or .json)", ErrFormat, filepath.Ext(path))
}

// ReadOptions tunes ReadFile
type ReadOptions struct {
	// Sheet selects a workbook sheet by name; the first sheet is used when empty
	Sheet string
}

// ReadFile reads every sample in path
func ReadFile(path string, opts ReadOptions) ([]gradation.Sample, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	if format == FormatXLSX {
		return ReadXLSX(path, opts.Sheet)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if format == FormatCSV {
		return ReadCSV(f)
	}
	// JSON documents are valid YAML
	return ReadYAML(f)
}

// ReadCSV reads a wide sample table from CSV
func ReadCSV(r io.Reader) ([]gradation.Sample, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return ParseTable(rows)
}

// ReadXLSX reads a wide sample table from a workbook sheet
func ReadXLSX(path, sheetName string) ([]gradation.Sample, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open file: %w", err)
	}

	sheet, err := getSheet(f, sheetName)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if row == nil {
			continue
		}
		rows = append(rows, rowToStrings(row))
	}

	return ParseTable(rows)
}

func getSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	if name != "" {
		sheet, ok := f.Sheet[name]
		if !ok {
			return nil, fmt.Errorf("%w: sheet %q not found", ErrFormat, name)
		}
		return sheet, nil
	}

	if len(f.Sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrFormat)
	}
	return f.Sheets[0], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

// sampleDoc is the YAML/JSON layout: one entry per sample, null for a
// missing reading
type sampleDoc struct {
	Samples []struct {
		Name   string     `yaml:"name"`
		Sizes  []float64  `yaml:"sizes"`
		Values []*float64 `yaml:"values"`
	} `yaml:"samples"`
}

// ReadYAML reads samples from a YAML or JSON document
func ReadYAML(r io.Reader) ([]gradation.Sample, error) {
	var doc sampleDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if len(doc.Samples) == 0 {
		return nil, fmt.Errorf("%w: no samples", ErrFormat)
	}

	samples := make([]gradation.Sample, len(doc.Samples))
	for i, s := range doc.Samples {
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("sample %d", i+1)
		}

		values := make([]gradation.Value, len(s.Values))
		for j, v := range s.Values {
			values[j] = gradation.FromPtr(v)
		}

		samples[i] = gradation.Sample{Name: name, Sizes: s.Sizes, Values: values}
	}

	return samples, nil
}
