// Package sampleio reads sieve test samples from lab files and writes
// analysis reports.
//
// Spreadsheets and CSV files use the wide layout of a lab sheet: the first
// column, headed size_mm, holds the sieve apertures and every other column
// holds the passing percentages of one sample, named by its header. Empty
// cells and the tokens "-", "NA", "N/A" and "null" are missing readings.
package sampleio

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/chrissnell/sieveanalysis/internal/gradation"
)

// SizeHeader heads the aperture column of a wide table
const SizeHeader = "size_mm"

// ErrFormat marks input that cannot be read as a sample table
var ErrFormat = errors.New("malformed sample file")

var absentTokens = map[string]bool{
	"":     true,
	"-":    true,
	"na":   true,
	"n/a":  true,
	"null": true,
}

// ParseTable converts wide table rows into samples. Rows may be listed
// coarsest first; samples always come out in ascending size order. Sample
// contents are not validated here so that a bad column only fails its own
// analysis.
func ParseTable(rows [][]string) ([]gradation.Sample, error) {
	rows = dropBlankRows(rows)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrFormat)
	}

	header := rows[0]
	if len(header) == 0 || !strings.EqualFold(strings.TrimSpace(header[0]), SizeHeader) {
		return nil, fmt.Errorf("%w: first column must be headed %q", ErrFormat, SizeHeader)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: no sample columns", ErrFormat)
	}

	type tableRow struct {
		size   float64
		values []gradation.Value
	}

	nSamples := len(header) - 1
	body := make([]tableRow, 0, len(rows)-1)

	for i, row := range rows[1:] {
		line := i + 2

		size, err := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: invalid size %q", ErrFormat, line, row[0])
		}

		values := make([]gradation.Value, nSamples)
		for j := 0; j < nSamples; j++ {
			cell := ""
			if j+1 < len(row) {
				cell = row[j+1]
			}
			v, err := parsePassing(cell)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d, column %q: %v", ErrFormat, line, header[j+1], err)
			}
			values[j] = v
		}

		body = append(body, tableRow{size: size, values: values})
	}

	sort.SliceStable(body, func(a, b int) bool {
		return body[a].size < body[b].size
	})

	samples := make([]gradation.Sample, nSamples)
	for j := range samples {
		name := strings.TrimSpace(header[j+1])
		if name == "" {
			name = fmt.Sprintf("sample %d", j+1)
		}

		sizes := make([]float64, len(body))
		values := make([]gradation.Value, len(body))
		for i, r := range body {
			sizes[i] = r.size
			values[i] = r.values[j]
		}

		samples[j] = gradation.Sample{Name: name, Sizes: sizes, Values: values}
	}

	return samples, nil
}

// parsePassing reads one passing percentage cell
func parsePassing(cell string) (gradation.Value, error) {
	s := strings.TrimSpace(cell)
	if absentTokens[strings.ToLower(s)] {
		return gradation.Absent, nil
	}

	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return gradation.Absent, fmt.Errorf("invalid passing value %q", cell)
	}
	return gradation.Present(v), nil
}

func dropBlankRows(rows [][]string) [][]string {
	out := rows[:0:0]
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}
