package sampleio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/chrissnell/sieveanalysis/internal/gradation"
	"github.com/tealeg/xlsx/v2"
)

// ReportHeader names the report columns
var ReportHeader = []string{"sample", "d10_mm", "d30_mm", "d60_mm", "cu", "cc", "classification", "reasons", "error"}

// ReportRow renders one report with presentation rounding. Undefined values
// print as N/A.
func ReportRow(r gradation.SampleReport) []string {
	if r.Err != nil {
		return []string{r.Name, "", "", "", "", "", "", "", r.Err.Error()}
	}

	res := r.Result.Rounded()
	return []string{
		r.Name,
		res.D10.Format(3),
		res.D30.Format(3),
		res.D60.Format(3),
		res.Cu.Format(2),
		res.Cc.Format(2),
		res.Classification.Label(),
		strings.Join(res.Reasons, "; "),
		"",
	}
}

// WriteCSV writes one row per report after a header row
func WriteCSV(w io.Writer, reports []gradation.SampleReport) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(ReportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range reports {
		if err := writer.Write(ReportRow(r)); err != nil {
			return fmt.Errorf("failed to write %s: %w", r.Name, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteXLSX saves the reports as a workbook with a summary sheet and a
// curve sheet per analyzed sample
func WriteXLSX(path string, reports []gradation.SampleReport) error {
	f := xlsx.NewFile()

	summary, err := f.AddSheet("summary")
	if err != nil {
		return fmt.Errorf("xlsx: add summary sheet: %w", err)
	}
	addRow(summary, ReportHeader)
	for _, r := range reports {
		addRow(summary, ReportRow(r))
	}

	used := map[string]bool{"summary": true}
	for i, r := range reports {
		if r.Err != nil || r.Curve.Len() == 0 {
			continue
		}

		sheet, err := f.AddSheet(curveSheetName(r.Name, i, used))
		if err != nil {
			return fmt.Errorf("xlsx: add curve sheet for %s: %w", r.Name, err)
		}

		header := sheet.AddRow()
		header.AddCell().SetString("size_mm")
		header.AddCell().SetString("passing_pct")
		for k := range r.Curve.X {
			row := sheet.AddRow()
			row.AddCell().SetFloat(r.Curve.X[k])
			row.AddCell().SetFloat(r.Curve.Y[k])
		}
	}

	if err := f.Save(path); err != nil {
		return fmt.Errorf("xlsx: save %s: %w", path, err)
	}
	return nil
}

func addRow(sheet *xlsx.Sheet, cells []string) {
	row := sheet.AddRow()
	for _, c := range cells {
		row.AddCell().SetString(c)
	}
}

// curveSheetName derives a unique sheet name within the 31 character limit
// and without the characters workbooks reject
func curveSheetName(name string, index int, used map[string]bool) string {
	clean := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, name)

	base := "curve " + clean
	if len([]rune(base)) > 31 {
		base = string([]rune(base)[:31])
	}

	candidate := base
	if used[candidate] || strings.TrimSpace(clean) == "" {
		candidate = fmt.Sprintf("curve %d", index+1)
	}
	used[candidate] = true
	return candidate
}
