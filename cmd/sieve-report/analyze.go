package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/chrissnell/sieveanalysis/internal/gradation"
	"github.com/chrissnell/sieveanalysis/internal/interp"
	"github.com/chrissnell/sieveanalysis/internal/log"
	"github.com/chrissnell/sieveanalysis/internal/sampleio"
	"github.com/chrissnell/sieveanalysis/pkg/config"
)

var (
	analyzeInput       string
	analyzeSheet       string
	analyzeConfig      string
	analyzePolicy      string
	analyzeKind        string
	analyzeExtrapolate bool
	analyzePoints      int
	analyzeWorkers     int
	analyzeCSV         string
	analyzeXLSX        string
	analyzeJSON        bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze every sample in a lab sheet",
	Long: `Reads a sample file and prints D10, D30, D60, Cu, Cc and the gradation
class of each sample.

Input files are wide tables (CSV or XLSX) whose first column is size_mm and
whose other columns are percent passing per sample, or YAML/JSON lists of
{name, sizes, values}.

Examples:
  # Print the report for a CSV sheet
  sieve-report analyze --input lab.csv

  # Linear curves, export the summary and per-sample curves to a workbook
  sieve-report analyze --input lab.xlsx --sheet "Batch 7" --kind linear --xlsx report.xlsx`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts, err := analyzeOptions(cmd)
		if err != nil {
			return err
		}

		samples, err := sampleio.ReadFile(analyzeInput, sampleio.ReadOptions{Sheet: analyzeSheet})
		if err != nil {
			return fmt.Errorf("analyze: %w", err)
		}
		log.Infow("read samples", "input", analyzeInput, "samples", len(samples))

		start := time.Now()
		reports := gradation.AnalyzeSamples(cmd.Context(), samples, opts)
		log.Infow("analyzed samples", "samples", len(reports), "duration", time.Since(start))

		out := cmd.OutOrStdout()
		if analyzeJSON {
			err = writeReportJSON(out, reports)
		} else {
			formatReports(out, reports)
		}
		if err != nil {
			return err
		}

		if analyzeCSV != "" {
			if err := exportCSV(analyzeCSV, reports); err != nil {
				return err
			}
			log.Infof("wrote CSV report to %s", analyzeCSV)
		}
		if analyzeXLSX != "" {
			if err := sampleio.WriteXLSX(analyzeXLSX, reports); err != nil {
				return fmt.Errorf("analyze: %w", err)
			}
			log.Infof("wrote XLSX report to %s", analyzeXLSX)
		}

		return nil
	},
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVarP(&analyzeInput, "input", "i", "", "sample file (.csv, .xlsx, .yaml, .yml, .json)")
	f.StringVar(&analyzeSheet, "sheet", "", "XLSX sheet name (default: first sheet)")
	f.StringVar(&analyzeConfig, "config", "", "YAML config whose analysis section supplies defaults")
	f.StringVar(&analyzePolicy, "policy", "", "null policy: interpolate, ignore or zero")
	f.StringVar(&analyzeKind, "kind", "", "interpolation kind: linear, cubic or nearest")
	f.BoolVar(&analyzeExtrapolate, "extrapolate", false, "fill missing readings outside the observed sizes")
	f.IntVar(&analyzePoints, "points", 0, "dense curve resolution")
	f.IntVar(&analyzeWorkers, "workers", 0, "parallel samples (default: GOMAXPROCS)")
	f.StringVar(&analyzeCSV, "csv", "", "also write the report rows to this CSV file")
	f.StringVar(&analyzeXLSX, "xlsx", "", "also write the report and curves to this XLSX file")
	f.BoolVar(&analyzeJSON, "json", false, "print the report as JSON")
	_ = analyzeCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(analyzeCmd)
}

// analyzeOptions starts from the config file (or the built-in defaults) and
// applies the flags the user actually set
func analyzeOptions(cmd *cobra.Command) (gradation.Options, error) {
	opts := gradation.DefaultOptions()

	if analyzeConfig != "" {
		provider := config.NewYAMLProvider(analyzeConfig)
		defer provider.Close()

		ac, err := provider.GetAnalysisConfig()
		if err != nil {
			return gradation.Options{}, fmt.Errorf("load config: %w", err)
		}
		if opts, err = ac.Options(); err != nil {
			return gradation.Options{}, fmt.Errorf("load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("policy") {
		policy, err := gradation.ParseNullPolicy(analyzePolicy)
		if err != nil {
			return gradation.Options{}, err
		}
		opts.NullPolicy = policy
	}
	if flags.Changed("kind") {
		kind, err := interp.ParseKind(analyzeKind)
		if err != nil {
			return gradation.Options{}, err
		}
		opts.Kind = kind
	}
	if flags.Changed("extrapolate") {
		opts.AllowExtrapolation = analyzeExtrapolate
	}
	if flags.Changed("points") {
		opts.CurvePoints = analyzePoints
	}
	if flags.Changed("workers") {
		opts.Workers = analyzeWorkers
	}

	return opts, opts.Validate()
}

// formatReports writes one row per sample followed by the grading criteria
func formatReports(out io.Writer, reports []gradation.SampleReport) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	header := make([]string, len(sampleio.ReportHeader))
	rule := make([]string, len(sampleio.ReportHeader))
	for i, h := range sampleio.ReportHeader {
		header[i] = strings.ToUpper(h)
		rule[i] = strings.Repeat("-", len(h))
	}
	_, _ = fmt.Fprintln(w, strings.Join(header, "\t"))
	_, _ = fmt.Fprintln(w, strings.Join(rule, "\t"))

	for _, r := range reports {
		_, _ = fmt.Fprintln(w, strings.Join(sampleio.ReportRow(r), "\t"))
	}
	_ = w.Flush()

	_, _ = fmt.Fprintf(out, "\n%s\n", gradation.GradingCriteria)
}

// reportJSON is the machine readable form of one report row
type reportJSON struct {
	Name           string   `json:"name"`
	D10            *float64 `json:"d10"`
	D30            *float64 `json:"d30"`
	D60            *float64 `json:"d60"`
	Cu             *float64 `json:"cu"`
	Cc             *float64 `json:"cc"`
	Classification string   `json:"classification,omitempty"`
	Reasons        []string `json:"reasons,omitempty"`
	Error          string   `json:"error,omitempty"`
}

func writeReportJSON(out io.Writer, reports []gradation.SampleReport) error {
	rows := make([]reportJSON, len(reports))
	for i, r := range reports {
		if r.Err != nil {
			rows[i] = reportJSON{Name: r.Name, Error: r.Err.Error()}
			continue
		}
		res := r.Result.Rounded()
		rows[i] = reportJSON{
			Name:           r.Name,
			D10:            res.D10.Ptr(),
			D30:            res.D30.Ptr(),
			D60:            res.D60.Ptr(),
			Cu:             res.Cu.Ptr(),
			Cc:             res.Cc.Ptr(),
			Classification: string(res.Classification),
			Reasons:        res.Reasons,
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func exportCSV(path string, reports []gradation.SampleReport) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("analyze: %w", cerr)
		}
	}()

	if err := sampleio.WriteCSV(f, reports); err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	return nil
}
