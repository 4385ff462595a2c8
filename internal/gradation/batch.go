package gradation

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// PointReport describes one original reading of a sample after null
// handling. Filled distinguishes interpolated markers from observed ones.
type PointReport struct {
	Size   float64
	Value  Value
	Filled bool
}

// SampleReport is the outcome of analyzing one sample. When Err is set the
// other fields beyond Name are zero.
type SampleReport struct {
	Name   string
	Series ResolvedSeries
	Curve  DenseCurve
	Result GradationResult
	Points []PointReport
	Err    error
}

// AnalyzeSample validates, resolves and analyzes a single sample
func AnalyzeSample(s Sample, opts Options) SampleReport {
	report := SampleReport{Name: s.Name}

	if err := s.Validate(); err != nil {
		report.Err = err
		return report
	}

	series, err := Resolve(s.Sizes, s.Values, opts.NullPolicy, opts.Kind, opts.AllowExtrapolation)
	if err != nil {
		report.Err = err
		return report
	}

	report.Series = series
	report.Curve, report.Result = Analyze(series, opts.Kind, opts.CurvePoints)
	report.Points = pointReports(s, series)

	return report
}

// AnalyzeSamples analyzes a batch concurrently. The reports are returned in
// input order, and a failing sample only affects its own report. Samples not
// yet started when ctx is cancelled report the context error.
func AnalyzeSamples(ctx context.Context, samples []Sample, opts Options) []SampleReport {
	reports := make([]SampleReport, len(samples))

	var g errgroup.Group
	g.SetLimit(opts.workers())

	for i := range samples {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				reports[i] = SampleReport{Name: samples[i].Name, Err: err}
				return nil
			}
			reports[i] = AnalyzeSample(samples[i], opts)
			return nil
		})
	}

	// workers never return errors; failures live in the reports
	_ = g.Wait()

	return reports
}

// pointReports maps the resolved series back onto the sample's original
// readings. Under PolicyIgnore the series is shorter and dropped readings are
// reported absent.
func pointReports(s Sample, series ResolvedSeries) []PointReport {
	points := make([]PointReport, len(s.Sizes))

	if series.Len() == len(s.Sizes) {
		for i := range s.Sizes {
			points[i] = PointReport{
				Size:   s.Sizes[i],
				Value:  series.Values[i],
				Filled: series.Filled[i],
			}
		}
		return points
	}

	for i := range s.Sizes {
		points[i] = PointReport{Size: s.Sizes[i], Value: s.Values[i]}
	}
	return points
}
