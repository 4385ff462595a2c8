package restserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/chrissnell/sieveanalysis/internal/gradation"
)

// Error kinds reported per sample
const (
	errorKindInvalidSample    = "invalid_sample"
	errorKindInsufficientData = "insufficient_data"
	errorKindCancelled        = "cancelled"
	errorKindInternal         = "internal"
)

// transformSamples converts request samples into pipeline samples. Unnamed
// samples are numbered from 1.
func transformSamples(reqs []SampleRequest) []gradation.Sample {
	samples := make([]gradation.Sample, len(reqs))

	for i, r := range reqs {
		name := r.Name
		if name == "" {
			name = fmt.Sprintf("sample %d", i+1)
		}

		values := make([]gradation.Value, len(r.Values))
		for j, v := range r.Values {
			values[j] = gradation.FromPtr(v)
		}

		samples[i] = gradation.Sample{
			Name:   name,
			Sizes:  r.Sizes,
			Values: values,
		}
	}

	return samples
}

// transformReports converts batch reports to their JSON form
func transformReports(reports []gradation.SampleReport) []SampleResult {
	results := make([]SampleResult, 0, len(reports))
	for _, r := range reports {
		results = append(results, transformReport(r))
	}
	return results
}

func transformReport(r gradation.SampleReport) SampleResult {
	if r.Err != nil {
		return SampleResult{
			Name:      r.Name,
			Error:     r.Err.Error(),
			ErrorKind: errorKind(r.Err),
			Reasons:   []string{},
		}
	}

	rounded := r.Result.Rounded()
	reasons := rounded.Reasons
	if reasons == nil {
		reasons = []string{}
	}

	points := make([]PointResponse, len(r.Points))
	for i, p := range r.Points {
		points[i] = PointResponse{
			Size:   p.Size,
			Value:  p.Value.Ptr(),
			Filled: p.Filled,
		}
	}

	return SampleResult{
		Name:           r.Name,
		Classification: string(rounded.Classification),
		Label:          rounded.Classification.Label(),
		Reasons:        reasons,
		D10:            rounded.D10.Ptr(),
		D30:            rounded.D30.Ptr(),
		D60:            rounded.D60.Ptr(),
		Cu:             rounded.Cu.Ptr(),
		Cc:             rounded.Cc.Ptr(),
		Curve: &CurveResponse{
			X: nonNil(r.Curve.X),
			Y: nonNil(r.Curve.Y),
		},
		Points: points,
	}
}

func transformOptions(opts gradation.Options) OptionsResponse {
	return OptionsResponse{
		NullPolicy:         string(opts.NullPolicy),
		InterpKind:         string(opts.Kind),
		AllowExtrapolation: opts.AllowExtrapolation,
		CurvePoints:        opts.CurvePoints,
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, gradation.ErrInvalidSample):
		return errorKindInvalidSample
	case errors.Is(err, gradation.ErrInsufficientData):
		return errorKindInsufficientData
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return errorKindCancelled
	}
	return errorKindInternal
}

func nonNil(xs []float64) []float64 {
	if xs == nil {
		return []float64{}
	}
	return xs
}
