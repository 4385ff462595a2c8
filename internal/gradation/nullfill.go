package gradation

import (
	"fmt"
	"math"

	"github.com/chrissnell/sieveanalysis/internal/interp"
)

// ResolvedSeries is a sample's readings after missing values were handled.
// Filled[i] is true when Values[i] was produced by the null filler rather
// than observed. Values may still hold absent entries when interpolation
// without extrapolation could not reach them.
type ResolvedSeries struct {
	Sizes  []float64
	Values []Value
	Filled []bool
}

// Len returns the number of points in the series
func (r ResolvedSeries) Len() int {
	return len(r.Sizes)
}

// Points returns the sizes and values of the present entries
func (r ResolvedSeries) Points() (sizes, values []float64) {
	for i, v := range r.Values {
		if p, ok := v.Float64(); ok {
			sizes = append(sizes, r.Sizes[i])
			values = append(values, p)
		}
	}
	return sizes, values
}

// Resolve applies a null policy to a sample's readings.
//
// Under PolicyInterpolate the interpolant runs against log10(size), the same
// axis the gradation curve is drawn on. Filled values are clamped to 0-100.
// It returns ErrInsufficientData when fewer than two readings are observed.
func Resolve(sizes []float64, values []Value, policy NullPolicy, kind interp.Kind, allowExtrapolation bool) (ResolvedSeries, error) {
	if len(sizes) != len(values) {
		return ResolvedSeries{}, fmt.Errorf("%w: %d sizes but %d values", ErrInvalidSample, len(sizes), len(values))
	}

	switch policy {
	case PolicyZero:
		return resolveZero(sizes, values), nil
	case PolicyIgnore:
		return resolveIgnore(sizes, values), nil
	case PolicyInterpolate:
		return resolveInterpolate(sizes, values, kind, allowExtrapolation)
	}

	return ResolvedSeries{}, fmt.Errorf("unknown null policy %q", policy)
}

func resolveZero(sizes []float64, values []Value) ResolvedSeries {
	out := ResolvedSeries{
		Sizes:  append([]float64(nil), sizes...),
		Values: make([]Value, len(values)),
		Filled: make([]bool, len(values)),
	}
	for i, v := range values {
		if v.IsPresent() {
			out.Values[i] = v
			continue
		}
		out.Values[i] = Present(0)
		out.Filled[i] = true
	}
	return out
}

func resolveIgnore(sizes []float64, values []Value) ResolvedSeries {
	n := countPresent(values)
	out := ResolvedSeries{
		Sizes:  make([]float64, 0, n),
		Values: make([]Value, 0, n),
		Filled: make([]bool, n),
	}
	for i, v := range values {
		if v.IsPresent() {
			out.Sizes = append(out.Sizes, sizes[i])
			out.Values = append(out.Values, v)
		}
	}
	return out
}

func resolveInterpolate(sizes []float64, values []Value, kind interp.Kind, allowExtrapolation bool) (ResolvedSeries, error) {
	n := countPresent(values)
	if n < 2 {
		return ResolvedSeries{}, fmt.Errorf("%w: interpolation needs at least 2 observed values, have %d", ErrInsufficientData, n)
	}

	out := ResolvedSeries{
		Sizes:  append([]float64(nil), sizes...),
		Values: append([]Value(nil), values...),
		Filled: make([]bool, len(values)),
	}
	if n == len(values) {
		return out, nil
	}

	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i, v := range values {
		if p, ok := v.Float64(); ok {
			xs = append(xs, math.Log10(sizes[i]))
			ys = append(ys, p)
		}
	}

	f, err := interp.New(kind, xs, ys, allowExtrapolation)
	if err != nil {
		return ResolvedSeries{}, fmt.Errorf("%w: %v", ErrInvalidSample, err)
	}

	for i, v := range values {
		if v.IsPresent() {
			continue
		}
		filled, ok := f.At(math.Log10(sizes[i]))
		if !ok {
			// out of span without extrapolation: left absent
			continue
		}
		out.Values[i] = Present(clampPercent(filled))
		out.Filled[i] = true
	}

	return out, nil
}

func clampPercent(p float64) float64 {
	return math.Max(0, math.Min(100, p))
}
