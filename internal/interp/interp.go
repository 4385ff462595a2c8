// Package interp builds one-dimensional interpolants over strictly increasing
// abscissae. Linear and natural cubic interpolation are backed by gonum; the
// nearest-neighbour step and the out-of-span extensions are handled here.
package interp

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/interp"
)

// Kind selects the interpolation scheme
type Kind string

const (
	// Linear is piecewise-linear interpolation
	Linear Kind = "linear"

	// Cubic is a natural cubic spline (zero second derivative at both ends)
	Cubic Kind = "cubic"

	// Nearest is a nearest-neighbour step function
	Nearest Kind = "nearest"
)

// MinCubicPoints is the fewest points a cubic spline is fitted to.
// Below this the interpolant falls back to Linear.
const MinCubicPoints = 4

var (
	// ErrTooFewPoints is returned when fewer than two points are supplied
	ErrTooFewPoints = errors.New("interp: at least two points are required")

	// ErrNotIncreasing is returned when the abscissae are not strictly increasing
	ErrNotIncreasing = errors.New("interp: x values must be strictly increasing")
)

// ParseKind converts a configuration string into a Kind
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case Linear, Cubic, Nearest:
		return k, nil
	}
	return "", fmt.Errorf("unknown interpolation kind %q (want linear, cubic or nearest)", s)
}

// Interpolant evaluates an interpolating function built from (x, y) pairs.
// It is immutable after construction and safe for concurrent use.
type Interpolant struct {
	kind        Kind
	xs          []float64
	ys          []float64
	extrapolate bool
	predictor   interp.Predictor
	left        edge
	right       edge
}

// New fits an interpolant of the requested kind. A cubic request with fewer
// than MinCubicPoints points is served by a linear interpolant instead.
// The input slices are copied.
func New(kind Kind, xs, ys []float64, extrapolate bool) (*Interpolant, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("interp: %d x values but %d y values", len(xs), len(ys))
	}
	if len(xs) < 2 {
		return nil, ErrTooFewPoints
	}
	for i := 1; i < len(xs); i++ {
		if !(xs[i] > xs[i-1]) {
			return nil, fmt.Errorf("%w (x[%d]=%g, x[%d]=%g)", ErrNotIncreasing, i-1, xs[i-1], i, xs[i])
		}
	}

	if kind == Cubic && len(xs) < MinCubicPoints {
		kind = Linear
	}

	f := &Interpolant{
		kind:        kind,
		xs:          append([]float64(nil), xs...),
		ys:          append([]float64(nil), ys...),
		extrapolate: extrapolate,
	}

	switch kind {
	case Linear:
		var pl interp.PiecewiseLinear
		if err := pl.Fit(f.xs, f.ys); err != nil {
			return nil, fmt.Errorf("interp: fitting linear interpolant: %w", err)
		}
		f.predictor = &pl
		f.left = linearEdge(f.xs[0], f.ys[0], f.xs[1], f.ys[1])
		n := len(f.xs)
		f.right = linearEdge(f.xs[n-2], f.ys[n-2], f.xs[n-1], f.ys[n-1])
	case Cubic:
		nc := &interp.NaturalCubic{}
		if err := nc.Fit(f.xs, f.ys); err != nil {
			return nil, fmt.Errorf("interp: fitting cubic spline: %w", err)
		}
		f.predictor = nc
		n := len(f.xs)
		f.left = cubicEdge(nc, f.xs[0], f.xs[1])
		f.right = cubicEdge(nc, f.xs[n-2], f.xs[n-1])
	case Nearest:
		n := len(f.xs)
		f.left = constantEdge(f.ys[0])
		f.right = constantEdge(f.ys[n-1])
	default:
		return nil, fmt.Errorf("unknown interpolation kind %q", kind)
	}

	return f, nil
}

// Kind reports the scheme actually in use, after any cubic fallback
func (f *Interpolant) Kind() Kind {
	return f.kind
}

// Span returns the smallest and largest abscissa the interpolant was fitted to
func (f *Interpolant) Span() (lo, hi float64) {
	return f.xs[0], f.xs[len(f.xs)-1]
}

// Contains reports whether x lies inside the fitted span (inclusive)
func (f *Interpolant) Contains(x float64) bool {
	lo, hi := f.Span()
	return x >= lo && x <= hi
}

// At evaluates the interpolant at x. Outside the fitted span the result is
// only defined when the interpolant was built with extrapolation enabled;
// otherwise ok is false.
func (f *Interpolant) At(x float64) (y float64, ok bool) {
	if math.IsNaN(x) {
		return 0, false
	}

	lo, hi := f.Span()
	switch {
	case x < lo:
		if !f.extrapolate {
			return 0, false
		}
		return f.left.eval(x), true
	case x > hi:
		if !f.extrapolate {
			return 0, false
		}
		return f.right.eval(x), true
	}

	if f.kind == Nearest {
		return f.nearest(x), true
	}
	return f.predictor.Predict(x), true
}

// nearest returns the y value of the closest knot. At an exact midpoint the
// left knot wins.
func (f *Interpolant) nearest(x float64) float64 {
	i := sort.SearchFloat64s(f.xs, x)
	if i == 0 {
		return f.ys[0]
	}
	if i == len(f.xs) {
		return f.ys[len(f.ys)-1]
	}
	if x-f.xs[i-1] <= f.xs[i]-x {
		return f.ys[i-1]
	}
	return f.ys[i]
}
