package gradation

import (
	"math"
	"sort"

	"github.com/chrissnell/sieveanalysis/internal/interp"
	"gonum.org/v1/gonum/floats"
)

// DenseCurve is the interpolated gradation curve. X holds sizes in mm,
// geometrically spaced and ascending; Y holds passing percentages.
type DenseCurve struct {
	X []float64
	Y []float64
}

// Len returns the number of samples on the curve
func (c DenseCurve) Len() int {
	return len(c.X)
}

// Analyze builds the dense curve of a resolved series and derives the
// gradation result from it. Absent entries in the series are skipped.
// A series with fewer than two usable points yields a degenerate curve and
// an InsufficientData result; Analyze never fails.
func Analyze(series ResolvedSeries, kind interp.Kind, points int) (DenseCurve, GradationResult) {
	sizes, values := series.Points()

	if len(sizes) < 2 || sizes[0] == sizes[len(sizes)-1] {
		curve := DenseCurve{}
		if len(sizes) > 0 {
			curve.X = []float64{sizes[0]}
			curve.Y = []float64{values[0]}
		}
		return curve, insufficient()
	}

	curve, ok := denseCurve(sizes, values, kind, points)
	if !ok {
		return curve, insufficient()
	}

	inv := newInverse(curve)
	d10 := inv.at(10)
	d30 := inv.at(30)
	d60 := inv.at(60)

	return curve, Evaluate(d10, d30, d60)
}

// denseCurve samples an interpolant of passing% against log10(size) at
// points geometrically spaced sizes.
func denseCurve(sizes, values []float64, kind interp.Kind, points int) (DenseCurve, bool) {
	if points < MinCurvePoints {
		points = MinCurvePoints
	}

	logSizes := make([]float64, len(sizes))
	for i, s := range sizes {
		logSizes[i] = math.Log10(s)
	}

	f, err := interp.New(kind, logSizes, values, false)
	if err != nil {
		return DenseCurve{}, false
	}

	lo, hi := logSizes[0], logSizes[len(logSizes)-1]
	lx := floats.Span(make([]float64, points), lo, hi)
	// pin the ends so they land exactly on the outermost sieves
	lx[0], lx[points-1] = lo, hi

	curve := DenseCurve{
		X: make([]float64, points),
		Y: make([]float64, points),
	}
	for i, l := range lx {
		y, ok := f.At(l)
		if !ok {
			return DenseCurve{}, false
		}
		curve.X[i] = math.Pow(10, l)
		curve.Y[i] = y
	}
	curve.X[0], curve.X[points-1] = sizes[0], sizes[len(sizes)-1]

	return curve, true
}

// inverse maps a passing percentage back to a size by linear interpolation
// over the dense curve. It never extrapolates.
type inverse struct {
	f *interp.Interpolant
}

func newInverse(curve DenseCurve) inverse {
	idx := make([]int, curve.Len())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return curve.Y[idx[a]] < curve.Y[idx[b]]
	})

	ys := make([]float64, 0, len(idx))
	xs := make([]float64, 0, len(idx))
	for _, i := range idx {
		// flat stretches of the curve map one percentage to many sizes; keep the first
		if len(ys) > 0 && curve.Y[i] == ys[len(ys)-1] {
			continue
		}
		ys = append(ys, curve.Y[i])
		xs = append(xs, curve.X[i])
	}

	f, err := interp.New(interp.Linear, ys, xs, false)
	if err != nil {
		return inverse{}
	}
	return inverse{f: f}
}

func (inv inverse) at(percent float64) Value {
	if inv.f == nil {
		return Absent
	}
	size, ok := inv.f.At(percent)
	if !ok {
		return Absent
	}
	return Present(size)
}
