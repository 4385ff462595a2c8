package gradation

import (
	"errors"
	"math"
	"testing"

	"github.com/chrissnell/sieveanalysis/internal/interp"
)

var (
	p  = Present
	na = Absent
)

// scenarioSizes and scenarioValues are a fine aggregate with two unweighed sieves
var (
	scenarioSizes  = []float64{0.6, 1.18, 2.36, 4.75, 10.0, 20.0, 40.0}
	scenarioValues = []Value{p(100), p(98.8), p(76.2), na, p(22), na, p(10)}
)

func logLerp(x, x0, y0, x1, y1 float64) float64 {
	t := (math.Log10(x) - math.Log10(x0)) / (math.Log10(x1) - math.Log10(x0))
	return y0 + t*(y1-y0)
}

func TestResolveFullyObservedIsUnchanged(t *testing.T) {
	sizes := []float64{0.3, 0.6, 1.18, 2.36, 4.75}
	values := []Value{p(5), p(18), p(40), p(72), p(95)}

	for _, policy := range []NullPolicy{PolicyInterpolate, PolicyIgnore, PolicyZero} {
		for _, kind := range []interp.Kind{interp.Linear, interp.Cubic, interp.Nearest} {
			series, err := Resolve(sizes, values, policy, kind, false)
			if err != nil {
				t.Fatalf("%s/%s: unexpected error: %v", policy, kind, err)
			}
			if series.Len() != len(values) {
				t.Fatalf("%s/%s: length %d, want %d", policy, kind, series.Len(), len(values))
			}
			for i := range values {
				if series.Values[i] != values[i] {
					t.Errorf("%s/%s: value %d changed: %v -> %v", policy, kind, i, values[i], series.Values[i])
				}
				if series.Sizes[i] != sizes[i] {
					t.Errorf("%s/%s: size %d changed", policy, kind, i)
				}
				if series.Filled[i] {
					t.Errorf("%s/%s: point %d marked filled", policy, kind, i)
				}
			}
		}
	}
}

func TestResolveZero(t *testing.T) {
	tests := []struct {
		name   string
		values []Value
	}{
		{"some absent", []Value{na, p(20), na, p(80)}},
		{"all absent", []Value{na, na, na, na}},
		{"single observed", []Value{na, na, p(50), na}},
	}

	sizes := []float64{0.15, 0.3, 0.6, 1.18}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series, err := Resolve(sizes, tt.values, PolicyZero, interp.Linear, false)
			if err != nil {
				t.Fatalf("zero policy failed: %v", err)
			}
			if series.Len() != len(sizes) {
				t.Fatalf("length %d, want %d", series.Len(), len(sizes))
			}
			for i, v := range series.Values {
				got, ok := v.Float64()
				if !ok {
					t.Fatalf("point %d still absent", i)
				}
				if tt.values[i].IsPresent() {
					want, _ := tt.values[i].Float64()
					if got != want || series.Filled[i] {
						t.Errorf("point %d: got %g filled=%v, want observed %g", i, got, series.Filled[i], want)
					}
					continue
				}
				if got != 0 || !series.Filled[i] {
					t.Errorf("point %d: got %g filled=%v, want filled 0", i, got, series.Filled[i])
				}
			}
		})
	}
}

func TestResolveIgnore(t *testing.T) {
	sizes := []float64{0.15, 0.3, 0.6, 1.18, 2.36}
	values := []Value{na, p(20), na, p(80), p(95)}

	series, err := Resolve(sizes, values, PolicyIgnore, interp.Cubic, true)
	if err != nil {
		t.Fatalf("ignore policy failed: %v", err)
	}

	wantSizes := []float64{0.3, 1.18, 2.36}
	wantValues := []float64{20, 80, 95}
	if series.Len() != len(wantSizes) || len(series.Filled) != len(wantSizes) {
		t.Fatalf("length %d/%d, want %d", series.Len(), len(series.Filled), len(wantSizes))
	}
	for i := range wantSizes {
		got, _ := series.Values[i].Float64()
		if series.Sizes[i] != wantSizes[i] || got != wantValues[i] {
			t.Errorf("point %d: got (%g, %g), want (%g, %g)", i, series.Sizes[i], got, wantSizes[i], wantValues[i])
		}
		if series.Filled[i] {
			t.Errorf("point %d marked filled", i)
		}
	}
}

func TestResolveInterpolateScenario(t *testing.T) {
	series, err := Resolve(scenarioSizes, scenarioValues, PolicyInterpolate, interp.Linear, false)
	if err != nil {
		t.Fatalf("interpolate failed: %v", err)
	}

	want475 := logLerp(4.75, 2.36, 76.2, 10, 22)
	want20 := logLerp(20, 10, 22, 40, 10)

	checks := map[int]float64{3: want475, 5: want20}
	for i, want := range checks {
		got, ok := series.Values[i].Float64()
		if !ok {
			t.Fatalf("point %d not filled", i)
		}
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("point %d: got %.6f, want %.6f", i, got, want)
		}
		if !series.Filled[i] {
			t.Errorf("point %d not marked filled", i)
		}
	}

	if math.Abs(want20-16) > 1e-9 {
		t.Errorf("20 mm should sit halfway between 10 and 40 mm on a log axis, got %.6f", want20)
	}

	for i, filled := range series.Filled {
		if _, isFill := checks[i]; !isFill && filled {
			t.Errorf("observed point %d marked filled", i)
		}
	}
}

func TestResolveExtrapolationGating(t *testing.T) {
	sizes := []float64{0.6, 1.18, 2.36, 4.75}
	values := []Value{p(90), p(60), p(40), na}

	gated, err := Resolve(sizes, values, PolicyInterpolate, interp.Linear, false)
	if err != nil {
		t.Fatalf("interpolate failed: %v", err)
	}
	if gated.Values[3].IsPresent() {
		t.Errorf("out-of-span value filled without extrapolation: %v", gated.Values[3])
	}
	if gated.Filled[3] {
		t.Error("unfilled point marked filled")
	}

	extrapolated, err := Resolve(sizes, values, PolicyInterpolate, interp.Linear, true)
	if err != nil {
		t.Fatalf("interpolate failed: %v", err)
	}
	got, ok := extrapolated.Values[3].Float64()
	if !ok {
		t.Fatal("out-of-span value not filled with extrapolation enabled")
	}
	want := 40 + (math.Log10(4.75)-math.Log10(2.36))*(40-60)/(math.Log10(2.36)-math.Log10(1.18))
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("extrapolated %.6f, want %.6f", got, want)
	}
	if !extrapolated.Filled[3] {
		t.Error("extrapolated point not marked filled")
	}
}

func TestResolveExtrapolationClampsToPercentRange(t *testing.T) {
	sizes := []float64{0.6, 1.18, 2.36, 4.75}
	values := []Value{na, p(90), p(60), p(30)}

	series, err := Resolve(sizes, values, PolicyInterpolate, interp.Linear, true)
	if err != nil {
		t.Fatalf("interpolate failed: %v", err)
	}
	if got, _ := series.Values[0].Float64(); got != 100 {
		t.Errorf("expected extrapolated value clamped to 100, got %g", got)
	}
}

func TestResolveInterpolateNearest(t *testing.T) {
	sizes := []float64{1, 2.5, 4, 8}
	values := []Value{p(10), na, p(50), p(90)}

	series, err := Resolve(sizes, values, PolicyInterpolate, interp.Nearest, false)
	if err != nil {
		t.Fatalf("interpolate failed: %v", err)
	}
	if got, _ := series.Values[1].Float64(); got != 50 {
		t.Errorf("nearest fill: got %g, want 50", got)
	}
}

func TestResolveCubicFallsBackWithFewPoints(t *testing.T) {
	sizes := []float64{0.3, 0.6, 1.18, 2.36}
	values := []Value{p(10), na, p(50), p(90)}

	cubic, err := Resolve(sizes, values, PolicyInterpolate, interp.Cubic, false)
	if err != nil {
		t.Fatalf("cubic resolve failed: %v", err)
	}
	linear, err := Resolve(sizes, values, PolicyInterpolate, interp.Linear, false)
	if err != nil {
		t.Fatalf("linear resolve failed: %v", err)
	}
	if cubic.Values[1] != linear.Values[1] {
		t.Errorf("cubic with 3 observed points should match linear: %v vs %v", cubic.Values[1], linear.Values[1])
	}
}

func TestResolveInsufficientData(t *testing.T) {
	sizes := []float64{0.3, 0.6, 1.18, 2.36}
	values := []Value{na, p(40), na, na}

	_, err := Resolve(sizes, values, PolicyInterpolate, interp.Linear, true)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}

	if _, err := Resolve(sizes, values, PolicyZero, interp.Linear, true); err != nil {
		t.Errorf("zero policy should succeed on the same sample: %v", err)
	}
}

func TestResolveRejectsBadInput(t *testing.T) {
	if _, err := Resolve([]float64{1, 2}, []Value{p(1)}, PolicyZero, interp.Linear, false); !errors.Is(err, ErrInvalidSample) {
		t.Errorf("expected ErrInvalidSample for mismatched lengths, got %v", err)
	}
	if _, err := Resolve([]float64{1, 2}, []Value{p(1), p(2)}, NullPolicy("drop"), interp.Linear, false); err == nil {
		t.Error("expected error for unknown policy")
	}
}
