package interp

import (
	"errors"
	"math"
	"testing"
)

func TestParseKind(t *testing.T) {
	for _, s := range []string{"linear", "cubic", "nearest"} {
		k, err := ParseKind(s)
		if err != nil {
			t.Fatalf("ParseKind(%q) returned error: %v", s, err)
		}
		if string(k) != s {
			t.Errorf("ParseKind(%q) = %q", s, k)
		}
	}

	if _, err := ParseKind("quadratic"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		xs, ys  []float64
		wantErr error
	}{
		{
			name:    "single point",
			xs:      []float64{1},
			ys:      []float64{1},
			wantErr: ErrTooFewPoints,
		},
		{
			name:    "repeated x",
			xs:      []float64{1, 2, 2},
			ys:      []float64{1, 2, 3},
			wantErr: ErrNotIncreasing,
		},
		{
			name:    "decreasing x",
			xs:      []float64{3, 2, 1},
			ys:      []float64{1, 2, 3},
			wantErr: ErrNotIncreasing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Linear, tt.xs, tt.ys, false)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	if _, err := New(Linear, []float64{1, 2}, []float64{1}, false); err == nil {
		t.Error("expected error for mismatched lengths")
	}
}

func TestAt(t *testing.T) {
	tests := []struct {
		name        string
		kind        Kind
		xs, ys      []float64
		extrapolate bool
		x           float64
		want        float64
		wantOK      bool
	}{
		{"linear midpoint", Linear, []float64{0, 1, 2}, []float64{0, 10, 40}, false, 0.5, 5, true},
		{"linear second segment", Linear, []float64{0, 1, 2}, []float64{0, 10, 40}, false, 1.5, 25, true},
		{"linear knot", Linear, []float64{0, 1, 2}, []float64{0, 10, 40}, false, 2, 40, true},
		{"linear above span gated", Linear, []float64{0, 1, 2}, []float64{0, 10, 40}, false, 3, 0, false},
		{"linear below span gated", Linear, []float64{0, 1, 2}, []float64{0, 10, 40}, false, -1, 0, false},
		{"linear above span extrapolated", Linear, []float64{0, 1, 2}, []float64{0, 10, 40}, true, 3, 70, true},
		{"linear below span extrapolated", Linear, []float64{0, 1, 2}, []float64{0, 10, 40}, true, -1, -10, true},
		{"cubic on a line", Cubic, []float64{0, 1, 2, 3, 4}, []float64{1, 3, 5, 7, 9}, false, 2.5, 6, true},
		{"cubic extension on a line, right", Cubic, []float64{0, 1, 2, 3, 4}, []float64{1, 3, 5, 7, 9}, true, 5, 11, true},
		{"cubic extension on a line, left", Cubic, []float64{0, 1, 2, 3, 4}, []float64{1, 3, 5, 7, 9}, true, -1, -1, true},
		{"cubic gated", Cubic, []float64{0, 1, 2, 3, 4}, []float64{1, 3, 5, 7, 9}, false, 4.5, 0, false},
		{"nearest below midpoint", Nearest, []float64{0, 1, 2}, []float64{10, 20, 30}, false, 0.4, 10, true},
		{"nearest exact midpoint takes left", Nearest, []float64{0, 1, 2}, []float64{10, 20, 30}, false, 0.5, 10, true},
		{"nearest above midpoint", Nearest, []float64{0, 1, 2}, []float64{10, 20, 30}, false, 0.6, 20, true},
		{"nearest knot", Nearest, []float64{0, 1, 2}, []float64{10, 20, 30}, false, 2, 30, true},
		{"nearest clamps right", Nearest, []float64{0, 1, 2}, []float64{10, 20, 30}, true, 5, 30, true},
		{"nearest clamps left", Nearest, []float64{0, 1, 2}, []float64{10, 20, 30}, true, -5, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.kind, tt.xs, tt.ys, tt.extrapolate)
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}

			got, ok := f.At(tt.x)
			if ok != tt.wantOK {
				t.Fatalf("At(%g) ok = %v, want %v", tt.x, ok, tt.wantOK)
			}
			if ok && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("At(%g) = %.9f, want %.9f", tt.x, got, tt.want)
			}
		})
	}
}

func TestCubicInterpolatesKnots(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4, 5}
	ys := []float64{100, 92, 70, 41, 18, 5}

	f, err := New(Cubic, xs, ys, false)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if f.Kind() != Cubic {
		t.Fatalf("expected cubic kind, got %s", f.Kind())
	}

	for i, x := range xs {
		got, ok := f.At(x)
		if !ok {
			t.Fatalf("At(%g) undefined", x)
		}
		if math.Abs(got-ys[i]) > 1e-9 {
			t.Errorf("knot %d: got %.6f, want %.6f", i, got, ys[i])
		}
	}
}

func TestCubicExtensionIsContinuous(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4, 5}
	ys := []float64{100, 92, 70, 41, 18, 5}

	f, err := New(Cubic, xs, ys, true)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	const h = 1e-7
	for _, x := range []float64{0, 5} {
		inside, _ := f.At(x)
		var outside float64
		if x == 0 {
			outside, _ = f.At(x - h)
		} else {
			outside, _ = f.At(x + h)
		}
		if math.Abs(inside-outside) > 1e-4 {
			t.Errorf("discontinuity at %g: %.6f vs %.6f", x, inside, outside)
		}
	}
}

func TestCubicFallsBackToLinear(t *testing.T) {
	xs := []float64{0, 1, 2}
	ys := []float64{0, 10, 40}

	cubic, err := New(Cubic, xs, ys, true)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if cubic.Kind() != Linear {
		t.Fatalf("expected linear fallback, got %s", cubic.Kind())
	}

	linear, _ := New(Linear, xs, ys, true)
	for _, x := range []float64{-1, 0.25, 1.5, 2.5} {
		a, _ := cubic.At(x)
		b, _ := linear.At(x)
		if a != b {
			t.Errorf("At(%g): fallback %.6f != linear %.6f", x, a, b)
		}
	}
}

func TestInputIsCopied(t *testing.T) {
	xs := []float64{0, 1}
	ys := []float64{0, 10}

	f, err := New(Linear, xs, ys, false)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ys[1] = 1000

	if got, _ := f.At(1); got != 10 {
		t.Errorf("interpolant changed after caller mutated input: got %g", got)
	}
}
