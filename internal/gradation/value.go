package gradation

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats/scalar"
)

// Value is a float64 that may be absent. It is used both for lab readings
// (a sieve that was not weighed) and for derived quantities that cannot be
// computed (a D-value outside the measured range). Absence is carried by an
// explicit flag and never by NaN.
type Value struct {
	v  float64
	ok bool
}

// Absent is the missing value
var Absent = Value{}

// Present wraps a known value
func Present(v float64) Value {
	return Value{v: v, ok: true}
}

// FromPtr converts a nullable pointer, as decoded from JSON or YAML, into a Value
func FromPtr(p *float64) Value {
	if p == nil {
		return Absent
	}
	return Present(*p)
}

// Float64 returns the value and whether it is present
func (x Value) Float64() (float64, bool) {
	return x.v, x.ok
}

// IsPresent reports whether the value is known
func (x Value) IsPresent() bool {
	return x.ok
}

// Ptr returns a pointer to a copy of the value, or nil when absent
func (x Value) Ptr() *float64 {
	if !x.ok {
		return nil
	}
	v := x.v
	return &v
}

// Round rounds a present value to prec decimal places
func (x Value) Round(prec int) Value {
	if !x.ok {
		return x
	}
	return Present(scalar.Round(x.v, prec))
}

// Format renders the value with prec decimals, or "N/A" when absent
func (x Value) Format(prec int) string {
	if !x.ok {
		return "N/A"
	}
	return strconv.FormatFloat(x.v, 'f', prec, 64)
}

func (x Value) finite() bool {
	return x.ok && !math.IsNaN(x.v) && !math.IsInf(x.v, 0)
}
