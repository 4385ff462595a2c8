package gradation

import (
	"fmt"
	"runtime"

	"github.com/chrissnell/sieveanalysis/internal/interp"
)

// NullPolicy selects how missing readings are resolved
type NullPolicy string

const (
	// PolicyInterpolate fills missing readings from an interpolant of the observed ones
	PolicyInterpolate NullPolicy = "interpolate"

	// PolicyIgnore drops missing readings
	PolicyIgnore NullPolicy = "ignore"

	// PolicyZero treats missing readings as 0% passing
	PolicyZero NullPolicy = "zero"
)

const (
	// DefaultCurvePoints is the default resolution of the dense curve
	DefaultCurvePoints = 300

	// MinCurvePoints is the lowest accepted dense curve resolution
	MinCurvePoints = 100
)

// ParseNullPolicy converts a configuration string into a NullPolicy
func ParseNullPolicy(s string) (NullPolicy, error) {
	switch p := NullPolicy(s); p {
	case PolicyInterpolate, PolicyIgnore, PolicyZero:
		return p, nil
	}
	return "", fmt.Errorf("unknown null policy %q (want interpolate, ignore or zero)", s)
}

// Options controls one analysis run
type Options struct {
	// NullPolicy resolves missing readings
	NullPolicy NullPolicy

	// Kind is used for both null filling and the dense curve
	Kind interp.Kind

	// AllowExtrapolation lets the null filler fill readings outside the
	// span of observed sizes
	AllowExtrapolation bool

	// CurvePoints is the number of dense curve samples
	CurvePoints int

	// Workers bounds batch concurrency; 0 means GOMAXPROCS
	Workers int
}

// DefaultOptions returns the settings used when nothing is configured
func DefaultOptions() Options {
	return Options{
		NullPolicy:         PolicyInterpolate,
		Kind:               interp.Cubic,
		AllowExtrapolation: false,
		CurvePoints:        DefaultCurvePoints,
	}
}

// Validate rejects unknown policies and kinds and too coarse curves
func (o Options) Validate() error {
	if _, err := ParseNullPolicy(string(o.NullPolicy)); err != nil {
		return err
	}
	if _, err := interp.ParseKind(string(o.Kind)); err != nil {
		return err
	}
	if o.CurvePoints < MinCurvePoints {
		return fmt.Errorf("curve points must be at least %d, got %d", MinCurvePoints, o.CurvePoints)
	}
	if o.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", o.Workers)
	}
	return nil
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}
