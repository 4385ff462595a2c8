package gradation

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidSample marks malformed input: mismatched lengths, sizes that
	// are not positive and strictly increasing, or readings outside [0,100].
	ErrInvalidSample = errors.New("invalid sample")

	// ErrInsufficientData is returned when interpolation is requested with
	// fewer than two observed readings.
	ErrInsufficientData = errors.New("insufficient data")
)

// Sample is one sieve test: passing percentages at a set of sieve sizes (mm)
type Sample struct {
	Name   string
	Sizes  []float64
	Values []Value
}

// NewSample validates the readings and returns a Sample that owns copies of them
func NewSample(name string, sizes []float64, values []Value) (Sample, error) {
	s := Sample{
		Name:   name,
		Sizes:  append([]float64(nil), sizes...),
		Values: append([]Value(nil), values...),
	}
	if err := s.Validate(); err != nil {
		return Sample{}, err
	}
	return s, nil
}

// Validate checks the sample invariants
func (s Sample) Validate() error {
	if len(s.Sizes) != len(s.Values) {
		return fmt.Errorf("%w: %d sizes but %d values", ErrInvalidSample, len(s.Sizes), len(s.Values))
	}
	if err := validateSizes(s.Sizes); err != nil {
		return err
	}

	for i, v := range s.Values {
		if !v.IsPresent() {
			continue
		}
		if !v.finite() {
			return fmt.Errorf("%w: value at %g mm is not a finite number", ErrInvalidSample, s.Sizes[i])
		}
		if p, _ := v.Float64(); p < 0 || p > 100 {
			return fmt.Errorf("%w: value %g at %g mm is outside 0-100", ErrInvalidSample, p, s.Sizes[i])
		}
	}

	return nil
}

// PresentCount returns the number of observed readings
func (s Sample) PresentCount() int {
	return countPresent(s.Values)
}

func validateSizes(sizes []float64) error {
	for i, size := range sizes {
		if math.IsNaN(size) || math.IsInf(size, 0) || size <= 0 {
			return fmt.Errorf("%w: sieve size %g must be a positive number", ErrInvalidSample, size)
		}
		if i > 0 && size <= sizes[i-1] {
			return fmt.Errorf("%w: sieve sizes must be strictly increasing (%g follows %g)", ErrInvalidSample, size, sizes[i-1])
		}
	}
	return nil
}

func countPresent(values []Value) int {
	n := 0
	for _, v := range values {
		if v.IsPresent() {
			n++
		}
	}
	return n
}
