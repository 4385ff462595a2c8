// Package sieve provides the reference sieve series used for gradation tests.
package sieve

import (
	"math"
	"strconv"
)

// IS standard sieve apertures in millimetres, ascending
var referenceSizes = [...]float64{0.075, 0.15, 0.3, 0.6, 1.18, 2.36, 4.75, 10.0, 20.0, 40.0, 53.0}

// Sieve is one aperture of the reference series
type Sieve struct {
	SizeMM      float64 `json:"size_mm"`
	Designation string  `json:"designation"`
}

// ReferenceSizes returns a fresh copy of the reference apertures in mm
func ReferenceSizes() []float64 {
	return append([]float64(nil), referenceSizes[:]...)
}

// Reference returns the reference series with printable designations
func Reference() []Sieve {
	sieves := make([]Sieve, len(referenceSizes))
	for i, size := range referenceSizes {
		sieves[i] = Sieve{SizeMM: size, Designation: Designation(size)}
	}
	return sieves
}

// Designation formats an aperture the way sieves are labelled: microns below
// 1 mm ("75 µm", "600 µm"), millimetres otherwise ("1.18 mm", "20 mm").
func Designation(sizeMM float64) string {
	if sizeMM < 1 {
		microns := math.Round(sizeMM*1e6) / 1e3
		return strconv.FormatFloat(microns, 'f', -1, 64) + " µm"
	}
	return strconv.FormatFloat(sizeMM, 'f', -1, 64) + " mm"
}
