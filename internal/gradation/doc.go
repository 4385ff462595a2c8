// Package gradation turns sieve test readings into a particle-size
// distribution analysis.
//
// A Sample holds passing percentages at increasing sieve sizes, some of which
// may be absent. Resolve fills or drops the absent readings according to a
// NullPolicy. Analyze samples an interpolant of passing% against log10(size)
// to produce a dense curve, reads the characteristic diameters D10, D30 and
// D60 off that curve and derives the uniformity (Cu) and curvature (Cc)
// coefficients used to classify the sample as well or poorly graded.
//
// Computations that cannot produce a number (a target percentage outside the
// measured range, too few points) yield Absent values and an
// InsufficientData classification. Only malformed input is an error.
package gradation
