package gradation

// Classification is the gradation verdict for a sample
type Classification string

const (
	WellGraded       Classification = "well-graded"
	PoorlyGraded     Classification = "poorly-graded"
	InsufficientData Classification = "insufficient-data"
)

// Reasons attached to a classification
const (
	ReasonInsufficientData = "insufficient data"
	ReasonLowUniformity    = "Cu ≤ 4"
	ReasonCurvatureRange   = "Cc outside 1-3"
)

// GradingCriteria is the rule set, worded for report footers
const GradingCriteria = "Cu = D60/D10, Cc = (D30²)/(D10×D60). Well-graded if Cu > 4 and 1 ≤ Cc ≤ 3"

// Label returns the human-readable form of a classification
func (c Classification) Label() string {
	switch c {
	case WellGraded:
		return "Well-graded"
	case PoorlyGraded:
		return "Poorly-graded"
	case InsufficientData:
		return "Insufficient data"
	}
	return string(c)
}

// GradationResult holds the characteristic diameters (mm), the uniformity
// and curvature coefficients and the resulting classification. Values are
// kept at full precision; use Rounded for presentation.
type GradationResult struct {
	D10            Value
	D30            Value
	D60            Value
	Cu             Value
	Cc             Value
	Classification Classification
	Reasons        []string
}

// Rounded returns a copy with D-values rounded to 3 decimals and Cu/Cc to 2
func (r GradationResult) Rounded() GradationResult {
	return GradationResult{
		D10:            r.D10.Round(3),
		D30:            r.D30.Round(3),
		D60:            r.D60.Round(3),
		Cu:             r.Cu.Round(2),
		Cc:             r.Cc.Round(2),
		Classification: r.Classification,
		Reasons:        append([]string(nil), r.Reasons...),
	}
}

// Evaluate computes Cu and Cc from the characteristic diameters and
// classifies the sample. Cu and Cc are absent unless all three diameters are
// present and D10 is positive.
func Evaluate(d10, d30, d60 Value) GradationResult {
	res := GradationResult{D10: d10, D30: d30, D60: d60}

	v10, ok10 := d10.Float64()
	v30, ok30 := d30.Float64()
	v60, ok60 := d60.Float64()
	if ok10 && ok30 && ok60 && v10 > 0 {
		res.Cu = Present(v60 / v10)
		res.Cc = Present(v30 * v30 / (v10 * v60))
	}

	res.Classification, res.Reasons = Classify(res.Cu, res.Cc)
	return res
}

// Classify applies the grading rule: well-graded when Cu > 4 and
// 1 ≤ Cc ≤ 3, poorly-graded otherwise, insufficient data when either
// coefficient is absent.
func Classify(cu, cc Value) (Classification, []string) {
	u, okU := cu.Float64()
	c, okC := cc.Float64()
	if !okU || !okC {
		return InsufficientData, []string{ReasonInsufficientData}
	}

	if u > 4 && c >= 1 && c <= 3 {
		return WellGraded, []string{}
	}

	var reasons []string
	if u <= 4 {
		reasons = append(reasons, ReasonLowUniformity)
	}
	if c < 1 || c > 3 {
		reasons = append(reasons, ReasonCurvatureRange)
	}
	return PoorlyGraded, reasons
}

func insufficient() GradationResult {
	return GradationResult{
		Classification: InsufficientData,
		Reasons:        []string{ReasonInsufficientData},
	}
}
