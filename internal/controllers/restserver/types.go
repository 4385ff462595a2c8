package restserver

import "github.com/chrissnell/sieveanalysis/pkg/sieve"

// AnalyzeRequest is the body of POST /api/v1/analyze
type AnalyzeRequest struct {
	Samples []SampleRequest `json:"samples" validate:"required,min=1,dive"`
	Options *OptionsRequest `json:"options,omitempty"`
}

// SampleRequest carries one sample. A null entry in values is a missing reading.
type SampleRequest struct {
	Name   string     `json:"name,omitempty" validate:"max=200"`
	Sizes  []float64  `json:"sizes" validate:"required,min=1"`
	Values []*float64 `json:"values" validate:"required,min=1"`
}

// OptionsRequest overrides the configured analysis defaults field by field
type OptionsRequest struct {
	NullPolicy         *string `json:"null_policy,omitempty" validate:"omitempty,oneof=interpolate ignore zero"`
	InterpKind         *string `json:"interp_kind,omitempty" validate:"omitempty,oneof=linear cubic nearest"`
	AllowExtrapolation *bool   `json:"allow_extrapolation,omitempty"`
	CurvePoints        *int    `json:"curve_points,omitempty" validate:"omitempty,min=100,max=100000"`
}

// AnalyzeResponse is returned for every well-formed request, even when some
// samples failed
type AnalyzeResponse struct {
	RequestID string          `json:"request_id"`
	Options   OptionsResponse `json:"options"`
	Criteria  string          `json:"criteria"`
	Results   []SampleResult  `json:"results"`
}

// OptionsResponse echoes the effective analysis options
type OptionsResponse struct {
	NullPolicy         string `json:"null_policy"`
	InterpKind         string `json:"interp_kind"`
	AllowExtrapolation bool   `json:"allow_extrapolation"`
	CurvePoints        int    `json:"curve_points"`
}

// SampleResult is the analysis of one sample. Undefined values are null.
type SampleResult struct {
	Name           string          `json:"name"`
	Error          string          `json:"error,omitempty"`
	ErrorKind      string          `json:"error_kind,omitempty"`
	Classification string          `json:"classification,omitempty"`
	Label          string          `json:"label,omitempty"`
	Reasons        []string        `json:"reasons"`
	D10            *float64        `json:"d10"`
	D30            *float64        `json:"d30"`
	D60            *float64        `json:"d60"`
	Cu             *float64        `json:"cu"`
	Cc             *float64        `json:"cc"`
	Curve          *CurveResponse  `json:"curve,omitempty"`
	Points         []PointResponse `json:"points,omitempty"`
}

// CurveResponse is the dense curve, sizes in mm and passing in percent
type CurveResponse struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

// PointResponse is one original reading after null handling
type PointResponse struct {
	Size   float64  `json:"size"`
	Value  *float64 `json:"value"`
	Filled bool     `json:"filled"`
}

// SievesResponse lists the reference sieve series
type SievesResponse struct {
	Sieves []sieve.Sieve `json:"sieves"`
}

// HealthResponse is returned by /healthz
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
