package restserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/chrissnell/sieveanalysis/internal/gradation"
	"github.com/chrissnell/sieveanalysis/internal/interp"
	"github.com/chrissnell/sieveanalysis/internal/validate"
	"github.com/chrissnell/sieveanalysis/pkg/responseformat"
	"github.com/chrissnell/sieveanalysis/pkg/sieve"
	"github.com/google/uuid"
)

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

// Analyze runs the gradation pipeline over the posted samples. Malformed
// requests fail as a whole; a bad sample only fails its own result.
func (h *Handlers) Analyze(w http.ResponseWriter, req *http.Request) {
	req.Body = http.MaxBytesReader(w, req.Body, h.controller.serverConfig.MaxBodyBytes)

	var body AnalyzeRequest
	dec := json.NewDecoder(req.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.sendError(w, req, http.StatusRequestEntityTooLarge, "request body too large", err)
			return
		}
		h.sendError(w, req, http.StatusBadRequest, "invalid JSON payload", err)
		return
	}

	if err := validate.Get().Validator.Struct(body); err != nil {
		if werr := h.formatter.WriteError(w, req, http.StatusBadRequest, "invalid request", validate.Messages(err)...); werr != nil {
			h.controller.logger.Errorf("error encoding error response: %v", werr)
		}
		return
	}

	if limit := h.controller.analysisConfig.MaxSamples; len(body.Samples) > limit {
		h.sendError(w, req, http.StatusBadRequest, "too many samples",
			fmt.Errorf("request has %d samples, limit is %d", len(body.Samples), limit))
		return
	}

	opts, err := h.controller.resolveOptions(body.Options)
	if err != nil {
		h.sendError(w, req, http.StatusBadRequest, "invalid options", err)
		return
	}

	requestID := uuid.NewString()
	start := time.Now()

	reports := gradation.AnalyzeSamples(req.Context(), transformSamples(body.Samples), opts)

	failed := 0
	for _, r := range reports {
		if r.Err != nil {
			failed++
			h.controller.logger.Debugw("sample failed",
				"request_id", requestID,
				"sample", r.Name,
				"error", r.Err,
			)
		}
	}
	h.controller.logger.Infow("analyzed samples",
		"request_id", requestID,
		"samples", len(reports),
		"failed", failed,
		"duration", time.Since(start),
	)

	response := AnalyzeResponse{
		RequestID: requestID,
		Options:   transformOptions(opts),
		Criteria:  gradation.GradingCriteria,
		Results:   transformReports(reports),
	}

	if err := h.formatter.WriteResponse(w, req, http.StatusOK, response); err != nil {
		h.controller.logger.Errorf("error encoding analysis response: %v", err)
	}
}

// GetSieves returns the reference sieve series
func (h *Handlers) GetSieves(w http.ResponseWriter, req *http.Request) {
	response := SievesResponse{Sieves: sieve.Reference()}
	if err := h.formatter.WriteResponse(w, req, http.StatusOK, response); err != nil {
		h.controller.logger.Errorf("error encoding sieves response: %v", err)
	}
}

// Health reports liveness
func (h *Handlers) Health(w http.ResponseWriter, req *http.Request) {
	response := HealthResponse{Status: "ok", Version: h.controller.version}
	if err := h.formatter.WriteResponse(w, req, http.StatusOK, response); err != nil {
		h.controller.logger.Errorf("error encoding health response: %v", err)
	}
}

// NotFound answers unknown routes with a JSON error body
func (h *Handlers) NotFound(w http.ResponseWriter, req *http.Request) {
	h.sendError(w, req, http.StatusNotFound, "not found", nil)
}

// MethodNotAllowed answers known routes called with the wrong method
func (h *Handlers) MethodNotAllowed(w http.ResponseWriter, req *http.Request) {
	h.sendError(w, req, http.StatusMethodNotAllowed, "method not allowed", nil)
}

// sendError sends an error response, with err as details when set
func (h *Handlers) sendError(w http.ResponseWriter, req *http.Request, statusCode int, message string, err error) {
	var details []string
	if err != nil {
		details = append(details, err.Error())
	}
	if werr := h.formatter.WriteError(w, req, statusCode, message, details...); werr != nil {
		h.controller.logger.Errorf("error encoding error response: %v", werr)
	}
}

// resolveOptions overlays request overrides on the configured defaults
func (c *Controller) resolveOptions(o *OptionsRequest) (gradation.Options, error) {
	opts := c.options
	if o == nil {
		return opts, nil
	}

	if o.NullPolicy != nil {
		policy, err := gradation.ParseNullPolicy(*o.NullPolicy)
		if err != nil {
			return gradation.Options{}, err
		}
		opts.NullPolicy = policy
	}
	if o.InterpKind != nil {
		kind, err := interp.ParseKind(*o.InterpKind)
		if err != nil {
			return gradation.Options{}, err
		}
		opts.Kind = kind
	}
	if o.AllowExtrapolation != nil {
		opts.AllowExtrapolation = *o.AllowExtrapolation
	}
	if o.CurvePoints != nil {
		opts.CurvePoints = *o.CurvePoints
	}

	return opts, opts.Validate()
}
