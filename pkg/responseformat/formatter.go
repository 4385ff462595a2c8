// Package responseformat encodes API responses as JSON or MessagePack.
package responseformat

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	// FormatParam is the query parameter selecting the encoding
	FormatParam = "format"

	// FormatMsgPack selects MessagePack
	FormatMsgPack = "msgpack"

	ContentTypeJSON    = "application/json"
	ContentTypeMsgPack = "application/x-msgpack"
)

// Formatter handles encoding and writing responses in JSON or MessagePack format
type Formatter struct{}

// NewFormatter creates a new response formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error     string   `json:"error"`
	Status    int      `json:"status"`
	Timestamp int64    `json:"timestamp"`
	Details   []string `json:"details,omitempty"`
}

// WantsMsgPack reports whether the request asked for MessagePack
func WantsMsgPack(req *http.Request) bool {
	return req.URL.Query().Get(FormatParam) == FormatMsgPack
}

// WriteResponse writes data with the given status code. JSON is the default
// format; MessagePack is used when format=msgpack is specified.
func (f *Formatter) WriteResponse(w http.ResponseWriter, req *http.Request, status int, data any) error {
	if WantsMsgPack(req) {
		return f.writeMsgPack(w, status, data)
	}
	return f.writeJSON(w, status, data)
}

// WriteError writes an ErrorResponse in the requested format
func (f *Formatter) WriteError(w http.ResponseWriter, req *http.Request, status int, message string, details ...string) error {
	return f.WriteResponse(w, req, status, ErrorResponse{
		Error:     message,
		Status:    status,
		Timestamp: time.Now().Unix(),
		Details:   details,
	})
}

func (f *Formatter) writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

func (f *Formatter) writeMsgPack(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", ContentTypeMsgPack)
	w.WriteHeader(status)
	encoder := msgpack.NewEncoder(w)
	encoder.SetCustomStructTag("json") // Use json tags for MessagePack
	return encoder.Encode(data)
}
