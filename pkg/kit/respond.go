package kit

import (
	"encoding/json"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Machine-readable error codes carried in the error envelope.
const (
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeServerError     = "SERVER_ERROR"
	CodeRateLimited     = "RATE_LIMITED"
)

type dataEnvelope struct {
	Success bool `json:"success"`
	Count   *int `json:"count,omitempty"`
	Data    any  `json:"data"`
}

type errorEnvelope struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData writes a {success:true, data} envelope.
func WriteData(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, dataEnvelope{Success: true, Data: data})
}

// WriteList writes a {success:true, count, data} envelope for collections.
func WriteList(w http.ResponseWriter, status, count int, data any) {
	WriteJSON(w, status, dataEnvelope{Success: true, Count: &count, Data: data})
}

// WriteError writes a {success:false, error, code} envelope. The request id is
// attached when the RequestID middleware has run.
func WriteError(w http.ResponseWriter, r *http.Request, status int, msg, code string) {
	reqID := chimw.GetReqID(r.Context())
	WriteJSON(w, status, errorEnvelope{
		Error:     msg,
		Code:      code,
		RequestID: reqID,
	})
}
