package apierror

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Responder renders JSON responses and errors. Development mode
// includes internal error details in 5xx bodies; production returns
// the generic message only.
type Responder struct {
	log         *slog.Logger
	development bool
}

// NewResponder creates a Responder. A nil logger disables error logging.
func NewResponder(log *slog.Logger, development bool) *Responder {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Responder{log: log, development: development}
}

type dataEnvelope struct {
	Data   any            `json:"data"`
	Paging map[string]any `json:"paging,omitempty"`
}

type errorEnvelope struct {
	Errors string `json:"errors"`
}

// JSON writes a success response wrapped in the data envelope.
func (rs *Responder) JSON(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, dataEnvelope{Data: data})
}

// JSONPaged writes a success response with paging metadata.
func (rs *Responder) JSONPaged(w http.ResponseWriter, status int, data any, paging map[string]any) {
	writeJSON(w, status, dataEnvelope{Data: data, Paging: paging})
}

// Error writes an error response. The HTTP status and message come
// from the error taxonomy; unknown errors become 500s.
func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := AsError(err)

	message := apiErr.Message
	if apiErr.Code >= http.StatusInternalServerError {
		rs.log.ErrorContext(r.Context(), "request failed",
			slog.Int("status", apiErr.Code),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		if rs.development {
			message = apiErr.Error()
		}
	}

	writeJSON(w, apiErr.Code, errorEnvelope{Errors: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
