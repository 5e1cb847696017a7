package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/teranos/sembrowse/errors"
	"go.uber.org/zap"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return errors.Wrap(err, "failed to encode JSON")
	}
	return nil
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, message string) {
	_ = writeJSON(w, status, map[string]string{"error": message})
}

// writeWrappedError logs err with context and writes a generic message
func writeWrappedError(w http.ResponseWriter, log *zap.SugaredLogger, err error, context string, status int) {
	log.Errorw(context, "error", err)
	writeError(w, status, context)
}

// writeHTML renders a named template. Rendering happens into a buffer
// first so a template failure still produces a clean 500.
func (s *Server) writeHTML(w http.ResponseWriter, r *http.Request, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		writeWrappedError(w, s.loggerFor(r), err, "failed to render "+name, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Vary", "HX-Request")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// statusFor maps an error to the HTTP status that describes it
func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.IsBackendError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
