package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/teranos/sembrowse/logger"
	"go.uber.org/zap"
)

// setupHTTPRoutes configures all HTTP handlers
func (s *Server) setupHTTPRoutes() {
	s.mux.HandleFunc("GET /{$}", s.withRequestLogging(s.HandleIndex))
	s.mux.HandleFunc("GET /node/{name}", s.withRequestLogging(s.HandleNode))
	s.mux.HandleFunc("GET /api/node/{name...}", s.withRequestLogging(s.HandleNodeJSON))
	s.mux.HandleFunc("GET /api/attribute/{name}", s.withRequestLogging(s.HandleAttributeJSON))
	s.mux.HandleFunc("GET /hnyexists/{dataset}/{column}", s.withRequestLogging(s.HandleExists))
	s.mux.HandleFunc("GET /api/exists/{dataset}/{column}", s.withRequestLogging(s.HandleExistsJSON))
	s.mux.HandleFunc("GET /health", s.withRequestLogging(s.HandleHealth))
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withRequestLogging tags each request with an ID, logs its outcome, and
// turns handler panics into 500s.
func (s *Server) withRequestLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)
		r = r.WithContext(logger.WithRequestID(r.Context(), requestID))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		log := s.loggerFor(r)

		defer func() {
			if p := recover(); p != nil {
				log.Errorw("Handler panic", "panic", p, logger.FieldPath, r.URL.Path)
				writeError(rec, http.StatusInternalServerError, "internal error")
			}
			log.Debugw("HTTP request",
				logger.FieldMethod, r.Method,
				logger.FieldPath, r.URL.Path,
				logger.FieldStatus, rec.status,
				logger.FieldDurationMS, time.Since(start).Milliseconds())
		}()

		next(rec, r)
	}
}

// loggerFor returns the server logger enriched with the request's fields
func (s *Server) loggerFor(r *http.Request) *zap.SugaredLogger {
	return logger.LoggerFromContext(r.Context(), s.logger)
}
