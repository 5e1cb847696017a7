// Package server serves the attribute hierarchy over HTTP: an htmx page
// that drills into the namespace one level at a time, a JSON view of the
// same nodes, and redirects into Honeycomb for observed columns.
package server

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/teranos/sembrowse/browse"
	"github.com/teranos/sembrowse/errors"
	"github.com/teranos/sembrowse/logger"
	"go.uber.org/zap"
)

// ExistsLinker builds a link to a backend query showing where a column
// is present.
type ExistsLinker interface {
	ExistsQueryURL(ctx context.Context, dataset, column string) (string, error)
}

// Server timeouts
const (
	DefaultShutdownTimeout = 10 * time.Second
	readHeaderTimeout      = 5 * time.Second
	writeTimeout           = 60 * time.Second
	idleTimeout            = 120 * time.Second
)

// Options configures a Server.
type Options struct {
	// Exists links observed columns to the backend; nil disables the links.
	Exists          ExistsLinker
	ShutdownTimeout time.Duration
}

// Server serves one immutable browse.Index. Handlers only read the index,
// so no locking is needed.
type Server struct {
	index           *browse.Index
	exists          ExistsLinker
	templates       *template.Template
	mux             *http.ServeMux
	logger          *zap.SugaredLogger
	shutdownTimeout time.Duration
	started         time.Time
}

// New creates a server for index. A nil log uses the "server" component logger.
func New(index *browse.Index, opts Options, log *zap.SugaredLogger) (*Server, error) {
	if index == nil || index.Root == nil {
		return nil, errors.New("server requires a built index")
	}
	if log == nil {
		log = logger.ComponentLogger("server")
	}
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse templates")
	}

	shutdown := opts.ShutdownTimeout
	if shutdown <= 0 {
		shutdown = DefaultShutdownTimeout
	}

	s := &Server{
		index:           index,
		exists:          opts.Exists,
		templates:       tmpl,
		mux:             http.NewServeMux(),
		logger:          log,
		shutdownTimeout: shutdown,
		started:         time.Now(),
	}
	s.setupHTTPRoutes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully, waiting up to the shutdown timeout for in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infow("HTTP server listening", logger.FieldAddress, addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrapf(err, "failed to listen on %s", addr)
	case <-ctx.Done():
	}

	s.logger.Infow("Initiating server shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Warnw("Graceful shutdown timed out, closing connections",
			logger.FieldError, err)
		_ = httpServer.Close()
		return errors.Wrap(err, "server shutdown")
	}
	s.logger.Infow("Server shutdown complete")
	return nil
}
