package server

import (
	"net/http"
	"time"

	"github.com/teranos/sembrowse/browse"
	"github.com/teranos/sembrowse/logger"
	"github.com/teranos/sembrowse/tree"
	"github.com/teranos/sembrowse/version"
)

type indexPage struct {
	Node string
}

// isFragmentRequest reports whether htmx asked for a partial. History
// restores need the whole page even though htmx sends them.
func isFragmentRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") != "" && r.Header.Get("HX-History-Restore-Request") != "true"
}

// HandleIndex serves the page shell, which loads the root level.
func (s *Server) HandleIndex(w http.ResponseWriter, r *http.Request) {
	s.writeHTML(w, r, "index.html", indexPage{Node: tree.RootName})
}

// HandleNode serves one level: the fragment for htmx requests and the
// page shell pointing at that level otherwise.
func (s *Server) HandleNode(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if !isFragmentRequest(r) {
		s.writeHTML(w, r, "index.html", indexPage{Node: name})
		return
	}
	s.writeHTML(w, r, "node", s.nodeView(name))
}

// HandleNodeJSON serves a level as JSON. Unknown names are 404s.
func (s *Server) HandleNodeJSON(w http.ResponseWriter, r *http.Request) {
	view := s.nodeView(r.PathValue("name"))
	status := http.StatusOK
	if !view.Found {
		status = http.StatusNotFound
	}
	_ = writeJSON(w, status, view)
}

// HandleAttributeJSON serves one attribute by its full name.
func (s *Server) HandleAttributeJSON(w http.ResponseWriter, r *http.Request) {
	name := browse.NormalizeName(r.PathValue("name"))
	attr, ok := s.index.Catalog.Get(name)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown attribute "+name)
		return
	}
	_ = writeJSON(w, http.StatusOK, s.attributeView(attr))
}

// HandleExists creates a backend query for the column and sends htmx to it
// through HX-Redirect. Failures produce an empty 200 so the page is left
// as it was.
func (s *Server) HandleExists(w http.ResponseWriter, r *http.Request) {
	dataset := r.PathValue("dataset")
	column := r.PathValue("column")
	if s.exists == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	link, err := s.exists.ExistsQueryURL(r.Context(), dataset, column)
	if err != nil {
		s.loggerFor(r).Warnw("Failed to build exists query",
			logger.FieldDataset, dataset,
			logger.FieldAttribute, column,
			logger.FieldError, err)
		w.WriteHeader(http.StatusOK)
		return
	}
	w.Header().Set("HX-Redirect", link)
	w.WriteHeader(http.StatusOK)
}

// HandleExistsJSON returns the exists-query link as JSON, mapping backend
// failures to HTTP statuses.
func (s *Server) HandleExistsJSON(w http.ResponseWriter, r *http.Request) {
	if s.exists == nil {
		writeError(w, http.StatusServiceUnavailable, "no usage backend configured")
		return
	}
	dataset := r.PathValue("dataset")
	column := r.PathValue("column")
	link, err := s.exists.ExistsQueryURL(r.Context(), dataset, column)
	if err != nil {
		writeWrappedError(w, s.loggerFor(r), err, "failed to build exists query", statusFor(err))
		return
	}
	_ = writeJSON(w, http.StatusOK, map[string]string{
		"dataset": dataset,
		"column":  column,
		"url":     link,
	})
}

// HandleHealth reports build info and index statistics
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	versionInfo := version.Get()
	health := map[string]interface{}{
		"status":     "ok",
		"version":    versionInfo.Version,
		"commit":     versionInfo.CommitHash,
		"build_time": versionInfo.BuildTime,
		"attributes": len(s.index.Catalog),
		"namespaces": s.index.Root.ChildNames(),
		"nodes":      s.index.Root.Count(),
		"corpora":    len(s.index.Corpora),
		"overrides":  s.index.Overrides,
		"built_at":   s.index.BuiltAt.UTC().Format(time.RFC3339),
		"uptime_s":   int(time.Since(s.started).Seconds()),
	}
	if s.index.Usage != nil {
		health["usage"] = map[string]interface{}{
			"datasets":        s.index.Datasets,
			"failed_datasets": s.index.FailedDatasets,
			"stats":           s.index.Usage,
		}
	} else if s.index.UsageError != nil {
		health["usage_error"] = s.index.UsageError.Error()
	}
	if memory, err := getMemoryStats(); err == nil {
		health["memory"] = memory
	} else {
		s.loggerFor(r).Debugw("Memory stats unavailable", logger.FieldError, err)
	}
	_ = writeJSON(w, http.StatusOK, health)
}
