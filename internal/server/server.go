// Package server exposes the import and split operations over HTTP.
// Authorization is a reverse-proxy concern upstream of this service; the
// handlers assume the caller is already allowed to mutate.
package server

import (
	"net/http"

	"github.com/ruslany/expense-tracker/internal/exporter"
	"github.com/ruslany/expense-tracker/internal/importer"
	"github.com/ruslany/expense-tracker/internal/logging"
	"github.com/ruslany/expense-tracker/internal/splitter"
)

// Server wires the HTTP surface to the import and split engines.
type Server struct {
	importer *importer.Orchestrator
	splitter *splitter.Engine
	exporter *exporter.Exporter
	logger   logging.Logger
}

// New creates a Server.
func New(imp *importer.Orchestrator, spl *splitter.Engine, exp *exporter.Exporter, logger logging.Logger) *Server {
	if logger == nil {
		logger = &logging.MockLogger{}
	}
	return &Server{importer: imp, splitter: spl, exporter: exp, logger: logger}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /import", s.handleImport)
	mux.HandleFunc("POST /transactions/{id}/split", s.handleSplit)
	mux.HandleFunc("DELETE /transactions/{id}/split", s.handleUnsplit)
	mux.HandleFunc("GET /accounts/{id}/export", s.handleExport)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// ListenAndServe runs the HTTP server on addr until it fails.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.WithField(logging.FieldAddr, addr).Info("HTTP server listening")
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
