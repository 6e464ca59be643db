package ui

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"macropulse/adapters/export"
	"macropulse/domain/stats"
)

// reportPrecision is the display precision of the dashboard report.
const reportPrecision = 4

// Server is a read-only dashboard over the latest completed analysis.
// It never mutates pipeline state; it only renders what a run produced.
type Server struct {
	router *chi.Mux

	mu         sync.RWMutex
	analysis   *stats.Analysis
	reportHTML []byte
}

// NewServer creates the dashboard with its routes configured.
func NewServer() *Server {
	s := &Server{router: chi.NewRouter()}
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/", s.handleReport)
	s.router.Get("/api/analysis", s.handleAnalysisJSON)
	return s
}

// SetAnalysis publishes a finished analysis to the dashboard.
func (s *Server) SetAnalysis(analysis *stats.Analysis) {
	html := export.RenderHTML(export.BuildMarkdown(analysis, reportPrecision))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.analysis = analysis
	s.reportHTML = html
}

// Start blocks serving the dashboard on the given port.
func (s *Server) Start(port string) error {
	return http.ListenAndServe(":"+port, s.router)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	html := s.reportHTML
	s.mu.RUnlock()

	if html == nil {
		http.Error(w, "no analysis available yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

func (s *Server) handleAnalysisJSON(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	analysis := s.analysis
	s.mu.RUnlock()

	if analysis == nil {
		http.Error(w, "no analysis available yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(analysis); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
