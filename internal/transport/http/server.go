package http

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/feeds"
	reportDomain "github.com/reshetovitsme/community-analytics/internal/modules/report/domain"
	"github.com/reshetovitsme/community-analytics/internal/shared/errors"
	sloghttp "github.com/samber/slog-http"
)

// ReportSource is what the server exposes of the report service.
type ReportSource interface {
	ListReports() ([]*reportDomain.ReportFile, error)
	GetReport(name string) (*reportDomain.ReportFile, []byte, error)
	GenerateFeed(baseURL string) (*feeds.Feed, error)
}

// Server serves written reports, their RSS feed and metrics
type Server struct {
	reports ReportSource
	metrics http.Handler
	logger  *slog.Logger
	server  *http.Server
}

// New creates a new HTTP server
func New(port string, reports ReportSource, metrics http.Handler, logger *slog.Logger) *Server {
	s := &Server{
		reports: reports,
		metrics: metrics,
		logger:  logger,
	}
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler wrapped in logging and recovery middleware
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /reports", s.handleListReports)
	mux.HandleFunc("GET /reports/feed.rss", s.handleFeed)
	mux.HandleFunc("GET /reports/{name}", s.handleReport)
	mux.Handle("GET /metrics", s.metrics)

	handler := sloghttp.Recovery(mux)
	return sloghttp.New(s.logger)(handler)
}

// Start starts the HTTP server and blocks until it stops. It returns nil
// once Shutdown has been called, even if Shutdown ran first.
func (s *Server) Start() error {
	s.logger.Info("Report server starting", "addr", s.server.Addr)

	if err := s.server.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server; it is safe to call from another goroutine than Start
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.reports.ListReports()
	if err != nil {
		s.logger.Error("Error listing reports", "error", err)
		http.Error(w, "Failed to list reports", http.StatusInternalServerError)
		return
	}
	if reports == nil {
		reports = []*reportDomain.ReportFile{}
	}

	data, err := json.Marshal(reports)
	if err != nil {
		s.logger.Error("Error encoding reports", "error", err)
		http.Error(w, "Failed to list reports", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	baseURL := fmt.Sprintf("%s://%s", getScheme(r), r.Host)

	feed, err := s.reports.GenerateFeed(baseURL)
	if err != nil {
		s.logger.Error("Error generating feed", "error", err)
		http.Error(w, "Failed to generate feed", http.StatusInternalServerError)
		return
	}

	rss, err := feed.ToRss()
	if err != nil {
		s.logger.Error("Error converting feed to RSS", "error", err)
		http.Error(w, "Failed to generate RSS", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=60")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(rss))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	file, data, err := s.reports.GetReport(name)
	if err != nil {
		if stderrors.Is(err, errors.ErrUnknownReport) {
			http.Error(w, "Report not found", http.StatusNotFound)
			return
		}
		s.logger.Error("Error reading report", "name", name, "error", err)
		http.Error(w, "Failed to read report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
