package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/feeds"
	"github.com/reshetovitsme/community-analytics/internal/modules/report/domain"
	"github.com/reshetovitsme/community-analytics/internal/modules/report/repository"
	"github.com/reshetovitsme/community-analytics/internal/shared/metrics"
	"github.com/samber/oops"
)

// feedSize caps the number of reports listed in the feed.
const feedSize = 50

// Service writes reports and exposes the ones already written
type Service struct {
	repo    repository.Repository
	metrics metrics.Recorder
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a new report service
func New(repo repository.Repository, m metrics.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// Export serializes records to CSV and stores them as today's report of the
// given kind. Nothing is written when records is empty.
func (s *Service) Export(kind domain.ReportKind, records []domain.Record) (*domain.ReportFile, error) {
	data, err := MarshalCSV(records)
	if err != nil {
		return nil, oops.With("kind", kind.String()).Wrap(err)
	}

	name := domain.FileName(s.now(), kind)
	file, err := s.repo.SaveReport(name, data)
	if err != nil {
		return nil, err
	}
	file.Rows = len(records)

	s.metrics.IncReportsWritten(kind.String())
	s.logger.Info("Report written", "kind", kind.String(), "file", file.Name, "rows", file.Rows)
	return file, nil
}

// ListReports returns the written reports, newest first
func (s *Service) ListReports() ([]*domain.ReportFile, error) {
	return s.repo.ListReports()
}

// GetReport returns a written report and its content
func (s *Service) GetReport(name string) (*domain.ReportFile, []byte, error) {
	return s.repo.GetReport(name)
}

// GenerateFeed builds an RSS feed with one item per written report
func (s *Service) GenerateFeed(baseURL string) (*feeds.Feed, error) {
	reports, err := s.repo.ListReports()
	if err != nil {
		return nil, oops.With("context", "failed to list reports").Wrap(err)
	}
	if len(reports) > feedSize {
		reports = reports[:feedSize]
	}

	feed := &feeds.Feed{
		Title:       "Community analytics reports",
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/reports", baseURL)},
		Description: "CSV reports written by the community analytics engine",
		Created:     s.now(),
	}
	if len(reports) > 0 {
		feed.Updated = reports[0].ModTime
	}

	for _, r := range reports {
		feed.Items = append(feed.Items, &feeds.Item{
			Title:       fmt.Sprintf("%s report of %s", r.Kind, r.Date.Format(domain.DateLayout)),
			Link:        &feeds.Link{Href: fmt.Sprintf("%s/reports/%s", baseURL, r.Name)},
			Description: fmt.Sprintf("%s (%d bytes)", r.Name, r.Size),
			Created:     r.ModTime,
			Id:          r.Name,
		})
	}
	return feed, nil
}
