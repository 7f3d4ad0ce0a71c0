package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	activityDomain "github.com/reshetovitsme/community-analytics/internal/modules/activity/domain"
	"github.com/reshetovitsme/community-analytics/internal/modules/analytics/domain"
	chatDomain "github.com/reshetovitsme/community-analytics/internal/modules/chat/domain"
	communityService "github.com/reshetovitsme/community-analytics/internal/modules/community/service"
	reportDomain "github.com/reshetovitsme/community-analytics/internal/modules/report/domain"
	reportService "github.com/reshetovitsme/community-analytics/internal/modules/report/service"
	"github.com/reshetovitsme/community-analytics/internal/shared/errors"
	"github.com/reshetovitsme/community-analytics/internal/shared/metrics"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Options configures the analytics runs.
type Options struct {
	ActivityWindowDays int
	JoinWindowDays     int
	CountableKinds     []chatDomain.ContentKind
	JoinSubtypes       []chatDomain.JoinSubtype
	TopActiveUsers     int
	MessageLimit       int
	Concurrency        int
	GroupsSeparator    string
}

// IntersectionReport is the outcome of an intersections run.
type IntersectionReport struct {
	Matrix *domain.Matrix
	File   *reportDomain.ReportFile
}

// InactivityReport is the outcome of an inactivity run. Files holds every
// report written, the inactive report first.
type InactivityReport struct {
	Result *domain.InactivityResult
	Files  []*reportDomain.ReportFile
}

// ExclusivityReport is the outcome of an exclusivity run.
type ExclusivityReport struct {
	Users []domain.ExclusiveUser
	File  *reportDomain.ReportFile
}

// Service runs operator requests one at a time against the loaded community.
type Service struct {
	community *communityService.Service
	source    MessageSource
	reports   *reportService.Service
	metrics   metrics.Recorder
	logger    *slog.Logger
	opts      Options
	now       func() time.Time

	mu sync.Mutex
}

// New creates a new analytics service
func New(
	community *communityService.Service,
	source MessageSource,
	reports *reportService.Service,
	m metrics.Recorder,
	logger *slog.Logger,
	opts Options,
) *Service {
	if opts.GroupsSeparator == "" {
		opts.GroupsSeparator = ", "
	}
	return &Service{
		community: community,
		source:    source,
		reports:   reports,
		metrics:   m,
		logger:    logger,
		opts:      opts,
		now:       time.Now,
	}
}

func (s *Service) runLogger(report string) *slog.Logger {
	return s.logger.With("run_id", uuid.NewString(), "report", report)
}

// Intersections computes the overlap of every pair of member groups and
// exports the matrix.
func (s *Service) Intersections(ctx context.Context) (*IntersectionReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.community.Current(ctx)
	if err != nil {
		return nil, err
	}
	logger := s.runLogger(reportDomain.ReportKindGroupIntersections.String())

	matrix := Intersections(lo.Map(snapshot.Groups, func(g *chatDomain.Chat, _ int) GroupMembers {
		return GroupMembers{Name: g.Name, Members: g.MemberIDs()}
	}))

	records := make([]reportDomain.Record, 0, len(matrix.Groups))
	for i, row := range matrix.Groups {
		record := reportDomain.Record{{Name: "Name", Value: row}}
		for j, col := range matrix.Groups {
			record = append(record, reportDomain.Field{Name: col, Value: formatRatio(matrix.Ratios[i][j])})
		}
		records = append(records, record)
	}

	file, err := s.reports.Export(reportDomain.ReportKindGroupIntersections, records)
	if err != nil {
		return nil, err
	}
	logger.Info("Group intersections have been written", "file", file.Name, "groups", len(matrix.Groups))
	return &IntersectionReport{Matrix: matrix, File: file}, nil
}

func formatRatio(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// Inactive classifies the participants of the named groups, or of every
// member group when no name is given, and exports the result sets.
// An unknown group name aborts before any message is fetched, and an empty
// inactive set aborts with ErrEmptyReport. Empty secondary sets are skipped.
func (s *Service) Inactive(ctx context.Context, groupNames ...string) (*InactivityReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.community.Current(ctx)
	if err != nil {
		return nil, err
	}

	targets := snapshot.Groups
	if len(groupNames) > 0 {
		targets = make([]*chatDomain.Chat, 0, len(groupNames))
		for _, name := range groupNames {
			group, err := snapshot.Group(name)
			if err != nil {
				return nil, err
			}
			targets = append(targets, group)
		}
	}

	logger := s.runLogger(reportDomain.ReportKindInactive.String())
	logger.Info("Looking for inactive users", "groups", len(targets))

	now := s.now()
	classifier := NewClassifier(s.source, ClassifierOptions{
		ActivityWindow: activityDomain.NewWindow(now, s.opts.ActivityWindowDays),
		JoinWindow:     activityDomain.NewWindow(now, s.opts.JoinWindowDays),
		CountableKinds: s.opts.CountableKinds,
		JoinSubtypes:   s.opts.JoinSubtypes,
		TopActiveUsers: s.opts.TopActiveUsers,
		MessageLimit:   s.opts.MessageLimit,
		Concurrency:    s.opts.Concurrency,
	}, s.metrics, logger)

	result, err := classifier.Classify(ctx, snapshot.Registry, targets)
	if err != nil {
		return nil, oops.With("context", "inactivity scan aborted").Wrap(err)
	}

	if len(result.Inactive) == 0 {
		logger.Info("Found no inactive users", "candidates", result.Candidates)
		return nil, oops.With("kind", reportDomain.ReportKindInactive.String()).Wrap(errors.ErrEmptyReport)
	}

	report := &InactivityReport{Result: result}
	file, err := s.reports.Export(reportDomain.ReportKindInactive, s.inactiveRecords(result.Inactive))
	if err != nil {
		return nil, err
	}
	report.Files = append(report.Files, file)

	logger.Info("Found users without activity in any scanned group",
		"inactive", len(result.Inactive),
		"unread", len(result.Unread),
		"undelivered", len(result.Undelivered),
	)

	secondary := []struct {
		kind    reportDomain.ReportKind
		records []reportDomain.Record
	}{
		{reportDomain.ReportKindUnreadInactive, s.inactiveRecords(result.Unread)},
		{reportDomain.ReportKindUndeliveredInactive, s.inactiveRecords(result.Undelivered)},
		{reportDomain.ReportKindUnknownAuthors, s.unknownRecords(result.Unknown)},
		{reportDomain.ReportKindTopActive, topActiveRecords(result.TopActive)},
	}
	for _, r := range secondary {
		if len(r.records) == 0 {
			logger.Info("Nothing to report, skipping", "kind", r.kind.String())
			continue
		}
		file, err := s.reports.Export(r.kind, r.records)
		if err != nil {
			return nil, err
		}
		report.Files = append(report.Files, file)
	}

	return report, nil
}

func (s *Service) inactiveRecords(users []domain.InactiveUser) []reportDomain.Record {
	return lo.Map(users, func(u domain.InactiveUser, _ int) reportDomain.Record {
		return reportDomain.Record{
			{Name: "User ID", Value: u.Participant.ID},
			{Name: "Messages", Value: strconv.Itoa(u.MessageCount)},
			{Name: "Groups", Value: strings.Join(u.Participant.Groups, s.opts.GroupsSeparator)},
		}
	})
}

func (s *Service) unknownRecords(unknown []domain.UnknownAuthor) []reportDomain.Record {
	return lo.Map(unknown, func(u domain.UnknownAuthor, _ int) reportDomain.Record {
		joins := lo.CountBy(u.Points, func(p activityDomain.Point) bool { return p.Source == activityDomain.SourceJoin })
		groups := lo.Uniq(lo.Map(u.Points, func(p activityDomain.Point, _ int) string { return p.ChatName }))
		last := lo.MaxBy(u.Points, func(a, b activityDomain.Point) bool { return a.Timestamp.After(b.Timestamp) })
		return reportDomain.Record{
			{Name: "User ID", Value: u.UserID},
			{Name: "Messages", Value: strconv.Itoa(len(u.Points) - joins)},
			{Name: "Joins", Value: strconv.Itoa(joins)},
			{Name: "Groups", Value: strings.Join(groups, s.opts.GroupsSeparator)},
			{Name: "Last Seen", Value: last.Timestamp.UTC().Format(time.RFC3339)},
			{Name: "Preview", Value: last.Preview},
		}
	})
}

func topActiveRecords(tallies []domain.GroupTally) []reportDomain.Record {
	var records []reportDomain.Record
	for _, group := range tallies {
		for rank, u := range group.Users {
			records = append(records, reportDomain.Record{
				{Name: "Group", Value: group.Group},
				{Name: "Rank", Value: strconv.Itoa(rank + 1)},
				{Name: "User ID", Value: u.UserID},
				{Name: "Messages", Value: strconv.Itoa(u.Messages)},
			})
		}
	}
	return records
}

// Exclusive reports the participants found in exactly one group that is
// not announce-only.
func (s *Service) Exclusive(ctx context.Context) (*ExclusivityReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.community.Current(ctx)
	if err != nil {
		return nil, err
	}
	logger := s.runLogger(reportDomain.ReportKindUsersOnlyInOneGroup.String())

	users := Exclusive(snapshot.Registry.GetAll(), snapshot.Groups)
	records := lo.Map(users, func(u domain.ExclusiveUser, _ int) reportDomain.Record {
		return reportDomain.Record{
			{Name: "User ID", Value: u.UserID},
			{Name: "Group", Value: u.Group},
		}
	})

	file, err := s.reports.Export(reportDomain.ReportKindUsersOnlyInOneGroup, records)
	if err != nil {
		return nil, err
	}
	logger.Info("Users only in one group have been written", "file", file.Name, "users", len(users))
	return &ExclusivityReport{Users: users, File: file}, nil
}
