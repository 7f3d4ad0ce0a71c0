package repository

import (
	"cmp"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/reshetovitsme/community-analytics/internal/modules/report/domain"
	"github.com/reshetovitsme/community-analytics/internal/shared/errors"
	"github.com/samber/oops"
)

// FileStorage implements report.Repository using a flat directory of CSV files
type FileStorage struct {
	basePath string
	mu       sync.RWMutex
}

// NewFileStorage creates a new file-based report repository
func NewFileStorage(basePath string) (Repository, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create reports directory").Wrap(err)
	}

	return &FileStorage{basePath: basePath}, nil
}

// SaveReport writes the report through a temporary file so a reader never
// sees a partially written report. An existing report of the same name is
// replaced.
func (s *FileStorage) SaveReport(name string, data []byte) (*domain.ReportFile, error) {
	date, kind, err := domain.ParseFileName(name)
	if err != nil {
		return nil, oops.With("name", name, "context", "invalid report name").Wrap(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.basePath, ".report-*")
	if err != nil {
		return nil, oops.With("base_path", s.basePath, "context", "failed to create temporary report").Wrap(err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, oops.With("name", name, "context", "failed to write report").Wrap(err)
	}
	if err := tmp.Close(); err != nil {
		return nil, oops.With("name", name, "context", "failed to write report").Wrap(err)
	}

	path := filepath.Join(s.basePath, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return nil, oops.With("name", name, "context", "failed to move report into place").Wrap(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, oops.With("name", name, "context", "failed to stat report").Wrap(err)
	}
	return &domain.ReportFile{Name: name, Kind: kind, Date: date, Size: info.Size(), ModTime: info.ModTime()}, nil
}

func (s *FileStorage) GetReport(name string) (*domain.ReportFile, []byte, error) {
	date, kind, err := domain.ParseFileName(name)
	if err != nil {
		return nil, nil, oops.With("name", name).Wrap(errors.ErrUnknownReport)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	path := filepath.Join(s.basePath, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, oops.With("name", name).Wrap(errors.ErrUnknownReport)
		}
		return nil, nil, oops.With("name", name, "context", "failed to read report").Wrap(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, oops.With("name", name, "context", "failed to stat report").Wrap(err)
	}

	return &domain.ReportFile{Name: name, Kind: kind, Date: date, Size: info.Size(), ModTime: info.ModTime()}, data, nil
}

// ListReports returns every report in the directory, newest first.
// Files that are not named like a report are ignored.
func (s *FileStorage) ListReports() ([]*domain.ReportFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, oops.With("base_path", s.basePath, "context", "failed to read reports directory").Wrap(err)
	}

	var reports []*domain.ReportFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		date, kind, err := domain.ParseFileName(entry.Name())
		if err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		reports = append(reports, &domain.ReportFile{
			Name:    entry.Name(),
			Kind:    kind,
			Date:    date,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	slices.SortFunc(reports, func(a, b *domain.ReportFile) int {
		return cmp.Or(
			b.Date.Compare(a.Date),
			b.ModTime.Compare(a.ModTime),
			cmp.Compare(a.Name, b.Name),
		)
	})
	return reports, nil
}
