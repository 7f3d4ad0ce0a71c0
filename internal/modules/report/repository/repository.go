package repository

import (
	"github.com/reshetovitsme/community-analytics/internal/modules/report/domain"
)

// Repository defines the interface for report file persistence
type Repository interface {
	SaveReport(name string, data []byte) (*domain.ReportFile, error)
	GetReport(name string) (*domain.ReportFile, []byte, error)
	ListReports() ([]*domain.ReportFile, error)
}
