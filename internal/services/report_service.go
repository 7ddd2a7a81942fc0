package services

import (
	"context"
	"errors"

	"github.com/zerooneblog/backend/internal/models"
	"github.com/zerooneblog/backend/internal/repositories"
	"gorm.io/gorm"
)

// ReportService handles user-filed reports and their review lifecycle
// (NEW -> REVIEWED).
type ReportService struct {
	reportRepository repositories.ReportRepository
}

// NewReportService creates a new ReportService
func NewReportService(reportRepo repositories.ReportRepository) *ReportService {
	return &ReportService{reportRepository: reportRepo}
}

func (s *ReportService) CreateReport(ctx context.Context, reporterID uint, targetType string, targetID uint, reason string) (*models.Report, error) {
	report := &models.Report{
		ReporterID: reporterID,
		TargetType: targetType,
		TargetID:   targetID,
		Reason:     reason,
		Status:     models.ReportStatusNew,
	}
	if err := s.reportRepository.CreateReport(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *ReportService) NewReports(ctx context.Context) ([]models.Report, error) {
	return s.reportRepository.GetReportsByStatus(ctx, models.ReportStatusNew)
}

func (s *ReportService) ResolveReport(ctx context.Context, reportID uint) error {
	err := s.reportRepository.UpdateStatus(ctx, reportID, models.ReportStatusReviewed)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrReportNotFound
	}
	return err
}
