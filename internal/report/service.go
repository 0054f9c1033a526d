// Package report derives the read-only report view of an inspection and
// moves inspections into the REPORT_GENERATED state.
package report

import (
	"context"
	"errors"
	"time"

	"inspections/pkg/types"

	"github.com/sirupsen/logrus"
)

type InspectionReader interface {
	Inspection(ctx context.Context, inspectionID string) (*types.Inspection, error)
}

type ImageReader interface {
	ImagesByInspectionID(ctx context.Context, inspectionID string) ([]*types.InspectionImage, error)
}

type StatusWriter interface {
	MarkReportGenerated(ctx context.Context, inspectionID string, at time.Time) error
}

// Source is one database handle seen through the repositories.
type Source struct {
	Inspections InspectionReader
	Images      ImageReader
}

type Service struct {
	logger  *logrus.Logger
	primary Source
	replica Source
	writer  StatusWriter
	now     func() time.Time
}

// NewService wires the report service. Generation reads and writes the
// primary; GetReport reads the replica, which may trail the primary, so a
// freshly generated report can briefly read as not ready.
func NewService(logger *logrus.Logger, primary, replica Source, writer StatusWriter) *Service {
	return &Service{
		logger:  logger,
		primary: primary,
		replica: replica,
		writer:  writer,
		now:     time.Now,
	}
}

// Generate requires a complete checklist, stamps the inspection as
// REPORT_GENERATED and returns the report. Regenerating overwrites the
// stamp. Concurrent calls are not serialized; the last write wins.
func (s *Service) Generate(ctx context.Context, inspectionID string) (*types.Report, error) {
	inspection, err := s.primary.Inspections.Inspection(ctx, inspectionID)
	if err != nil {
		return nil, classify(err, "failed to fetch inspection")
	}

	if missing := inspection.Checklist.Missing(); len(missing) > 0 {
		return nil, types.IncompleteChecklistError(missing)
	}

	images, err := s.primary.Images.ImagesByInspectionID(ctx, inspectionID)
	if err != nil {
		return nil, types.UpstreamError(err, "failed to fetch inspection images")
	}

	now := s.now().UTC()
	if err := s.writer.MarkReportGenerated(ctx, inspectionID, now); err != nil {
		return nil, classify(err, "failed to update inspection status")
	}

	report := Build(inspection, images, &now)

	overall := ""
	if report.Summary.OverallCondition != nil {
		overall = string(*report.Summary.OverallCondition)
	}
	s.logger.WithFields(logrus.Fields{
		"inspection_id":     inspectionID,
		"overall_condition": overall,
		"total_images":      report.Summary.TotalImages,
	}).Info("report generated")

	return report, nil
}

// Get rebuilds the report from the replica's current fields. It fails with
// ReportNotReady until the inspection reads as REPORT_GENERATED there.
func (s *Service) Get(ctx context.Context, inspectionID string) (*types.Report, error) {
	inspection, err := s.replica.Inspections.Inspection(ctx, inspectionID)
	if err != nil {
		return nil, classify(err, "failed to fetch inspection")
	}

	if inspection.Status != types.InspectionStatusReportGenerated {
		return nil, types.ErrReportNotReady
	}

	images, err := s.replica.Images.ImagesByInspectionID(ctx, inspectionID)
	if err != nil {
		return nil, types.UpstreamError(err, "failed to fetch inspection images")
	}

	return Build(inspection, images, inspection.ReportGeneratedAt), nil
}

func classify(err error, msg string) error {
	var apiErr *types.Error
	if errors.As(err, &apiErr) {
		return err
	}
	return types.UpstreamError(err, msg)
}
