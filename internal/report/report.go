package report

import (
	"time"

	"inspections/pkg/types"
)

// Build projects an inspection and its images into a report. generatedAt
// is the milestone stamp; the report content always reflects the current
// fields.
func Build(inspection *types.Inspection, images []*types.InspectionImage, generatedAt *time.Time) *types.Report {
	reportImages := make([]*types.ReportImage, 0, len(images))
	for _, img := range images {
		reportImages = append(reportImages, &types.ReportImage{
			ImageID:    img.ID,
			StorageKey: img.StorageKey,
			FileName:   img.FileName,
		})
	}

	return &types.Report{
		ReportID:        "report_" + inspection.ID,
		InspectionID:    inspection.ID,
		GeneratedAt:     generatedAt,
		PropertyAddress: inspection.PropertyAddress,
		Inspector: types.ReportContact{
			Name:  inspection.InspectorName,
			Email: inspection.InspectorEmail,
		},
		Client: types.ReportContact{
			Name:  inspection.ClientName,
			Email: inspection.ClientEmail,
		},
		Summary: types.ReportSummary{
			Checklist:        inspection.Checklist,
			OverallCondition: OverallCondition(inspection.Checklist),
			Notes:            inspection.Notes,
			TotalImages:      len(reportImages),
		},
		Images: reportImages,
	}
}
