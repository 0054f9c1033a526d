package types

import "time"

type Report struct {
	ReportID        string         `json:"reportId"`
	InspectionID    string         `json:"inspectionId"`
	GeneratedAt     *time.Time     `json:"generatedAt"`
	PropertyAddress string         `json:"propertyAddress"`
	Inspector       ReportContact  `json:"inspector"`
	Client          ReportContact  `json:"client"`
	Summary         ReportSummary  `json:"summary"`
	Images          []*ReportImage `json:"images"`
}

type ReportContact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ReportSummary struct {
	Checklist        Checklist  `json:"checklist"`
	OverallCondition *Condition `json:"overallCondition"`
	Notes            *string    `json:"notes"`
	TotalImages      int        `json:"totalImages"`
}

type ReportImage struct {
	ImageID    string `json:"imageId"`
	StorageKey string `json:"storageKey"`
	FileName   string `json:"fileName"`
}
