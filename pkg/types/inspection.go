package types

import (
	"strings"
	"time"
)

type InspectionStatus string

const (
	InspectionStatusCreated         InspectionStatus = "CREATED"
	InspectionStatusInProgress      InspectionStatus = "IN_PROGRESS"
	InspectionStatusCompleted       InspectionStatus = "COMPLETED"
	InspectionStatusReportGenerated InspectionStatus = "REPORT_GENERATED"
)

var inspectionStatuses = []InspectionStatus{
	InspectionStatusCreated,
	InspectionStatusInProgress,
	InspectionStatusCompleted,
	InspectionStatusReportGenerated,
}

// NormalizeStatus upper-cases and trims a caller supplied status.
func NormalizeStatus(s string) InspectionStatus {
	return InspectionStatus(strings.ToUpper(strings.TrimSpace(s)))
}

func (s InspectionStatus) Valid() bool {
	for _, status := range inspectionStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Condition string

const (
	ConditionGood Condition = "Good"
	ConditionFair Condition = "Fair"
	ConditionPoor Condition = "Poor"
)

func (c Condition) Valid() bool {
	switch c {
	case ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// Checklist holds the five condition ratings. A nil item is unset.
type Checklist struct {
	Roof       *Condition `db:"checklist_roof" json:"roof"`
	Foundation *Condition `db:"checklist_foundation" json:"foundation"`
	Plumbing   *Condition `db:"checklist_plumbing" json:"plumbing"`
	Electrical *Condition `db:"checklist_electrical" json:"electrical"`
	HVAC       *Condition `db:"checklist_hvac" json:"hvac"`
}

// ChecklistItem pairs a checklist item name with its current value.
type ChecklistItem struct {
	Name  string
	Value *Condition
}

// Items returns the checklist in its canonical order.
func (c Checklist) Items() []ChecklistItem {
	return []ChecklistItem{
		{Name: "roof", Value: c.Roof},
		{Name: "foundation", Value: c.Foundation},
		{Name: "plumbing", Value: c.Plumbing},
		{Name: "electrical", Value: c.Electrical},
		{Name: "hvac", Value: c.HVAC},
	}
}

// Missing lists the names of unset items.
func (c Checklist) Missing() []string {
	missing := make([]string, 0)
	for _, item := range c.Items() {
		if item.Value == nil {
			missing = append(missing, item.Name)
		}
	}
	return missing
}

type Inspection struct {
	ID              string `db:"inspection_id" json:"inspectionId"`
	PropertyAddress string `db:"property_address" json:"propertyAddress"`
	InspectorName   string `db:"inspector_name" json:"inspectorName"`
	InspectorEmail  string `db:"inspector_email" json:"inspectorEmail"`
	ClientName      string `db:"client_name" json:"clientName"`
	ClientEmail     string `db:"client_email" json:"clientEmail"`

	Status InspectionStatus `db:"status" json:"status"`

	Checklist `json:"checklist"`

	Notes             *string    `db:"notes" json:"notes"`
	ReportGeneratedAt *time.Time `db:"report_generated_at" json:"reportGeneratedAt"`
	CreatedAt         time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updatedAt"`

	Images []*InspectionImage `db:"-" json:"images"`
}

type InspectionImage struct {
	ID           string    `db:"image_id" json:"imageId"`
	InspectionID string    `db:"inspection_id" json:"-"`
	StorageKey   string    `db:"storage_key" json:"storageKey"`
	FileName     string    `db:"file_name" json:"fileName"`
	Position     int       `db:"position" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
}

const DefaultImageFileName = "image.jpg"

type CreateInspectionRequest struct {
	PropertyAddress string `json:"propertyAddress"`
	InspectorName   string `json:"inspectorName"`
	InspectorEmail  string `json:"inspectorEmail"`
	ClientName      string `json:"clientName"`
	ClientEmail     string `json:"clientEmail"`
}

// InspectionFilter is decoded from the list endpoint's query string.
type InspectionFilter struct {
	Status string `form:"status"`
}

func (c Condition) Ptr() *Condition {
	return &c
}
