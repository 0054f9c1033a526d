package types

import "encoding/json"

// Optional records whether a JSON field was present in a request body,
// independent of its value. A field sent as null is present with a zero
// Value.
type Optional[T any] struct {
	Value T
	Set   bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

type ChecklistPatch struct {
	Roof       Optional[*Condition] `json:"roof"`
	Foundation Optional[*Condition] `json:"foundation"`
	Plumbing   Optional[*Condition] `json:"plumbing"`
	Electrical Optional[*Condition] `json:"electrical"`
	HVAC       Optional[*Condition] `json:"hvac"`
}

// Columns maps each present checklist item to its column.
func (p ChecklistPatch) Columns() map[string]*Condition {
	out := make(map[string]*Condition)
	for column, item := range map[string]Optional[*Condition]{
		"checklist_roof":       p.Roof,
		"checklist_foundation": p.Foundation,
		"checklist_plumbing":   p.Plumbing,
		"checklist_electrical": p.Electrical,
		"checklist_hvac":       p.HVAC,
	} {
		if item.Set {
			out[column] = item.Value
		}
	}
	return out
}

type ImageInput struct {
	ImageID    string `json:"imageId"`
	StorageKey string `json:"storageKey"`
	FileName   string `json:"fileName"`
}

// InspectionPatch is a sparse update. Only fields marked Set are written.
type InspectionPatch struct {
	Checklist   ChecklistPatch             `json:"checklist"`
	Notes       Optional[*string]          `json:"notes"`
	ClientName  Optional[string]           `json:"clientName"`
	ClientEmail Optional[string]           `json:"clientEmail"`
	Status      Optional[InspectionStatus] `json:"status"`
	Images      Optional[[]ImageInput]     `json:"images"`
}

// ReplacesImages reports whether the patch carries an images array. An
// explicit null leaves the current set alone.
func (p *InspectionPatch) ReplacesImages() bool {
	return p.Images.Set && p.Images.Value != nil
}
