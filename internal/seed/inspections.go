package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"inspections/internal/storage"
	"inspections/internal/utils"
	"inspections/pkg/types"
)

// Repository is the subset of the inspection store the seeder writes through.
type Repository interface {
	Inspection(ctx context.Context, inspectionID string) (*types.Inspection, error)
	CreateInspection(ctx context.Context, inspection *types.Inspection) error
	UpdateInspection(ctx context.Context, inspectionID string, patch *types.InspectionPatch) error
	MarkReportGenerated(ctx context.Context, inspectionID string, at time.Time) error
}

var fakeAddresses = []string{
	"123 Main St, Springfield",
	"48 Harbor View Rd, Portland",
	"7 Orchard Lane, Burlington",
	"2210 Elm Ave, Madison",
	"91 Prospect Hill, Providence",
	"560 Canyon Dr, Boulder",
	"14 Cedar Ct, Asheville",
	"3301 Lakeshore Blvd, Duluth",
}

var fakePeople = []types.ReportContact{
	{Name: "Jane Doe", Email: "jane.doe@example.com"},
	{Name: "Sam Rivera", Email: "sam.rivera@example.com"},
	{Name: "Priya Natarajan", Email: "priya.n@example.com"},
	{Name: "Marcus Lee", Email: "marcus.lee@example.com"},
	{Name: "Ana Costa", Email: "ana.costa@example.com"},
	{Name: "Tom Becker", Email: "tom.becker@example.com"},
}

var fakeNotes = []string{
	"Minor wear on shingles near the chimney.",
	"Water heater is past its rated service life.",
	"Hairline cracks in the basement slab, no displacement.",
	"Panel labeling incomplete.",
	"Furnace filter overdue for replacement.",
}

var conditions = []types.Condition{types.ConditionGood, types.ConditionFair, types.ConditionPoor}

type weightedStatus struct {
	Status types.InspectionStatus
	Weight int
}

var weightedStatuses = []weightedStatus{
	{Status: types.InspectionStatusCreated, Weight: 30},
	{Status: types.InspectionStatusInProgress, Weight: 30},
	{Status: types.InspectionStatusCompleted, Weight: 20},
	{Status: types.InspectionStatusReportGenerated, Weight: 20},
}

type ImageReader interface {
	ImagesByInspectionID(ctx context.Context, inspectionID string) ([]*types.InspectionImage, error)
}

// Inspections creates count demo inspections spread across every status.
// Completed and report-generated inspections get a full checklist and a
// few image records; in-progress ones a partial checklist. The returned
// records are read back from the store after all writes.
func Inspections(ctx context.Context, repo Repository, images ImageReader, count int, rng *rand.Rand) ([]*types.Inspection, error) {
	created := make([]*types.Inspection, 0, max(count, 0))
	if count <= 0 {
		return created, nil
	}

	for i := 0; i < count; i++ {
		inspector := fakePeople[rng.Intn(len(fakePeople))]
		client := fakePeople[rng.Intn(len(fakePeople))]

		inspection := &types.Inspection{
			PropertyAddress: fakeAddresses[rng.Intn(len(fakeAddresses))],
			InspectorName:   inspector.Name,
			InspectorEmail:  inspector.Email,
			ClientName:      client.Name,
			ClientEmail:     client.Email,
		}
		if err := repo.CreateInspection(ctx, inspection); err != nil {
			return created, fmt.Errorf("failed to create seed inspection %d: %w", i+1, err)
		}

		status := pickWeightedStatus(rng)
		if status != types.InspectionStatusCreated {
			patch := progressPatch(inspection.ID, status, rng)
			if err := repo.UpdateInspection(ctx, inspection.ID, patch); err != nil {
				return created, fmt.Errorf("failed to update seed inspection %s: %w", inspection.ID, err)
			}
		}

		if status == types.InspectionStatusReportGenerated {
			at := time.Now().UTC().Add(-time.Duration(rng.Intn(72)) * time.Hour)
			if err := repo.MarkReportGenerated(ctx, inspection.ID, at); err != nil {
				return created, fmt.Errorf("failed to mark seed report for %s: %w", inspection.ID, err)
			}
		}

		stored, err := repo.Inspection(ctx, inspection.ID)
		if err != nil {
			return created, fmt.Errorf("failed to read back seed inspection %s: %w", inspection.ID, err)
		}
		stored.Images, err = images.ImagesByInspectionID(ctx, inspection.ID)
		if err != nil {
			return created, fmt.Errorf("failed to read back seed images for %s: %w", inspection.ID, err)
		}

		created = append(created, stored)
	}

	return created, nil
}

func progressPatch(inspectionID string, status types.InspectionStatus, rng *rand.Rand) *types.InspectionPatch {
	patch := &types.InspectionPatch{}

	items := []*types.Optional[*types.Condition]{
		&patch.Checklist.Roof,
		&patch.Checklist.Foundation,
		&patch.Checklist.Plumbing,
		&patch.Checklist.Electrical,
		&patch.Checklist.HVAC,
	}

	filled := len(items)
	if status == types.InspectionStatusInProgress {
		filled = rng.Intn(len(items))
	}
	for _, item := range items[:filled] {
		*item = types.Some(conditions[rng.Intn(len(conditions))].Ptr())
	}

	if status == types.InspectionStatusInProgress {
		patch.Status = types.Some(types.InspectionStatusInProgress)
		return patch
	}

	patch.Status = types.Some(types.InspectionStatusCompleted)
	patch.Notes = types.Some(utils.StringPtr(fakeNotes[rng.Intn(len(fakeNotes))]))

	images := make([]types.ImageInput, rng.Intn(4))
	for i := range images {
		imageID := utils.NewImageID()
		fileName := fmt.Sprintf("photo-%d.jpg", i+1)
		images[i] = types.ImageInput{
			ImageID:    imageID,
			StorageKey: storage.ImageKey(inspectionID, imageID, fileName),
			FileName:   fileName,
		}
	}
	patch.Images = types.Some(images)

	return patch
}

func pickWeightedStatus(rng *rand.Rand) types.InspectionStatus {
	total := 0
	for _, item := range weightedStatuses {
		total += item.Weight
	}

	roll := rng.Intn(total)
	running := 0
	for _, item := range weightedStatuses {
		running += item.Weight
		if roll < running {
			return item.Status
		}
	}

	return types.InspectionStatusCreated
}
