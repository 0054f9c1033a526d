package seed

import (
	"context"
	"math/rand"
	"testing"

	"inspections/internal/store/storetest"
	"inspections/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspections(t *testing.T) {
	ctx := context.Background()
	st := storetest.New()

	created, err := Inspections(ctx, st, st, 40, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	require.Len(t, created, 40)

	all, err := st.Inspections(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 40)

	// Returned records match what was written, not the pre-update structs.
	statuses := make(map[types.InspectionStatus]int)
	for _, insp := range created {
		statuses[insp.Status]++

		stored, err := st.Inspection(ctx, insp.ID)
		require.NoError(t, err)
		assert.Equal(t, stored.Status, insp.Status)
		assert.Equal(t, stored.Checklist, insp.Checklist)
		assert.Equal(t, stored.Notes, insp.Notes)

		images, err := st.ImagesByInspectionID(ctx, insp.ID)
		require.NoError(t, err)
		assert.Equal(t, images, insp.Images)
	}
	assert.Greater(t, statuses[types.InspectionStatusCompleted]+statuses[types.InspectionStatusReportGenerated], 0)

	for _, insp := range all {
		require.True(t, insp.Status.Valid(), insp.Status)

		switch insp.Status {
		case types.InspectionStatusCompleted:
			assert.Empty(t, insp.Missing(), insp.ID)
			assert.Nil(t, insp.ReportGeneratedAt)
		case types.InspectionStatusReportGenerated:
			assert.Empty(t, insp.Missing(), insp.ID)
			assert.NotNil(t, insp.ReportGeneratedAt)
		case types.InspectionStatusCreated:
			assert.Len(t, insp.Missing(), 5)
		}

		images, err := st.ImagesByInspectionID(ctx, insp.ID)
		require.NoError(t, err)
		for _, img := range images {
			assert.Contains(t, img.StorageKey, "inspections/"+insp.ID+"/")
		}
	}
}

func TestInspectionsZeroCount(t *testing.T) {
	st := storetest.New()
	created, err := Inspections(context.Background(), st, st, 0, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Empty(t, created)
}
