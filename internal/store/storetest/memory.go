// Package storetest provides an in-memory implementation of the inspection
// and image repositories with the same observable semantics as the
// Postgres-backed ones: newest-first listing, sparse patches and full
// replacement of image sets.
package storetest

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"inspections/internal/utils"
	"inspections/pkg/types"
)

type Store struct {
	mu          sync.Mutex
	inspections map[string]*types.Inspection
	images      map[string][]*types.InspectionImage
	now         func() time.Time

	// FailWith, when set, is returned by every call.
	FailWith error
}

func New() *Store {
	return &Store{
		inspections: make(map[string]*types.Inspection),
		images:      make(map[string][]*types.InspectionImage),
		now:         time.Now,
	}
}

// SetClock overrides the time source used for timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Inspection(_ context.Context, inspectionID string) (*types.Inspection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return nil, s.FailWith
	}

	inspection, ok := s.inspections[inspectionID]
	if !ok {
		return nil, types.ErrInspectionNotFound
	}
	return cloneInspection(inspection), nil
}

func (s *Store) Inspections(_ context.Context, status types.InspectionStatus) ([]*types.Inspection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return nil, s.FailWith
	}

	out := make([]*types.Inspection, 0, len(s.inspections))
	for _, inspection := range s.inspections {
		if status != "" && inspection.Status != status {
			continue
		}
		out = append(out, cloneInspection(inspection))
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (s *Store) CreateInspection(_ context.Context, inspection *types.Inspection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return s.FailWith
	}

	now := s.now().UTC()
	if inspection.ID == "" {
		inspection.ID = utils.NewInspectionID()
	}
	if _, exists := s.inspections[inspection.ID]; exists {
		return errors.New("duplicate key value violates unique constraint \"inspections_pkey\"")
	}
	if inspection.Status == "" {
		inspection.Status = types.InspectionStatusCreated
	}
	inspection.CreatedAt = now
	inspection.UpdatedAt = now

	s.inspections[inspection.ID] = cloneInspection(inspection)
	return nil
}

func (s *Store) UpdateInspection(_ context.Context, inspectionID string, patch *types.InspectionPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return s.FailWith
	}

	inspection, ok := s.inspections[inspectionID]
	if !ok {
		return types.ErrInspectionNotFound
	}

	now := s.now().UTC()
	applyChecklist(&inspection.Checklist, patch.Checklist)
	if patch.Notes.Set {
		inspection.Notes = patch.Notes.Value
	}
	if patch.ClientName.Set {
		inspection.ClientName = strings.TrimSpace(patch.ClientName.Value)
	}
	if patch.ClientEmail.Set {
		inspection.ClientEmail = strings.TrimSpace(patch.ClientEmail.Value)
	}
	if patch.Status.Set {
		inspection.Status = types.NormalizeStatus(string(patch.Status.Value))
	}
	inspection.UpdatedAt = now

	if patch.ReplacesImages() {
		rows := make([]*types.InspectionImage, 0, len(patch.Images.Value))
		for i, in := range patch.Images.Value {
			fileName := strings.TrimSpace(in.FileName)
			if fileName == "" {
				fileName = types.DefaultImageFileName
			}
			rows = append(rows, &types.InspectionImage{
				ID:           in.ImageID,
				InspectionID: inspectionID,
				StorageKey:   in.StorageKey,
				FileName:     fileName,
				Position:     i,
				CreatedAt:    now,
			})
		}
		s.images[inspectionID] = rows
	}

	return nil
}

func (s *Store) MarkReportGenerated(_ context.Context, inspectionID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return s.FailWith
	}

	inspection, ok := s.inspections[inspectionID]
	if !ok {
		return types.ErrInspectionNotFound
	}

	inspection.Status = types.InspectionStatusReportGenerated
	inspection.ReportGeneratedAt = utils.TimePtr(at)
	inspection.UpdatedAt = at
	return nil
}

func (s *Store) ImagesByInspectionID(_ context.Context, inspectionID string) ([]*types.InspectionImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return nil, s.FailWith
	}

	out := make([]*types.InspectionImage, 0, len(s.images[inspectionID]))
	for _, img := range s.images[inspectionID] {
		c := *img
		out = append(out, &c)
	}
	return out, nil
}

// Snapshot returns a copy of the store's contents, usable as a lagging
// replica in tests.
func (s *Store) Snapshot() *Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := New()
	out.now = s.now
	for id, inspection := range s.inspections {
		out.inspections[id] = cloneInspection(inspection)
	}
	for id, images := range s.images {
		copied := make([]*types.InspectionImage, 0, len(images))
		for _, img := range images {
			c := *img
			copied = append(copied, &c)
		}
		out.images[id] = copied
	}
	return out
}

func applyChecklist(c *types.Checklist, p types.ChecklistPatch) {
	if p.Roof.Set {
		c.Roof = p.Roof.Value
	}
	if p.Foundation.Set {
		c.Foundation = p.Foundation.Value
	}
	if p.Plumbing.Set {
		c.Plumbing = p.Plumbing.Value
	}
	if p.Electrical.Set {
		c.Electrical = p.Electrical.Value
	}
	if p.HVAC.Set {
		c.HVAC = p.HVAC.Value
	}
}

func cloneInspection(in *types.Inspection) *types.Inspection {
	out := *in
	out.Images = nil
	if in.Notes != nil {
		notes := *in.Notes
		out.Notes = &notes
	}
	if in.ReportGeneratedAt != nil {
		at := *in.ReportGeneratedAt
		out.ReportGeneratedAt = &at
	}
	return &out
}
