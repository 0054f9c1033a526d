package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inspections/internal/utils"
	"inspections/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

var inspectionColumns = utils.StructTagValues(types.Inspection{})

type InspectionRepository struct {
	pool Pool
}

func NewInspectionRepository(pool Pool) *InspectionRepository {
	return &InspectionRepository{pool: pool}
}

func (r *InspectionRepository) Inspection(ctx context.Context, inspectionID string) (*types.Inspection, error) {

	query, args, err := psql().Select(inspectionColumns...).From(inspectionTableName).
		Where(sq.Eq{"inspection_id": inspectionID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate inspection query: %w", err)
	}

	var inspection = new(types.Inspection)
	err = pgxscan.Get(ctx, r.pool, inspection, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrInspectionNotFound
		}
		return nil, fmt.Errorf("failed to fetch inspection %s: %w", inspectionID, err)
	}

	return inspection, nil
}

// Inspections lists inspections newest first. An empty status lists all.
func (r *InspectionRepository) Inspections(ctx context.Context, status types.InspectionStatus) ([]*types.Inspection, error) {

	builder := psql().Select(inspectionColumns...).From(inspectionTableName)
	if status != "" {
		builder = builder.Where(sq.Eq{"status": status})
	}

	query, args, err := builder.OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate inspections query: %w", err)
	}

	var inspections = make([]*types.Inspection, 0)
	err = pgxscan.Select(ctx, r.pool, &inspections, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list inspections: %w", err)
	}

	return inspections, nil
}

// CreateInspection assigns the id and timestamps and inserts the row.
func (r *InspectionRepository) CreateInspection(ctx context.Context, inspection *types.Inspection) error {

	now := time.Now().UTC()
	if inspection.ID == "" {
		inspection.ID = utils.NewInspectionID()
	}
	if inspection.Status == "" {
		inspection.Status = types.InspectionStatusCreated
	}
	inspection.CreatedAt = now
	inspection.UpdatedAt = now

	query, args, err := psql().Insert(inspectionTableName).SetMap(utils.StructToMap(inspection)).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert inspection query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create inspection")

}

// UpdateInspection applies the present fields of patch and, when the patch
// carries images, replaces the image set. Both happen in one transaction.
func (r *InspectionRepository) UpdateInspection(ctx context.Context, inspectionID string, patch *types.InspectionPatch) error {

	now := time.Now().UTC()

	query, args, err := updateInspectionQuery(inspectionID, patch, now)
	if err != nil {
		return fmt.Errorf("failed to generate update inspection query for inspection %s: %w", inspectionID, err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update inspection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrInspectionNotFound
	}

	if patch.ReplacesImages() {
		rows := buildImageRows(inspectionID, patch.Images.Value, now)
		if err := replaceImages(ctx, tx, inspectionID, rows); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// MarkReportGenerated moves the inspection into REPORT_GENERATED and stamps
// the generation time, overwriting any earlier stamp.
func (r *InspectionRepository) MarkReportGenerated(ctx context.Context, inspectionID string, at time.Time) error {

	query, args, err := psql().Update(inspectionTableName).
		SetMap(map[string]any{
			"status":              types.InspectionStatusReportGenerated,
			"report_generated_at": at,
			"updated_at":          at,
		}).
		Where(sq.Eq{"inspection_id": inspectionID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate report status query for inspection %s: %w", inspectionID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to mark report generated: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrInspectionNotFound
	}

	return nil
}

// updateInspectionQuery builds an UPDATE that only touches the fields
// present in patch. updated_at is always written so the statement also
// serves as the existence check.
func updateInspectionQuery(inspectionID string, patch *types.InspectionPatch, now time.Time) (string, []any, error) {
	set := map[string]any{"updated_at": now}

	for column, value := range patch.Checklist.Columns() {
		set[column] = value
	}
	if patch.Notes.Set {
		set["notes"] = patch.Notes.Value
	}
	if patch.ClientName.Set {
		set["client_name"] = strings.TrimSpace(patch.ClientName.Value)
	}
	if patch.ClientEmail.Set {
		set["client_email"] = strings.TrimSpace(patch.ClientEmail.Value)
	}
	if patch.Status.Set {
		set["status"] = types.NormalizeStatus(string(patch.Status.Value))
	}

	return psql().Update(inspectionTableName).
		SetMap(set).
		Where(sq.Eq{"inspection_id": inspectionID}).
		ToSql()
}
