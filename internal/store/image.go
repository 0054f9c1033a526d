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

var imageColumns = utils.StructTagValues(types.InspectionImage{})

type ImageRepository struct {
	pool Pool
}

func NewImageRepository(pool Pool) *ImageRepository {
	return &ImageRepository{pool: pool}
}

// ImagesByInspectionID returns the attached images in the order they were
// supplied by the last replacement.
func (r *ImageRepository) ImagesByInspectionID(ctx context.Context, inspectionID string) ([]*types.InspectionImage, error) {
	query, args, err := psql().
		Select(imageColumns...).
		From(imageTableName).
		Where(sq.Eq{"inspection_id": inspectionID}).
		OrderBy("position ASC", "created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate images query: %w", err)
	}

	images := make([]*types.InspectionImage, 0)
	err = pgxscan.Select(ctx, r.pool, &images, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch images for inspection %s: %w", inspectionID, err)
	}

	return images, nil
}

// buildImageRows turns request images into rows owned by inspectionID.
func buildImageRows(inspectionID string, inputs []types.ImageInput, now time.Time) []*types.InspectionImage {
	rows := make([]*types.InspectionImage, 0, len(inputs))
	for i, in := range inputs {
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
	return rows
}

func deleteImagesQuery(inspectionID string) (string, []any, error) {
	return psql().
		Delete(imageTableName).
		Where(sq.Eq{"inspection_id": inspectionID}).
		ToSql()
}

func insertImagesQuery(rows []*types.InspectionImage) (string, []any, error) {
	builder := psql().Insert(imageTableName).Columns(imageColumns...)
	for _, row := range rows {
		builder = builder.Values(row.ID, row.InspectionID, row.StorageKey, row.FileName, row.Position, row.CreatedAt)
	}
	return builder.ToSql()
}

// replaceImages discards every image of the inspection and inserts rows in
// their place. Callers run it inside the update transaction.
func replaceImages(ctx context.Context, db execer, inspectionID string, rows []*types.InspectionImage) error {
	query, args, err := deleteImagesQuery(inspectionID)
	if err != nil {
		return fmt.Errorf("failed to generate delete images query: %w", err)
	}

	if _, err := db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete images: %w", err)
	}

	if len(rows) == 0 {
		return nil
	}

	query, args, err = insertImagesQuery(rows)
	if err != nil {
		return fmt.Errorf("failed to generate insert images query: %w", err)
	}

	_, err = db.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to insert images")
}
