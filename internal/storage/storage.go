package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
)

// Presigner issues time-limited URLs for a single object operation. It holds
// no metadata; callers own the mapping from keys to records.
type Presigner interface {
	PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
	PresignDownload(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// ImageKey derives the object key for an inspection image:
// inspections/<inspectionID>/<imageID>.<ext>, where ext is the part of
// fileName after its last dot.
func ImageKey(inspectionID, imageID, fileName string) string {
	key := fmt.Sprintf("inspections/%s/%s", inspectionID, imageID)

	ext := strings.TrimPrefix(path.Ext(strings.TrimSpace(fileName)), ".")
	if ext == "" {
		return key
	}

	return key + "." + ext
}
