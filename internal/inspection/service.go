// Package inspection implements the inspection lifecycle: creation, listing,
// sparse updates with full-replace image sets, and presigned storage URLs
// for image upload and download.
package inspection

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"inspections/internal/storage"
	"inspections/internal/utils"
	"inspections/pkg/types"

	"github.com/sirupsen/logrus"
)

type InspectionRepository interface {
	Inspection(ctx context.Context, inspectionID string) (*types.Inspection, error)
	Inspections(ctx context.Context, status types.InspectionStatus) ([]*types.Inspection, error)
	CreateInspection(ctx context.Context, inspection *types.Inspection) error
	UpdateInspection(ctx context.Context, inspectionID string, patch *types.InspectionPatch) error
}

type ImageRepository interface {
	ImagesByInspectionID(ctx context.Context, inspectionID string) ([]*types.InspectionImage, error)
}

type Service struct {
	logger      *logrus.Logger
	inspections InspectionRepository
	images      ImageRepository
	presigner   storage.Presigner
	newImageID  func() string
}

func NewService(
	logger *logrus.Logger,
	inspections InspectionRepository,
	images ImageRepository,
	presigner storage.Presigner,
) *Service {
	return &Service{
		logger:      logger,
		inspections: inspections,
		images:      images,
		presigner:   presigner,
		newImageID:  utils.NewImageID,
	}
}

func (s *Service) Create(ctx context.Context, req *types.CreateInspectionRequest) (*types.Inspection, error) {
	address := strings.TrimSpace(req.PropertyAddress)
	inspectorName := strings.TrimSpace(req.InspectorName)
	inspectorEmail := strings.TrimSpace(req.InspectorEmail)

	if address == "" || inspectorName == "" || inspectorEmail == "" {
		return nil, types.ValidationError("Missing required fields: propertyAddress, inspectorName, inspectorEmail")
	}

	inspection := &types.Inspection{
		PropertyAddress: address,
		InspectorName:   inspectorName,
		InspectorEmail:  inspectorEmail,
		ClientName:      strings.TrimSpace(req.ClientName),
		ClientEmail:     strings.TrimSpace(req.ClientEmail),
		Status:          types.InspectionStatusCreated,
	}

	if err := s.inspections.CreateInspection(ctx, inspection); err != nil {
		return nil, types.UpstreamError(err, "failed to create inspection")
	}

	s.logger.WithField("inspection_id", inspection.ID).Info("inspection created")

	inspection.Images = make([]*types.InspectionImage, 0)
	return inspection, nil
}

// List returns inspections newest first, optionally restricted to one
// status. Images are fetched per inspection.
func (s *Service) List(ctx context.Context, status string) ([]*types.Inspection, error) {
	var filter types.InspectionStatus
	if strings.TrimSpace(status) != "" {
		filter = types.NormalizeStatus(status)
	}

	inspections, err := s.inspections.Inspections(ctx, filter)
	if err != nil {
		return nil, types.UpstreamError(err, "failed to list inspections")
	}

	for _, inspection := range inspections {
		if err := s.attachImages(ctx, inspection); err != nil {
			return nil, err
		}
	}

	return inspections, nil
}

func (s *Service) Get(ctx context.Context, inspectionID string) (*types.Inspection, error) {
	inspection, err := s.inspections.Inspection(ctx, inspectionID)
	if err != nil {
		return nil, classify(err, "failed to fetch inspection")
	}

	if err := s.attachImages(ctx, inspection); err != nil {
		return nil, err
	}

	return inspection, nil
}

// Update applies a sparse patch and returns the stored result. An unknown id
// is reported as not found before the patch is validated.
func (s *Service) Update(ctx context.Context, inspectionID string, patch *types.InspectionPatch) (*types.Inspection, error) {
	if _, err := s.inspections.Inspection(ctx, inspectionID); err != nil {
		return nil, classify(err, "failed to fetch inspection")
	}

	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	if err := s.inspections.UpdateInspection(ctx, inspectionID, patch); err != nil {
		return nil, classify(err, "failed to update inspection")
	}

	entry := s.logger.WithField("inspection_id", inspectionID)
	if patch.ReplacesImages() {
		entry = entry.WithField("images", len(patch.Images.Value))
	}
	entry.Info("inspection updated")

	return s.Get(ctx, inspectionID)
}

// Presign issues an upload or download URL for an inspection image. It never
// touches the store: attaching the image to the inspection is a separate
// Update carrying the returned imageId and storageKey.
func (s *Service) Presign(ctx context.Context, req *types.PresignRequest) (*types.PresignedURL, error) {
	inspectionID := strings.TrimSpace(req.InspectionID)
	fileName := strings.TrimSpace(req.FileName)
	if inspectionID == "" || fileName == "" {
		return nil, types.ValidationError("Missing required fields: inspectionId, fileName")
	}

	operation := types.PresignOperation(strings.ToLower(strings.TrimSpace(string(req.Operation))))
	if operation == "" {
		operation = types.PresignUpload
	}

	imageID := s.newImageID()
	key := storage.ImageKey(inspectionID, imageID, fileName)

	out := &types.PresignedURL{
		StorageKey: key,
		ImageID:    imageID,
		Operation:  operation,
	}

	switch operation {
	case types.PresignUpload:
		contentType := strings.TrimSpace(req.ContentType)
		if contentType == "" {
			contentType = types.DefaultImageContentType
		}

		url, err := s.presigner.PresignUpload(ctx, key, contentType, types.UploadURLTTL)
		if err != nil {
			return nil, types.UpstreamError(err, "failed to presign upload url")
		}
		out.URL = url
		out.ExpiresIn = int(types.UploadURLTTL.Seconds())

	case types.PresignDownload:
		if existing := strings.TrimSpace(req.StorageKey); existing != "" {
			out.StorageKey = existing
		}

		url, err := s.presigner.PresignDownload(ctx, out.StorageKey, types.DownloadURLTTL)
		if err != nil {
			return nil, types.UpstreamError(err, "failed to presign download url")
		}
		out.URL = url
		out.ExpiresIn = int(types.DownloadURLTTL.Seconds())

	default:
		return nil, types.ValidationError(fmt.Sprintf("Unsupported operation %q: use upload or download", req.Operation))
	}

	return out, nil
}

func (s *Service) attachImages(ctx context.Context, inspection *types.Inspection) error {
	images, err := s.images.ImagesByInspectionID(ctx, inspection.ID)
	if err != nil {
		return types.UpstreamError(err, "failed to fetch inspection images")
	}
	inspection.Images = images
	return nil
}

// validatePatch rejects values the store must never hold. REPORT_GENERATED
// can only be reached through report generation, which checks the
// checklist first.
func validatePatch(patch *types.InspectionPatch) error {
	for _, item := range []types.Optional[*types.Condition]{
		patch.Checklist.Roof,
		patch.Checklist.Foundation,
		patch.Checklist.Plumbing,
		patch.Checklist.Electrical,
		patch.Checklist.HVAC,
	} {
		if item.Set && item.Value != nil && !item.Value.Valid() {
			return &types.Error{
				Kind:    types.KindValidation,
				Message: "Invalid checklist value",
				Details: map[string]any{"value": *item.Value, "allowed": []types.Condition{types.ConditionGood, types.ConditionFair, types.ConditionPoor}},
			}
		}
	}

	if patch.Status.Set {
		status := types.NormalizeStatus(string(patch.Status.Value))
		if status == types.InspectionStatusReportGenerated {
			return types.ValidationError("Status REPORT_GENERATED can only be set by generating a report")
		}
		if !status.Valid() {
			return types.ValidationError(fmt.Sprintf("Unknown status %q", patch.Status.Value))
		}
	}

	if patch.ReplacesImages() {
		for i, img := range patch.Images.Value {
			if strings.TrimSpace(img.ImageID) == "" || strings.TrimSpace(img.StorageKey) == "" {
				return &types.Error{
					Kind:    types.KindValidation,
					Message: "Each image requires imageId and storageKey",
					Details: map[string]any{"index": i},
				}
			}
		}
	}

	return nil
}

// classify keeps domain errors as they are and marks everything else as an
// upstream failure.
func classify(err error, msg string) error {
	var apiErr *types.Error
	if errors.As(err, &apiErr) {
		return err
	}
	return types.UpstreamError(err, msg)
}
