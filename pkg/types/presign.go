package types

import "time"

type PresignOperation string

const (
	PresignUpload   PresignOperation = "upload"
	PresignDownload PresignOperation = "download"
)

const (
	UploadURLTTL   = 5 * time.Minute
	DownloadURLTTL = time.Hour

	DefaultImageContentType = "image/jpeg"
)

type PresignRequest struct {
	InspectionID string           `json:"inspectionId"`
	FileName     string           `json:"fileName"`
	ContentType  string           `json:"contentType"`
	Operation    PresignOperation `json:"operation"`
	StorageKey   string           `json:"storageKey"`
}

type PresignedURL struct {
	URL        string           `json:"url"`
	StorageKey string           `json:"storageKey"`
	ImageID    string           `json:"imageId"`
	ExpiresIn  int              `json:"expiresIn"`
	Operation  PresignOperation `json:"operation"`
}
