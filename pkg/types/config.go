package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`

	// Relational store. DatabaseReadURL points at a replica that may lag
	// behind the primary; when empty the primary is used for reads as well.
	DatabaseURL      string `envconfig:"DATABASE_URL"`
	DatabaseReadURL  string `envconfig:"DATABASE_READ_URL"`
	DatabaseSchema   string `envconfig:"DATABASE_SCHEMA" default:"public"`
	DatabaseMaxConns int32  `envconfig:"DATABASE_MAX_CONNS" default:"10"`

	// Object storage
	StorageBackend  string `envconfig:"STORAGE_BACKEND" default:"s3"` // s3 or minio
	ImageBucketName string `envconfig:"IMAGE_BUCKET_NAME" default:"inspection-images-bucket"`
	MinIOEndpoint   string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	MinIOAccessKey  string `envconfig:"MINIO_ACCESS_KEY"`
	MinIOSecretKey  string `envconfig:"MINIO_SECRET_KEY"`
	MinIOUseSSL     bool   `envconfig:"MINIO_USE_SSL"`

	// Edge router
	InspectionAPIURL string `envconfig:"INSPECTION_API_URL"`
	ReportAPIURL     string `envconfig:"REPORT_API_URL"`
	StaticDir        string `envconfig:"STATIC_DIR" default:"dist"`
}

// HasReplica reports whether reads for the report view go to a separate
// database handle.
func (c *Config) HasReplica() bool {
	return c.DatabaseReadURL != "" && c.DatabaseReadURL != c.DatabaseURL
}
