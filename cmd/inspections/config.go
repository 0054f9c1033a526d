package main

import (
	"context"
	"fmt"

	"inspections/internal/db"
	"inspections/internal/storage"
	"inspections/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const (
	inspectionAPIPort = 3001
	reportServicePort = 3002
	frontendPort      = 8080
)

func loadConfig(c *cli.Context, defaultPort uint) (*types.Config, error) {
	cfg := new(types.Config)
	if err := envconfig.Process(c.String("env-prefix"), cfg); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if cfg.ServerPort == 0 {
		cfg.ServerPort = defaultPort
	}

	return cfg, nil
}

func requireDatabase(cfg *types.Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("set DATABASE_URL")
	}
	return nil
}

func dbOptions(cfg *types.Config) db.Options {
	return db.Options{
		URL:      cfg.DatabaseURL,
		Schema:   cfg.DatabaseSchema,
		MaxConns: cfg.DatabaseMaxConns,
	}
}

func newLogger(cfg *types.Config, service string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.WithError(err).WithField("service", service).Warn("invalid LOG_LEVEL, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

func loadAWSConfig(ctx context.Context) (aws.Config, error) {
	config, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	return config, nil
}

func newPresigner(ctx context.Context, cfg *types.Config) (storage.Presigner, error) {
	switch cfg.StorageBackend {
	case "minio":
		return storage.NewMinIOPresigner(ctx, storage.MinIOOptions{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			UseSSL:    cfg.MinIOUseSSL,
			Bucket:    cfg.ImageBucketName,
		})
	case "s3", "":
		awsConfig, err := loadAWSConfig(ctx)
		if err != nil {
			return nil, err
		}
		return storage.NewS3Presigner(s3.NewFromConfig(awsConfig), cfg.ImageBucketName), nil
	}

	return nil, fmt.Errorf("unknown STORAGE_BACKEND %q, expected s3 or minio", cfg.StorageBackend)
}
