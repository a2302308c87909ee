package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/snapit-app/server/pkg/internal/conf"
)

// Artifact is one stored image: the object name used to release it later and
// the public retrieval URL.
type Artifact struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type Driver interface {
	Upload(ctx context.Context, content io.Reader, size int64, contentType, folder string) (Artifact, error)
	Release(ctx context.Context, artifactID string) error
}

var C Driver

const callTimeout = 30 * time.Second

func NewMinio(cfg *conf.Config) error {
	client, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("unable to connect object storage: %w", err)
	}

	scheme := "http"
	if cfg.Storage.UseSSL {
		scheme = "https"
	}

	C = &minioDriver{
		client:     client,
		bucket:     cfg.Storage.Bucket,
		publicBase: fmt.Sprintf("%s://%s/%s", scheme, cfg.Storage.Endpoint, cfg.Storage.Bucket),
	}

	return nil
}

type minioDriver struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

func (v *minioDriver) Upload(ctx context.Context, content io.Reader, size int64, contentType, folder string) (Artifact, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	objectName := folder + "/" + uuid.New().String()
	_, err := v.client.PutObject(ctx, v.bucket, objectName, content, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return Artifact{}, fmt.Errorf("unable to upload object: %w", err)
	}

	return Artifact{
		ID:  objectName,
		URL: v.publicBase + "/" + objectName,
	}, nil
}

func (v *minioDriver) Release(ctx context.Context, artifactID string) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	if err := v.client.RemoveObject(ctx, v.bucket, artifactID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("unable to remove object %s: %w", artifactID, err)
	}
	return nil
}
