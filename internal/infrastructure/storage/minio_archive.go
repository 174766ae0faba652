// Package storage guarda copias de los comprobantes en un object storage compatible S3 (MinIO).
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jhoicas/stock-api/internal/application/receiving"
	"github.com/jhoicas/stock-api/pkg/config"
)

var _ receiving.DocumentArchive = (*MinioArchive)(nil)

// objectStore es el subconjunto de *minio.Client que usa el archivo.
type objectStore interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// MinioArchive implementa receiving.DocumentArchive sobre un bucket.
type MinioArchive struct {
	client objectStore
	bucket string
}

// NewMinioArchive crea el cliente con credenciales estáticas.
func NewMinioArchive(cfg config.StorageConfig) (*MinioArchive, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: crear cliente: %w", err)
	}
	return &MinioArchive{client: client, bucket: cfg.Bucket}, nil
}

// EnsureBucket crea el bucket si no existe. Se llama una vez al arrancar.
func (a *MinioArchive) EnsureBucket(ctx context.Context) error {
	found, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("minio: bucket %s: %w", a.bucket, err)
	}
	if found {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("minio: crear bucket %s: %w", a.bucket, err)
	}
	return nil
}

// Put sube data bajo key. Sobrescribe si ya existía.
func (a *MinioArchive) Put(ctx context.Context, key, contentType string, data []byte) error {
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("minio: subir %s: %w", key, err)
	}
	return nil
}
