package objectstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

// PathPrefix is the public prefix of object paths served by the API
const PathPrefix = "/objects/"

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrInvalidPath    = errors.New("invalid object path")
)

// UploadTarget is a presigned destination the client PUTs the file to
type UploadTarget struct {
	UploadURL  string
	ObjectPath string
}

// Store issues presigned targets for listing photos
type Store interface {
	PresignUpload(ctx context.Context, fileName string) (*UploadTarget, error)
	PresignDownload(ctx context.Context, objectPath string) (string, error)
}

// NewObjectPath returns a fresh object path for an uploaded file, keeping
// the file extension
func NewObjectPath(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return PathPrefix + "uploads/" + uuid.New().String() + ext
}

// ObjectKey maps a public object path to its bucket key
func ObjectKey(objectPath string) (string, error) {
	if !strings.HasPrefix(objectPath, PathPrefix) {
		return "", ErrInvalidPath
	}
	key := strings.TrimPrefix(objectPath, PathPrefix)
	if key == "" || strings.Contains(key, "..") || path.Clean("/"+key) != "/"+key {
		return "", ErrInvalidPath
	}
	return key, nil
}

// MinioStore is a Store backed by an S3-compatible bucket
type MinioStore struct {
	client    *minio.Client
	bucket    string
	uploadTTL time.Duration
	logger    *logrus.Logger
}

func NewMinioStore(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool, uploadTTL time.Duration, logger *logrus.Logger) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client for %s: %w", endpoint, err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
		logger.WithField("bucket", bucket).Info("Created storage bucket")
	}

	return &MinioStore{
		client:    client,
		bucket:    bucket,
		uploadTTL: uploadTTL,
		logger:    logger,
	}, nil
}

func (s *MinioStore) PresignUpload(ctx context.Context, fileName string) (*UploadTarget, error) {
	objectPath := NewObjectPath(fileName)
	key, err := ObjectKey(objectPath)
	if err != nil {
		return nil, err
	}

	u, err := s.client.PresignedPutObject(ctx, s.bucket, key, s.uploadTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload for %s: %w", key, err)
	}

	s.logger.WithFields(logrus.Fields{
		"bucket": s.bucket,
		"key":    key,
	}).Debug("Issued upload URL")

	return &UploadTarget{UploadURL: u.String(), ObjectPath: objectPath}, nil
}

func (s *MinioStore) PresignDownload(ctx context.Context, objectPath string) (string, error) {
	key, err := ObjectKey(objectPath)
	if err != nil {
		return "", err
	}

	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return "", ErrObjectNotFound
		}
		return "", fmt.Errorf("failed to stat %s: %w", key, err)
	}

	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.uploadTTL, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign download for %s: %w", key, err)
	}
	return u.String(), nil
}
