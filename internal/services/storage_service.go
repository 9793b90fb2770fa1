// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/fertiscan-backend/internal/config"
)

// FolderStorage is the blob store holding inspection pictures. A folder is
// addressed by a container (one per inspector) and a folder name.
type FolderStorage interface {
	CreateFolder(ctx context.Context, container, name string) (bool, error)
	DeleteFolderPermanently(ctx context.Context, container, folderID string) (bool, error)
}

// S3 DeleteObjects accepts at most this many keys per call.
const maxDeleteBatch = 1000

type StorageService struct {
	s3Client s3iface.S3API
	bucket   string
}

func NewStorageService(cfg config.AWSConfig) (*StorageService, error) {
	if cfg.AccessKeyID == "" {
		// Return service without S3 for local development
		return &StorageService{bucket: cfg.S3Bucket}, nil
	}

	awsConfig := &aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
		S3ForcePathStyle: aws.Bool(cfg.PathStyle),
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}

	// Create AWS session
	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return NewStorageServiceWithClient(s3.New(sess), cfg.S3Bucket), nil
}

func NewStorageServiceWithClient(client s3iface.S3API, bucket string) *StorageService {
	return &StorageService{s3Client: client, bucket: bucket}
}

// ContainerName is the per-inspector container holding picture folders.
func ContainerName(inspectorID uuid.UUID) string {
	return "user-" + inspectorID.String()
}

func folderPrefix(container, folder string) string {
	return strings.Trim(container, "/") + "/" + strings.Trim(folder, "/") + "/"
}

// CreateFolder writes a zero-byte marker object so the folder is listable
// before any picture is uploaded.
func (s *StorageService) CreateFolder(ctx context.Context, container, name string) (bool, error) {
	key := folderPrefix(container, name)
	if s.s3Client == nil {
		logrus.WithField("key", key).Debug("Local storage: folder would be created")
		return true, nil
	}

	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(nil),
		ContentLength: aws.Int64(0),
	})
	if err != nil {
		return false, fmt.Errorf("failed to create folder %s: %w", key, err)
	}
	return true, nil
}

// DeleteFolderPermanently removes every object under the folder prefix.
// It returns false when the folder held no objects.
func (s *StorageService) DeleteFolderPermanently(ctx context.Context, container, folderID string) (bool, error) {
	prefix := folderPrefix(container, folderID)
	if s.s3Client == nil {
		logrus.WithField("prefix", prefix).Debug("Local storage: folder would be deleted")
		return true, nil
	}

	var keys []*s3.ObjectIdentifier
	err := s.s3Client.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			keys = append(keys, &s3.ObjectIdentifier{Key: obj.Key})
		}
		return true
	})
	if err != nil {
		return false, fmt.Errorf("failed to list folder %s: %w", prefix, err)
	}

	if len(keys) == 0 {
		return false, nil
	}

	for start := 0; start < len(keys); start += maxDeleteBatch {
		end := min(start+maxDeleteBatch, len(keys))
		out, err := s.s3Client.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &s3.Delete{Objects: keys[start:end], Quiet: aws.Bool(true)},
		})
		if err != nil {
			return false, fmt.Errorf("failed to delete folder %s: %w", prefix, err)
		}
		if len(out.Errors) > 0 {
			first := out.Errors[0]
			return false, fmt.Errorf("failed to delete %d objects in %s: %s: %s",
				len(out.Errors), prefix, aws.StringValue(first.Key), aws.StringValue(first.Message))
		}
	}

	logrus.WithFields(logrus.Fields{
		"prefix":  prefix,
		"objects": len(keys),
	}).Info("Picture folder deleted")
	return true, nil
}
