package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 keeps objects in memory and implements only the calls the storage
// service makes.
type fakeS3 struct {
	s3iface.S3API
	objects      map[string]bool
	deleteCalls  int
	deleteErrors bool
}

func newFakeS3(keys ...string) *fakeS3 {
	f := &fakeS3{objects: map[string]bool{}}
	for _, k := range keys {
		f.objects[k] = true
	}
	return f
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	f.objects[aws.StringValue(in.Key)] = true
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2PagesWithContext(_ aws.Context, in *s3.ListObjectsV2Input, fn func(*s3.ListObjectsV2Output, bool) bool, _ ...request.Option) error {
	prefix := aws.StringValue(in.Prefix)
	page := &s3.ListObjectsV2Output{}
	for key := range f.objects {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			page.Contents = append(page.Contents, &s3.Object{Key: aws.String(key)})
		}
	}
	fn(page, true)
	return nil
}

func (f *fakeS3) DeleteObjectsWithContext(_ aws.Context, in *s3.DeleteObjectsInput, _ ...request.Option) (*s3.DeleteObjectsOutput, error) {
	f.deleteCalls++
	if f.deleteErrors {
		return nil, errors.New("access denied")
	}
	for _, obj := range in.Delete.Objects {
		delete(f.objects, aws.StringValue(obj.Key))
	}
	return &s3.DeleteObjectsOutput{}, nil
}

func TestStorageService_CreateAndDeleteFolder(t *testing.T) {
	client := newFakeS3("user-a/other/keep.png")
	storage := NewStorageServiceWithClient(client, "pictures")
	ctx := context.Background()

	ok, err := storage.CreateFolder(ctx, "user-a", "set-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, client.objects["user-a/set-1/"])

	client.objects["user-a/set-1/label-front.png"] = true

	ok, err = storage.DeleteFolderPermanently(ctx, "user-a", "set-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotContains(t, client.objects, "user-a/set-1/")
	assert.NotContains(t, client.objects, "user-a/set-1/label-front.png")
	assert.Contains(t, client.objects, "user-a/other/keep.png")
}

func TestStorageService_DeleteEmptyFolder(t *testing.T) {
	storage := NewStorageServiceWithClient(newFakeS3(), "pictures")

	ok, err := storage.DeleteFolderPermanently(context.Background(), "user-a", "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStorageService_DeleteBatches(t *testing.T) {
	client := newFakeS3()
	for i := 0; i < maxDeleteBatch+5; i++ {
		client.objects[fmt.Sprintf("user-a/big/%04d.png", i)] = true
	}
	storage := NewStorageServiceWithClient(client, "pictures")

	ok, err := storage.DeleteFolderPermanently(context.Background(), "user-a", "big")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, client.deleteCalls)
	assert.Empty(t, client.objects)
}

func TestStorageService_DeleteError(t *testing.T) {
	client := newFakeS3("user-a/set/x.png")
	client.deleteErrors = true
	storage := NewStorageServiceWithClient(client, "pictures")

	_, err := storage.DeleteFolderPermanently(context.Background(), "user-a", "set")
	assert.ErrorContains(t, err, "access denied")
}

func TestStorageService_LocalMode(t *testing.T) {
	storage := &StorageService{bucket: "pictures"}

	ok, err := storage.CreateFolder(context.Background(), "user-a", "set")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = storage.DeleteFolderPermanently(context.Background(), "user-a", "set")
	require.NoError(t, err)
	assert.True(t, ok)
}
