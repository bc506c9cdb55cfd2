package media

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

func (m *MockObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	args := m.Called(ctx, storageKey)
	return args.Bool(0), args.Error(1)
}

func TestRequestUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("vehicle image gets a slot", func(t *testing.T) {
		storage := new(MockObjectStorage)
		svc := NewService(storage, zap.NewNop())
		expires := time.Now().Add(15 * time.Minute)

		storage.On("GenerateUploadURL", ctx, mock.AnythingOfType("string"), "image/jpeg", time.Duration(0)).
			Return("https://bucket/upload", expires, nil)

		slot, err := svc.RequestUpload(ctx, ImageKindVehicle, "image/jpeg")

		require.NoError(t, err)
		assert.Contains(t, slot.StorageKey, "vehicle/")
		assert.Contains(t, slot.StorageKey, ".jpg")
		assert.Equal(t, "https://bucket/upload", slot.UploadURL)
	})

	t.Run("unknown kind is rejected", func(t *testing.T) {
		svc := NewService(new(MockObjectStorage), zap.NewNop())

		_, err := svc.RequestUpload(ctx, ImageKind("banner"), "image/png")
		assert.Error(t, err)
	})

	t.Run("unsupported content type is rejected", func(t *testing.T) {
		svc := NewService(new(MockObjectStorage), zap.NewNop())

		_, err := svc.RequestUpload(ctx, ImageKindLogo, "application/pdf")
		assert.Error(t, err)
	})

	t.Run("storage outage surfaces as domain error", func(t *testing.T) {
		storage := new(MockObjectStorage)
		svc := NewService(storage, zap.NewNop())

		storage.On("GenerateUploadURL", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return("", time.Time{}, errors.New("s3 down"))

		_, err := svc.RequestUpload(ctx, ImageKindOrder, "image/png")
		assert.Error(t, err)
	})
}

func TestResolveDownloadURL(t *testing.T) {
	ctx := context.Background()

	t.Run("existing object resolves", func(t *testing.T) {
		storage := new(MockObjectStorage)
		svc := NewService(storage, zap.NewNop())

		storage.On("ObjectExists", ctx, "vehicle/abc.jpg").Return(true, nil)
		storage.On("GenerateDownloadURL", ctx, "vehicle/abc.jpg", time.Duration(0)).
			Return("https://bucket/vehicle/abc.jpg", time.Now(), nil)

		url, err := svc.ResolveDownloadURL(ctx, "vehicle/abc.jpg")

		require.NoError(t, err)
		assert.Equal(t, "https://bucket/vehicle/abc.jpg", url)
	})

	t.Run("missing object is not found", func(t *testing.T) {
		storage := new(MockObjectStorage)
		svc := NewService(storage, zap.NewNop())

		storage.On("ObjectExists", ctx, "vehicle/gone.jpg").Return(false, nil)

		_, err := svc.ResolveDownloadURL(ctx, "vehicle/gone.jpg")
		assert.Error(t, err)
	})
}
