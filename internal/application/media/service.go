package media

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mecanicpro/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ObjectStorageService abstracts the object store used for images
type ObjectStorageService interface {
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, storageKey string) error
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// ImageKind is the category an uploaded image belongs to
type ImageKind string

const (
	ImageKindVehicle ImageKind = "vehicle"
	ImageKindOrder   ImageKind = "order"
	ImageKindLogo    ImageKind = "logo"
)

var contentTypeExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// UploadSlot is a presigned destination for a client-side upload
type UploadSlot struct {
	StorageKey string    `json:"storage_key"`
	UploadURL  string    `json:"upload_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Service hands out upload slots and resolves image URLs
type Service struct {
	storage ObjectStorageService
	logger  *zap.Logger
}

// NewService creates a new media service
func NewService(storage ObjectStorageService, logger *zap.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// RequestUpload creates a presigned upload slot for an image
func (s *Service) RequestUpload(ctx context.Context, kind ImageKind, contentType string) (*UploadSlot, error) {
	switch kind {
	case ImageKindVehicle, ImageKindOrder, ImageKindLogo:
	default:
		return nil, shared.NewDomainError("INVALID_IMAGE_KIND", fmt.Sprintf("Unknown image kind: %s", kind))
	}

	ext, ok := contentTypeExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE", "Only JPEG, PNG and WebP images are accepted")
	}

	key := path.Join(string(kind), uuid.New().String()+ext)

	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType, 0)
	if err != nil {
		s.logger.Error("Failed to generate upload URL", zap.String("key", key), zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to prepare image upload")
	}

	return &UploadSlot{
		StorageKey: key,
		UploadURL:  uploadURL,
		ExpiresAt:  expiresAt,
	}, nil
}

// ResolveDownloadURL returns a presigned download URL for a stored image
func (s *Service) ResolveDownloadURL(ctx context.Context, storageKey string) (string, error) {
	if storageKey == "" {
		return "", shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key is required")
	}

	exists, err := s.storage.ObjectExists(ctx, storageKey)
	if err != nil {
		return "", shared.NewDomainError("STORAGE_ERROR", "Failed to check image")
	}
	if !exists {
		return "", shared.ErrNotFound
	}

	url, _, err := s.storage.GenerateDownloadURL(ctx, storageKey, 0)
	if err != nil {
		s.logger.Error("Failed to generate download URL", zap.String("key", storageKey), zap.Error(err))
		return "", shared.NewDomainError("STORAGE_ERROR", "Failed to resolve image URL")
	}
	return url, nil
}

// DeleteImage removes a stored image
func (s *Service) DeleteImage(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key is required")
	}
	if err := s.storage.DeleteObject(ctx, storageKey); err != nil {
		s.logger.Error("Failed to delete image", zap.String("key", storageKey), zap.Error(err))
		return shared.NewDomainError("STORAGE_ERROR", "Failed to delete image")
	}
	return nil
}
