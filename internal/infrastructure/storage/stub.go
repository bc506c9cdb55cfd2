// Package storage provides the object stores backing vehicle, order and
// workshop logo images.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/mecanicpro/backend/internal/application/media"
	infraconfig "github.com/mecanicpro/backend/internal/infrastructure/config"
)

var _ media.ObjectStorageService = (*StubObjectStorage)(nil)

// StubObjectStorage fabricates upload/download URLs without talking to
// a real object store, so the workshop can run without S3 credentials.
type StubObjectStorage struct {
	BaseURL string
}

func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{BaseURL: "https://storage.example.com"}
}

// NewStubObjectStorageFromConfig points the stub at the configured
// public URL when one is set.
func NewStubObjectStorageFromConfig(cfg *infraconfig.StorageConfig) *StubObjectStorage {
	stub := NewStubObjectStorage()
	if cfg != nil && cfg.PublicURL != "" {
		stub.BaseURL = cfg.PublicURL
	}
	return stub
}

func (s *StubObjectStorage) GenerateUploadURL(_ context.Context, storageKey, _ string, expiresIn time.Duration) (string, time.Time, error) {
	return s.fakeURL("/upload/", storageKey, expiresIn)
}

func (s *StubObjectStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	return s.fakeURL("/download/", storageKey, expiresIn)
}

func (s *StubObjectStorage) fakeURL(prefix, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + prefix + storageKey + "?expires=" + expiresAt.Format(time.RFC3339), expiresAt, nil
}

// DeleteObject succeeds without doing anything.
func (s *StubObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	return nil
}

// ObjectExists reports true so the image confirmation flow keeps
// working during development.
func (s *StubObjectStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}
	return true, nil
}
