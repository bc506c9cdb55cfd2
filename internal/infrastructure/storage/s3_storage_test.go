package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/mecanicpro/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imageStoreConfig() *config.StorageConfig {
	return &config.StorageConfig{
		Bucket:            "oficina-images",
		AccessKey:         "test-key",
		SecretKey:         "test-secret",
		Endpoint:          "http://localhost:9000",
		UsePathStyle:      true,
		PresignExpiration: 15 * time.Minute,
	}
}

func newImageStore(t *testing.T) *S3ObjectStorage {
	t.Helper()
	store, err := NewS3ObjectStorage(imageStoreConfig())
	require.NoError(t, err)
	return store
}

func TestNewS3ObjectStorageValidation(t *testing.T) {
	for _, tt := range []struct {
		name   string
		mutate func(*config.StorageConfig)
		want   string
	}{
		{"missing bucket", func(c *config.StorageConfig) { c.Bucket = "" }, "bucket is required"},
		{"missing access key", func(c *config.StorageConfig) { c.AccessKey = "" }, "credentials are required"},
		{"missing secret key", func(c *config.StorageConfig) { c.SecretKey = "" }, "credentials are required"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			cfg := imageStoreConfig()
			tt.mutate(cfg)
			_, err := NewS3ObjectStorage(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	t.Run("nil config", func(t *testing.T) {
		_, err := NewS3ObjectStorage(nil)
		assert.Error(t, err)
	})
}

func TestResolveEndpoint(t *testing.T) {
	t.Run("defaults to local object store", func(t *testing.T) {
		cfg := imageStoreConfig()
		cfg.Endpoint = ""
		endpoint, err := resolveEndpoint(cfg)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9000", endpoint)
	})

	t.Run("prepends scheme from UseSSL", func(t *testing.T) {
		cfg := imageStoreConfig()
		cfg.Endpoint = "storage.oficina.com"
		cfg.UseSSL = true
		endpoint, err := resolveEndpoint(cfg)
		require.NoError(t, err)
		assert.Equal(t, "https://storage.oficina.com", endpoint)

		cfg.UseSSL = false
		endpoint, err = resolveEndpoint(cfg)
		require.NoError(t, err)
		assert.Equal(t, "http://storage.oficina.com", endpoint)
	})

	t.Run("explicit scheme wins", func(t *testing.T) {
		cfg := imageStoreConfig()
		cfg.Endpoint = "https://s3.amazonaws.com"
		endpoint, err := resolveEndpoint(cfg)
		require.NoError(t, err)
		assert.Equal(t, "https://s3.amazonaws.com", endpoint)
	})
}

func TestPresignExpirationDefaults(t *testing.T) {
	cfg := imageStoreConfig()
	cfg.PresignExpiration = 0
	store, err := NewS3ObjectStorage(cfg)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, store.presignExpiration)

	store, err = NewS3ObjectStorage(cfg, WithPresignExpiration(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, time.Hour, store.presignExpiration)
}

func TestGenerateUploadURL(t *testing.T) {
	store := newImageStore(t)

	t.Run("presigns a PUT against the bucket", func(t *testing.T) {
		url, expiresAt, err := store.GenerateUploadURL(t.Context(), "vehicles/abc1d23.jpg", "image/jpeg", 15*time.Minute)
		require.NoError(t, err)
		assert.Contains(t, url, "localhost:9000")
		assert.Contains(t, url, "oficina-images")
		assert.True(t, strings.Contains(url, "vehicles/abc1d23.jpg") || strings.Contains(url, "vehicles%2Fabc1d23.jpg"))
		assert.True(t, expiresAt.After(time.Now()))
		assert.True(t, expiresAt.Before(time.Now().Add(16*time.Minute)))
	})

	t.Run("zero expiry falls back to configured default", func(t *testing.T) {
		_, expiresAt, err := store.GenerateUploadURL(t.Context(), "orders/123.jpg", "image/png", 0)
		require.NoError(t, err)
		assert.True(t, expiresAt.After(time.Now()))
	})

	t.Run("empty key rejected", func(t *testing.T) {
		_, _, err := store.GenerateUploadURL(t.Context(), "", "image/jpeg", time.Minute)
		assert.ErrorContains(t, err, "storage key is required")
	})
}

func TestGenerateDownloadURL(t *testing.T) {
	store := newImageStore(t)

	url, expiresAt, err := store.GenerateDownloadURL(t.Context(), "logo/workshop.png", time.Hour)
	require.NoError(t, err)
	assert.Contains(t, url, "oficina-images")
	assert.True(t, expiresAt.After(time.Now()))

	_, _, err = store.GenerateDownloadURL(t.Context(), "", time.Hour)
	assert.ErrorContains(t, err, "storage key is required")
}

func TestEmptyKeyRejectedEverywhere(t *testing.T) {
	store := newImageStore(t)

	assert.ErrorContains(t, store.DeleteObject(t.Context(), ""), "storage key is required")

	exists, err := store.ObjectExists(t.Context(), "")
	assert.False(t, exists)
	assert.ErrorContains(t, err, "storage key is required")

	assert.ErrorContains(t, store.Upload(t.Context(), "", []byte("x"), "text/plain"), "storage key is required")
}
