package controller

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"mime/multipart"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubBlob struct {
	mu      sync.Mutex
	deleted []string
}

func (s *stubBlob) UploadImage(context.Context, string, *multipart.FileHeader) (string, error) {
	return "", errors.New("not used")
}

func (s *stubBlob) DeleteByPublicURL(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, url)
	return nil
}

func (s *stubBlob) DeleteManyByPublicURL(_ context.Context, urls []string) ([]string, map[string]error, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, urls...)
	return urls, nil, nil
}

// driver whose connections never open, so every statement errors
type downDriver struct{}

func (downDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("connection refused")
}

var registerDown sync.Once

func downDB(t *testing.T) *gorm.DB {
	t.Helper()
	registerDown.Do(func() { sql.Register("featured_down", downDriver{}) })
	sqlDB, err := sql.Open("featured_down", "")
	require.NoError(t, err)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)
	return db
}

func TestUpdateRemovesFreshBannerWhenWriteFails(t *testing.T) {
	blob := &stubBlob{}
	h := &FeaturedController{DB: downDB(t), Blob: blob}

	newImage := "https://cdn.example.com/featured-banners/new_banner.webp"
	err := h.applyUpdate(context.Background(), blob, uuid.New(),
		map[string]interface{}{"featured_image": newImage}, newImage)

	require.Error(t, err)
	// the replacement never got an owning row, so it must be gone again
	assert.Equal(t, []string{newImage}, blob.deleted)
}

func TestUpdateWithoutNewBannerDeletesNothing(t *testing.T) {
	blob := &stubBlob{}
	h := &FeaturedController{DB: downDB(t), Blob: blob}

	err := h.applyUpdate(context.Background(), blob, uuid.New(),
		map[string]interface{}{"featured_cta": "Book now"}, "")

	require.Error(t, err)
	assert.Empty(t, blob.deleted)
}
