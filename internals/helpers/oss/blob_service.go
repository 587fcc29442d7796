package oss

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
)

/*
BlobService is the uniform upload/delete facade used by services and
controllers. Reconciliation code and tests depend on this interface, not on
the concrete OSS client.
*/
type BlobService interface {
	// UploadImage stores an image under <folder>/ and returns its public URL.
	UploadImage(ctx context.Context, folder string, fh *multipart.FileHeader) (publicURL string, err error)

	DeleteByPublicURL(ctx context.Context, publicURL string) error
	DeleteManyByPublicURL(ctx context.Context, publicURLs []string) (deleted []string, failed map[string]error, err error)
}

var imageMIMEs = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// IsAllowedImage sniffs the file header and reports whether it is an image
// type we accept (jpg/png/webp).
func IsAllowedImage(fh *multipart.FileHeader) (bool, error) {
	if fh == nil {
		return false, fmt.Errorf("nil file header")
	}
	src, err := fh.Open()
	if err != nil {
		return false, err
	}
	defer src.Close()
	ct, _, err := detectContentType(src, fh.Filename)
	if err != nil {
		return false, err
	}
	return imageMIMEs[strings.SplitN(ct, ";", 2)[0]], nil
}

// --------------------------------------------------
// Aliyun OSS backed implementation
// --------------------------------------------------

type OSSBlobService struct {
	svc *OSSService
}

// NewOSSBlobServiceFromEnv builds the facade from ALI_OSS_* envs. prefix is
// optional (e.g. "uploads").
func NewOSSBlobServiceFromEnv(prefix string) (*OSSBlobService, error) {
	s, err := NewOSSServiceFromEnv(prefix)
	if err != nil {
		return nil, err
	}
	return &OSSBlobService{svc: s}, nil
}

func (b *OSSBlobService) UploadImage(ctx context.Context, folder string, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "File not found")
	}
	if fh.Size > MaxUploadBytes() {
		return "", fiber.NewError(fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("Image exceeds the %d MB limit", MaxUploadBytes()/(1024*1024)))
	}

	ok, err := IsAllowedImage(fh)
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "Cannot read uploaded file")
	}
	if !ok {
		return "", fiber.NewError(fiber.StatusUnsupportedMediaType, "Unsupported image format (use jpg/png/webp)")
	}

	if WebPEnabled() {
		src, err := fh.Open()
		if err != nil {
			return "", fiber.NewError(fiber.StatusBadRequest, "Cannot read uploaded file")
		}
		defer src.Close()

		data, err := ConvertToWebP(src, fh.Filename)
		if err != nil {
			if err == ErrUnsupportedImage {
				return "", fiber.NewError(fiber.StatusUnsupportedMediaType, "Unsupported image format (use jpg/png/webp)")
			}
			return "", fiber.NewError(fiber.StatusBadGateway, "Image re-encode failed")
		}
		name := strings.TrimSuffix(fh.Filename, filepath.Ext(fh.Filename)) + ".webp"
		key, err := b.svc.UploadBytesToDir(ctx, folder, name, "image/webp", data)
		if err != nil {
			return "", fiber.NewError(fiber.StatusBadGateway, "Upload to OSS failed")
		}
		return b.svc.PublicURL(key), nil
	}

	key, _, err := b.svc.UploadFromFormFileToDir(ctx, folder, fh)
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadGateway, "Upload to OSS failed")
	}
	return b.svc.PublicURL(key), nil
}

func (b *OSSBlobService) DeleteByPublicURL(ctx context.Context, publicURL string) error {
	if strings.TrimSpace(publicURL) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Empty URL")
	}
	if err := b.svc.DeleteByPublicURL(ctx, publicURL); err != nil {
		return fiber.NewError(fiber.StatusBadGateway, fmt.Sprintf("Delete object failed: %v", err))
	}
	return nil
}

func (b *OSSBlobService) DeleteManyByPublicURL(ctx context.Context, publicURLs []string) ([]string, map[string]error, error) {
	if len(publicURLs) == 0 {
		return nil, map[string]error{}, nil
	}
	deleted, failed := b.svc.DeleteManyByPublicURL(ctx, publicURLs)
	return deleted, failed, nil
}

// CleanupURLs deletes a set of objects best-effort. Failures are logged and
// swallowed: a leaked object is better than failing the parent operation.
func CleanupURLs(ctx context.Context, blob BlobService, urls []string) {
	if blob == nil || len(urls) == 0 {
		return
	}
	_, failed, err := blob.DeleteManyByPublicURL(ctx, urls)
	if err != nil {
		log.Printf("[OSS] cleanup error: %v", err)
		return
	}
	for u, e := range failed {
		log.Printf("[OSS] cleanup failed for %s: %v", u, e)
	}
}
