package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"

	"campus-connect-server/config"
)

// MediaService uploads images to Cloudinary and returns their CDN URLs.
type MediaService struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewMediaService initializes a Cloudinary client from app config
func NewMediaService() (*MediaService, error) {
	cfg := config.AppConfig.Cloudinary
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary not configured (CLOUDINARY_CLOUD_NAME / API_KEY / API_SECRET)")
	}

	cloudinaryURL := fmt.Sprintf("cloudinary://%s:%s@%s", cfg.APIKey, cfg.APISecret, cfg.CloudName)
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init failed: %w", err)
	}

	return &MediaService{cld: cld, folder: cfg.Folder}, nil
}

// ValidateImageFile validates mimetype and size (<= 5MB)
func ValidateImageFile(h *multipart.FileHeader) bool {
	if h == nil || h.Size <= 0 || h.Size > 5*1024*1024 {
		return false
	}
	ext := strings.ToLower(filepath.Ext(h.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	default:
		return false
	}
}

// UploadImage uploads one image under the given subfolder and returns its
// secure URL.
func (ms *MediaService) UploadImage(ctx context.Context, header *multipart.FileHeader, subfolder string) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	overwrite := false
	unique := true
	up, err := ms.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         ms.folder + "/" + subfolder,
		PublicID:       uuid.NewString(),
		Overwrite:      &overwrite,
		UniqueFilename: &unique,
		ResourceType:   "image",
	})
	if err != nil {
		return "", err
	}
	return up.SecureURL, nil
}
