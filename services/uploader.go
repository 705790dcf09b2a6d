// Package services holds the outward-facing collaborators that are not the
// document store: currently the product image uploader.
package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Uploader stores a product image somewhere public and returns its URL.
type Uploader interface {
	UploadImage(ctx context.Context, r io.Reader, filename string) (string, error)
}

// CloudinaryUploader pushes images to Cloudinary.
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(cloudinaryURL, folder string) (*CloudinaryUploader, error) {
	if cloudinaryURL == "" {
		return nil, fmt.Errorf("cloudinary URL is required")
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &CloudinaryUploader{cld: cld, folder: folder}, nil
}

func (u *CloudinaryUploader) UploadImage(ctx context.Context, r io.Reader, filename string) (string, error) {
	truthy := true
	result, err := u.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:         u.folder,
		UseFilename:    &truthy,
		UniqueFilename: &truthy,
		ResourceType:   "image",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	if result.SecureURL != "" {
		return result.SecureURL, nil
	}
	return result.URL, nil
}

var unsafeChars = regexp.MustCompile(`[^\w\d\-_\.]`)

// DiskUploader saves images under the public uploads directory. Used when no
// Cloudinary URL is configured.
type DiskUploader struct {
	UploadDir     string
	PublicBaseURL string
}

func (u *DiskUploader) UploadImage(ctx context.Context, r io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(u.UploadDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create upload folder: %w", err)
	}

	cleanName := unsafeChars.ReplaceAllString(filename, "_")
	name := fmt.Sprintf("%d_%s", time.Now().Unix(), cleanName)
	savePath := filepath.Join(u.UploadDir, name)

	out, err := os.Create(savePath)
	if err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, r); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	url := fmt.Sprintf("%s/uploads/%s", u.PublicBaseURL, name)
	log.Printf("Image uploaded: %s -> %s", filename, url)
	return url, nil
}
