package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register webp decoder

	"livemusicnotes/internal/model"
	"livemusicnotes/internal/storage"
)

// MediaService normalizes uploaded images and writes them to the photo store.
type MediaService struct {
	store storage.PhotoStore
}

func NewMediaService(store storage.PhotoStore) *MediaService {
	return &MediaService{store: store}
}

// StoreNotePhoto fits the image within PhotoMaxDimension, re-encodes it as
// JPEG and saves it under a fresh key, which it returns.
func (s *MediaService) StoreNotePhoto(ctx context.Context, upload *model.ImageUpload) (string, error) {
	jpegBytes, err := fitToJPEG(upload.Data, model.PhotoMaxDimension, model.PhotoJPEGQuality)
	if err != nil {
		return "", err
	}

	key := storage.NewKey(model.PhotoFolder, model.PhotoExt)
	if err := s.store.Save(ctx, key, jpegBytes, model.ContentTypeJPEG); err != nil {
		return "", err
	}
	return key, nil
}

// StoreThumbnail crops the image to a square venue thumbnail and saves it.
func (s *MediaService) StoreThumbnail(ctx context.Context, upload *model.ImageUpload) (string, error) {
	jpegBytes, err := fillToJPEG(upload.Data, model.ThumbnailWidth, model.ThumbnailHeight, model.PhotoJPEGQuality)
	if err != nil {
		return "", err
	}

	key := storage.NewKey(model.ThumbnailFolder, model.PhotoExt)
	if err := s.store.Save(ctx, key, jpegBytes, model.ContentTypeJPEG); err != nil {
		return "", err
	}
	return key, nil
}

// URL returns the public URL of key, or nil when there is no key.
func (s *MediaService) URL(key *string) *string {
	if key == nil || *key == "" {
		return nil
	}
	u := s.store.URL(*key)
	return &u
}

// ReadImage loads the upload into memory with size and type checks.
func ReadImage(file multipart.File, header *multipart.FileHeader) (*model.ImageUpload, error) {
	if header.Size > model.MaxPhotoSizeBytes {
		return nil, model.ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(file, model.MaxPhotoSizeBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > model.MaxPhotoSizeBytes {
		return nil, model.ErrFileTooLarge
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data[:min(len(data), 512)])
	}
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	if !model.IsAllowedImageType(contentType) {
		return nil, model.ErrInvalidImageType
	}

	return &model.ImageUpload{Data: data, ContentType: contentType, Filename: header.Filename}, nil
}

// fitToJPEG scales the image down to fit within maxDim x maxDim, keeping the
// aspect ratio. Smaller images are left at their size.
func fitToJPEG(data []byte, maxDim, quality int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidImageType, err)
	}

	b := img.Bounds()
	if b.Dx() > maxDim || b.Dy() > maxDim {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}
	return encodeJPEG(img, quality)
}

// fillToJPEG centers/crops to target size and encodes as JPEG.
func fillToJPEG(data []byte, width, height, quality int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidImageType, err)
	}
	return encodeJPEG(imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos), quality)
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
