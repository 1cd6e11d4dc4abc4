package model

import "errors"

const (
	MaxPhotoSizeBytes = 10 * 1024 * 1024 // 10MB per upload
	PhotoMaxDimension = 1600
	PhotoFolder       = "user_images"
	PhotoExt          = ".jpg"
	PhotoJPEGQuality  = 85

	ThumbnailWidth  = 200
	ThumbnailHeight = 200
	ThumbnailFolder = "venue_thumbnails"
)

// Supported image content types for upload validation
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeGIF  = "image/gif"
	ContentTypeWebP = "image/webp"
)

var allowedImageTypes = map[string]struct{}{
	ContentTypeJPEG: {},
	ContentTypePNG:  {},
	ContentTypeGIF:  {},
	ContentTypeWebP: {},
}

// Error codes for HTTP responses
const (
	CodeFileTooLarge     = "FILE_TOO_LARGE"
	CodeInvalidImageType = "INVALID_IMAGE_TYPE"
)

// Domain errors for media operations
var (
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidImageType = errors.New("invalid image type")
)

// ImageUpload is an uploaded image read into memory and type-checked.
type ImageUpload struct {
	Data        []byte
	ContentType string
	Filename    string
}

// IsAllowedImageType reports if the provided content type is supported
func IsAllowedImageType(contentType string) bool {
	_, ok := allowedImageTypes[contentType]
	return ok
}
