package storage

import "io"

// ImageUploadResult is what the image-storage collaborator reports back
// for a successful upload.
type ImageUploadResult struct {
	URL      string
	PublicID string
	Width    int
	Height   int
	Bytes    int64
	Format   string
}

type ImageService interface {
	Upload(fileBytes []byte, filename, mimeType string) (*ImageUploadResult, error)
	Delete(publicID string) error
}

type StorageService interface {
	Upload(key string, src io.Reader, contentType string) (string, error)
	Delete(key string) error
}
