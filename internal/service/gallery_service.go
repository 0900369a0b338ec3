package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/taravadumane/portal-backend/internal/models"
	"github.com/taravadumane/portal-backend/internal/repository"
	"github.com/taravadumane/portal-backend/pkg/apperror"
	"github.com/taravadumane/portal-backend/pkg/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GalleryUpload is one file of a batch upload request.
type GalleryUpload struct {
	Filename string
	MimeType string
	Data     []byte
	Title    *string
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

type GalleryService struct {
	db             *gorm.DB
	galleryRepo    *repository.GalleryRepository
	auditRepo      *repository.AuditLogRepository
	images         storage.ImageService
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewGalleryService(
	db *gorm.DB,
	galleryRepo *repository.GalleryRepository,
	auditRepo *repository.AuditLogRepository,
	images storage.ImageService,
	maxUploadBytes int64,
	logger *zap.Logger,
) *GalleryService {
	return &GalleryService{
		db:             db,
		galleryRepo:    galleryRepo,
		auditRepo:      auditRepo,
		images:         images,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Upload validates the whole batch up front, then pushes files one at a
// time. The first upstream failure aborts the rest; photos stored before
// the failure stay stored, and the error names how far we got.
func (s *GalleryService) Upload(actorID uint, uploads []GalleryUpload) ([]models.GalleryUploadResult, error) {
	if len(uploads) == 0 {
		return nil, apperror.Validation("At least one image file is required.")
	}

	for _, upload := range uploads {
		if !allowedImageTypes[upload.MimeType] {
			return nil, apperror.Validation(fmt.Sprintf(
				"%s: unsupported file type %q. Allowed types are JPEG, PNG and WebP.",
				upload.Filename, upload.MimeType))
		}
		if int64(len(upload.Data)) > s.maxUploadBytes {
			return nil, apperror.Validation(fmt.Sprintf(
				"%s exceeds the upload size limit of %d MB.",
				upload.Filename, s.maxUploadBytes/(1024*1024)))
		}
	}

	results := make([]models.GalleryUploadResult, 0, len(uploads))
	for _, upload := range uploads {
		uploaded, err := s.images.Upload(upload.Data, upload.Filename, upload.MimeType)
		if err != nil {
			s.logger.Error("gallery upload failed",
				zap.String("filename", upload.Filename),
				zap.Int("stored", len(results)),
				zap.Error(err),
			)
			return results, err
		}

		photo := &models.GalleryPhoto{
			Title:      upload.Title,
			ImageURL:   uploaded.URL,
			PublicID:   uploaded.PublicID,
			Width:      uploaded.Width,
			Height:     uploaded.Height,
			Bytes:      uploaded.Bytes,
			Format:     uploaded.Format,
			UploadedBy: actorID,
		}

		err = s.db.Transaction(func(tx *gorm.DB) error {
			if err := s.galleryRepo.WithTx(tx).Create(photo); err != nil {
				return err
			}
			return s.auditRepo.WithTx(tx).Append(&models.AuditLog{
				Action:      models.AuditUploadedGalleryPhoto,
				PerformedBy: actorID,
				EntityType:  "gallery_photo",
				EntityID:    photo.ID,
				Timestamp:   photo.CreatedAt,
			})
		})
		if err != nil {
			return results, err
		}

		results = append(results, models.GalleryUploadResult{
			ID:       photo.ID,
			ImageURL: photo.ImageURL,
			Width:    photo.Width,
			Height:   photo.Height,
		})
	}

	return results, nil
}

// Delete removes a photo from the image store and the gallery. The database
// row goes last so a failed upstream delete leaves the photo visible and
// retryable rather than half-gone.
func (s *GalleryService) Delete(actorID, photoID uint) error {
	photo, err := s.galleryRepo.GetByID(photoID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("Photo not found.")
	}
	if err != nil {
		return err
	}

	if err := s.images.Delete(photo.PublicID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.galleryRepo.WithTx(tx).Delete(photo.ID); err != nil {
			return err
		}
		return s.auditRepo.WithTx(tx).Append(&models.AuditLog{
			Action:      models.AuditDeletedGalleryPhoto,
			PerformedBy: actorID,
			EntityType:  "gallery_photo",
			EntityID:    photo.ID,
			Timestamp:   time.Now(),
		})
	})
}

func (s *GalleryService) List(limit int) ([]models.GalleryPhotoResponse, error) {
	photos, err := s.galleryRepo.GetRecent(limit)
	if err != nil {
		return nil, err
	}

	responses := make([]models.GalleryPhotoResponse, 0, len(photos))
	for _, p := range photos {
		title := ""
		if p.Title != nil {
			title = *p.Title
		}
		responses = append(responses, models.GalleryPhotoResponse{
			ID:        p.ID,
			Title:     title,
			ImageURL:  p.ImageURL,
			Width:     p.Width,
			Height:    p.Height,
			CreatedAt: p.CreatedAt,
		})
	}
	return responses, nil
}
