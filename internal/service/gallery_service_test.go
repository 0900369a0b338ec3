package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taravadumane/portal-backend/internal/models"
	"github.com/taravadumane/portal-backend/internal/repository"
	"github.com/taravadumane/portal-backend/pkg/apperror"
	"github.com/taravadumane/portal-backend/pkg/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// fakeImageService succeeds until failAfter uploads have been taken.
type fakeImageService struct {
	uploads   int
	failAfter int
	failWith  error
	deleted   []string
}

func (f *fakeImageService) Upload(fileBytes []byte, filename, mimeType string) (*storage.ImageUploadResult, error) {
	if f.failWith != nil && f.uploads >= f.failAfter {
		return nil, f.failWith
	}
	f.uploads++
	return &storage.ImageUploadResult{
		URL:      fmt.Sprintf("https://images.example.com/%s", filename),
		PublicID: fmt.Sprintf("gallery/%d", f.uploads),
		Width:    1200,
		Height:   800,
		Bytes:    int64(len(fileBytes)),
		Format:   "jpg",
	}, nil
}

func (f *fakeImageService) Delete(publicID string) error {
	f.deleted = append(f.deleted, publicID)
	return nil
}

func newGalleryFixture(t *testing.T, images storage.ImageService) (*GalleryService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)

	svc := NewGalleryService(
		db,
		repository.NewGalleryRepository(db),
		repository.NewAuditLogRepository(db),
		images,
		1024*1024,
		zap.NewNop(),
	)
	return svc, db
}

func jpegUpload(name string, size int) GalleryUpload {
	return GalleryUpload{
		Filename: name,
		MimeType: "image/jpeg",
		Data:     make([]byte, size),
	}
}

func TestGalleryUpload_EmptyBatchRejected(t *testing.T) {
	svc, _ := newGalleryFixture(t, &fakeImageService{})

	_, err := svc.Upload(1, nil)
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestGalleryUpload_UnsupportedTypeNamesFile(t *testing.T) {
	svc, db := newGalleryFixture(t, &fakeImageService{})

	_, err := svc.Upload(1, []GalleryUpload{
		jpegUpload("ok.jpg", 100),
		{Filename: "notes.pdf", MimeType: "application/pdf", Data: []byte("x")},
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	assert.Contains(t, err.Error(), "notes.pdf")

	// Validation runs before any upstream call, so nothing was stored.
	var photos int64
	require.NoError(t, db.Model(&models.GalleryPhoto{}).Count(&photos).Error)
	assert.Zero(t, photos)
}

func TestGalleryUpload_OversizeNamesFile(t *testing.T) {
	svc, _ := newGalleryFixture(t, &fakeImageService{})

	_, err := svc.Upload(1, []GalleryUpload{
		jpegUpload("huge.jpg", 2*1024*1024),
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	assert.Contains(t, err.Error(), "huge.jpg")
}

func TestGalleryUpload_StoresPhotosAndAudits(t *testing.T) {
	svc, db := newGalleryFixture(t, &fakeImageService{})

	results, err := svc.Upload(9, []GalleryUpload{
		jpegUpload("a.jpg", 100),
		jpegUpload("b.jpg", 200),
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.NotZero(t, results[0].ID)

	var photos []models.GalleryPhoto
	require.NoError(t, db.Find(&photos).Error)
	require.Len(t, photos, 2)
	assert.Equal(t, uint(9), photos[0].UploadedBy)

	var audits int64
	require.NoError(t, db.Model(&models.AuditLog{}).
		Where("action = ?", models.AuditUploadedGalleryPhoto).Count(&audits).Error)
	assert.Equal(t, int64(2), audits)
}

func TestGalleryUpload_MidBatchFailureKeepsEarlierPhotos(t *testing.T) {
	upstreamErr := apperror.Upstream(apperror.CodeImageStoreNetwork,
		"Image storage is temporarily unreachable.", true, nil)
	svc, db := newGalleryFixture(t, &fakeImageService{failAfter: 1, failWith: upstreamErr})

	results, err := svc.Upload(1, []GalleryUpload{
		jpegUpload("a.jpg", 100),
		jpegUpload("b.jpg", 100),
		jpegUpload("c.jpg", 100),
	})
	require.Error(t, err)

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeImageStoreNetwork, appErr.Code)
	assert.True(t, appErr.Retryable)

	// The first photo survived; the batch stopped at the failure.
	require.Len(t, results, 1)
	var photos int64
	require.NoError(t, db.Model(&models.GalleryPhoto{}).Count(&photos).Error)
	assert.Equal(t, int64(1), photos)
}

func TestGalleryDelete_RemovesUpstreamAndRow(t *testing.T) {
	images := &fakeImageService{}
	svc, db := newGalleryFixture(t, images)

	results, err := svc.Upload(4, []GalleryUpload{jpegUpload("a.jpg", 100)})
	require.NoError(t, err)
	require.Len(t, results, 1)

	require.NoError(t, svc.Delete(4, results[0].ID))

	require.Len(t, images.deleted, 1)
	assert.Equal(t, "gallery/1", images.deleted[0])

	var photos int64
	require.NoError(t, db.Model(&models.GalleryPhoto{}).Count(&photos).Error)
	assert.Zero(t, photos)

	var deletions int64
	require.NoError(t, db.Model(&models.AuditLog{}).
		Where("action = ?", models.AuditDeletedGalleryPhoto).Count(&deletions).Error)
	assert.Equal(t, int64(1), deletions)
}

func TestGalleryDelete_NotFound(t *testing.T) {
	images := &fakeImageService{}
	svc, _ := newGalleryFixture(t, images)

	err := svc.Delete(4, 123)
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	assert.Empty(t, images.deleted)
}

func TestGalleryList_UsesDefaultLimit(t *testing.T) {
	svc, db := newGalleryFixture(t, &fakeImageService{})

	title := "Ugadi 2026"
	require.NoError(t, db.Create(&models.GalleryPhoto{
		Title:      &title,
		ImageURL:   "https://images.example.com/u.jpg",
		PublicID:   "gallery/u",
		Width:      800,
		Height:     600,
		UploadedBy: 1,
	}).Error)

	photos, err := svc.List(0)
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.Equal(t, "Ugadi 2026", photos[0].Title)
}
