package handler

import (
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/taravadumane/portal-backend/internal/models"
	"github.com/taravadumane/portal-backend/internal/service"
)

type GalleryHandler struct {
	galleryService *service.GalleryService
}

func NewGalleryHandler(galleryService *service.GalleryService) *GalleryHandler {
	return &GalleryHandler{galleryService: galleryService}
}

func (h *GalleryHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	photos, err := h.galleryService.List(limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(photos, ""))
}

func (h *GalleryHandler) Delete(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	photoID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.galleryService.Delete(user.ID, photoID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Photo deleted"))
}

// Upload accepts a multipart batch under the "photos" field. Validation
// errors reject the whole batch before anything is stored.
func (h *GalleryHandler) Upload(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid multipart form"))
	}

	files := form.File["photos"]
	title := c.FormValue("title")

	uploads := make([]service.GalleryUpload, 0, len(files))
	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Could not read " + fileHeader.Filename))
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Could not read " + fileHeader.Filename))
		}

		upload := service.GalleryUpload{
			Filename: fileHeader.Filename,
			MimeType: fileHeader.Header.Get("Content-Type"),
			Data:     data,
		}
		if title != "" {
			upload.Title = &title
		}
		uploads = append(uploads, upload)
	}

	results, err := h.galleryService.Upload(user.ID, uploads)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(results, "Photos uploaded"))
}
