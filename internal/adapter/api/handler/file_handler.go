package handler

import (
	"github.com/labstack/echo/v4"

	"campuscloset/internal/domain/service"
	"campuscloset/pkg/errors"
	"campuscloset/pkg/logger"
	"campuscloset/pkg/response"
)

var fileHandler *FileHandler

type FileHandler struct {
	fileService    service.FileUploadService
	maxUploadBytes int64
}

func NewFileHandler(fileService service.FileUploadService, maxUploadBytes int64) *FileHandler {
	return &FileHandler{
		fileService:    fileService,
		maxUploadBytes: maxUploadBytes,
	}
}

func SetupFileHandler(fileService service.FileUploadService, maxUploadBytes int64) {
	fileHandler = NewFileHandler(fileService, maxUploadBytes)
}

func GetFileHandler() *FileHandler {
	return fileHandler
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

// UploadFile accepts one multipart image under the "file" field and returns
// its public URL for use in a listing.
func (h *FileHandler) UploadFile(c echo.Context) error {
	userID := c.Get("uid").(string)

	file, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing file field", err))
	}

	if file.Size > h.maxUploadBytes {
		return response.Error(c, errors.BadRequest("File exceeds the upload size limit", nil))
	}

	contentType := file.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		return response.Error(c, errors.BadRequest("Only JPEG, PNG and WebP images are accepted", nil))
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Failed to open uploaded file", err))
	}
	defer src.Close()

	url, err := h.fileService.UploadFile(c.Request().Context(), src, contentType, "items")
	if err != nil {
		logger.Error("UploadFile: failed for user %s: %v", userID, err)
		return response.Error(c, errors.Internal("Failed to store file", err))
	}

	return response.Created(c, map[string]string{"url": url})
}
