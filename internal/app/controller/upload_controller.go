package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/nvolkov/brewhub-backend/internal/errors"
	"github.com/nvolkov/brewhub-backend/internal/middleware"
	"github.com/nvolkov/brewhub-backend/internal/storage"
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

const maxUploadSize = 5 * 1024 * 1024 // 5 MB

// UploadController hands out presigned S3 URLs for product images.
type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(s *storage.S3Storage) *UploadController {
	return &UploadController{storage: s}
}

type PresignRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	FileSize    int64  `json:"file_size" binding:"required,gt=0"`
}

// PresignProductImage returns a presigned PUT URL for a product image,
// staff only. The client uploads directly to S3 and saves the file URL
// on the product afterwards.
// POST /api/v1/admin/uploads/product-image
func (ctrl *UploadController) PresignProductImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid upload input")
		return
	}

	if err := ctrl.storage.ValidateContentType(req.ContentType, allowedImageTypes); err != nil {
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only JPEG, PNG and WebP images are allowed")
		return
	}
	if err := ctrl.storage.ValidateFileSize(req.FileSize, maxUploadSize); err != nil {
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "Image must be 5 MB or smaller")
		return
	}

	presigned, err := ctrl.storage.GeneratePresignedURL(req.Filename, req.ContentType, "products")
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename": req.Filename,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to prepare upload")
		return
	}

	c.JSON(http.StatusOK, presigned)
}
