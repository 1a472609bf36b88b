package controller

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/nvolkov/brewhub-backend/internal/app/model"
	"github.com/nvolkov/brewhub-backend/internal/app/service"
	apperrors "github.com/nvolkov/brewhub-backend/internal/errors"
	"github.com/nvolkov/brewhub-backend/internal/middleware"
)

type ContactController struct {
	contactService service.ContactService
}

func NewContactController(contactService service.ContactService) *ContactController {
	return &ContactController{contactService: contactService}
}

type ContactRequest struct {
	Name    string `form:"name" json:"name" binding:"required,min=1,max=100"`
	Email   string `form:"email" json:"email" binding:"required,email"`
	Subject string `form:"subject" json:"subject" binding:"required,min=1,max=200"`
	Message string `form:"message" json:"message" binding:"required,min=1"`
}

const maxContactAttachmentSize = 5 << 20 // 5 MB

// Submit accepts a contact form message with an optional file, no login
// required. JSON bodies without an attachment are accepted too.
// POST /api/v1/contact
func (ctrl *ContactController) Submit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ContactRequest
	if err := c.ShouldBind(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid contact input")
		return
	}

	var attachment []byte
	var filename string
	if fileHeader, err := c.FormFile("attachment"); err == nil {
		if fileHeader.Size > maxContactAttachmentSize {
			apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "Attachment exceeds the size limit")
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Could not read attachment")
			return
		}
		defer file.Close()

		attachment, err = io.ReadAll(file)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Could not read attachment")
			return
		}
		filename = filepath.Base(fileHeader.Filename)
	}

	contact := &model.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := ctrl.contactService.Submit(contact, attachment, filename); err != nil {
		log.Error("Failed to submit contact message", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Message received, we will get back to you soon",
	})
}

// ListMessages returns submitted contact messages, staff only
// GET /api/v1/admin/contact
func (ctrl *ContactController) ListMessages(c *gin.Context) {
	skip, limit := paginationParams(c)

	messages, err := ctrl.contactService.ListMessages(skip, limit)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"count":    len(messages),
	})
}
