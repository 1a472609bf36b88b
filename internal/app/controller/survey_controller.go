package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nvolkov/brewhub-backend/internal/app/model"
	"github.com/nvolkov/brewhub-backend/internal/app/service"
	apperrors "github.com/nvolkov/brewhub-backend/internal/errors"
)

type SurveyController struct {
	surveyService service.SurveyService
}

func NewSurveyController(surveyService service.SurveyService) *SurveyController {
	return &SurveyController{surveyService: surveyService}
}

type CreateQuestionRequest struct {
	QuestionText   string `json:"question_text" binding:"required,min=1"`
	Step           int    `json:"step" binding:"omitempty,min=1"`
	SequenceNumber int    `json:"sequence_number" binding:"omitempty,min=0"`
	IsSingle       *bool  `json:"is_single"`
	IsMultiple     *bool  `json:"is_multiple"`
	IsPopup        *bool  `json:"is_popup"`
}

type UpdateQuestionRequest struct {
	QuestionText   *string `json:"question_text"`
	Step           *int    `json:"step"`
	SequenceNumber *int    `json:"sequence_number"`
	IsSingle       *bool   `json:"is_single"`
	IsMultiple     *bool   `json:"is_multiple"`
	IsPopup        *bool   `json:"is_popup"`
}

type CreateAnswerRequest struct {
	AnswerText string `json:"answer_text" binding:"required,min=1"`
}

type UpdateAnswerRequest struct {
	AnswerText *string `json:"answer_text"`
}

// ListQuestions returns the questionnaire in step/sequence order
// GET /api/v1/questions
func (ctrl *SurveyController) ListQuestions(c *gin.Context) {
	skip, limit := paginationParams(c)

	questions, err := ctrl.surveyService.ListQuestions(skip, limit)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"questions": questions,
		"count":     len(questions),
	})
}

// GetQuestion returns one question with its answer choices
// GET /api/v1/questions/:id
func (ctrl *SurveyController) GetQuestion(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid question ID")
		return
	}

	question, err := ctrl.surveyService.GetQuestion(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Question not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"question": question,
	})
}

// CreateQuestion adds a questionnaire question, staff only
// POST /api/v1/admin/questions
func (ctrl *SurveyController) CreateQuestion(c *gin.Context) {
	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid question input")
		return
	}

	question := &model.Question{
		QuestionText:   req.QuestionText,
		Step:           req.Step,
		SequenceNumber: req.SequenceNumber,
		IsSingle:       true,
	}
	if question.Step == 0 {
		question.Step = 1
	}
	if req.IsSingle != nil {
		question.IsSingle = *req.IsSingle
	}
	if req.IsMultiple != nil {
		question.IsMultiple = *req.IsMultiple
	}
	if req.IsPopup != nil {
		question.IsPopup = *req.IsPopup
	}

	if err := ctrl.surveyService.CreateQuestion(question); err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"question": question,
	})
}

// UpdateQuestion edits a question, staff only
// PATCH /api/v1/admin/questions/:id
func (ctrl *SurveyController) UpdateQuestion(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid question ID")
		return
	}

	var req UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid question input")
		return
	}

	patch := map[string]interface{}{}
	if req.QuestionText != nil {
		patch["question_text"] = *req.QuestionText
	}
	if req.Step != nil {
		patch["step"] = *req.Step
	}
	if req.SequenceNumber != nil {
		patch["sequence_number"] = *req.SequenceNumber
	}
	if req.IsSingle != nil {
		patch["is_single"] = *req.IsSingle
	}
	if req.IsMultiple != nil {
		patch["is_multiple"] = *req.IsMultiple
	}
	if req.IsPopup != nil {
		patch["is_popup"] = *req.IsPopup
	}

	question, err := ctrl.surveyService.UpdateQuestion(uint(id), patch)
	if err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Question not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"question": question,
	})
}

// DeleteQuestion removes a question and its answer choices, staff only
// DELETE /api/v1/admin/questions/:id
func (ctrl *SurveyController) DeleteQuestion(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid question ID")
		return
	}

	if err := ctrl.surveyService.DeleteQuestion(uint(id)); err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Question not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Question deleted",
	})
}

// CreateAnswer adds an answer choice to a question, staff only
// POST /api/v1/admin/questions/:id/answers
func (ctrl *SurveyController) CreateAnswer(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid question ID")
		return
	}

	var req CreateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Answer text is required")
		return
	}

	answer, err := ctrl.surveyService.CreateAnswer(uint(id), req.AnswerText)
	if err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Question not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"answer": answer,
	})
}

// UpdateAnswer edits an answer choice, staff only
// PATCH /api/v1/admin/answers/:id
func (ctrl *SurveyController) UpdateAnswer(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid answer ID")
		return
	}

	var req UpdateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid answer input")
		return
	}

	patch := map[string]interface{}{}
	if req.AnswerText != nil {
		patch["answer_text"] = *req.AnswerText
	}

	answer, err := ctrl.surveyService.UpdateAnswer(uint(id), patch)
	if err != nil {
		if errors.Is(err, service.ErrAnswerNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Answer not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"answer": answer,
	})
}

// DeleteAnswer removes an answer choice, staff only
// DELETE /api/v1/admin/answers/:id
func (ctrl *SurveyController) DeleteAnswer(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid answer ID")
		return
	}

	if err := ctrl.surveyService.DeleteAnswer(uint(id)); err != nil {
		if errors.Is(err, service.ErrAnswerNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Answer not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Answer deleted",
	})
}
