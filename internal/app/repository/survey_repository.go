package repository

import (
	"gorm.io/gorm"

	"github.com/nvolkov/brewhub-backend/internal/app/model"
)

type QuestionRepository struct {
	*BaseRepository[model.Question]
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{BaseRepository: NewBaseRepository[model.Question](db)}
}

func (r *QuestionRepository) FindByIDWithAnswers(id uint) (*model.Question, error) {
	return r.GetByID(id, WithPreload("Answers"))
}

// ListOrdered returns questions in questionnaire order: by step, then by
// position within the step.
func (r *QuestionRepository) ListOrdered(skip, limit int) ([]model.Question, error) {
	return r.List(nil,
		WithPreload("Answers"),
		WithPagination(skip, limit),
		WithSort("step ASC, sequence_number ASC, id ASC"),
	)
}

type AnswerRepository struct {
	*BaseRepository[model.Answer]
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{BaseRepository: NewBaseRepository[model.Answer](db)}
}
