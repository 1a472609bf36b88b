package service

import (
	"errors"

	"github.com/nvolkov/brewhub-backend/internal/app/model"
	"github.com/nvolkov/brewhub-backend/internal/app/repository"
	"github.com/nvolkov/brewhub-backend/pkg/logger"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrAnswerNotFound   = errors.New("answer not found")
)

// SurveyService manages the questionnaire: questions with their answer
// choices, read by everyone and edited by staff.
type SurveyService interface {
	ListQuestions(skip, limit int) ([]model.Question, error)
	GetQuestion(id uint) (*model.Question, error)
	CreateQuestion(question *model.Question) error
	UpdateQuestion(questionID uint, patch map[string]interface{}) (*model.Question, error)
	DeleteQuestion(questionID uint) error
	CreateAnswer(questionID uint, text string) (*model.Answer, error)
	UpdateAnswer(answerID uint, patch map[string]interface{}) (*model.Answer, error)
	DeleteAnswer(answerID uint) error
}

type surveyService struct {
	questionRepo *repository.QuestionRepository
	answerRepo   *repository.AnswerRepository
}

func NewSurveyService(questionRepo *repository.QuestionRepository, answerRepo *repository.AnswerRepository) SurveyService {
	return &surveyService{
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
	}
}

func (s *surveyService) ListQuestions(skip, limit int) ([]model.Question, error) {
	return s.questionRepo.ListOrdered(skip, limit)
}

func (s *surveyService) GetQuestion(id uint) (*model.Question, error) {
	question, err := s.questionRepo.FindByIDWithAnswers(id)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}
	return question, nil
}

func (s *surveyService) CreateQuestion(question *model.Question) error {
	logger.Info("Creating questionnaire question", map[string]interface{}{
		"step":            question.Step,
		"sequence_number": question.SequenceNumber,
	})
	return s.questionRepo.Create(question)
}

func (s *surveyService) UpdateQuestion(questionID uint, patch map[string]interface{}) (*model.Question, error) {
	question, err := s.questionRepo.GetByID(questionID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}

	if err := s.questionRepo.Update(question, patch); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *surveyService) DeleteQuestion(questionID uint) error {
	question, err := s.questionRepo.GetByID(questionID)
	if err != nil {
		return err
	}
	if question == nil {
		return ErrQuestionNotFound
	}

	return s.questionRepo.Delete(map[string]interface{}{"id": questionID})
}

func (s *surveyService) CreateAnswer(questionID uint, text string) (*model.Answer, error) {
	question, err := s.questionRepo.GetByID(questionID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}

	answer := &model.Answer{
		QuestionID: questionID,
		AnswerText: text,
	}
	if err := s.answerRepo.Create(answer); err != nil {
		return nil, err
	}
	return answer, nil
}

func (s *surveyService) UpdateAnswer(answerID uint, patch map[string]interface{}) (*model.Answer, error) {
	answer, err := s.answerRepo.GetByID(answerID)
	if err != nil {
		return nil, err
	}
	if answer == nil {
		return nil, ErrAnswerNotFound
	}

	if err := s.answerRepo.Update(answer, patch); err != nil {
		return nil, err
	}
	return answer, nil
}

func (s *surveyService) DeleteAnswer(answerID uint) error {
	answer, err := s.answerRepo.GetByID(answerID)
	if err != nil {
		return err
	}
	if answer == nil {
		return ErrAnswerNotFound
	}

	return s.answerRepo.Delete(map[string]interface{}{"id": answerID})
}
