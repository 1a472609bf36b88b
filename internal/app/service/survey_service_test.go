package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvolkov/brewhub-backend/internal/app/model"
	"github.com/nvolkov/brewhub-backend/internal/app/repository"
	"github.com/nvolkov/brewhub-backend/internal/db"
)

func setupSurveyTest(t *testing.T) SurveyService {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	questionRepo := repository.NewQuestionRepository(testDB)
	answerRepo := repository.NewAnswerRepository(testDB)
	return NewSurveyService(questionRepo, answerRepo)
}

func TestQuestionLifecycle(t *testing.T) {
	svc := setupSurveyTest(t)

	question := &model.Question{
		QuestionText:   "How do you take your coffee?",
		Step:           1,
		SequenceNumber: 1,
		IsSingle:       true,
	}
	require.NoError(t, svc.CreateQuestion(question))
	require.NotZero(t, question.ID)

	updated, err := svc.UpdateQuestion(question.ID, map[string]interface{}{
		"is_single":   false,
		"is_multiple": true,
	})
	require.NoError(t, err)
	assert.False(t, updated.IsSingle)
	assert.True(t, updated.IsMultiple)
	assert.Equal(t, "How do you take your coffee?", updated.QuestionText)

	require.NoError(t, svc.DeleteQuestion(question.ID))
	_, err = svc.GetQuestion(question.ID)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestListQuestionsStepOrder(t *testing.T) {
	svc := setupSurveyTest(t)

	require.NoError(t, svc.CreateQuestion(&model.Question{QuestionText: "Milk?", Step: 2, SequenceNumber: 1}))
	require.NoError(t, svc.CreateQuestion(&model.Question{QuestionText: "Size?", Step: 1, SequenceNumber: 2}))
	require.NoError(t, svc.CreateQuestion(&model.Question{QuestionText: "Roast?", Step: 1, SequenceNumber: 1}))

	questions, err := svc.ListQuestions(0, 0)
	require.NoError(t, err)
	require.Len(t, questions, 3)
	assert.Equal(t, "Roast?", questions[0].QuestionText)
	assert.Equal(t, "Size?", questions[1].QuestionText)
	assert.Equal(t, "Milk?", questions[2].QuestionText)
}

func TestAnswerChoices(t *testing.T) {
	svc := setupSurveyTest(t)

	question := &model.Question{QuestionText: "Size?", Step: 1, SequenceNumber: 1, IsSingle: true}
	require.NoError(t, svc.CreateQuestion(question))

	small, err := svc.CreateAnswer(question.ID, "Small")
	require.NoError(t, err)
	_, err = svc.CreateAnswer(question.ID, "Large")
	require.NoError(t, err)

	got, err := svc.GetQuestion(question.ID)
	require.NoError(t, err)
	require.Len(t, got.Answers, 2)

	renamed, err := svc.UpdateAnswer(small.ID, map[string]interface{}{"answer_text": "Short"})
	require.NoError(t, err)
	assert.Equal(t, "Short", renamed.AnswerText)

	require.NoError(t, svc.DeleteAnswer(small.ID))
	got, err = svc.GetQuestion(question.ID)
	require.NoError(t, err)
	assert.Len(t, got.Answers, 1)
}

func TestAnswerRequiresQuestion(t *testing.T) {
	svc := setupSurveyTest(t)

	_, err := svc.CreateAnswer(9999, "Orphan")
	assert.ErrorIs(t, err, ErrQuestionNotFound)

	_, err = svc.UpdateAnswer(9999, map[string]interface{}{"answer_text": "x"})
	assert.ErrorIs(t, err, ErrAnswerNotFound)
}
