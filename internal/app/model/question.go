package model

import "time"

// Question is one questionnaire entry with its predefined answer choices.
type Question struct {
	ID             uint      `gorm:"primarykey" json:"id"`                      // question ID
	QuestionText   string    `gorm:"type:text;not null" json:"question_text"`  // text of the question
	Step           int       `gorm:"not null;default:1" json:"step"`    // step in the questionnaire flow
	SequenceNumber int       `gorm:"not null" json:"sequence_number"`   // position within the step
	IsSingle       bool      `gorm:"not null" json:"is_single"`         // single answer allowed
	IsMultiple     bool      `gorm:"not null" json:"is_multiple"`       // multiple answers allowed
	IsPopup        bool      `gorm:"not null" json:"is_popup"`          // displayed as a popup
	CreatedAt      time.Time `json:"created_at"`                               // creation time
	UpdatedAt      time.Time `json:"updated_at"`                               // last update time

	Answers []Answer `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"answers,omitempty"` // answer choices
}

func (Question) TableName() string {
	return "questions"
}

// Answer is a predefined choice attached to a question.
type Answer struct {
	ID         uint      `gorm:"primarykey" json:"id"`                    // answer ID
	QuestionID uint      `gorm:"not null;index" json:"question_id"`      // owning question ID
	AnswerText string    `gorm:"type:text;not null" json:"answer_text"`  // text of the answer
	CreatedAt  time.Time `json:"created_at"`                             // creation time
	UpdatedAt  time.Time `json:"updated_at"`                             // last update time
}

func (Answer) TableName() string {
	return "answers"
}
