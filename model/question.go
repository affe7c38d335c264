package model

import (
	"encoding/json"
	"time"
)

// Question is one test item. CorrectAnswer is empty for free-text questions.
type Question struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Type          string   `json:"type"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
	Level         string   `json:"level"`
	Domain        string   `json:"domain"`
	Link          string   `json:"link,omitempty"`
}

func (q Question) HasOptions() bool {
	return len(q.Options) > 0
}

// QuestionBank is a stored question used when generation is unavailable.
type QuestionBank struct {
	ID            string          `json:"id" gorm:"primaryKey"`
	Question      string          `json:"question" gorm:"type:text;not null"`
	Type          string          `json:"type" gorm:"not null;index:idx_question_bank_lookup"`
	Domain        string          `json:"domain" gorm:"not null;index:idx_question_bank_lookup"`
	Level         string          `json:"level" gorm:"not null;index:idx_question_bank_lookup"`
	Options       json.RawMessage `json:"options" gorm:"type:jsonb"`
	CorrectAnswer string          `json:"correct_answer"`
	Explanation   string          `json:"explanation" gorm:"type:text"`
	Link          string          `json:"link"`
	IsActive      bool            `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (QuestionBank) TableName() string {
	return "questions"
}

func (q *QuestionBank) ToQuestion() Question {
	var options []string
	if len(q.Options) > 0 {
		_ = json.Unmarshal(q.Options, &options)
	}
	return Question{
		ID:            q.ID,
		Question:      q.Question,
		Type:          q.Type,
		Options:       options,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
		Level:         q.Level,
		Domain:        q.Domain,
		Link:          q.Link,
	}
}
