package model

import (
	"encoding/json"
	"time"
)

// TestSession is a test in progress. Questions and UserAnswers are JSON
// arrays of equal length; UserAnswers[i] is empty until question i is answered.
type TestSession struct {
	ID           string          `json:"id" gorm:"primaryKey"`
	UserID       string          `json:"user_id" gorm:"not null;index"`
	TestType     string          `json:"test_type" gorm:"not null"`
	Domain       string          `json:"domain" gorm:"not null"`
	Level        string          `json:"level" gorm:"not null"`
	Questions    json.RawMessage `json:"questions" gorm:"type:jsonb"`
	UserAnswers  json.RawMessage `json:"user_answers" gorm:"type:jsonb"`
	CurrentIndex int             `json:"current_index" gorm:"default:0;not null"`
	CorrectCount int             `json:"correct_count" gorm:"default:0;not null"`
	Status       string          `json:"status" gorm:"not null;index"`
	Source       string          `json:"source"`
	Notice       string          `json:"notice"`
	ResultID     *string         `json:"result_id"`
	StartedAt    time.Time       `json:"started_at"`
	CompletedAt  *time.Time      `json:"completed_at"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" gorm:"index"`
}

func (s *TestSession) QuestionList() ([]Question, error) {
	var questions []Question
	if len(s.Questions) == 0 {
		return questions, nil
	}
	if err := json.Unmarshal(s.Questions, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (s *TestSession) AnswerList() ([]string, error) {
	var answers []string
	if len(s.UserAnswers) == 0 {
		return answers, nil
	}
	if err := json.Unmarshal(s.UserAnswers, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

type TestResult struct {
	ID             string          `json:"id" gorm:"primaryKey"`
	UserID         string          `json:"user_id" gorm:"not null;index"`
	TestType       string          `json:"test_type" gorm:"not null"`
	Domain         string          `json:"domain" gorm:"not null;index:idx_result_domain_level"`
	Level          string          `json:"level" gorm:"not null;index:idx_result_domain_level"`
	Score          int             `json:"score" gorm:"not null"` // percentage 0-100
	TotalQuestions int             `json:"total_questions" gorm:"not null"`
	CorrectAnswers int             `json:"correct_answers" gorm:"not null"`
	TimeSpent      int             `json:"time_spent"` // seconds
	Questions      json.RawMessage `json:"questions" gorm:"type:jsonb"`
	UserAnswers    json.RawMessage `json:"user_answers" gorm:"type:jsonb"`
	AIFeedback     string          `json:"ai_feedback" gorm:"type:text"`
	AIComment      string          `json:"ai_comment" gorm:"type:text"`
	PercentileRank int             `json:"percentile_rank"`
	CompletedAt    time.Time       `json:"completed_at" gorm:"index"`
	CreatedAt      time.Time       `json:"created_at"`
}
