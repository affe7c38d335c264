package dto

import (
	"time"

	"github.com/interviewgenius/interview_api/model"
)

type StartTestRequest struct {
	Type   string `json:"type" validate:"required,oneof=mcq coding case-study" example:"mcq"`
	Domain string `json:"domain" validate:"required,oneof=tech business design marketing" example:"tech"`
	Level  string `json:"level" validate:"required,oneof=beginner intermediate advanced pro" example:"beginner"`
	Count  int    `json:"count,omitempty" validate:"omitempty,gte=1,lte=20" example:"10"`
}

func (r StartTestRequest) Validate() error {
	return GetValidator().Struct(r)
}

type AnswerRequest struct {
	Answer string `json:"answer" validate:"required" example:"Option 1"`
}

func (r AnswerRequest) Validate() error {
	return GetValidator().Struct(r)
}

// SubmitResultRequest records a test that was run by the client itself.
type SubmitResultRequest struct {
	TestType       string           `json:"test_type" validate:"required,oneof=mcq coding case-study"`
	Domain         string           `json:"domain" validate:"required"`
	Level          string           `json:"level" validate:"required,oneof=beginner intermediate advanced pro"`
	Score          int              `json:"score" validate:"gte=0,lte=100"`
	TotalQuestions int              `json:"total_questions" validate:"required,gte=1"`
	CorrectAnswers int              `json:"correct_answers" validate:"gte=0,ltefield=TotalQuestions"`
	TimeSpent      int              `json:"time_spent" validate:"gte=0"`
	Questions      []model.Question `json:"questions"`
	UserAnswers    []string         `json:"user_answers"`
}

func (r SubmitResultRequest) Validate() error {
	return GetValidator().Struct(r)
}

// QuestionView hides the answer key until the question has been answered.
type QuestionView struct {
	ID       string   `json:"id,omitempty"`
	Question string   `json:"question"`
	Type     string   `json:"type"`
	Options  []string `json:"options,omitempty"`
	Link     string   `json:"link,omitempty"`
}

type TestSessionResponse struct {
	ID              string        `json:"id"`
	TestType        string        `json:"test_type"`
	Domain          string        `json:"domain"`
	Level           string        `json:"level"`
	Status          string        `json:"status"`
	Source          string        `json:"source"`
	Notice          string        `json:"notice,omitempty"`
	CurrentIndex    int           `json:"current_index"`
	TotalQuestions  int           `json:"total_questions"`
	Score           int           `json:"score"`
	DurationMinutes int           `json:"duration_minutes"`
	CurrentQuestion *QuestionView `json:"current_question,omitempty"`
	ResultID        *string       `json:"result_id,omitempty"`
	StartedAt       time.Time     `json:"started_at"`
}

type AnswerResponse struct {
	Correct       bool                `json:"correct"`
	CorrectAnswer string              `json:"correct_answer,omitempty"`
	Explanation   string              `json:"explanation,omitempty"`
	Score         int                 `json:"score"`
	Completed     bool                `json:"completed"`
	NextQuestion  *QuestionView       `json:"next_question,omitempty"`
	CurrentIndex  int                 `json:"current_index"`
	Result        *TestResultResponse `json:"result,omitempty"`
	Notice        string              `json:"notice,omitempty"`
}

type TestResultResponse struct {
	ID             string           `json:"id"`
	TestType       string           `json:"test_type"`
	Domain         string           `json:"domain"`
	Level          string           `json:"level"`
	Score          int              `json:"score"`
	TotalQuestions int              `json:"total_questions"`
	CorrectAnswers int              `json:"correct_answers"`
	TimeSpent      int              `json:"time_spent"`
	Feedback       string           `json:"feedback"`
	AIComment      string           `json:"ai_comment"`
	PercentileRank int              `json:"percentile_rank"`
	Questions      []model.Question `json:"questions,omitempty"`
	UserAnswers    []string         `json:"user_answers,omitempty"`
	CompletedAt    time.Time        `json:"completed_at"`
}
