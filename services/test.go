package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/interviewgenius/interview_api/dto"
	"github.com/interviewgenius/interview_api/model"
	"github.com/interviewgenius/interview_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	TEST_SVC = "test_svc"

	defaultQuestionCount = 10
	maxQuestionCount     = 20
	defaultResultsLimit  = 50

	noticeSampleQuestions  = "Using sample questions"
	noticeGenerationFailed = "Failed to generate questions. Using sample questions."
	noticeResultsNotSaved  = "Test completed but results couldn't be saved"
	fallbackComment        = "Great effort! Keep practicing to sharpen your interview skills."
)

type TestService struct {
	appContext.DefaultService

	dbSvc     *DatabaseService
	userSvc   *UserService
	emailSvc  *EmailService
	generator Generator

	now func() time.Time
}

func NewTestService(dbSvc *DatabaseService, userSvc *UserService, generator Generator) *TestService {
	return &TestService{
		dbSvc:     dbSvc,
		userSvc:   userSvc,
		generator: generator,
		now:       time.Now,
	}
}

func (svc TestService) Id() string {
	return TEST_SVC
}

func (svc *TestService) Configure(ctx *appContext.Context) error {
	svc.now = time.Now
	return svc.DefaultService.Configure(ctx)
}

func (svc *TestService) Start() error {
	svc.dbSvc = svc.Service(DATABASE_SVC).(*DatabaseService)
	svc.userSvc = svc.Service(USER_SVC).(*UserService)
	svc.emailSvc = svc.Service(EMAIL_SVC).(*EmailService)
	svc.generator = svc.Service(GEMINI_SVC).(*GeminiService)
	return nil
}

// ==================== STARTING A TEST ====================

func (svc *TestService) StartTest(ctx context.Context, userID string, req dto.StartTestRequest) (*dto.TestSessionResponse, error) {
	count := req.Count
	if count <= 0 {
		count = defaultQuestionCount
	}
	if count > maxQuestionCount {
		count = maxQuestionCount
	}

	questions, source, notice := svc.selectQuestions(ctx, req.Domain, req.Level, req.Type, count)

	questionsJSON, err := json.Marshal(questions)
	if err != nil {
		return nil, shared.NewInternalError(err, "")
	}
	answersJSON, err := json.Marshal(make([]string, len(questions)))
	if err != nil {
		return nil, shared.NewInternalError(err, "")
	}

	session, err := svc.dbSvc.Tests().CreateSession(&model.TestSession{
		UserID:      userID,
		TestType:    req.Type,
		Domain:      req.Domain,
		Level:       req.Level,
		Questions:   questionsJSON,
		UserAnswers: answersJSON,
		Status:      shared.TestStatusInProgress,
		Source:      source,
		Notice:      notice,
		StartedAt:   svc.now(),
	})
	if err != nil {
		return nil, svc.dbSvc.HandleError(err)
	}

	log.WithFields(log.Fields{
		"user_id":    userID,
		"session_id": session.ID,
		"source":     source,
		"questions":  len(questions),
	}).Info("Test started")

	return sessionResponse(session, questions), nil
}

// selectQuestions prefers generated questions, then the stored bank, then the static set.
func (svc *TestService) selectQuestions(ctx context.Context, domain, level, testType string, count int) ([]model.Question, string, string) {
	questions, genErr := GenerateInterviewQuestions(ctx, svc.generator, domain, level, testType, count)
	if genErr == nil && len(questions) > 0 {
		RecordGeneration(GenerationKindQuestions, GenerationOutcomeOK)
		return questions, shared.QuestionSourceAI, ""
	}
	RecordGeneration(GenerationKindQuestions, GenerationOutcomeFallback)

	if genErr != nil && !errors.Is(genErr, ErrGenerationDisabled) {
		log.WithError(genErr).WithFields(log.Fields{"domain": domain, "level": level}).Warn("Question generation failed")
	}

	rows, err := svc.dbSvc.Questions().FindQuestions(domain, level, testType, count)
	if err != nil {
		log.WithError(err).Warn("Question bank lookup failed")
	}
	if len(rows) > 0 {
		bank := make([]model.Question, 0, len(rows))
		for i := range rows {
			bank = append(bank, rows[i].ToQuestion())
		}
		return bank, shared.QuestionSourceBank, noticeSampleQuestions
	}

	notice := noticeSampleQuestions
	if genErr != nil {
		notice = noticeGenerationFailed
	}
	return FallbackQuestions(domain, level, testType), shared.QuestionSourceFallback, notice
}

// ==================== TAKING A TEST ====================

func (svc *TestService) getSession(userID, sessionID string) (*model.TestSession, error) {
	session, err := svc.dbSvc.Tests().GetSession(userID, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "Test session not found")
		}
		return nil, svc.dbSvc.HandleError(err)
	}
	return session, nil
}

func (svc *TestService) GetTestSession(userID, sessionID string) (*dto.TestSessionResponse, error) {
	session, err := svc.getSession(userID, sessionID)
	if err != nil {
		return nil, err
	}

	questions, err := session.QuestionList()
	if err != nil {
		return nil, shared.NewInternalError(err, "")
	}
	return sessionResponse(session, questions), nil
}

func (svc *TestService) AnswerQuestion(ctx context.Context, userID, sessionID, answer string) (*dto.AnswerResponse, error) {
	session, err := svc.getSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := ensureInProgress(session); err != nil {
		return nil, err
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, shared.NewBadRequestError(nil, "Answer is required")
	}

	questions, err := session.QuestionList()
	if err != nil {
		return nil, shared.NewInternalError(err, "")
	}
	answers, err := session.AnswerList()
	if err != nil {
		return nil, shared.NewInternalError(err, "")
	}
	if session.CurrentIndex >= len(questions) {
		return nil, shared.NewConflictError(nil, "Test already completed")
	}
	for len(answers) < len(questions) {
		answers = append(answers, "")
	}

	index := session.CurrentIndex
	question := questions[index]
	if question.HasOptions() && !containsOption(question.Options, answer) {
		return nil, shared.NewBadRequestError(nil, "Answer must be one of the question options")
	}

	correct := isCorrect(question, answer)
	answers[index] = answer
	if correct {
		session.CorrectCount++
	}
	if session.UserAnswers, err = json.Marshal(answers); err != nil {
		return nil, shared.NewInternalError(err, "")
	}

	last := index == len(questions)-1
	if last {
		completedAt := svc.now()
		session.Status = shared.TestStatusCompleted
		session.CompletedAt = &completedAt
	} else {
		session.CurrentIndex = index + 1
	}

	saved, err := svc.dbSvc.Tests().SaveProgress(session, index)
	if err != nil {
		return nil, svc.dbSvc.HandleError(err)
	}
	if !saved {
		return nil, shared.NewConflictError(nil, "Question was already answered")
	}

	resp := &dto.AnswerResponse{
		Correct:       correct,
		CorrectAnswer: question.CorrectAnswer,
		Explanation:   question.Explanation,
		Score:         session.CorrectCount,
		Completed:     last,
		CurrentIndex:  session.CurrentIndex,
	}

	if !last {
		resp.NextQuestion = questionView(questions[session.CurrentIndex])
		return resp, nil
	}

	result, notice := svc.finalize(ctx, session, questions, answers)
	resp.Result = result
	resp.Notice = notice
	return resp, nil
}

// finalize turns a completed session into a stored result. Failing to store
// it does not undo the completion.
func (svc *TestService) finalize(ctx context.Context, session *model.TestSession, questions []model.Question, answers []string) (*dto.TestResultResponse, string) {
	completedAt := svc.now()
	if session.CompletedAt != nil {
		completedAt = *session.CompletedAt
	}

	req := dto.SubmitResultRequest{
		TestType:       session.TestType,
		Domain:         session.Domain,
		Level:          session.Level,
		Score:          percentage(session.CorrectCount, len(questions)),
		TotalQuestions: len(questions),
		CorrectAnswers: session.CorrectCount,
		TimeSpent:      int(completedAt.Sub(session.StartedAt).Seconds()),
		Questions:      questions,
		UserAnswers:    answers,
	}

	result, err := svc.SubmitTestResult(ctx, session.UserID, req)
	if err != nil {
		log.WithError(err).WithField("session_id", session.ID).Error("Failed to save test result")
		return &dto.TestResultResponse{
			TestType:       req.TestType,
			Domain:         req.Domain,
			Level:          req.Level,
			Score:          req.Score,
			TotalQuestions: req.TotalQuestions,
			CorrectAnswers: req.CorrectAnswers,
			TimeSpent:      req.TimeSpent,
			CompletedAt:    completedAt,
		}, noticeResultsNotSaved
	}

	if err := svc.dbSvc.Tests().SetSessionResult(session.ID, result.ID); err != nil {
		log.WithError(err).WithField("session_id", session.ID).Warn("Failed to link result to session")
	}
	session.ResultID = &result.ID

	return result, ""
}

func (svc *TestService) AbandonTest(userID, sessionID string) (*dto.TestSessionResponse, error) {
	session, err := svc.getSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := ensureInProgress(session); err != nil {
		return nil, err
	}

	now := svc.now()
	session.Status = shared.TestStatusAbandoned
	session.CompletedAt = &now

	saved, err := svc.dbSvc.Tests().SaveProgress(session, session.CurrentIndex)
	if err != nil {
		return nil, svc.dbSvc.HandleError(err)
	}
	if !saved {
		return nil, shared.NewConflictError(nil, "Test already completed")
	}

	questions, err := session.QuestionList()
	if err != nil {
		return nil, shared.NewInternalError(err, "")
	}
	return sessionResponse(session, questions), nil
}

// ==================== RESULTS ====================

// SubmitTestResult stores a finished test and applies its effects on the profile.
func (svc *TestService) SubmitTestResult(ctx context.Context, userID string, req dto.SubmitResultRequest) (*dto.TestResultResponse, error) {
	questionsJSON, err := json.Marshal(req.Questions)
	if err != nil {
		return nil, shared.NewBadRequestError(err, "Invalid questions")
	}
	answersJSON, err := json.Marshal(req.UserAnswers)
	if err != nil {
		return nil, shared.NewBadRequestError(err, "Invalid answers")
	}

	total, below, err := svc.dbSvc.Tests().CountPeers(req.Domain, req.Level, req.Score)
	if err != nil {
		log.WithError(err).Warn("Failed to compute percentile rank")
	}

	result, err := svc.dbSvc.Tests().CreateResult(&model.TestResult{
		UserID:         userID,
		TestType:       req.TestType,
		Domain:         req.Domain,
		Level:          req.Level,
		Score:          req.Score,
		TotalQuestions: req.TotalQuestions,
		CorrectAnswers: req.CorrectAnswers,
		TimeSpent:      req.TimeSpent,
		Questions:      questionsJSON,
		UserAnswers:    answersJSON,
		PercentileRank: percentileRank(total, below),
		CompletedAt:    svc.now(),
	})
	if err != nil {
		return nil, svc.dbSvc.HandleError(err)
	}

	RecordTestCompleted(result.Domain, result.Level)
	awarded := svc.applyResult(userID, result)

	result.AIFeedback, result.AIComment = svc.generateFeedback(ctx, req)
	if err := svc.dbSvc.Tests().UpdateResultFeedback(result.ID, result.AIFeedback, result.AIComment); err != nil {
		log.WithError(err).WithField("result_id", result.ID).Warn("Failed to store result feedback")
	}

	if svc.emailSvc.Enabled() {
		go svc.notifyResult(userID, result, awarded)
	}

	return resultResponse(result, true), nil
}

// applyResult updates score, streak, badges and skills. Each step is best effort.
func (svc *TestService) applyResult(userID string, result *model.TestResult) []string {
	logger := log.WithFields(log.Fields{"user_id": userID, "result_id": result.ID})

	if _, err := svc.userSvc.UpdateUserScore(userID, result.Score); err != nil {
		logger.WithError(err).Error("Failed to update score")
	}
	if _, err := svc.userSvc.UpdateUserStreak(userID, svc.now()); err != nil {
		logger.WithError(err).Error("Failed to update streak")
	}
	awarded := svc.userSvc.CheckAndAwardBadges(userID, result)
	if len(awarded) > 0 {
		logger.WithField("badges", awarded).Info("Badges unlocked")
	}
	if err := svc.userSvc.UpdateSkillScores(userID, result); err != nil {
		logger.WithError(err).Error("Failed to update skill scores")
	}
	return awarded
}

func (svc *TestService) notifyResult(userID string, result *model.TestResult, awarded []string) {
	user, err := svc.dbSvc.Users().GetUser(userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("Result email skipped, user lookup failed")
		return
	}

	badges := make([]string, 0, len(awarded))
	for _, id := range awarded {
		badges = append(badges, BadgeInfo(id).Name)
	}

	err = svc.emailSvc.SendTestResultEmail(user.Email, TestCompleteEmailData{
		Name:           user.Name,
		Domain:         result.Domain,
		Level:          result.Level,
		Score:          result.Score,
		CorrectAnswers: result.CorrectAnswers,
		TotalQuestions: result.TotalQuestions,
		Percentile:     result.PercentileRank,
		Comment:        result.AIComment,
		Badges:         badges,
	})
	if err != nil {
		log.WithError(err).WithField("result_id", result.ID).Warn("Failed to send result email")
	}
}

func (svc *TestService) generateFeedback(ctx context.Context, req dto.SubmitResultRequest) (string, string) {
	feedback, err := GenerateFeedback(ctx, svc.generator, req.Questions, req.UserAnswers, req.Domain)
	if err != nil {
		RecordGeneration(GenerationKindFeedback, GenerationOutcomeFallback)
		if !errors.Is(err, ErrGenerationDisabled) {
			log.WithError(err).Warn("Feedback generation failed")
		}
		feedback = ""
	} else {
		RecordGeneration(GenerationKindFeedback, GenerationOutcomeOK)
	}

	comment, err := GenerateComment(ctx, svc.generator, req.Domain, req.Score)
	if err != nil {
		RecordGeneration(GenerationKindComment, GenerationOutcomeFallback)
		comment = fallbackComment
	} else {
		RecordGeneration(GenerationKindComment, GenerationOutcomeOK)
	}

	return feedback, strings.TrimSpace(comment)
}

func (svc *TestService) GetTestResults(userID string, limit int) ([]dto.TestResultResponse, error) {
	if limit <= 0 || limit > defaultResultsLimit {
		limit = defaultResultsLimit
	}

	results, err := svc.dbSvc.Tests().GetUserResults(userID, limit)
	if err != nil {
		return nil, svc.dbSvc.HandleError(err)
	}

	responses := make([]dto.TestResultResponse, 0, len(results))
	for i := range results {
		responses = append(responses, *resultResponse(&results[i], false))
	}
	return responses, nil
}

func (svc *TestService) GetTestResult(userID, resultID string) (*dto.TestResultResponse, error) {
	result, err := svc.dbSvc.Tests().GetResult(userID, resultID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "Test result not found")
		}
		return nil, svc.dbSvc.HandleError(err)
	}
	return resultResponse(result, true), nil
}

// ==================== HELPERS ====================

func ensureInProgress(session *model.TestSession) error {
	switch session.Status {
	case shared.TestStatusInProgress:
		return nil
	case shared.TestStatusAbandoned:
		return shared.NewConflictError(nil, "Test was abandoned")
	default:
		return shared.NewConflictError(nil, "Test already completed")
	}
}

func containsOption(options []string, answer string) bool {
	for _, option := range options {
		if strings.TrimSpace(option) == answer {
			return true
		}
	}
	return false
}

// isCorrect compares trimmed text exactly. Questions without an answer key never score.
func isCorrect(question model.Question, answer string) bool {
	key := strings.TrimSpace(question.CorrectAnswer)
	return key != "" && strings.TrimSpace(answer) == key
}

func percentage(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

func questionView(q model.Question) *dto.QuestionView {
	return &dto.QuestionView{
		ID:       q.ID,
		Question: q.Question,
		Type:     q.Type,
		Options:  q.Options,
		Link:     q.Link,
	}
}

func sessionResponse(session *model.TestSession, questions []model.Question) *dto.TestSessionResponse {
	resp := &dto.TestSessionResponse{
		ID:              session.ID,
		TestType:        session.TestType,
		Domain:          session.Domain,
		Level:           session.Level,
		Status:          session.Status,
		Source:          session.Source,
		Notice:          session.Notice,
		CurrentIndex:    session.CurrentIndex,
		TotalQuestions:  len(questions),
		Score:           session.CorrectCount,
		DurationMinutes: TestDurationMinutes(session.TestType),
		ResultID:        session.ResultID,
		StartedAt:       session.StartedAt,
	}
	if session.Status == shared.TestStatusInProgress && session.CurrentIndex < len(questions) {
		resp.CurrentQuestion = questionView(questions[session.CurrentIndex])
	}
	return resp
}

func resultResponse(result *model.TestResult, detailed bool) *dto.TestResultResponse {
	resp := &dto.TestResultResponse{
		ID:             result.ID,
		TestType:       result.TestType,
		Domain:         result.Domain,
		Level:          result.Level,
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		CorrectAnswers: result.CorrectAnswers,
		TimeSpent:      result.TimeSpent,
		Feedback:       result.AIFeedback,
		AIComment:      result.AIComment,
		PercentileRank: result.PercentileRank,
		CompletedAt:    result.CompletedAt,
	}
	if detailed {
		_ = json.Unmarshal(result.Questions, &resp.Questions)
		_ = json.Unmarshal(result.UserAnswers, &resp.UserAnswers)
	}
	return resp
}
