package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/interviewgenius/interview_api/dto"
	"github.com/interviewgenius/interview_api/model"
	"github.com/interviewgenius/interview_api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coachGenerator() *stubGenerator {
	return &stubGenerator{reply: func(prompt string) (string, error) {
		switch {
		case strings.HasPrefix(prompt, "Generate "):
			return generatedJSON, nil
		case strings.HasPrefix(prompt, "Analyze these interview answers"):
			return "Solid fundamentals.", nil
		case strings.HasPrefix(prompt, "Write one short encouraging sentence"):
			return " Nice work! ", nil
		default:
			return "", errors.New("unexpected prompt")
		}
	}}
}

type testFixture struct {
	db     *DatabaseService
	users  *UserService
	tests  *TestService
	userID string
}

func newTestFixture(t *testing.T, gen Generator) *testFixture {
	t.Helper()

	db := newTestDatabase(t)
	users := NewUserService(db, nil, nil)

	user, err := db.Users().CreateUser("Ada", "ada@example.com", "hash")
	require.NoError(t, err)
	_, err = users.InitializeUserProfile(user)
	require.NoError(t, err)

	return &testFixture{
		db:     db,
		users:  users,
		tests:  NewTestService(db, users, gen),
		userID: user.ID,
	}
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, status, appErr.StatusCode)
}

func TestTestService_GeneratedTestFlow(t *testing.T) {
	ctx := context.Background()
	f := newTestFixture(t, coachGenerator())

	session, err := f.tests.StartTest(ctx, f.userID, dto.StartTestRequest{
		Type: shared.TestTypeMCQ, Domain: "tech", Level: shared.LevelBeginner, Count: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, shared.QuestionSourceAI, session.Source)
	assert.Empty(t, session.Notice)
	assert.Equal(t, 2, session.TotalQuestions)
	assert.Equal(t, 30, session.DurationMinutes)
	require.NotNil(t, session.CurrentQuestion)
	assert.Equal(t, "What is a goroutine?", session.CurrentQuestion.Question)

	_, err = f.tests.AnswerQuestion(ctx, f.userID, session.ID, "Not an option")
	requireStatus(t, err, http.StatusBadRequest)

	_, err = f.tests.AnswerQuestion(ctx, f.userID, session.ID, "   ")
	requireStatus(t, err, http.StatusBadRequest)

	first, err := f.tests.AnswerQuestion(ctx, f.userID, session.ID, "A lightweight thread")
	require.NoError(t, err)
	assert.True(t, first.Correct)
	assert.False(t, first.Completed)
	assert.Equal(t, 1, first.Score)
	assert.Equal(t, 1, first.CurrentIndex)
	require.NotNil(t, first.NextQuestion)
	assert.Equal(t, "What does defer do?", first.NextQuestion.Question)

	last, err := f.tests.AnswerQuestion(ctx, f.userID, session.ID, "Starts a goroutine")
	require.NoError(t, err)
	assert.False(t, last.Correct)
	assert.Equal(t, "Delays a call until return", last.CorrectAnswer)
	assert.True(t, last.Completed)
	assert.Empty(t, last.Notice)
	require.NotNil(t, last.Result)
	assert.Equal(t, 50, last.Result.Score)
	assert.Equal(t, 1, last.Result.CorrectAnswers)
	assert.Equal(t, 2, last.Result.TotalQuestions)
	assert.Equal(t, "Solid fundamentals.", last.Result.Feedback)
	assert.Equal(t, "Nice work!", last.Result.AIComment)
	assert.Equal(t, []string{"A lightweight thread", "Starts a goroutine"}, last.Result.UserAnswers)

	_, err = f.tests.AnswerQuestion(ctx, f.userID, session.ID, "A lightweight thread")
	requireStatus(t, err, http.StatusConflict)

	stored, err := f.tests.GetTestSession(f.userID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.TestStatusCompleted, stored.Status)
	assert.Nil(t, stored.CurrentQuestion)
	require.NotNil(t, stored.ResultID)
	assert.Equal(t, last.Result.ID, *stored.ResultID)

	profile, err := f.db.Profiles().GetProfile(f.userID)
	require.NoError(t, err)
	assert.Equal(t, 50, profile.TotalScore)
	assert.Equal(t, 1, profile.Streak)
	skills, err := profile.SkillScoreMap()
	require.NoError(t, err)
	assert.Equal(t, 50, skills["tech"].Score)

	results, err := f.tests.GetTestResults(f.userID, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Empty(t, results[0].Questions)

	detail, err := f.tests.GetTestResult(f.userID, last.Result.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Questions, 2)
}

func TestTestService_SessionIsPrivate(t *testing.T) {
	ctx := context.Background()
	f := newTestFixture(t, coachGenerator())

	session, err := f.tests.StartTest(ctx, f.userID, dto.StartTestRequest{
		Type: shared.TestTypeMCQ, Domain: "tech", Level: shared.LevelBeginner, Count: 2,
	})
	require.NoError(t, err)

	_, err = f.tests.GetTestSession("someone-else", session.ID)
	requireStatus(t, err, http.StatusNotFound)

	_, err = f.tests.AnswerQuestion(ctx, "someone-else", session.ID, "A lightweight thread")
	requireStatus(t, err, http.StatusNotFound)
}

func TestTestService_QuestionFallbacks(t *testing.T) {
	ctx := context.Background()
	req := dto.StartTestRequest{Type: shared.TestTypeMCQ, Domain: "business", Level: shared.LevelIntermediate}

	t.Run("static set after a generation failure", func(t *testing.T) {
		f := newTestFixture(t, failingGenerator(errors.New("upstream down")))

		session, err := f.tests.StartTest(ctx, f.userID, req)
		require.NoError(t, err)
		assert.Equal(t, shared.QuestionSourceFallback, session.Source)
		assert.Equal(t, "Failed to generate questions. Using sample questions.", session.Notice)
		assert.Equal(t, 2, session.TotalQuestions)
	})

	t.Run("static set when generation returns nothing", func(t *testing.T) {
		f := newTestFixture(t, fixedGenerator("[]"))

		session, err := f.tests.StartTest(ctx, f.userID, req)
		require.NoError(t, err)
		assert.Equal(t, shared.QuestionSourceFallback, session.Source)
		assert.Equal(t, "Using sample questions", session.Notice)
	})

	t.Run("stored bank before the static set", func(t *testing.T) {
		f := newTestFixture(t, failingGenerator(ErrGenerationDisabled))
		options, _ := json.Marshal([]string{"SWOT", "PESTLE"})
		require.NoError(t, f.db.Questions().CreateQuestion(&model.QuestionBank{
			Question: "Which framework lists strengths and weaknesses?", Type: shared.TestTypeMCQ,
			Domain: "business", Level: shared.LevelIntermediate, Options: options,
			CorrectAnswer: "SWOT", IsActive: true,
		}))

		session, err := f.tests.StartTest(ctx, f.userID, req)
		require.NoError(t, err)
		assert.Equal(t, shared.QuestionSourceBank, session.Source)
		assert.Equal(t, "Using sample questions", session.Notice)
		require.NotNil(t, session.CurrentQuestion)
		assert.Equal(t, []string{"SWOT", "PESTLE"}, session.CurrentQuestion.Options)
	})
}

func TestTestService_Abandon(t *testing.T) {
	ctx := context.Background()
	f := newTestFixture(t, coachGenerator())

	session, err := f.tests.StartTest(ctx, f.userID, dto.StartTestRequest{
		Type: shared.TestTypeMCQ, Domain: "tech", Level: shared.LevelBeginner, Count: 2,
	})
	require.NoError(t, err)

	abandoned, err := f.tests.AbandonTest(f.userID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.TestStatusAbandoned, abandoned.Status)
	assert.Nil(t, abandoned.CurrentQuestion)

	_, err = f.tests.AnswerQuestion(ctx, f.userID, session.ID, "A lightweight thread")
	requireStatus(t, err, http.StatusConflict)

	_, err = f.tests.AbandonTest(f.userID, session.ID)
	requireStatus(t, err, http.StatusConflict)
}

func TestTestService_SubmitTestResult(t *testing.T) {
	ctx := context.Background()
	f := newTestFixture(t, failingGenerator(errors.New("quota exceeded")))

	submit := func(score int) *dto.TestResultResponse {
		res, err := f.tests.SubmitTestResult(ctx, f.userID, dto.SubmitResultRequest{
			TestType: shared.TestTypeMCQ, Domain: "design", Level: shared.LevelAdvanced,
			Score: score, TotalQuestions: 10, CorrectAnswers: score / 10, TimeSpent: 120,
		})
		require.NoError(t, err)
		return res
	}

	first := submit(40)
	assert.Equal(t, 0, first.PercentileRank)
	assert.Empty(t, first.Feedback)
	assert.Equal(t, fallbackComment, first.AIComment)

	second := submit(95)
	assert.Equal(t, 100, second.PercentileRank)

	profile, err := f.db.Profiles().GetProfile(f.userID)
	require.NoError(t, err)
	assert.Equal(t, 135, profile.TotalScore)

	badges, err := f.users.GetBadges(f.userID)
	require.NoError(t, err)
	ids := make([]string, 0, len(badges))
	for _, b := range badges {
		ids = append(ids, b.ID)
	}
	assert.Contains(t, ids, BadgePerfectionist)
}

func TestIsCorrect(t *testing.T) {
	q := model.Question{CorrectAnswer: " O(log n) "}

	assert.True(t, isCorrect(q, "O(log n)"))
	assert.False(t, isCorrect(q, "o(log n)"))
	assert.False(t, isCorrect(model.Question{}, "anything"))
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0, percentage(0, 0))
	assert.Equal(t, 67, percentage(2, 3))
	assert.Equal(t, 100, percentage(5, 5))
}

func TestTestService_CompletesWhenResultCannotBeSaved(t *testing.T) {
	ctx := context.Background()
	f := newTestFixture(t, coachGenerator())

	session, err := f.tests.StartTest(ctx, f.userID, dto.StartTestRequest{
		Type: shared.TestTypeMCQ, Domain: "tech", Level: shared.LevelBeginner, Count: 1,
	})
	require.NoError(t, err)
	require.Equal(t, 1, session.TotalQuestions)

	require.NoError(t, f.db.Db().Migrator().DropTable(&model.TestResult{}))

	answer, err := f.tests.AnswerQuestion(ctx, f.userID, session.ID, "A lightweight thread")
	require.NoError(t, err)
	assert.True(t, answer.Correct)
	assert.True(t, answer.Completed)
	assert.Equal(t, noticeResultsNotSaved, answer.Notice)
	require.NotNil(t, answer.Result)
	assert.Empty(t, answer.Result.ID)
	assert.Equal(t, 100, answer.Result.Score)
	assert.Equal(t, 1, answer.Result.TotalQuestions)

	stored, err := f.tests.GetTestSession(f.userID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.TestStatusCompleted, stored.Status)
	assert.Nil(t, stored.ResultID)

	profile, err := f.db.Profiles().GetProfile(f.userID)
	require.NoError(t, err)
	assert.Zero(t, profile.TotalScore)
}
