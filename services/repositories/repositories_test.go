package repositories

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/interviewgenius/interview_api/model"
	"github.com/interviewgenius/interview_api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.UserProfile{},
		&model.TestSession{},
		&model.TestResult{},
		&model.QuestionBank{},
		&model.Resource{},
	))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestSaveProgressRejectsStaleIndex(t *testing.T) {
	repo := NewTestRepository(openTestDB(t))

	session, err := repo.CreateSession(&model.TestSession{
		UserID:    "user-1",
		TestType:  shared.TestTypeMCQ,
		Domain:    "tech",
		Level:     shared.LevelBeginner,
		Status:    shared.TestStatusInProgress,
		StartedAt: time.Now(),
	})
	require.NoError(t, err)
	require.NotEmpty(t, session.ID)

	first := *session
	first.UserAnswers = json.RawMessage(`["A"]`)
	first.CurrentIndex = 1
	first.CorrectCount = 1
	saved, err := repo.SaveProgress(&first, 0)
	require.NoError(t, err)
	assert.True(t, saved)

	// A second writer that still believes the session is at index 0 loses.
	second := *session
	second.UserAnswers = json.RawMessage(`["B"]`)
	second.CurrentIndex = 1
	saved, err = repo.SaveProgress(&second, 0)
	require.NoError(t, err)
	assert.False(t, saved)

	stored, err := repo.GetSession("user-1", session.ID)
	require.NoError(t, err)
	answers, err := stored.AnswerList()
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, answers)
	assert.Equal(t, 1, stored.CorrectCount)

	_, err = repo.GetSession("someone-else", session.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSaveProgressIgnoresFinishedSessions(t *testing.T) {
	repo := NewTestRepository(openTestDB(t))

	session, err := repo.CreateSession(&model.TestSession{
		UserID:   "user-1",
		TestType: shared.TestTypeMCQ,
		Domain:   "tech",
		Level:    shared.LevelBeginner,
		Status:   shared.TestStatusAbandoned,
	})
	require.NoError(t, err)

	session.CurrentIndex = 1
	saved, err := repo.SaveProgress(session, 0)
	require.NoError(t, err)
	assert.False(t, saved)
}

func TestCountPeers(t *testing.T) {
	repo := NewTestRepository(openTestDB(t))

	for i, score := range []int{40, 60, 60, 90} {
		_, err := repo.CreateResult(&model.TestResult{
			UserID:         uuid.NewString(),
			TestType:       shared.TestTypeMCQ,
			Domain:         "tech",
			Level:          shared.LevelBeginner,
			Score:          score,
			TotalQuestions: 10,
			CorrectAnswers: score / 10,
			CompletedAt:    time.Now().Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
	_, err := repo.CreateResult(&model.TestResult{
		UserID: "other", TestType: shared.TestTypeMCQ, Domain: "design", Level: shared.LevelBeginner,
		Score: 10, TotalQuestions: 10,
	})
	require.NoError(t, err)

	total, below, err := repo.CountPeers("tech", shared.LevelBeginner, 60)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Equal(t, int64(1), below)

	total, below, err = repo.CountPeers("marketing", shared.LevelPro, 50)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Zero(t, below)
}

func TestGetUserResultsNewestFirst(t *testing.T) {
	repo := NewTestRepository(openTestDB(t))
	base := time.Now().Add(-time.Hour)

	for i := 0; i < 3; i++ {
		_, err := repo.CreateResult(&model.TestResult{
			UserID: "user-1", TestType: shared.TestTypeMCQ, Domain: "Tech", Level: shared.LevelBeginner,
			Score: 50 + i, TotalQuestions: 10, CompletedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	results, err := repo.GetUserResults("user-1", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 52, results[0].Score)
	assert.Equal(t, 51, results[1].Score)

	count, err := repo.CountUserDomainResults("user-1", "tech")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestFindQuestionsSkipsInactive(t *testing.T) {
	db := openTestDB(t)
	repo := NewQuestionRepository(db)

	for _, q := range []model.QuestionBank{
		{Question: "What is a closure?", Type: shared.TestTypeMCQ, Domain: "tech", Level: shared.LevelBeginner, IsActive: true},
		{Question: "Explain goroutines", Type: shared.TestTypeMCQ, Domain: "tech", Level: shared.LevelBeginner, IsActive: true},
		{Question: "Size a market", Type: shared.TestTypeCaseStudy, Domain: "business", Level: shared.LevelBeginner, IsActive: true},
	} {
		require.NoError(t, repo.CreateQuestion(&q))
	}

	retired := model.QuestionBank{Question: "Retired", Type: shared.TestTypeMCQ, Domain: "tech", Level: shared.LevelBeginner, IsActive: true}
	require.NoError(t, repo.CreateQuestion(&retired))
	require.NoError(t, db.Model(&model.QuestionBank{}).Where("id = ?", retired.ID).Update("is_active", false).Error)

	found, err := repo.FindQuestions("tech", shared.LevelBeginner, shared.TestTypeMCQ, 10)
	require.NoError(t, err)
	require.Len(t, found, 2)
	for _, q := range found {
		assert.NotEqual(t, "Retired", q.Question)
	}

	count, err := repo.CountQuestions()
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestListResourcesFilters(t *testing.T) {
	repo := NewResourceRepository(openTestDB(t))

	for _, r := range []model.Resource{
		{Title: "Big-O cheatsheet", Type: "article", Domain: "tech", Difficulty: shared.LevelBeginner, Rating: 4.2},
		{Title: "Arrays deep dive", Type: "video", Domain: "tech", Difficulty: shared.LevelBeginner, Rating: 4.8},
		{Title: "Pricing cases", Type: "guide", Domain: "business", Difficulty: shared.LevelAdvanced, Rating: 4.8},
	} {
		require.NoError(t, repo.CreateResource(&r))
	}

	tests := []struct {
		name       string
		domain     string
		difficulty string
		kind       string
		want       []string
	}{
		{name: "no filter", want: []string{"Arrays deep dive", "Pricing cases", "Big-O cheatsheet"}},
		{name: "domain", domain: "tech", want: []string{"Arrays deep dive", "Big-O cheatsheet"}},
		{name: "type", kind: "guide", want: []string{"Pricing cases"}},
		{name: "no match", domain: "tech", difficulty: shared.LevelPro},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resources, err := repo.ListResources(tt.domain, tt.difficulty, tt.kind)
			require.NoError(t, err)

			var titles []string
			for _, r := range resources {
				titles = append(titles, r.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestAddScore(t *testing.T) {
	repo := NewProfileRepository(openTestDB(t))

	_, err := repo.CreateProfile(&model.UserProfile{UserID: "user-1", Name: "Ada", TotalScore: 10})
	require.NoError(t, err)

	total, err := repo.AddScore("user-1", 25)
	require.NoError(t, err)
	assert.Equal(t, 35, total)

	_, err = repo.AddScore("missing", 5)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAllTimeRank(t *testing.T) {
	repo := NewProfileRepository(openTestDB(t))

	for _, p := range []model.UserProfile{
		{UserID: "a", Name: "A", TotalScore: 300},
		{UserID: "b", Name: "B", TotalScore: 200},
		{UserID: "c", Name: "C", TotalScore: 200},
		{UserID: "d", Name: "D", TotalScore: 100},
	} {
		_, err := repo.CreateProfile(&p)
		require.NoError(t, err)
	}

	// Ties keep the leaderboard order: b joined before c.
	row, rank, err := repo.GetAllTimeRank("c")
	require.NoError(t, err)
	assert.Equal(t, 3, rank)
	assert.Equal(t, 200, row.Score)

	_, rank, err = repo.GetAllTimeRank("b")
	require.NoError(t, err)
	assert.Equal(t, 2, rank)

	_, rank, err = repo.GetAllTimeRank("d")
	require.NoError(t, err)
	assert.Equal(t, 4, rank)

	rows, err := repo.GetAllTimeLeaderboard(2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].UserID)
	assert.Equal(t, "b", rows[1].UserID)
}

func TestPeriodRankMatchesLeaderboardOrder(t *testing.T) {
	db := openTestDB(t)
	profiles := NewProfileRepository(db)
	tests := NewTestRepository(db)
	since := time.Now().Add(-24 * time.Hour)

	for userID, scores := range map[string][]int{
		"u1": {90},
		"u2": {40, 30},
		"u3": {70},
		"u4": {10},
	} {
		_, err := profiles.CreateProfile(&model.UserProfile{UserID: userID, Name: userID})
		require.NoError(t, err)
		for _, score := range scores {
			_, err := tests.CreateResult(&model.TestResult{
				UserID: userID, TestType: shared.TestTypeMCQ, Domain: "tech", Level: shared.LevelBeginner,
				Score: score, TotalQuestions: 10, CompletedAt: time.Now(),
			})
			require.NoError(t, err)
		}
	}

	rows, err := profiles.GetPeriodLeaderboard(since, 10)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	for i, want := range []string{"u1", "u2", "u3", "u4"} {
		assert.Equal(t, want, rows[i].UserID)

		row, rank, err := profiles.GetPeriodRank(want, since)
		require.NoError(t, err)
		assert.Equal(t, i+1, rank, want)
		assert.Equal(t, rows[i].Score, row.Score)
	}
}
