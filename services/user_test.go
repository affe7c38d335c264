package services

import (
	"testing"
	"time"

	"github.com/interviewgenius/interview_api/model"
	"github.com/interviewgenius/interview_api/shared"
	"github.com/stretchr/testify/assert"
)

func TestCalculateLevel(t *testing.T) {
	tests := []struct {
		score int
		level int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{249, 2},
		{250, 3},
		{474, 3},
		{475, 4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.level, calculateLevel(tt.score), "score %d", tt.score)
	}
}

func TestPointsToNextLevel(t *testing.T) {
	assert.Equal(t, 100, pointsToNextLevel(0))
	assert.Equal(t, 130, pointsToNextLevel(120))
	assert.Equal(t, 225, pointsToNextLevel(250))
}

func TestNextStreak(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		v := now.Add(d)
		return &v
	}

	t.Run("first activity starts a streak", func(t *testing.T) {
		assert.Equal(t, 1, nextStreak(0, nil, now))
		assert.Equal(t, 1, nextStreak(4, nil, now))
	})

	t.Run("same day keeps the streak", func(t *testing.T) {
		assert.Equal(t, 3, nextStreak(3, at(-9*time.Hour), now))
	})

	t.Run("previous day extends the streak", func(t *testing.T) {
		assert.Equal(t, 4, nextStreak(3, at(-12*time.Hour), now))
		assert.Equal(t, 4, nextStreak(3, at(-30*time.Hour), now))
	})

	t.Run("a missed day resets", func(t *testing.T) {
		assert.Equal(t, 1, nextStreak(7, at(-72*time.Hour), now))
	})

	t.Run("zero streak restarts even with recent activity", func(t *testing.T) {
		assert.Equal(t, 1, nextStreak(0, at(-time.Hour), now))
	})

	t.Run("days are counted in UTC", func(t *testing.T) {
		berlin := time.FixedZone("CET", 3600)
		// 00:30 local on the 10th is still the 9th in UTC, same as 22:00 local on the 9th.
		local := time.Date(2024, 3, 10, 0, 30, 0, 0, berlin)
		last := time.Date(2024, 3, 9, 22, 0, 0, 0, berlin)
		assert.Equal(t, 3, nextStreak(3, &last, local))
	})
}

func TestBadgesEarned(t *testing.T) {
	tests := []struct {
		name        string
		totalTests  int64
		domainTests int64
		result      model.TestResult
		want        []string
	}{
		{
			name:       "first test earns nothing",
			totalTests: 1, domainTests: 1,
			result: model.TestResult{Score: 70, Domain: "tech", TestType: shared.TestTypeMCQ},
			want:   nil,
		},
		{
			name:       "high score",
			totalTests: 1, domainTests: 1,
			result: model.TestResult{Score: 90, Domain: "tech", TestType: shared.TestTypeMCQ},
			want:   []string{BadgePerfectionist},
		},
		{
			name:       "coding after five tests",
			totalTests: 5, domainTests: 2,
			result: model.TestResult{Score: 50, Domain: "tech", TestType: shared.TestTypeCoding},
			want:   []string{BadgeCodingMaster},
		},
		{
			name:       "veteran and specialist",
			totalTests: 10, domainTests: 5,
			result: model.TestResult{Score: 60, Domain: "Design", TestType: shared.TestTypeMCQ},
			want:   []string{BadgeTestVeteran, "design-specialist"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, badgesEarned(tt.totalTests, tt.domainTests, &tt.result))
		})
	}
}

func TestApplySkillScore(t *testing.T) {
	scores := map[string]model.SkillScore{}

	first := applySkillScore(scores, "tech", 80)
	assert.Equal(t, model.SkillScore{Score: 80, MaxScore: 100, Improvement: 0, Tests: 1}, first)

	second := applySkillScore(scores, "tech", 60)
	assert.Equal(t, 70, second.Score)
	assert.Equal(t, -10, second.Improvement)
	assert.Equal(t, 2, second.Tests)

	third := applySkillScore(scores, "tech", 100)
	assert.Equal(t, 80, third.Score)
	assert.Equal(t, 10, third.Improvement)
	assert.Equal(t, third, scores["tech"])
}

func TestBadgeInfo(t *testing.T) {
	assert.Equal(t, "Perfectionist", BadgeInfo(BadgePerfectionist).Name)

	specialist := BadgeInfo(SpecialistBadgeID(" Marketing "))
	assert.Equal(t, "marketing-specialist", specialist.ID)
	assert.Equal(t, "Marketing Specialist", specialist.Name)

	unknown := BadgeInfo("mystery")
	assert.Equal(t, "mystery", unknown.Name)
}
