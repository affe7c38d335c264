package services

import (
	"testing"
	"time"

	"github.com/interviewgenius/interview_api/model"
	"github.com/interviewgenius/interview_api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerService_CloseStaleTests(t *testing.T) {
	db := newTestDatabase(t)
	svc := &SchedulerService{dbSvc: db}

	stale, err := db.Tests().CreateSession(&model.TestSession{
		UserID: "user-1", TestType: shared.TestTypeMCQ, Domain: "tech", Level: shared.LevelBeginner,
		Status: shared.TestStatusInProgress, StartedAt: time.Now().Add(-48 * time.Hour),
	})
	require.NoError(t, err)
	require.NoError(t, db.Db().Model(&model.TestSession{}).Where("id = ?", stale.ID).
		Update("updated_at", time.Now().Add(-25*time.Hour)).Error)

	fresh, err := db.Tests().CreateSession(&model.TestSession{
		UserID: "user-1", TestType: shared.TestTypeMCQ, Domain: "tech", Level: shared.LevelBeginner,
		Status: shared.TestStatusInProgress, StartedAt: time.Now(),
	})
	require.NoError(t, err)

	svc.closeStaleTests()

	got, err := db.Tests().GetSession("user-1", stale.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.TestStatusAbandoned, got.Status)
	assert.NotNil(t, got.CompletedAt)

	got, err = db.Tests().GetSession("user-1", fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.TestStatusInProgress, got.Status)
}

func TestSchedulerService_ResetIdleStreaks(t *testing.T) {
	db := newTestDatabase(t)
	users := NewUserService(db, nil, nil)
	svc := &SchedulerService{dbSvc: db}

	idle := seedPlayer(t, db, users, "Idle", "idle@example.com", 0)
	active := seedPlayer(t, db, users, "Active", "active@example.com", 0)

	// Shortly after midnight UTC: yesterday's activity keeps a streak, the day before does not.
	now := time.Date(2024, 3, 10, 0, 10, 0, 0, time.UTC)
	require.NoError(t, db.Profiles().UpdateFields(idle, map[string]interface{}{"streak": 5, "last_active": time.Date(2024, 3, 8, 23, 59, 0, 0, time.UTC)}))
	require.NoError(t, db.Profiles().UpdateFields(active, map[string]interface{}{"streak": 2, "last_active": time.Date(2024, 3, 9, 0, 1, 0, 0, time.UTC)}))

	svc.resetIdleStreaks(now)

	profile, err := db.Profiles().GetProfile(idle)
	require.NoError(t, err)
	assert.Equal(t, 0, profile.Streak)

	profile, err = db.Profiles().GetProfile(active)
	require.NoError(t, err)
	assert.Equal(t, 2, profile.Streak)
}
