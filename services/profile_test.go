package services

import (
	"context"
	"mime/multipart"
	"testing"

	"github.com/interviewgenius/interview_api/dto"
	"github.com/interviewgenius/interview_api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUserService_GetUserProfile(t *testing.T) {
	f := newTestFixture(t, fixedGenerator("unused"))

	profile, err := f.users.GetUserProfile(f.userID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.Name)
	assert.Equal(t, "ada@example.com", profile.Email)
	assert.Equal(t, shared.LevelBeginner, profile.ExperienceLevel)
	assert.Equal(t, 1, profile.Level)
	assert.Empty(t, profile.Badges)
	assert.Empty(t, profile.Avatar)

	_, err = f.users.GetUserProfile("nobody")
	requireStatus(t, err, 404)
}

func TestUserService_UpdateUserProfile(t *testing.T) {
	f := newTestFixture(t, fixedGenerator("unused"))

	updated, err := f.users.UpdateUserProfile(f.userID, dto.UpdateProfileRequest{
		Name:   strPtr("  Ada Lovelace "),
		Domain: strPtr("design"),
		Level:  strPtr(shared.LevelAdvanced),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", updated.Name)
	assert.Equal(t, "design", updated.Domain)
	assert.Equal(t, shared.LevelAdvanced, updated.ExperienceLevel)

	user, err := f.db.Users().GetUser(f.userID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", user.Name)

	t.Run("partial update keeps other fields", func(t *testing.T) {
		again, err := f.users.UpdateUserProfile(f.userID, dto.UpdateProfileRequest{Domain: strPtr("tech")})
		require.NoError(t, err)
		assert.Equal(t, "tech", again.Domain)
		assert.Equal(t, "Ada Lovelace", again.Name)
		assert.Equal(t, shared.LevelAdvanced, again.ExperienceLevel)
	})

	t.Run("blank name", func(t *testing.T) {
		_, err := f.users.UpdateUserProfile(f.userID, dto.UpdateProfileRequest{Name: strPtr("   ")})
		requireStatus(t, err, 400)
	})
}

func TestUserService_InitializeUserProfileIsIdempotent(t *testing.T) {
	f := newTestFixture(t, fixedGenerator("unused"))

	user, err := f.db.Users().GetUser(f.userID)
	require.NoError(t, err)

	first, err := f.users.InitializeUserProfile(user)
	require.NoError(t, err)
	second, err := f.users.InitializeUserProfile(user)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestUserService_UploadAvatarWithoutStorage(t *testing.T) {
	f := newTestFixture(t, fixedGenerator("unused"))

	_, err := f.users.UploadAvatar(context.Background(), f.userID, &multipart.FileHeader{Filename: "me.png", Size: 1024})
	requireStatus(t, err, 503)
}
