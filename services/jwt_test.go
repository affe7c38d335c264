package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_TokenPair(t *testing.T) {
	svc := NewJWTService("secret", time.Minute, time.Hour)

	issued, err := svc.GenerateTokenPair("user-1", "session-1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", issued.Pair.TokenType)
	assert.Equal(t, int64(60), issued.Pair.ExpiresIn)
	assert.Equal(t, int64(3600), issued.Pair.RefreshExpiresIn)
	assert.NotEmpty(t, issued.RefreshJTI)
	assert.WithinDuration(t, time.Now().Add(time.Hour), issued.RefreshExpiresAt, 5*time.Second)

	access, err := svc.VerifyAccessToken(issued.Pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", access.UserID)
	assert.Equal(t, "session-1", access.SessionID)

	refresh, err := svc.VerifyRefreshToken(issued.Pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, issued.RefreshJTI, refresh.ID)
}

func TestJWTService_RejectsWrongTokens(t *testing.T) {
	svc := NewJWTService("secret", time.Minute, time.Hour)
	issued, err := svc.GenerateTokenPair("user-1", "session-1")
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(issued.Pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.VerifyRefreshToken(issued.Pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewJWTService("other-secret", time.Minute, time.Hour)
	_, err = other.VerifyAccessToken(issued.Pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewJWTService("secret", -time.Minute, time.Hour)
	old, err := expired.GenerateTokenPair("user-1", "session-1")
	require.NoError(t, err)
	_, err = svc.VerifyAccessToken(old.Pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ExtractTokenFromHeader(t *testing.T) {
	svc := NewJWTService("secret", time.Minute, time.Hour)

	tests := []struct {
		header  string
		token   string
		wantErr bool
	}{
		{header: "Bearer abc.def", token: "abc.def"},
		{header: "bearer   abc.def ", token: "abc.def"},
		{header: "", wantErr: true},
		{header: "Basic abc", wantErr: true},
		{header: "Bearer ", wantErr: true},
	}

	for _, tt := range tests {
		token, err := svc.ExtractTokenFromHeader(tt.header)
		if tt.wantErr {
			assert.Error(t, err, "header %q", tt.header)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.token, token)
	}
}
