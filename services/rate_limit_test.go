package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/interviewgenius/interview_api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestRateLimiter(t *testing.T, max int) (*RateLimitService, *fakeClock) {
	t.Helper()

	clock := &fakeClock{t: time.Now()}
	svc := NewRateLimitService(newTestDatabase(t))
	svc.now = clock.Now
	svc.SetConfig(RateLimitConfig{
		EndpointType: EndpointChatMessage,
		MaxRequests:  max,
		WindowSize:   10 * time.Minute,
		BlockTime:    5 * time.Minute,
		IsActive:     true,
	})
	return svc, clock
}

func TestRateLimitService_IsAllowed(t *testing.T) {
	svc, clock := newTestRateLimiter(t, 3)

	for i := 0; i < 3; i++ {
		allowed, info, err := svc.IsAllowed("user-1", EndpointChatMessage)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 2-i, info.Remaining)
	}

	allowed, info, err := svc.IsAllowed("user-1", EndpointChatMessage)
	require.NoError(t, err)
	assert.False(t, allowed)
	require.NotNil(t, info.BlockedUntil)
	assert.Equal(t, clock.Now().Add(5*time.Minute).Unix(), info.BlockedUntil.Unix())

	allowed, _, err = svc.IsAllowed("user-2", EndpointChatMessage)
	require.NoError(t, err)
	assert.True(t, allowed, "other identifiers are independent")

	clock.Advance(4 * time.Minute)
	allowed, _, err = svc.IsAllowed("user-1", EndpointChatMessage)
	require.NoError(t, err)
	assert.False(t, allowed, "still blocked")

	clock.Advance(7 * time.Minute)
	allowed, info, err = svc.IsAllowed("user-1", EndpointChatMessage)
	require.NoError(t, err)
	assert.True(t, allowed, "block and window expired")
	assert.Equal(t, 2, info.Remaining)
}

func TestRateLimitService_WindowResetKeepsRow(t *testing.T) {
	svc, clock := newTestRateLimiter(t, 5)

	_, _, err := svc.IsAllowed("user-1", EndpointChatMessage)
	require.NoError(t, err)
	before, err := svc.dbSvc.RateLimits().GetRateLimit("user-1", EndpointChatMessage)
	require.NoError(t, err)

	clock.Advance(11 * time.Minute)
	_, _, err = svc.IsAllowed("user-1", EndpointChatMessage)
	require.NoError(t, err)

	after, err := svc.dbSvc.RateLimits().GetRateLimit("user-1", EndpointChatMessage)
	require.NoError(t, err)
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, 1, after.RequestCount)
}

func TestRateLimitService_UnknownEndpoint(t *testing.T) {
	svc, _ := newTestRateLimiter(t, 1)

	allowed, info, err := svc.IsAllowed("user-1", "not-configured")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, -1, info.Remaining)
}

func TestRateLimitService_ResetRateLimit(t *testing.T) {
	svc, _ := newTestRateLimiter(t, 1)

	_, _, _ = svc.IsAllowed("user-1", EndpointChatMessage)
	allowed, _, _ := svc.IsAllowed("user-1", EndpointChatMessage)
	require.False(t, allowed)

	require.NoError(t, svc.ResetRateLimit("user-1", EndpointChatMessage))
	allowed, _, err := svc.IsAllowed("user-1", EndpointChatMessage)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimitService_Middleware(t *testing.T) {
	svc, _ := newTestRateLimiter(t, 1)
	svc.SetConfig(RateLimitConfig{
		EndpointType: EndpointLogin,
		MaxRequests:  1,
		WindowSize:   time.Minute,
		BlockTime:    time.Minute,
		IsActive:     true,
	})

	app := fiber.New(fiber.Config{ErrorHandler: shared.ErrorHandler})
	app.Post("/login", svc.RateLimit(EndpointLogin), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})

	login := func(email string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"`+email+`"}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		req.Header.Set("X-Forwarded-For", "203.0.113.7")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	first := login("ada@example.com")
	assert.Equal(t, http.StatusNoContent, first.StatusCode)
	assert.Equal(t, "1", first.Header.Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", first.Header.Get("X-RateLimit-Remaining"))

	blocked := login("ADA@example.com")
	assert.Equal(t, http.StatusTooManyRequests, blocked.StatusCode)
	assert.NotEmpty(t, blocked.Header.Get("Retry-After"))

	other := login("grace@example.com")
	assert.Equal(t, http.StatusNoContent, other.StatusCode, "limits are per account")
}

func TestLoginIdentifier(t *testing.T) {
	assert.Equal(t, "1.2.3.4:ada@example.com", LoginIdentifier("1.2.3.4", "  Ada@Example.com "))
}

func TestGetRateLimitMessage(t *testing.T) {
	assert.Equal(t, "Account temporarily blocked. Try again later.", getRateLimitMessage(EndpointLogin))
	assert.Equal(t, "Too many requests. Please try again later.", getRateLimitMessage("other"))
}
