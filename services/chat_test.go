package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/interviewgenius/interview_api/dto"
	"github.com/interviewgenius/interview_api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatService_SendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("stores both sides of the exchange", func(t *testing.T) {
		db := newTestDatabase(t)
		gen := fixedGenerator("Lead with impact, then context.")
		svc := NewChatService(db, gen)
		svc.random = func() float64 { return 0.9 }

		resp, err := svc.SendMessage(ctx, "user-1", dto.SendMessageRequest{Content: "  How do I start?  ", Context: "backend role"})
		require.NoError(t, err)

		assert.Equal(t, "How do I start?", resp.UserMessage.Content)
		assert.True(t, resp.UserMessage.IsUser)
		assert.Equal(t, "Lead with impact, then context.", resp.Reply.Content)
		assert.False(t, resp.Reply.IsUser)
		assert.Equal(t, shared.EmotionExcited, resp.Reply.Emotion)
		assert.Equal(t, 1, gen.calls("Context: backend role"))

		history, err := svc.GetHistory("user-1", 0)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.True(t, history[0].IsUser)
		assert.False(t, history[1].IsUser)
	})

	t.Run("low roll gives a happy reply", func(t *testing.T) {
		svc := NewChatService(newTestDatabase(t), fixedGenerator("ok"))
		svc.random = func() float64 { return 0.7 }

		resp, err := svc.SendMessage(ctx, "user-1", dto.SendMessageRequest{Content: "hi"})
		require.NoError(t, err)
		assert.Equal(t, shared.EmotionHappy, resp.Reply.Emotion)
	})

	t.Run("generation failure stores an apology", func(t *testing.T) {
		svc := NewChatService(newTestDatabase(t), failingGenerator(errors.New("timeout")))

		resp, err := svc.SendMessage(ctx, "user-1", dto.SendMessageRequest{Content: "hi"})
		require.NoError(t, err)
		assert.Equal(t, chatErrorReply, resp.Reply.Content)
		assert.Equal(t, shared.EmotionThinking, resp.Reply.Emotion)

		history, err := svc.GetHistory("user-1", 10)
		require.NoError(t, err)
		assert.Len(t, history, 2)
	})

	t.Run("blank message is rejected", func(t *testing.T) {
		svc := NewChatService(newTestDatabase(t), fixedGenerator("unused"))

		_, err := svc.SendMessage(ctx, "user-1", dto.SendMessageRequest{Content: " \n "})
		requireStatus(t, err, http.StatusBadRequest)
	})
}

func TestChatService_GetHistory(t *testing.T) {
	svc := NewChatService(newTestDatabase(t), fixedGenerator("reply"))

	t.Run("empty history greets the user", func(t *testing.T) {
		history, err := svc.GetHistory("nobody", 0)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, "greeting", history[0].ID)
		assert.Equal(t, chatGreeting, history[0].Content)
	})

	t.Run("limit keeps the latest messages in order", func(t *testing.T) {
		ctx := context.Background()
		for _, msg := range []string{"one", "two", "three"} {
			_, err := svc.SendMessage(ctx, "user-2", dto.SendMessageRequest{Content: msg})
			require.NoError(t, err)
		}

		history, err := svc.GetHistory("user-2", 3)
		require.NoError(t, err)
		require.Len(t, history, 3)
		assert.Equal(t, "reply", history[0].Content)
		assert.Equal(t, "three", history[1].Content)
		assert.Equal(t, "reply", history[2].Content)
	})
}
