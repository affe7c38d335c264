package services

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/interviewgenius/interview_api/dto"
	"github.com/interviewgenius/interview_api/model"
	"github.com/interviewgenius/interview_api/shared"
	log "github.com/sirupsen/logrus"
)

const (
	CHAT_SVC = "chat_svc"

	defaultChatHistoryLimit = 50
	maxChatHistoryLimit     = 200

	chatErrorReply = "Sorry, I'm having trouble connecting right now. Please try again later!"
	chatGreeting   = "Hi! I'm your AI interview coach. Ask me anything about interview preparation! 🚀"
)

type ChatService struct {
	appContext.DefaultService

	dbSvc     *DatabaseService
	generator Generator

	// random returns a value in [0,1) used to pick the reply emotion.
	random func() float64
}

func NewChatService(dbSvc *DatabaseService, generator Generator) *ChatService {
	return &ChatService{dbSvc: dbSvc, generator: generator, random: rand.Float64}
}

func (svc ChatService) Id() string {
	return CHAT_SVC
}

func (svc *ChatService) Configure(ctx *appContext.Context) error {
	svc.random = rand.Float64
	return svc.DefaultService.Configure(ctx)
}

func (svc *ChatService) Start() error {
	svc.dbSvc = svc.Service(DATABASE_SVC).(*DatabaseService)
	svc.generator = svc.Service(GEMINI_SVC).(*GeminiService)
	return nil
}

// SendMessage stores the user's message and the coach reply. A failed
// generation still produces a stored apology reply.
func (svc *ChatService) SendMessage(ctx context.Context, userID string, req dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, shared.NewBadRequestError(nil, "Message cannot be empty")
	}

	userMessage, err := svc.dbSvc.Chats().SaveMessage(&model.ChatMessage{
		UserID:  userID,
		Content: content,
		IsUser:  true,
		Context: req.Context,
	})
	if err != nil {
		return nil, svc.dbSvc.HandleError(err)
	}

	reply := &model.ChatMessage{UserID: userID, IsUser: false}

	text, err := GenerateChatResponse(ctx, svc.generator, content, req.Context)
	if err != nil {
		RecordGeneration(GenerationKindChat, GenerationOutcomeFallback)
		if !errors.Is(err, ErrGenerationDisabled) {
			log.WithError(err).WithField("user_id", userID).Warn("Chat generation failed")
		}
		reply.Content = chatErrorReply
		reply.Emotion = shared.EmotionThinking
	} else {
		RecordGeneration(GenerationKindChat, GenerationOutcomeOK)
		reply.Content = text
		reply.Emotion = svc.replyEmotion()
	}

	// Keep the reply strictly after the question so history stays ordered.
	reply.CreatedAt = userMessage.CreatedAt.Add(time.Millisecond)
	if now := time.Now(); now.After(reply.CreatedAt) {
		reply.CreatedAt = now
	}

	reply, err = svc.dbSvc.Chats().SaveMessage(reply)
	if err != nil {
		return nil, svc.dbSvc.HandleError(err)
	}

	return &dto.SendMessageResponse{
		UserMessage: chatMessageResponse(userMessage),
		Reply:       chatMessageResponse(reply),
	}, nil
}

func (svc *ChatService) replyEmotion() string {
	if svc.random() > 0.7 {
		return shared.EmotionExcited
	}
	return shared.EmotionHappy
}

func (svc *ChatService) GetHistory(userID string, limit int) ([]dto.ChatMessageResponse, error) {
	if limit <= 0 {
		limit = defaultChatHistoryLimit
	}
	if limit > maxChatHistoryLimit {
		limit = maxChatHistoryLimit
	}

	messages, err := svc.dbSvc.Chats().GetHistory(userID, limit)
	if err != nil {
		return nil, svc.dbSvc.HandleError(err)
	}

	if len(messages) == 0 {
		return []dto.ChatMessageResponse{greetingMessage()}, nil
	}

	responses := make([]dto.ChatMessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, chatMessageResponse(&messages[i]))
	}
	return responses, nil
}

func greetingMessage() dto.ChatMessageResponse {
	return dto.ChatMessageResponse{
		ID:        "greeting",
		Content:   chatGreeting,
		IsUser:    false,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Emotion:   shared.EmotionHappy,
	}
}

func chatMessageResponse(message *model.ChatMessage) dto.ChatMessageResponse {
	return dto.ChatMessageResponse{
		ID:        message.ID,
		Content:   message.Content,
		IsUser:    message.IsUser,
		Timestamp: message.CreatedAt.UTC().Format(time.RFC3339),
		Emotion:   message.Emotion,
	}
}
