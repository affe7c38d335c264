package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/interviewgenius/interview_api/model"
	"gorm.io/gorm"
)

type ChatRepository struct {
	BaseRepository
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *ChatRepository) SaveMessage(message *model.ChatMessage) (*model.ChatMessage, error) {
	id, _ := uuid.NewV7()
	message.ID = id.String()
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	if err := ds.db.Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

// GetHistory returns the latest messages in chronological order.
func (ds *ChatRepository) GetHistory(userID string, limit int) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	err := ds.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
