package repositories

import (
	"github.com/google/uuid"
	"github.com/interviewgenius/interview_api/model"
	"gorm.io/gorm"
)

// QuestionRepository reads and seeds the stored question bank
type QuestionRepository struct {
	BaseRepository
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *QuestionRepository) FindQuestions(domain, level, questionType string, limit int) ([]model.QuestionBank, error) {
	var questions []model.QuestionBank
	err := ds.db.Where("domain = ? AND level = ? AND type = ? AND is_active = ?", domain, level, questionType, true).
		Order("created_at ASC").
		Limit(limit).
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (ds *QuestionRepository) CreateQuestion(question *model.QuestionBank) error {
	if question.ID == "" {
		id, _ := uuid.NewV7()
		question.ID = id.String()
	}
	return ds.db.Create(question).Error
}

func (ds *QuestionRepository) CountQuestions() (int64, error) {
	return ds.count(&model.QuestionBank{}, "")
}
