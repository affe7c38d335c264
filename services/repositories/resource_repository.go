package repositories

import (
	"github.com/google/uuid"
	"github.com/interviewgenius/interview_api/model"
	"gorm.io/gorm"
)

type ResourceRepository struct {
	BaseRepository
}

func NewResourceRepository(db *gorm.DB) *ResourceRepository {
	return &ResourceRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// ListResources applies only the non-empty filters.
func (ds *ResourceRepository) ListResources(domain, difficulty, resourceType string) ([]model.Resource, error) {
	query := ds.db.Model(&model.Resource{})
	if domain != "" {
		query = query.Where("domain = ?", domain)
	}
	if difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}
	if resourceType != "" {
		query = query.Where("type = ?", resourceType)
	}

	var resources []model.Resource
	if err := query.Order("rating DESC, title ASC").Find(&resources).Error; err != nil {
		return nil, err
	}
	return resources, nil
}

func (ds *ResourceRepository) CreateResource(resource *model.Resource) error {
	if resource.ID == "" {
		id, _ := uuid.NewV7()
		resource.ID = id.String()
	}
	return ds.db.Create(resource).Error
}

func (ds *ResourceRepository) CountResources() (int64, error) {
	return ds.count(&model.Resource{}, "")
}
