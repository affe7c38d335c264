package repositories

import (
	"gorm.io/gorm"
)

// BaseRepository holds the connection shared by every repository in this package.
type BaseRepository struct {
	db *gorm.DB
}

func NewBaseRepository(db *gorm.DB) BaseRepository {
	return BaseRepository{db: db}
}

// count returns the number of rows of model matching query. An empty query counts the whole table.
func (r *BaseRepository) count(model interface{}, query string, args ...interface{}) (int64, error) {
	var n int64
	tx := r.db.Model(model)
	if query != "" {
		tx = tx.Where(query, args...)
	}
	err := tx.Count(&n).Error
	return n, err
}
