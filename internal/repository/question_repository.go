package repository

import (
	"textbook_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// ExistsByName checks a div id against the questions the book build
// registered. Question names are unique within a base course but the event
// parameters carry no base course, so the lookup is by name alone.
func (r *QuestionRepository) ExistsByName(name string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

func (r *QuestionRepository) Create(question *model.Question) error {
	return r.DB.Create(question).Error
}
