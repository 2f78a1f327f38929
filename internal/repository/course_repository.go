package repository

import (
	"errors"

	"textbook_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

// FindByName returns nil without an error when no course has that name.
func (r *CourseRepository) FindByName(name string) (*model.Course, error) {
	var course model.Course
	err := r.DB.Where("course_name = ?", name).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) Exists(name string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Course{}).Where("course_name = ?", name).Count(&count).Error
	return count > 0, err
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}
