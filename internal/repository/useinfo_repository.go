package repository

import (
	"textbook_backend/internal/model"

	"gorm.io/gorm"
)

type UseinfoRepository struct {
	DB *gorm.DB
}

func NewUseinfoRepository(db *gorm.DB) *UseinfoRepository {
	return &UseinfoRepository{DB: db}
}

func (r *UseinfoRepository) Create(record *model.Useinfo) error {
	return r.DB.Create(record).Error
}

func (r *UseinfoRepository) FindBySid(sid string) ([]model.Useinfo, error) {
	var records []model.Useinfo
	err := r.DB.Where("sid = ?", sid).Order("id").Find(&records).Error
	return records, err
}

func (r *UseinfoRepository) CountBySid(sid string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Useinfo{}).Where("sid = ?", sid).Count(&count).Error
	return count, err
}

// ReassignSid rewrites the history an anonymous session produced onto the
// account the user turned out to be. This is the only update the event log
// ever sees.
func (r *UseinfoRepository) ReassignSid(oldSid, newSid string) error {
	return r.DB.Model(&model.Useinfo{}).
		Where("sid = ?", oldSid).
		Update("sid", newSid).
		Error
}
