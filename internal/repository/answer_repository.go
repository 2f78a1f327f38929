package repository

import (
	"textbook_backend/internal/model"

	"gorm.io/gorm"
)

// AnswerRepository gives the event service the few primitives its
// persistence policies need. Policy decisions (dedup, merge) stay in the
// service; this layer only reads and writes rows. Methods take the *gorm.DB
// to run on so a policy's read and write can share one transaction.
type AnswerRepository struct {
	DB *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: db}
}

// Create inserts any answer record.
func (r *AnswerRepository) Create(tx *gorm.DB, record interface{}) error {
	return tx.Create(record).Error
}

// HasCorrect reports whether the subject already has a correct answer row in
// the table backing answerModel, for tables with a CharBool correct column.
func (r *AnswerRepository) HasCorrect(tx *gorm.DB, answerModel interface{}, sid, divID, courseName string) (bool, error) {
	var count int64
	err := tx.Model(answerModel).
		Where("sid = ? AND div_id = ? AND course_name = ? AND correct = ?",
			sid, divID, courseName, model.TrueChar(true)).
		Count(&count).Error
	return count > 0, err
}

// HasFullGrade is the graded-build variant of HasCorrect: a grade of exactly
// 100 counts as correct.
func (r *AnswerRepository) HasFullGrade(tx *gorm.DB, sid, divID, courseName string) (bool, error) {
	var count int64
	err := tx.Model(&model.LpAnswer{}).
		Where("sid = ? AND div_id = ? AND course_name = ? AND correct = ?",
			sid, divID, courseName, 100.0).
		Count(&count).Error
	return count > 0, err
}

// FindShortanswers returns every short-answer row under the subject key, in
// insertion order. The merge policy expects at most one.
func (r *AnswerRepository) FindShortanswers(tx *gorm.DB, sid, divID, courseName string) ([]model.ShortanswerAnswer, error) {
	var rows []model.ShortanswerAnswer
	err := tx.Where("sid = ? AND div_id = ? AND course_name = ?", sid, divID, courseName).
		Order("id").
		Find(&rows).Error
	return rows, err
}

// Save overwrites an existing row's mutable fields.
func (r *AnswerRepository) Save(tx *gorm.DB, record interface{}) error {
	return tx.Save(record).Error
}
