package database

import (
	"fmt"
	"log"
	"time"

	"textbook_backend/internal/config"
	"textbook_backend/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	if cfg.SeedDemoData {
		if err := seedDemoData(db); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// Migrate creates or updates every table the server touches.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Question{},
		&model.Useinfo{},
		&model.TimedExam{},
		&model.MchoiceAnswer{},
		&model.FitbAnswer{},
		&model.DragndropAnswer{},
		&model.ClickableareaAnswer{},
		&model.ParsonsAnswer{},
		&model.CodelensAnswer{},
		&model.ShortanswerAnswer{},
		&model.LpAnswer{},
	)
}

// seedDemoData loads the fixtures the book and API walkthroughs rely on:
// a base course, two child courses with different flags, one question and a
// test user. Only rows missing from the database are inserted.
func seedDemoData(db *gorm.DB) error {
	var count int64
	db.Model(&model.Course{}).Count(&count)
	if count == 0 {
		start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
		courses := []model.Course{
			{CourseName: "test_base_course", BaseCourse: "test_base_course", TermStartDate: &start,
				Python3: model.TrueChar(true), LoginRequired: model.TrueChar(true)},
			{CourseName: "test_child_course1", BaseCourse: "test_base_course", TermStartDate: &start,
				Python3: model.TrueChar(true), LoginRequired: model.TrueChar(true)},
			{CourseName: "test_child_course2", BaseCourse: "test_base_course", TermStartDate: &start,
				Python3: model.TrueChar(false), LoginRequired: model.TrueChar(false)},
		}
		for i := range courses {
			if err := db.Create(&courses[i]).Error; err != nil {
				return err
			}
		}
	}

	var qCount int64
	db.Model(&model.Question{}).Count(&qCount)
	if qCount == 0 {
		question := model.Question{
			BaseCourse:   "test_base_course",
			Name:         "test_div_id",
			Chapter:      "chapter_1",
			Subchapter:   "subchapter_1",
			QuestionType: "mchoice",
			Timestamp:    time.Now(),
		}
		if err := db.Create(&question).Error; err != nil {
			return err
		}
	}

	var uCount int64
	db.Model(&model.User{}).Count(&uCount)
	if uCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("grouplens"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := model.User{
			Username:   "brad@test.user",
			FirstName:  "Brad",
			LastName:   "Miller",
			Email:      "brad@test.user",
			Password:   string(hash),
			CourseName: "test_child_course1",
			Active:     model.TrueChar(true),
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
	}

	return nil
}
