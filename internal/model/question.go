package model

import "time"

// Question describes one interactive unit of a book. Rows are produced by
// the Sphinx build of the base course; the server only looks questions up
// by name (the div id) to validate incoming events.
//
// swagger:model Question
type Question struct {
	BaseModel
	BaseCourse   string    `gorm:"size:512;not null;index" json:"baseCourse"`
	Name         string    `gorm:"size:512;not null;index" json:"name"`
	Chapter      string    `gorm:"size:512" json:"chapter"`
	Subchapter   string    `gorm:"size:512" json:"subchapter"`
	Author       string    `gorm:"size:512" json:"author"`
	Difficulty   int       `json:"difficulty"`
	Question     string    `gorm:"type:text" json:"question"`
	Timestamp    time.Time `json:"timestamp"`
	QuestionType string    `gorm:"size:512" json:"questionType"`
	IsPrivate    CharBool  `json:"isPrivate"`
	HTMLSrc      string    `gorm:"type:text" json:"htmlsrc"`
	Autograde    string    `gorm:"size:512" json:"autograde"`
}

func (Question) TableName() string {
	return "questions"
}
