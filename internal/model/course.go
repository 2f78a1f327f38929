package model

import "time"

// Course is either a base course (added out of band together with its book
// content) or a derived course an instructor created from one. Derived
// courses point at their base through BaseCourse, which holds the parent's
// CourseName. This service only ever reads courses.
//
// swagger:model Course
type Course struct {
	BaseModel
	CourseName    string     `gorm:"size:512;unique" json:"courseName"`
	BaseCourse    string     `gorm:"size:512;index" json:"baseCourse"`
	TermStartDate *time.Time `json:"termStartDate"`
	// Python3 selects the language variant of the book build.
	Python3       CharBool `json:"python3"`
	LoginRequired CharBool `json:"loginRequired"`
}

func (Course) TableName() string {
	return "courses"
}

// ContentBase returns the course whose content tree serves this course's
// pages: the base course when set, otherwise the course itself.
func (c *Course) ContentBase() string {
	if c.BaseCourse != "" {
		return c.BaseCourse
	}
	return c.CourseName
}
