package model

import "time"

// Column length limits shared by the event-log and answer tables. The
// argument validators reject anything longer before a row is built.
const (
	MaxSidLen          = 512
	MaxEventLen        = 512
	MaxActLen          = 512
	MaxDivIDLen        = 512
	MaxCourseNameLen   = 512
	MaxAnswerLen       = 512
	MaxChoiceAnswerLen = 50
	MaxSourceLen       = 512
)

// Useinfo is the append-only log of book interaction events. One row is
// written per hsblog request, authenticated or not. Rows are never updated
// except when identity reconciliation rewrites the sid of anonymous history.
//
// swagger:model Useinfo
type Useinfo struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Sid       string    `gorm:"size:512;index" json:"sid"`
	Event     string    `gorm:"size:512" json:"event"`
	Act       string    `gorm:"size:512" json:"act"`
	DivID     string    `gorm:"size:512" json:"divId"`
	// CourseID holds the course name, not the numeric id; the event
	// parameters identify courses by name.
	CourseID string `gorm:"size:512" json:"courseId"`
}

func (Useinfo) TableName() string {
	return "useinfo"
}
