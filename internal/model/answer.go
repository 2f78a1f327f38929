package model

import "time"

// AnswerBase carries the columns every answer table shares. Answer rows are
// conceptually keyed by (sid, div_id, course_name); the persistence policies
// in the event service query by exactly that triple.
type AnswerBase struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	DivID      string    `gorm:"size:512;index:idx_answer_key" json:"divId"`
	Sid        string    `gorm:"size:512;index:idx_answer_key" json:"sid"`
	CourseName string    `gorm:"size:512;index:idx_answer_key" json:"courseName"`
}

// TimedExam records one finish or reset of a timed exam. Every submission
// inserts a new row; there is no dedup.
type TimedExam struct {
	AnswerBase
	Correct   int      `json:"correct"`
	Incorrect int      `json:"incorrect"`
	Skipped   int      `json:"skipped"`
	TimeTaken int      `json:"timeTaken"`
	Reset     CharBool `json:"reset"`
}

func (TimedExam) TableName() string { return "timed_exam" }

// MchoiceAnswer holds a multiple-choice submission. The answer column is
// deliberately short; it stores a comma-separated list of option letters.
type MchoiceAnswer struct {
	AnswerBase
	Answer  string   `gorm:"size:50" json:"answer"`
	Correct CharBool `json:"correct"`
}

func (MchoiceAnswer) TableName() string { return "mchoice_answers" }

type FitbAnswer struct {
	AnswerBase
	Answer  string   `gorm:"size:512" json:"answer"`
	Correct CharBool `json:"correct"`
}

func (FitbAnswer) TableName() string { return "fitb_answers" }

type DragndropAnswer struct {
	AnswerBase
	Answer  string   `gorm:"size:512" json:"answer"`
	Correct CharBool `json:"correct"`
}

func (DragndropAnswer) TableName() string { return "dragndrop_answers" }

type ClickableareaAnswer struct {
	AnswerBase
	Answer  string   `gorm:"size:512" json:"answer"`
	Correct CharBool `json:"correct"`
}

func (ClickableareaAnswer) TableName() string { return "clickablearea_answers" }

// ParsonsAnswer also keeps the source pane contents the student left behind.
type ParsonsAnswer struct {
	AnswerBase
	Answer  string   `gorm:"size:512" json:"answer"`
	Correct CharBool `json:"correct"`
	Source  string   `gorm:"size:512" json:"source"`
}

func (ParsonsAnswer) TableName() string { return "parsons_answers" }

type CodelensAnswer struct {
	AnswerBase
	Answer  string   `gorm:"size:512" json:"answer"`
	Correct CharBool `json:"correct"`
	Source  string   `gorm:"size:512" json:"source"`
}

func (CodelensAnswer) TableName() string { return "codelens_answers" }

// ShortanswerAnswer has no notion of correctness; only the latest submission
// per (sid, div_id, course) is kept. History lives in Useinfo.
type ShortanswerAnswer struct {
	AnswerBase
	Answer string `gorm:"size:512" json:"answer"`
}

func (ShortanswerAnswer) TableName() string { return "shortanswer_answers" }

// LpAnswer grades a build on a 0..100 scale instead of a boolean; a grade of
// exactly 100 counts as correct for the dedup policy.
type LpAnswer struct {
	AnswerBase
	Answer  string  `gorm:"size:512" json:"answer"`
	Correct float64 `json:"correct"`
}

func (LpAnswer) TableName() string { return "lp_answers" }
