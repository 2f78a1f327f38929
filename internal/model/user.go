package model

import "time"

// swagger:model User
type User struct {
	BaseModel
	Username   string    `gorm:"size:512;unique;not null" json:"username"`
	FirstName  string    `gorm:"size:512" json:"firstName"`
	LastName   string    `gorm:"size:512" json:"lastName"`
	Email      string    `gorm:"size:512;unique" json:"email"`
	Password   string    `gorm:"size:512" json:"-"`
	CourseName string    `gorm:"size:512" json:"courseName"`
	Active     CharBool  `json:"active"`
	LastLogin  time.Time `json:"lastLogin"`
}

func (User) TableName() string {
	return "auth_user"
}
