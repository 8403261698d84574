package models

// UserModel represents an account that owns files, summaries, and gists.
type UserModel struct {
	Base
	Username string `json:"username" gorm:"uniqueIndex;not null"`
	Email    string `json:"email"    gorm:"uniqueIndex;not null"`
	Password string `json:"-"        gorm:"not null"`
}

func (UserModel) TableName() string { return "users" }
