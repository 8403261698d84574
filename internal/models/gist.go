package models

import "time"

// ChatMessage is one follow-up exchange against a gist's content index.
type ChatMessage struct {
	UserQuery  string    `json:"userQuery"`
	AIResponse string    `json:"aiResponse"`
	CreatedAt  time.Time `json:"createdAt"`
}

// GistModel is a user-facing saved summarization session: a title, a
// reference to exactly one Summary, and the chat transcript accumulated
// through follow-up questions.
type GistModel struct {
	Base
	UserID      string        `json:"userId"      gorm:"index;not null"`
	SummaryID   string        `json:"summaryId"   gorm:"index;not null"`
	Title       string        `json:"title"       gorm:"not null"`
	LastVisited *time.Time    `json:"lastVisited"`
	Messages    []ChatMessage `json:"messages"    gorm:"type:longtext;serializer:json"`
}

func (GistModel) TableName() string { return "gists" }
