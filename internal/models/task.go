package models

import "encoding/json"

// TaskStatus is the lifecycle state of an ingestion task record.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// TaskModel records one ingestion run so clients can poll its outcome.
// Rows are short-lived; the cleanup job deletes anything older than a day.
type TaskModel struct {
	Base
	UserID   string          `json:"userId"      gorm:"index;not null"`
	Status   TaskStatus      `json:"status"      gorm:"type:varchar(16);default:'pending'"`
	Result   json.RawMessage `json:"gistData"    gorm:"type:longtext;serializer:json"`
	Error    string          `json:"error,omitempty"`
	FileName string          `json:"fileName"`
	Style    SummaryStyle    `json:"summaryType" gorm:"type:varchar(32)"`
}

func (TaskModel) TableName() string { return "tasks" }
