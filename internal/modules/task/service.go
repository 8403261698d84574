package task

import (
	"encoding/json"
	"time"

	"github.com/gistify/core/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RetentionPeriod is how long finished task records stay queryable.
const RetentionPeriod = 24 * time.Hour

// Service tracks the lifecycle of asynchronous summarization jobs.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger.Named("TaskService")}
}

// Begin records a new pending task for the given user.
func (s *Service) Begin(userID, fileName string, style models.SummaryStyle) (*models.TaskModel, error) {
	t := models.TaskModel{
		UserID:   userID,
		Status:   models.TaskPending,
		FileName: fileName,
		Style:    style,
	}
	if err := s.db.Create(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// Complete stores the finished payload and flips the task to completed.
func (s *Service) Complete(id string, result any) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return s.db.Model(&models.TaskModel{}).Where("id = ?", id).Updates(map[string]any{
		"status": models.TaskCompleted,
		"result": json.RawMessage(raw),
	}).Error
}

// Fail records the failure reason. The record stays around so the client can
// see what went wrong before cleanup reaps it.
func (s *Service) Fail(id string, reason string) error {
	return s.db.Model(&models.TaskModel{}).Where("id = ?", id).Updates(map[string]any{
		"status": models.TaskFailed,
		"error":  reason,
	}).Error
}

// Get loads a task scoped to its owner.
func (s *Service) Get(id, userID string) (*models.TaskModel, error) {
	var t models.TaskModel
	if err := s.db.First(&t, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// Cleanup removes task records older than the retention period.
func (s *Service) Cleanup() error {
	cutoff := time.Now().Add(-RetentionPeriod)
	res := s.db.Unscoped().Where("created_at < ?", cutoff).Delete(&models.TaskModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		s.logger.Info("cleaned up finished tasks", zap.Int64("removed", res.RowsAffected))
	}
	return nil
}
