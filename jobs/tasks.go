package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/odyssey-erp/catalog/internal/shared"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeNotify is the task type for delivering operator notifications.
	TaskTypeNotify = "catalog:notify"
)

// NewNotificationTask constructs an Asynq task carrying a notification.
func NewNotificationTask(n shared.Notification) (*asynq.Task, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeNotify, data, asynq.MaxRetry(3)), nil
}
