package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskGuardianInvalidate drops one cached guardianship answer on every node.
	TaskGuardianInvalidate = "guardian:invalidate"
	// TaskGuardianCacheSweep drops all cached guardianship answers.
	TaskGuardianCacheSweep = "guardian:cache_sweep"
)

// GuardianInvalidatePayload identifies the changed link.
type GuardianInvalidatePayload struct {
	ParentID  string `json:"parentId"`
	StudentID string `json:"studentId"`
}

// NewGuardianInvalidateTask constructs an Asynq task for a changed link.
func NewGuardianInvalidateTask(parentID, studentID string) (*asynq.Task, error) {
	data, err := json.Marshal(GuardianInvalidatePayload{ParentID: parentID, StudentID: studentID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskGuardianInvalidate, data), nil
}

// NewGuardianCacheSweepTask constructs the periodic sweep task.
func NewGuardianCacheSweepTask() *asynq.Task {
	return asynq.NewTask(TaskGuardianCacheSweep, nil)
}

// Enqueuer submits tasks through an Asynq client. It implements
// guardian.Invalidator.
type Enqueuer struct {
	client *asynq.Client
}

// NewEnqueuer constructs an Enqueuer.
func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

// EnqueueInvalidate schedules cache invalidation for a changed link.
func (e *Enqueuer) EnqueueInvalidate(ctx context.Context, parentID, studentID string) error {
	task, err := NewGuardianInvalidateTask(parentID, studentID)
	if err != nil {
		return err
	}
	_, err = e.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}
