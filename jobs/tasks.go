// Package jobs defines the background tasks the portal enqueues and the
// worker that processes them.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeVisitorFollowup is enqueued after a fully successful visitor
	// registration to trigger the bilingual welcome email.
	TaskTypeVisitorFollowup = "visitor:followup"
)

// VisitorFollowupPayload identifies the visitor to follow up with.
type VisitorFollowupPayload struct {
	VisitorID uuid.UUID `json:"visitor_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
}

// NewVisitorFollowupTask constructs the Asynq task.
func NewVisitorFollowupTask(payload VisitorFollowupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeVisitorFollowup, data), nil
}

// HandleVisitorFollowupTask processes TaskTypeVisitorFollowup tasks.
func HandleVisitorFollowupTask(ctx context.Context, t *asynq.Task) error {
	var payload VisitorFollowupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("jobs: decode visitor followup: %v: %w", err, asynq.SkipRetry)
	}
	// Delivery is handled externally; this side records the follow-up so
	// the queue stays the durable source of pending welcomes.
	slog.Default().Info("visitor followup",
		slog.String("visitor_id", payload.VisitorID.String()),
		slog.String("email", payload.Email))
	return nil
}
