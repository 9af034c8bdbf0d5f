package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/vidanova-church/portal/testing"
)

func TestVisitorFollowupRoundTrip(t *testing.T) {
	payload := VisitorFollowupPayload{
		VisitorID: uuid.New(),
		Email:     "maria@example.org",
		FullName:  "Maria Souza",
	}

	task, err := NewVisitorFollowupTask(payload)
	require.NoError(t, err)
	assert.Equal(t, TaskTypeVisitorFollowup, task.Type())

	err = HandleVisitorFollowupTask(context.Background(), task)
	assert.NoError(t, err)
}

func TestVisitorFollowupBadPayloadSkipsRetry(t *testing.T) {
	task := asynq.NewTask(TaskTypeVisitorFollowup, []byte("not json"))

	err := HandleVisitorFollowupTask(context.Background(), task)
	assert.True(t, errors.Is(err, asynq.SkipRetry), "malformed payloads must not be retried")
}
