package scheduler

import (
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

func TestFollowUpProcessTaskRoundTrip(t *testing.T) {
	id := uuid.New().String()
	task, err := NewFollowUpProcessTask(FollowUpProcessPayload{FollowUpID: id})
	if err != nil {
		t.Fatalf("NewFollowUpProcessTask: %v", err)
	}
	if task.Type() != TaskFollowUpProcess {
		t.Fatalf("task type = %q, want %q", task.Type(), TaskFollowUpProcess)
	}

	payload, err := ParseFollowUpProcessPayload(task)
	if err != nil {
		t.Fatalf("ParseFollowUpProcessPayload: %v", err)
	}
	if payload.FollowUpID != id {
		t.Fatalf("followup id = %q, want %q", payload.FollowUpID, id)
	}
}

func TestParseFollowUpProcessPayloadRejectsGarbage(t *testing.T) {
	task := asynq.NewTask(TaskFollowUpProcess, []byte("not json"))
	if _, err := ParseFollowUpProcessPayload(task); err == nil {
		t.Fatal("expected an error for a malformed payload")
	}
}
