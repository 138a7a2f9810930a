package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskFollowUpProcess = "followups.process"

type FollowUpProcessPayload struct {
	FollowUpID string `json:"followupId"`
}

func NewFollowUpProcessTask(payload FollowUpProcessPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFollowUpProcess, data), nil
}

func ParseFollowUpProcessPayload(task *asynq.Task) (FollowUpProcessPayload, error) {
	var payload FollowUpProcessPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return FollowUpProcessPayload{}, err
	}
	return payload, nil
}
