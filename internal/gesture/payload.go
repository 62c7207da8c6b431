package gesture

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/twiced-technology-gmbh/mioplan/internal/clierr"
	"github.com/twiced-technology-gmbh/mioplan/internal/task"
)

// EncodePayload serializes the task carried by a drag.
func EncodePayload(t task.Task) ([]byte, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encoding drag payload: %w", err)
	}
	return data, nil
}

// DecodePayload parses a drag payload. Anything that is not a JSON task
// with a positive id and consistent fields is MALFORMED_GESTURE_PAYLOAD.
func DecodePayload(data []byte) (task.Task, error) {
	var t task.Task
	if err := json.Unmarshal(data, &t); err != nil {
		return task.Task{}, malformed(err)
	}
	if t.ID <= 0 {
		return task.Task{}, malformed(errors.New("missing task id"))
	}
	if err := task.Validate(t); err != nil {
		return task.Task{}, malformed(err)
	}
	return t, nil
}

func malformed(err error) *clierr.Error {
	return clierr.Newf(clierr.MalformedPayload, "malformed drag payload: %v", err)
}
