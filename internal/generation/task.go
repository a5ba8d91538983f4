package generation

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/mkravtsov/contentgen/internal/models"
)

// Pipeline task states as reported by the worker / external pipeline.
const (
	TaskStatusPending        = "PENDING"
	TaskStatusPreprocessing  = "PREPROCESSING"
	TaskStatusPostprocessing = "POSTPROCESSING"
	TaskStatusSuccess        = "SUCCESS"
	TaskStatusFailure        = "FAILURE"
)

// CompletedTask is the linker's view of a finished (or progressed)
// generation task: a correlation id, a pipeline status, the context bag
// attached at submission time, and the provider's raw result.
type CompletedTask struct {
	ID      uuid.UUID
	Status  string
	Context map[string]interface{}
	Result  json.RawMessage
}

// MapTaskStatus translates a pipeline task status into a content status.
func MapTaskStatus(taskStatus string) models.GenerationStatus {
	switch taskStatus {
	case TaskStatusSuccess:
		return models.StatusSuccess
	case TaskStatusFailure:
		return models.StatusFailure
	case TaskStatusPending, TaskStatusPreprocessing, TaskStatusPostprocessing:
		return models.StatusProcessing
	default:
		return models.StatusPending
	}
}

func contextString(bag map[string]interface{}, key string) string {
	if bag == nil {
		return ""
	}
	v, ok := bag[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func contextInt64(bag map[string]interface{}, key string) int64 {
	if bag == nil {
		return 0
	}
	switch v := bag[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		// JSON numbers decode as float64.
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	default:
		return 0
	}
}
