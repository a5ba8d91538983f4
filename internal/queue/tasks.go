package queue

const TypeGenerationRun = "generation:run"

// GenerationRunPayload carries everything the worker needs to execute one
// generation attempt: the provider input and the correlation context the
// linker resolves afterwards.
type GenerationRunPayload struct {
	TaskID           string            `json:"task_id"`
	PromptVersionID  string            `json:"prompt_version_id"`
	SubjectType      string            `json:"subject_type"`
	SubjectID        int64             `json:"subject_id"`
	Action           string            `json:"action"`
	Endpoint         string            `json:"endpoint"`
	PromptContent    string            `json:"prompt_content"`
	AdditionalPrompt string            `json:"additional_prompt,omitempty"`
	Context          map[string]string `json:"context,omitempty"`
}
