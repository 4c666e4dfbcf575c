package openai

// Wire types for the Assistants v2 API. Only the fields the invocation
// protocol reads or writes are declared.

type fileObject struct {
	ID string `json:"id"`
}

type assistantCreateRequest struct {
	Model         string         `json:"model"`
	Instructions  string         `json:"instructions"`
	Temperature   float64        `json:"temperature"`
	Tools         []toolSpec     `json:"tools"`
	ToolResources *toolResources `json:"tool_resources,omitempty"`
}

type toolSpec struct {
	Type string `json:"type"`
}

type toolResources struct {
	CodeInterpreter *codeInterpreterResources `json:"code_interpreter,omitempty"`
}

type codeInterpreterResources struct {
	FileIDs []string `json:"file_ids"`
}

type assistantObject struct {
	ID string `json:"id"`
}

type threadObject struct {
	ID string `json:"id"`
}

type messageCreateRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type runCreateRequest struct {
	AssistantID string `json:"assistant_id"`
}

// Run statuses the poll loop distinguishes. Anything else is treated
// as still in flight.
const (
	runStatusCompleted = "completed"
	runStatusFailed    = "failed"
	runStatusCancelled = "cancelled"
	runStatusExpired   = "expired"
)

type runObject struct {
	ID        string        `json:"id"`
	Status    string        `json:"status"`
	LastError *runLastError `json:"last_error"`
}

type runLastError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type messageList struct {
	Data []messageObject `json:"data"`
}

type messageObject struct {
	ID      string        `json:"id"`
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type string    `json:"type"`
	Text *textPart `json:"text"`
}

type textPart struct {
	Value string `json:"value"`
}

// apiError is the error envelope the API returns for non-2xx responses.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
