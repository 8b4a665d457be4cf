package model

// ChatRequest is one user turn.
type ChatRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// ChatResponse is the reply to a turn. Intent is nil when no intent could
// be attached to the answer.
type ChatResponse struct {
	Intent *string `json:"intent"`
	Answer string  `json:"answer"`
}

// NewChatResponse builds a response tagged with intent.
func NewChatResponse(intent Intent, answer string) *ChatResponse {
	s := string(intent)
	return &ChatResponse{Intent: &s, Answer: answer}
}

// UntaggedResponse builds a response without an intent.
func UntaggedResponse(answer string) *ChatResponse {
	return &ChatResponse{Answer: answer}
}

// ErrorResponse is the JSON body of transport-level failures.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FormatResult reports the outcome of a menu formatting run.
type FormatResult struct {
	Candidates int `json:"candidates"`
	Formatted  int `json:"formatted"`
	Failed     int `json:"failed"`
}
