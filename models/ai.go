package models

// AIRequest is the payload coming from the frontend into /api/ai/chat.
type AIRequest struct {
	SessionID string `json:"session_id"` // conversation identifier returned by session creation
	Text      string `json:"text"`       // user’s message (voice→text or typed)
}

// ChatMessage is one turn of conversation history kept per session.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
