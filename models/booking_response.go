package models

// SessionResponse is returned to callers after every session operation.
type SessionResponse struct {
	SessionID   string         `json:"sessionId"`
	State       SessionState   `json:"state"`
	Reply       string         `json:"reply,omitempty"` // speech-ready text for the caller to render
	Context     BookingContext `json:"context"`
	Missing     []string       `json:"missing,omitempty"`
	Rejected    []string       `json:"rejected,omitempty"`
	Appointment *Appointment   `json:"appointment,omitempty"`
	Error       *ErrorDetail   `json:"error,omitempty"`
	Ended       bool           `json:"ended,omitempty"`
}

// ErrorDetail describes why a booking attempt did not go through.
type ErrorDetail struct {
	Kind         string     `json:"kind"`
	Message      string     `json:"message"`
	Alternatives []SlotView `json:"alternatives,omitempty"`
	Missing      []string   `json:"missing,omitempty"`
}
