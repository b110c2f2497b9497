package ai

import (
	"context"
	"errors"

	"medivoice/models"
)

// ErrSessionNotFound is returned when a conversation id is unknown or has expired.
var ErrSessionNotFound = errors.New("session not found")

// Interpreter turns user utterances into booking fields and conversational replies.
type Interpreter interface {
	// ExtractFields pulls whatever booking details the utterance contains.
	// Fields it cannot find are left empty.
	ExtractFields(ctx context.Context, text string) (models.BookingFields, error)
	// Respond produces a reply for turns that did not complete a booking.
	Respond(ctx context.Context, text string, bctx models.BookingContext, history []models.ChatMessage) (string, error)
}

// ContextStore persists conversation snapshots between turns.
type ContextStore interface {
	Get(ctx context.Context, sessionID string) (*models.SessionSnapshot, error)
	Set(ctx context.Context, snap *models.SessionSnapshot) error
	Clear(ctx context.Context, sessionID string) error
}
