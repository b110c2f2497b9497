package voice

import "context"

// Speaker renders assistant replies to the caller.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Listener produces the caller's next utterance as text.
// It returns io.EOF when the caller has gone away.
type Listener interface {
	Listen(ctx context.Context) (string, error)
}

// Transcriber turns recorded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, language string) (string, error)
}
