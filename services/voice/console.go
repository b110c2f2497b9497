package voice

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// ConsoleSpeaker writes replies as "Assistant: ..." lines.
type ConsoleSpeaker struct {
	w io.Writer
}

func NewConsoleSpeaker(w io.Writer) *ConsoleSpeaker {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleSpeaker{w: w}
}

func (s *ConsoleSpeaker) Speak(_ context.Context, text string) error {
	_, err := fmt.Fprintf(s.w, "Assistant: %s\n", text)
	return err
}

// ConsoleListener reads one utterance per line.
type ConsoleListener struct {
	scanner *bufio.Scanner
	prompt  io.Writer
}

// NewConsoleListener reads from r and, when prompt is not nil, writes a "You: " prompt before each line.
func NewConsoleListener(r io.Reader, prompt io.Writer) *ConsoleListener {
	return &ConsoleListener{scanner: bufio.NewScanner(r), prompt: prompt}
}

func (l *ConsoleListener) Listen(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if l.prompt != nil {
		fmt.Fprint(l.prompt, "You: ")
	}
	if !l.scanner.Scan() {
		if err := l.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(l.scanner.Text()), nil
}

// AudioFileListener treats each line from source as the path of a recording
// and returns its transcript.
type AudioFileListener struct {
	source      Listener
	transcriber Transcriber
	language    string
}

func NewAudioFileListener(source Listener, transcriber Transcriber, language string) *AudioFileListener {
	return &AudioFileListener{source: source, transcriber: transcriber, language: language}
}

func (l *AudioFileListener) Listen(ctx context.Context) (string, error) {
	path, err := l.source.Listen(ctx)
	if err != nil || path == "" {
		return path, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read recording: %w", err)
	}
	audio, err := PrepareAudio(ctx, data)
	if err != nil {
		return "", err
	}
	text, err := l.transcriber.Transcribe(ctx, audio, l.language)
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(text)), nil
}
