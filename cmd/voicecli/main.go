// Command voicecli runs a booking conversation on the terminal: each line typed
// is one utterance, or with --audio the path of a WAV recording to transcribe.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"medivoice/bootstrap"
	"medivoice/config"
	"medivoice/models"
	ai "medivoice/services/intelligence"
	"medivoice/services/voice"
	"medivoice/utils"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	audio := pflag.Bool("audio", false, "read WAV file paths and transcribe them with Google Speech-to-Text")
	catalogFile := pflag.String("catalog", "", "doctor catalog YAML (overrides CATALOG_FILE)")
	pflag.Parse()

	config.LoadConfig()
	cfg := &config.AppConfig
	if *catalogFile != "" {
		cfg.CatalogFile = *catalogFile
	}
	if *audio {
		cfg.STTEnabled = true
	}
	logger := utils.GetLogger()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := bootstrap.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("voicecli: failed to initialize services", zap.Error(err))
	}
	defer components.Close()

	speaker := voice.NewConsoleSpeaker(os.Stdout)
	var listener voice.Listener = voice.NewConsoleListener(os.Stdin, os.Stdout)
	if *audio {
		listener = voice.NewAudioFileListener(listener, components.Transcriber, cfg.STTLanguage)
	}

	if err := run(ctx, components.Assistant, listener, speaker, logger); err != nil {
		logger.Error("voicecli: conversation failed", zap.Error(err))
		_ = speaker.Speak(context.Background(), "I'm sorry, there was an unexpected error. Please try again later.")
		os.Exit(1)
	}
}

// run loops until the caller says an exit word, input ends or ctx is cancelled.
func run(ctx context.Context, assistant *ai.Assistant, listener voice.Listener, speaker voice.Speaker, logger *zap.Logger) error {
	started, err := assistant.StartSession(ctx)
	if err != nil {
		return err
	}
	sessionID := started.SessionID
	if err := speaker.Speak(ctx, started.Reply); err != nil {
		return err
	}

	for {
		text, err := listener.Listen(ctx)
		if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			_ = assistant.EndSession(context.Background(), sessionID)
			return speaker.Speak(context.Background(), "Goodbye!")
		}
		if err != nil {
			logger.Warn("Could not understand input", zap.Error(err))
			if err := speaker.Speak(ctx, "Sorry, I couldn't understand what you said. Please try again."); err != nil {
				return err
			}
			continue
		}
		if text == "" {
			continue
		}

		resp, err := assistant.ProcessUserInput(ctx, models.AIRequest{SessionID: sessionID, Text: text})
		if errors.Is(err, ai.ErrSessionNotFound) {
			// The session expired while idle; carry on in a fresh one.
			restarted, startErr := assistant.StartSession(ctx)
			if startErr != nil {
				return startErr
			}
			sessionID = restarted.SessionID
			resp, err = assistant.ProcessUserInput(ctx, models.AIRequest{SessionID: sessionID, Text: text})
		}
		if err != nil {
			return fmt.Errorf("process input: %w", err)
		}
		if err := speaker.Speak(ctx, resp.Reply); err != nil {
			return err
		}
		if resp.Ended {
			return nil
		}
	}
}
