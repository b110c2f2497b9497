package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"medivoice/models"
	"medivoice/services/catalog"

	"go.uber.org/zap"
)

var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// GeminiInterpreter delegates extraction and replies to a language model.
type GeminiInterpreter struct {
	gen     ContentGenerator
	catalog *catalog.Catalog
	logger  *zap.Logger
}

func NewGeminiInterpreter(gen ContentGenerator, cat *catalog.Catalog, logger *zap.Logger) *GeminiInterpreter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiInterpreter{gen: gen, catalog: cat, logger: logger}
}

func (g *GeminiInterpreter) ExtractFields(ctx context.Context, text string) (models.BookingFields, error) {
	prompt, err := ExtractionPrompt(g.catalog)
	if err != nil {
		return models.BookingFields{}, err
	}
	raw, err := g.gen.Generate(ctx, prompt, nil, text)
	if err != nil {
		return models.BookingFields{}, fmt.Errorf("extract fields: %w", err)
	}
	fields := parseExtraction(raw, g.catalog)
	g.logger.Debug("Extracted booking fields", zap.Any("fields", fields))
	return fields, nil
}

func (g *GeminiInterpreter) Respond(ctx context.Context, text string, bctx models.BookingContext, history []models.ChatMessage) (string, error) {
	prompt, err := ConversationPrompt(g.catalog, bctx)
	if err != nil {
		return "", err
	}
	reply, err := g.gen.Generate(ctx, prompt, history, text)
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}
	return reply, nil
}

// parseExtraction reads the first JSON object in a model reply. Values that are
// null-like are skipped and doctor preferences that do not resolve to a catalog
// doctor are dropped.
func parseExtraction(raw string, cat *catalog.Catalog) models.BookingFields {
	match := jsonObjectRe.FindString(raw)
	if match == "" {
		return models.BookingFields{}
	}
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(match), &data); err != nil {
		return models.BookingFields{}
	}

	get := func(key string) string {
		v, ok := data[key].(string)
		if !ok {
			return ""
		}
		v = strings.TrimSpace(v)
		switch strings.ToLower(v) {
		case "null", "none", "unknown", "n/a":
			return ""
		}
		return v
	}

	fields := models.BookingFields{
		PatientName:    get(models.FieldPatientName),
		DayPreference:  get(models.FieldDayPreference),
		TimePreference: get(models.FieldTimePreference),
		Notes:          get("notes"),
	}
	if doctor := get(models.FieldDoctorPreference); doctor != "" {
		if id, ok := cat.ResolveDoctor(doctor); ok {
			fields.DoctorPreference = id
		}
	}
	return fields
}
