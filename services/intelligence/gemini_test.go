package ai

import (
	"context"
	"errors"
	"testing"

	"medivoice/models"
	"medivoice/services/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	reply   string
	err     error
	system  []string
	history [][]models.ChatMessage
	texts   []string
}

func (f *fakeGenerator) Generate(_ context.Context, systemPrompt string, history []models.ChatMessage, text string) (string, error) {
	f.system = append(f.system, systemPrompt)
	f.history = append(f.history, history)
	f.texts = append(f.texts, text)
	return f.reply, f.err
}

func TestParseExtraction(t *testing.T) {
	cat := catalog.Default()

	tests := []struct {
		name string
		raw  string
		want models.BookingFields
	}{
		{
			name: "object surrounded by prose",
			raw: "Sure! Here you go:\n```json\n{\"patient_name\": \"Alice\", \"doctor_preference\": \"Dr. Ali\", " +
				"\"day_preference\": \"Monday\", \"time_preference\": \"10 AM\"}\n```",
			want: models.BookingFields{PatientName: "Alice", DoctorPreference: "ali", DayPreference: "Monday", TimePreference: "10 AM"},
		},
		{
			name: "null-like values are skipped",
			raw:  `{"patient_name": null, "doctor_preference": "null", "day_preference": "None", "time_preference": "", "notes": "N/A"}`,
			want: models.BookingFields{},
		},
		{
			name: "unknown doctor is dropped",
			raw:  `{"patient_name": "Bob", "doctor_preference": "house"}`,
			want: models.BookingFields{PatientName: "Bob"},
		},
		{
			name: "non-string values are ignored",
			raw:  `{"patient_name": 42, "time_preference": "2:30 PM", "notes": "knee pain"}`,
			want: models.BookingFields{TimePreference: "2:30 PM", Notes: "knee pain"},
		},
		{name: "no object", raw: "I could not find anything.", want: models.BookingFields{}},
		{name: "malformed object", raw: `{"patient_name": }`, want: models.BookingFields{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseExtraction(tt.raw, cat))
		})
	}
}

func TestGeminiInterpreterExtractFields(t *testing.T) {
	gen := &fakeGenerator{reply: `{"patient_name": "Alice", "doctor_preference": "sara"}`}
	g := NewGeminiInterpreter(gen, catalog.Default(), nil)

	fields, err := g.ExtractFields(context.Background(), "I'm Alice and want Sara")
	require.NoError(t, err)
	assert.Equal(t, models.BookingFields{PatientName: "Alice", DoctorPreference: "sara"}, fields)

	require.Len(t, gen.system, 1)
	assert.Contains(t, gen.system[0], "Dr. Sara (Pediatrics): tuesday, thursday 10:00-18:00")
	assert.Contains(t, gen.system[0], "Return as a JSON object.")
	assert.Contains(t, gen.system[0], "ali, sara, john")
	assert.Nil(t, gen.history[0])
	assert.Equal(t, "I'm Alice and want Sara", gen.texts[0])
}

func TestGeminiInterpreterRespondPassesContextAndHistory(t *testing.T) {
	gen := &fakeGenerator{reply: "Which day suits you?"}
	g := NewGeminiInterpreter(gen, catalog.Default(), nil)
	history := []models.ChatMessage{{Role: models.RoleAssistant, Content: GreetingText}}

	reply, err := g.Respond(context.Background(), "Dr. Ali please",
		models.BookingContext{PatientName: "Alice", DoctorPreference: "ali"}, history)
	require.NoError(t, err)
	assert.Equal(t, "Which day suits you?", reply)
	assert.Contains(t, gen.system[0], "patient name: Alice")
	assert.Contains(t, gen.system[0], "day: unknown")
	assert.Equal(t, history, gen.history[0])
}

func TestGeminiInterpreterErrors(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	g := NewGeminiInterpreter(gen, catalog.Default(), nil)

	_, err := g.ExtractFields(context.Background(), "hi")
	assert.ErrorContains(t, err, "quota exceeded")
	_, err = g.Respond(context.Background(), "hi", models.BookingContext{}, nil)
	assert.ErrorContains(t, err, "quota exceeded")
}
