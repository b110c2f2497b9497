package ai

import (
	"context"
	"regexp"
	"strings"

	"medivoice/models"
	"medivoice/services/catalog"
)

var (
	nameRe   = regexp.MustCompile(`(?i)\b(?:my name is|name is|call me|i am|i'm)\s+([a-z][a-z'\-]*(?:\s+[a-z][a-z'\-]*)?)`)
	doctorRe = regexp.MustCompile(`(?i)\b(?:dr\.?|doctor)\s+([a-z]+)`)
	timeRe   = regexp.MustCompile(`(?i)\b(\d{1,2}(?::\d{2})?\s*(?:a\.?m\.?|p\.?m\.?))|\b(\d{1,2}:\d{2})\b`)
	noonRe   = regexp.MustCompile(`(?i)\bnoon\b`)
	notesRe  = regexp.MustCompile(`(?i)\b(?:because(?: of)?|reason is)\s+(.+)$`)
	wordRe   = regexp.MustCompile(`[a-z]+`)
)

// nameStopWords end a captured name; a capture starting with one is not a name.
var nameStopWords = map[string]bool{
	"and": true, "with": true, "to": true, "for": true, "on": true, "at": true, "i": true,
	"want": true, "would": true, "need": true, "like": true, "looking": true, "booking": true,
	"trying": true, "calling": true, "here": true, "not": true, "available": true, "free": true,
	"sick": true, "a": true, "the": true, "going": true, "hoping": true, "please": true,
}

// LocalInterpreter extracts booking fields with keyword and pattern matching.
// It needs no network and is the default.
type LocalInterpreter struct {
	catalog *catalog.Catalog
}

func NewLocalInterpreter(cat *catalog.Catalog) *LocalInterpreter {
	return &LocalInterpreter{catalog: cat}
}

func (l *LocalInterpreter) ExtractFields(_ context.Context, text string) (models.BookingFields, error) {
	name := extractName(text)
	return models.BookingFields{
		PatientName:      name,
		DoctorPreference: l.extractDoctor(text, name),
		DayPreference:    extractDay(text),
		TimePreference:   extractTime(text),
		Notes:            extractNotes(text),
	}, nil
}

func (l *LocalInterpreter) Respond(_ context.Context, _ string, bctx models.BookingContext, _ []models.ChatMessage) (string, error) {
	if bctx.IsEmpty() {
		return "I can help you book an appointment with one of our doctors.", nil
	}
	return "Thanks, I've noted that.", nil
}

func extractName(text string) string {
	m := nameRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	var words []string
	for _, w := range strings.Fields(m[1]) {
		if nameStopWords[strings.ToLower(w)] {
			break
		}
		words = append(words, titleWord(w))
	}
	return strings.Join(words, " ")
}

// extractDoctor prefers an explicit "Dr. X" and otherwise looks for a bare doctor id,
// ignoring words that belong to the patient's own name.
func (l *LocalInterpreter) extractDoctor(text, patientName string) string {
	if m := doctorRe.FindStringSubmatch(text); m != nil {
		if id, ok := l.catalog.ResolveDoctor(m[1]); ok {
			return id
		}
	}
	own := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(patientName)) {
		own[w] = true
	}
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if own[w] {
			continue
		}
		if _, err := l.catalog.GetDoctor(w); err == nil {
			return w
		}
	}
	return ""
}

func extractDay(text string) string {
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if day, ok := catalog.NormalizeWeekday(w); ok {
			return day
		}
	}
	return ""
}

func extractTime(text string) string {
	if m := timeRe.FindString(text); m != "" {
		return strings.TrimSpace(m)
	}
	if noonRe.MatchString(text) {
		return "12:00 PM"
	}
	return ""
}

func extractNotes(text string) string {
	if m := notesRe.FindStringSubmatch(text); m != nil {
		return strings.TrimRight(strings.TrimSpace(m[1]), ".!?")
	}
	return ""
}

func titleWord(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
}
