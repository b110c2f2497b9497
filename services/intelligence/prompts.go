package ai

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"medivoice/models"
	"medivoice/services/catalog"
)

const systemPromptTemplate = `You are a helpful medical appointment scheduler. Here are the available doctors and their schedules:
{{range .Doctors}}{{.Name}} ({{.Specialty}}): {{join .Days ", "}} {{.StartHour}}:00-{{.EndHour}}:00
{{end}}`

const extractionInstruction = `Extract the following information from the user's message if available: ` +
	`patient_name, doctor_preference, day_preference, time_preference, notes. ` +
	`Use the doctor id (one of: {{join .IDs ", "}}) for doctor_preference. ` +
	`Use null for anything not mentioned. Return as a JSON object.`

const bookingStateTemplate = `Current booking details collected so far:
patient name: {{or .PatientName "unknown"}}
doctor: {{or .DoctorPreference "unknown"}}
day: {{or .DayPreference "unknown"}}
time: {{or .TimePreference "unknown"}}
Keep replies short and spoken-language friendly. Ask for one missing detail at a time.`

var funcMap = template.FuncMap{"join": strings.Join}

var (
	systemTmpl     = template.Must(template.New("systemPrompt").Funcs(funcMap).Parse(systemPromptTemplate))
	extractionTmpl = template.Must(template.New("extraction").Funcs(funcMap).Parse(extractionInstruction))
	stateTmpl      = template.Must(template.New("bookingState").Parse(bookingStateTemplate))
)

// SystemPrompt lists the doctors and their schedules for the language model.
func SystemPrompt(cat *catalog.Catalog) (string, error) {
	var buf bytes.Buffer
	if err := systemTmpl.Execute(&buf, struct{ Doctors []models.Doctor }{cat.ListDoctors()}); err != nil {
		return "", fmt.Errorf("failed to execute system prompt template: %w", err)
	}
	return buf.String(), nil
}

// ExtractionPrompt is the system prompt used for field extraction.
func ExtractionPrompt(cat *catalog.Catalog) (string, error) {
	system, err := SystemPrompt(cat)
	if err != nil {
		return "", err
	}
	ids := make([]string, 0)
	for _, d := range cat.ListDoctors() {
		ids = append(ids, d.ID)
	}
	var buf bytes.Buffer
	buf.WriteString(system)
	if err := extractionTmpl.Execute(&buf, struct{ IDs []string }{ids}); err != nil {
		return "", fmt.Errorf("failed to execute extraction template: %w", err)
	}
	return buf.String(), nil
}

// ConversationPrompt is the system prompt for replies, including what has been collected.
func ConversationPrompt(cat *catalog.Catalog, bctx models.BookingContext) (string, error) {
	system, err := SystemPrompt(cat)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	buf.WriteString(system)
	if err := stateTmpl.Execute(&buf, bctx); err != nil {
		return "", fmt.Errorf("failed to execute booking state template: %w", err)
	}
	return buf.String(), nil
}
