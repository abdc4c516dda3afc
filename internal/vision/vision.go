// Package vision extracts animal records from chart images using hosted vision models.
package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/soapbox/internal/common"
	"github.com/Veraticus/soapbox/internal/model"
	"github.com/Veraticus/soapbox/internal/service"
)

// ExtractionPrompt asks the model for the owner, animal and treatment JSON contract.
const ExtractionPrompt = `Extract the information from the provided animal record image.
Return the data as a single JSON object.
The JSON object should have two main keys: "owner_info" and "animal_info".
The "treatment_data" should be a single string, with each entry on a new line.
Use the format 'Date|Weight|Treatment and Progress|Charge' for each line.
Even though a value is not present, use an empty string with same format.

Example format:
{
  "owner_info": {
    "Owner's Name": "value",
    "Home Phone #": "value",
    "Other Phone #": "value",
    "Address": "value",
    "Data Entry By": "value"
  },
  "animal_info": {
    "Animal's Name": "value",
    "Species": "value",
    "Breed": "value",
    "Colors and Markings": "value",
    "Sex": "value",
    "Age": "value",
    "Date of Birth": "value"
  },
  "treatment_data": "6-9-25|19 lbs|rash on stomach / neck area\n||fell while jumping on couch.\n"
}`

const systemPrompt = "You transcribe handwritten veterinary charts. Respond with ONLY a valid JSON object, without markdown or commentary."

// Config holds configuration for a vision extractor.
type Config struct {
	Provider   string
	APIKey     string
	Model      string
	BaseURL    string
	MaxRetries int
	RetryDelay time.Duration
	RateLimit  int // Requests per minute
	MaxTokens  int
	Timeout    time.Duration
}

// client sends one image and prompt to a provider and returns the raw text answer.
type client interface {
	complete(ctx context.Context, image []byte, mediaType string) (string, error)
}

// Extractor implements service.Extractor on top of a provider client.
type Extractor struct {
	client      client
	rateLimiter *rateLimiter
	retryOpts   service.RetryOptions
	provider    string
}

func newExtractor(provider string, c client, cfg Config) *Extractor {
	retryOpts := service.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	return &Extractor{
		client:      c,
		provider:    provider,
		retryOpts:   retryOpts,
		rateLimiter: newRateLimiter(cfg.RateLimit),
	}
}

// Extract reads a chart image into a record draft.
func (e *Extractor) Extract(ctx context.Context, image []byte, mediaType string) (*model.AnimalRecordDraft, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: empty image", common.ErrExtractionFailed)
	}
	if err := e.rateLimiter.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	var content string
	err := common.WithRetry(ctx, func() error {
		var err error
		content, err = e.client.complete(ctx, image, mediaType)
		if err != nil {
			slog.Warn("vision request attempt failed", "provider", e.provider, "error", err)
		}
		return err
	}, e.retryOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrExtractionFailed, err)
	}

	draft, err := parseDraft(content)
	if err != nil {
		return nil, err
	}

	slog.Info("extracted animal record",
		"provider", e.provider,
		"owner", draft.OwnerInfo[model.FieldOwnerName],
		"animal", draft.AnimalInfo[model.FieldAnimalName])
	return draft, nil
}

// Close stops background work held by the extractor.
func (e *Extractor) Close() {
	e.rateLimiter.Close()
}

// rawDraft is a model answer before its values are coerced to strings.
type rawDraft struct {
	OwnerInfo     map[string]any `json:"owner_info"`
	AnimalInfo    map[string]any `json:"animal_info"`
	TreatmentData any            `json:"treatment_data"`
	Reminders     any            `json:"reminders"`
}

// parseDraft decodes a model answer into a draft, tolerating markdown fences.
// Models do not always follow the string-only contract: numbers, booleans and
// nulls become strings and a treatment_data list is joined one row per line.
func parseDraft(content string) (*model.AnimalRecordDraft, error) {
	content = cleanMarkdownWrapper(content)

	dec := json.NewDecoder(strings.NewReader(content))
	dec.UseNumber()
	var raw rawDraft
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %w", common.ErrExtractionFailed, err)
	}

	draft := &model.AnimalRecordDraft{
		OwnerInfo:     stringFields(raw.OwnerInfo),
		AnimalInfo:    stringFields(raw.AnimalInfo),
		TreatmentData: treatmentText(raw.TreatmentData),
		Reminders:     reminderList(raw.Reminders),
	}
	if len(draft.OwnerInfo) == 0 && len(draft.AnimalInfo) == 0 && draft.TreatmentData == "" {
		return nil, fmt.Errorf("%w: response contained no record data", common.ErrExtractionFailed)
	}
	return draft, nil
}

func stringFields(raw map[string]any) map[string]string {
	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		fields[k] = scalarText(v)
	}
	return fields
}

// scalarText renders one JSON value as text. Lists are joined with ", ".
func scalarText(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if text := scalarText(item); text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(v)
	}
}

// treatmentColumns are matched case-insensitively against the keys of a row object.
var treatmentColumns = [][]string{
	{"date"},
	{"weight"},
	{"treatment and progress", "treatment", "progress"},
	{"charge", "cost", "amount"},
}

func treatmentText(v any) string {
	rows, ok := v.([]any)
	if !ok {
		return scalarText(v)
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		switch row := row.(type) {
		case []any:
			cells := make([]string, len(row))
			for i, cell := range row {
				cells[i] = scalarText(cell)
			}
			lines = append(lines, strings.Join(cells, "|"))
		case map[string]any:
			lines = append(lines, treatmentRow(row))
		default:
			lines = append(lines, scalarText(row))
		}
	}
	return strings.Join(lines, "\n")
}

func treatmentRow(row map[string]any) string {
	lowered := make(map[string]any, len(row))
	for k, v := range row {
		lowered[strings.ToLower(strings.TrimSpace(k))] = v
	}
	cells := make([]string, len(treatmentColumns))
	for i, names := range treatmentColumns {
		for _, name := range names {
			if v, ok := lowered[name]; ok {
				cells[i] = scalarText(v)
				break
			}
		}
	}
	return strings.Join(cells, "|")
}

func reminderList(v any) []string {
	switch v := v.(type) {
	case nil:
		return nil
	case []any:
		reminders := make([]string, 0, len(v))
		for _, item := range v {
			reminders = append(reminders, scalarText(item))
		}
		return model.CleanReminders(reminders)
	default:
		return model.CleanReminders(strings.Split(scalarText(v), "\n"))
	}
}

// cleanMarkdownWrapper strips ```json fences and any text around the outermost object.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}
