// Package gemini implements the model-backed bookdex services using
// Google Gemini: normalization of raw harvested text into structured
// candidates, and resolution of free-form queries against the catalog.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"bookdex"

	"google.golang.org/genai"
)

// maxNormalizeChars is the input budget for one normalization call. Raw
// records are truncated to this length before prompting.
const maxNormalizeChars = 1000

// Ensure Normalizer implements bookdex.Normalizer at compile time.
var _ bookdex.Normalizer = (*Normalizer)(nil)

// Normalizer implements bookdex.Normalizer using a constrained JSON-mode
// Gemini call.
type Normalizer struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewNormalizer creates a new Normalizer. A nil logger disables logging.
func NewNormalizer(client *genai.Client, model string, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Normalizer{client: client, model: model, logger: logger}
}

// Normalize extracts a structured candidate from one raw record.
//
// Model failures and malformed output degrade to a sentinel fallback
// candidate instead of an error, so one bad extraction never blocks a
// batch. Only context cancellation surfaces as an error.
func (n *Normalizer) Normalize(ctx context.Context, rec bookdex.RawRecord) (*bookdex.Candidate, error) {
	if strings.TrimSpace(rec.Text) == "" {
		return fallbackCandidate(), nil
	}

	result, err := n.client.Models.GenerateContent(ctx, n.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: BuildNormalizePrompt(rec.Text)}},
		}},
		BuildNormalizeConfig(),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		n.logger.Warn("normalization call failed", "source", rec.SourceName, "key", rec.Key, "err", err)
		return fallbackCandidate(), nil
	}
	if result == nil {
		n.logger.Warn("normalization returned nil result", "source", rec.SourceName, "key", rec.Key)
		return fallbackCandidate(), nil
	}

	candidate, err := ParseCandidate(result.Text())
	if err != nil {
		n.logger.Warn("normalization output rejected", "source", rec.SourceName, "key", rec.Key, "err", err)
		return fallbackCandidate(), nil
	}

	return candidate, nil
}

func fallbackCandidate() *bookdex.Candidate {
	return &bookdex.Candidate{
		Title:  bookdex.UnknownTitle,
		Author: bookdex.UnknownAuthor,
	}
}

// BuildNormalizeConfig returns the GenerateContentConfig for normalization
// calls. The response is constrained to a JSON object with required title
// and author strings and an optional summary.
func BuildNormalizeConfig() *genai.GenerateContentConfig {
	temp := float32(0.1)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a data cleaning and summarization expert for a book catalog. Respond ONLY with the requested JSON object.",
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"title":   {Type: genai.TypeString},
				"author":  {Type: genai.TypeString},
				"summary": {Type: genai.TypeString},
			},
			Required: []string{"title", "author"},
		},
	}
}

// BuildNormalizePrompt builds the user prompt for one raw record,
// truncated to the input budget.
func BuildNormalizePrompt(text string) string {
	if len(text) > maxNormalizeChars {
		text = text[:maxNormalizeChars]
	}
	var sb strings.Builder
	sb.WriteString("Extract the exact book title and author from the raw text below, and compress any description into a summary of at most two sentences.\n\n")
	fmt.Fprintf(&sb, "Raw text:\n%s", text)
	return sb.String()
}

// ParseCandidate parses and validates model output against the expected
// shape: a JSON object with non-empty title and author strings. Any other
// shape is an error; callers convert it to the sentinel fallback.
func ParseCandidate(raw string) (*bookdex.Candidate, error) {
	var candidate bookdex.Candidate
	if err := json.Unmarshal([]byte(raw), &candidate); err != nil {
		return nil, fmt.Errorf("output is not a JSON object: %w", err)
	}

	candidate.Title = strings.TrimSpace(candidate.Title)
	candidate.Author = strings.TrimSpace(candidate.Author)
	candidate.Summary = strings.TrimSpace(candidate.Summary)

	if candidate.Title == "" {
		return nil, fmt.Errorf("output is missing a title")
	}
	if candidate.Author == "" {
		return nil, fmt.Errorf("output is missing an author")
	}

	return &candidate, nil
}
