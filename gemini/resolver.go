package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"bookdex"

	"google.golang.org/genai"
)

// Resolution defaults.
const (
	// DefaultSampleLimit is how many titles are drawn from the catalog
	// as resolution context.
	DefaultSampleLimit = 10000

	// candidateContextChars bounds the joined candidate list sent to the
	// model. Titles that do not fit are left out of that call's sample,
	// which bounds cost at the price of recall.
	candidateContextChars = 3000
)

// Ensure Resolver implements bookdex.Resolver at compile time.
var _ bookdex.Resolver = (*Resolver)(nil)

// Resolver implements bookdex.Resolver using a constrained Gemini call
// over a bounded sample of catalog titles.
type Resolver struct {
	client  *genai.Client
	catalog bookdex.CatalogService
	model   string

	// SampleLimit overrides DefaultSampleLimit when positive.
	SampleLimit int

	// RetryDelays are the backoff delays between attempts for transient
	// model failures. Defaults to a single 1s retry.
	RetryDelays []time.Duration
}

// NewResolver creates a new Resolver.
func NewResolver(client *genai.Client, catalog bookdex.CatalogService, model string) *Resolver {
	return &Resolver{client: client, catalog: catalog, model: model}
}

// Resolve maps a free-form query to the exact title of one catalog entry.
func (r *Resolver) Resolve(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < bookdex.MinQueryRunes {
		// Not worth an inference call.
		return "", bookdex.Errorf(bookdex.ENOTFOUND, "query too short to resolve")
	}

	limit := r.SampleLimit
	if limit <= 0 {
		limit = DefaultSampleLimit
	}
	titles, err := r.catalog.SampleTitles(ctx, limit)
	if err != nil {
		return "", err
	}
	if len(titles) == 0 {
		return "", bookdex.Errorf(bookdex.EUNAVAILABLE, "catalog index is empty")
	}

	// The validation set is exactly the candidates that fit the context
	// budget for this call, never the full catalog.
	candidates := TrimCandidates(titles, candidateContextChars)

	raw, err := r.generate(ctx, BuildResolvePrompt(query, candidates))
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", bookdex.Errorf(bookdex.EUNAVAILABLE, "resolution service unavailable")
	}

	title, ok := MatchCandidate(raw, candidates)
	if !ok {
		return "", bookdex.Errorf(bookdex.ENOTFOUND, "no close match in the catalog")
	}
	return title, nil
}

// generate issues the model call, retrying transient failures a bounded
// number of times with backoff. Validation failures are never retried;
// they are not errors.
func (r *Resolver) generate(ctx context.Context, prompt string) (string, error) {
	delays := r.RetryDelays
	if delays == nil {
		delays = []time.Duration{time.Second}
	}

	var lastErr error
	for attempt := 0; attempt <= len(delays); attempt++ {
		result, err := r.client.Models.GenerateContent(ctx, r.model,
			[]*genai.Content{{
				Parts: []*genai.Part{{Text: prompt}},
			}},
			BuildResolveConfig(),
		)
		if err == nil && result != nil {
			return strings.TrimSpace(result.Text()), nil
		}
		if err == nil {
			err = fmt.Errorf("model returned nil result")
		}
		lastErr = err

		if attempt >= len(delays) {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}
	return "", lastErr
}

// BuildResolveConfig returns the GenerateContentConfig for resolution
// calls: a strict instruction to echo one candidate or the sentinel, at
// zero temperature.
func BuildResolveConfig() *genai.GenerateContentConfig {
	temp := float32(0)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a book inference system. Respond ONLY with one title copied verbatim from the candidate list, or with NOT_FOUND. No paraphrase, no explanation.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildResolvePrompt builds the user prompt from the query and the
// candidate titles.
func BuildResolvePrompt(query string, candidates []string) string {
	var sb strings.Builder
	sb.WriteString("Candidate titles:\n")
	for _, title := range candidates {
		sb.WriteString(title)
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "\nUser request: %q\n", query)
	sb.WriteString("\nRespond with exactly one candidate title, or NOT_FOUND.")
	return sb.String()
}

// TrimCandidates returns the leading candidates whose newline-joined
// length fits within budget. At least one candidate is always returned if
// any exist, so an oversized first title cannot produce an empty sample.
func TrimCandidates(titles []string, budget int) []string {
	var out []string
	used := 0
	for _, title := range titles {
		cost := len(title) + 1
		if used+cost > budget && len(out) > 0 {
			break
		}
		out = append(out, title)
		used += cost
	}
	return out
}

// MatchCandidate validates raw model output against the candidate sample
// that was sent. The output is trusted only on exact string equality with
// a member of the sample; the NOT_FOUND sentinel and anything else,
// including plausible-looking titles that are not in the sample, fail the
// match. This is what keeps the resolver from inventing catalog entries.
func MatchCandidate(raw string, candidates []string) (string, bool) {
	if raw == bookdex.NotFound {
		return "", false
	}
	for _, title := range candidates {
		if raw == title {
			return title, true
		}
	}
	return "", false
}
