// Package suggest turns one recognized utterance plus rolling conversation
// history into a bounded set of short reply candidates for the AAC user to
// tap. The text-generation backend is asked for strict JSON but is never
// trusted to produce it; everything that reaches a tile goes through the
// repair pipeline in clean.go.
package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/speakeasyai/aac-gateway/internal/classify"
	"github.com/speakeasyai/aac-gateway/internal/normalize"
	"github.com/speakeasyai/aac-gateway/internal/observability"
	"github.com/speakeasyai/aac-gateway/internal/resilience"
)

const systemPrompt = `You are an assistive communication aid for a user who cannot speak. ` +
	`Your goal is to suggest short responses for the user to say and to punctuate the user's input.

CRITICAL INSTRUCTIONS:
1. ACT AS THE USER. Do not behave like an AI assistant. If the input is 'Are you human?', suggest 'Yes'.
2. PUNCTUATION: The 'corrected_text' field MUST BE FULLY PUNCTUATED:
   - Add '?' if the input is a question or sounds inquisitive
   - Add '!' if the input is emphatic or excited
   - Add '.' otherwise
   - ALWAYS end with proper punctuation. However, the 'suggestions' fields MUST NOT end with a period.
3. Focus on the 'Current Utterance' for suggestions.
4. INCLUDE open/uncertain options (e.g., 'Maybe', 'I don't know', 'We will see') if relevant to the question.
5. Output exactly 6 to 8 standard options (1-3 words max).
6. PROVIDE a specific, highly contextual 'uncertainty_response' (e.g. 'Hmmm...', 'What?', 'Not sure yet', 'Let me think') that specifically fits the current conversation.
7. DO NOT enumerate suggestions (no 1. 2. etc).
8. Return ONLY a JSON object: { "suggestions": string[], "uncertainty_response": string, "corrected_text": string }`

const (
	defaultUncertainty  = "I don't know"
	fallbackUncertainty = "I'm not sure"
)

// MockSuggestions is the fixed candidate set served without a configured
// backend, and the fallback when line-split repair yields nothing.
var MockSuggestions = []string{
	"Yes", "No", "Maybe", "I don't know",
	"Can you repeat that?", "Thank you",
	"I need help", "Goodbye",
}

// Result is one completed generation cycle.
type Result struct {
	// Suggestions are cleaned tile candidates, 1 to 8 entries.
	Suggestions []string
	// UncertaintyResponse is a hedging reply tailored to the conversation.
	UncertaintyResponse string
	// CorrectedText is the punctuated form of the utterance.
	CorrectedText string
}

// Role identifies who produced a history entry.
type Role int

const (
	RoleSpeaker Role = iota // the conversational partner
	RoleSelf                // the AAC user
)

// HistoryEntry is one prior transcript line passed in for context.
type HistoryEntry struct {
	Role    Role
	Content string
}

// FormatHistory renders prior transcript entries in the line format the
// backend prompt expects.
func FormatHistory(entries []HistoryEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		who := "Speaker"
		if e.Role == RoleSelf {
			who = "Me"
		}
		lines = append(lines, who+": "+e.Content)
	}
	return strings.Join(lines, "\n")
}

// Generator is the suggestion synthesizer. It holds no conversation state;
// each Generate call is independent. A nil backend puts the generator in
// mock mode.
type Generator struct {
	backend     Backend
	breaker     *resilience.CircuitBreaker
	mockLatency time.Duration
	logger      zerolog.Logger
}

// NewGenerator creates a generator. backend may be nil (mock mode);
// breaker may be nil to disable fail-fast protection.
func NewGenerator(backend Backend, breaker *resilience.CircuitBreaker, mockLatency time.Duration, logger zerolog.Logger) *Generator {
	return &Generator{
		backend:     backend,
		breaker:     breaker,
		mockLatency: mockLatency,
		logger:      logger,
	}
}

// MockMode reports whether the generator runs without a configured
// backend.
func (g *Generator) MockMode() bool {
	return g.backend == nil
}

// Generate produces reply candidates for the current utterance given the
// formatted prior history. Backend failures are returned to the caller
// untouched; malformed backend output is always repaired into a usable
// result.
func (g *Generator) Generate(ctx context.Context, history, utterance string) (*Result, error) {
	if g.backend == nil {
		return g.generateMock(ctx, utterance)
	}

	start := time.Now()
	user := fmt.Sprintf("History: %q\nCurrent Utterance: %q", history, utterance)

	var raw string
	call := func() error {
		var err error
		raw, err = g.backend.Complete(ctx, systemPrompt, user)
		return err
	}
	var err error
	if g.breaker != nil {
		err = g.breaker.Call(call)
		observability.UpdateCircuitBreakerState(g.breaker.Name(), int(g.breaker.State()))
	} else {
		err = call()
	}
	if err != nil {
		observability.RecordGeneration("error", time.Since(start))
		return nil, fmt.Errorf("generate suggestions: %w", err)
	}
	observability.RecordGeneration("success", time.Since(start))

	return g.parseResponse(raw, utterance), nil
}

func (g *Generator) generateMock(ctx context.Context, utterance string) (*Result, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(g.mockLatency):
	}
	observability.RecordGeneration("mock", g.mockLatency)
	return &Result{
		Suggestions:         append([]string(nil), MockSuggestions...),
		UncertaintyResponse: fallbackUncertainty,
		CorrectedText:       normalize.Punctuate(utterance, ""),
	}, nil
}

// backendPayload is the JSON shape the backend is asked to return.
// Suggestions are decoded loosely since models occasionally mix types
// into the array.
type backendPayload struct {
	Suggestions         []any  `json:"suggestions"`
	UncertaintyResponse string `json:"uncertainty_response"`
	CorrectedText       string `json:"corrected_text"`
}

// parseResponse repairs raw model output into a Result. It never fails:
// an unparseable body degrades to line-split candidates and ultimately to
// the mock set.
func (g *Generator) parseResponse(raw, utterance string) *Result {
	payload, ok := decodePayload(raw)
	if !ok {
		g.logger.Warn().Str("raw", truncateForLog(raw)).Msg("Backend response was not valid JSON, using line-split fallback")
		return g.fallbackResult(raw, utterance)
	}

	candidates := make([]string, 0, len(payload.Suggestions))
	for _, s := range payload.Suggestions {
		if str, isStr := s.(string); isStr {
			candidates = append(candidates, str)
		}
	}
	suggestions := capCandidates(expandCandidates(candidates))
	if len(suggestions) == 0 {
		// The result always carries something tappable.
		suggestions = append([]string(nil), MockSuggestions...)
	}

	uncertainty := payload.UncertaintyResponse
	if uncertainty == "" {
		uncertainty = defaultUncertainty
	}
	uncertainty = cleanCandidate(uncertainty)

	corrected := payload.CorrectedText
	if corrected == "" {
		corrected = utterance
	}
	corrected = normalize.Punctuate(corrected, utterance)

	if classify.IsYesNoQuestion(corrected) {
		suggestions = ensureYesNo(suggestions)
	}

	return &Result{
		Suggestions:         suggestions,
		UncertaintyResponse: uncertainty,
		CorrectedText:       corrected,
	}
}

// fallbackResult treats each line of the raw response as one candidate,
// dropping anything that still looks like JSON scaffolding.
func (g *Generator) fallbackResult(raw, utterance string) *Result {
	var candidates []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.ContainsAny(line, "{}") {
			continue
		}
		candidates = append(candidates, line)
	}
	suggestions := capCandidates(expandCandidates(candidates))
	if len(suggestions) == 0 {
		suggestions = append([]string(nil), MockSuggestions...)
	}

	corrected := normalize.Punctuate(utterance, "")
	if classify.IsYesNoQuestion(corrected) {
		suggestions = ensureYesNo(suggestions)
	}

	return &Result{
		Suggestions:         suggestions,
		UncertaintyResponse: fallbackUncertainty,
		CorrectedText:       corrected,
	}
}

// decodePayload extracts the substring between the first '{' and the last
// '}' before parsing, since models often wrap the JSON object in prose or
// code fencing.
func decodePayload(raw string) (backendPayload, bool) {
	var payload backendPayload

	first := strings.Index(raw, "{")
	last := strings.LastIndex(raw, "}")
	body := raw
	if first != -1 && last > first {
		body = raw[first : last+1]
	}

	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return backendPayload{}, false
	}
	return payload, true
}

func truncateForLog(s string) string {
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
