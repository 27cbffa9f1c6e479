package suggest

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeBackend struct {
	response string
	err      error
	lastUser string
}

func (f *fakeBackend) Complete(_ context.Context, _, user string) (string, error) {
	f.lastUser = user
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func newTestGenerator(b Backend) *Generator {
	return NewGenerator(b, nil, time.Millisecond, zerolog.Nop())
}

func TestGenerate_ParsesWellFormedResponse(t *testing.T) {
	backend := &fakeBackend{response: `{
		"suggestions": ["sure thing", "not today", "later maybe"],
		"uncertainty_response": "let me think",
		"corrected_text": "do you want to go outside"
	}`}
	g := newTestGenerator(backend)

	res, err := g.Generate(context.Background(), "Speaker: hi", "do you want to go outside")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if res.CorrectedText != "do you want to go outside?" {
		t.Errorf("Expected punctuated corrected text, got %q", res.CorrectedText)
	}
	// Corrected text is a yes/no question, so Yes/No lead the list.
	want := []string{"Yes", "No", "Sure Thing", "Not Today", "Later Maybe"}
	if !reflect.DeepEqual(res.Suggestions, want) {
		t.Errorf("Suggestions = %v, want %v", res.Suggestions, want)
	}
	if res.UncertaintyResponse != "Let Me Think" {
		t.Errorf("Uncertainty = %q", res.UncertaintyResponse)
	}
	if !strings.Contains(backend.lastUser, `Current Utterance: "do you want to go outside"`) {
		t.Errorf("Backend user content missing utterance: %q", backend.lastUser)
	}
}

func TestGenerate_ExtractsJSONFromProse(t *testing.T) {
	backend := &fakeBackend{response: "Here you go:\n```json\n" +
		`{"suggestions": ["okay"], "uncertainty_response": "hmm", "corrected_text": "that sounds nice."}` +
		"\n```\nHope that helps!"}
	g := newTestGenerator(backend)

	res, err := g.Generate(context.Background(), "", "that sounds nice")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !reflect.DeepEqual(res.Suggestions, []string{"Okay"}) {
		t.Errorf("Suggestions = %v", res.Suggestions)
	}
	if res.CorrectedText != "that sounds nice." {
		t.Errorf("CorrectedText = %q", res.CorrectedText)
	}
}

func TestGenerate_LineSplitFallback(t *testing.T) {
	backend := &fakeBackend{response: "1. Sounds good\n2. Not for me\n{broken json\nMaybe later"}
	g := newTestGenerator(backend)

	res, err := g.Generate(context.Background(), "", "want to come along")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	want := []string{"Sounds Good", "Not For Me", "Maybe Later"}
	if !reflect.DeepEqual(res.Suggestions, want) {
		t.Errorf("Suggestions = %v, want %v", res.Suggestions, want)
	}
	if res.UncertaintyResponse != "I'm not sure" {
		t.Errorf("Uncertainty = %q", res.UncertaintyResponse)
	}
	if res.CorrectedText != "want to come along." {
		t.Errorf("CorrectedText = %q", res.CorrectedText)
	}
}

func TestGenerate_FallbackEmptyUsesMockSet(t *testing.T) {
	backend := &fakeBackend{response: "{not json at all}"}
	g := newTestGenerator(backend)

	res, err := g.Generate(context.Background(), "", "hello there")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(res.Suggestions) == 0 || len(res.Suggestions) > maxSuggestions {
		t.Errorf("Suggestion bound violated: %d", len(res.Suggestions))
	}
}

func TestGenerate_YesNoAugmentation(t *testing.T) {
	backend := &fakeBackend{response: `{
		"suggestions": ["Maybe", "Not really", "YES!", "no."],
		"uncertainty_response": "hmm",
		"corrected_text": "Are you hungry?"
	}`}
	g := newTestGenerator(backend)

	res, err := g.Generate(context.Background(), "", "are you hungry")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	want := []string{"Yes", "No", "Maybe", "Not Really"}
	if !reflect.DeepEqual(res.Suggestions, want) {
		t.Errorf("Suggestions = %v, want %v", res.Suggestions, want)
	}
}

func TestGenerate_SuggestionBound(t *testing.T) {
	many := make([]string, 0, 12)
	for _, s := range []string{"a1", "b2", "c3", "d4", "e5", "f6", "g7", "h8", "i9", "j10", "k11", "l12"} {
		many = append(many, `"`+s+`"`)
	}
	backend := &fakeBackend{response: `{"suggestions": [` + strings.Join(many, ",") + `], "corrected_text": "fine."}`}
	g := newTestGenerator(backend)

	res, err := g.Generate(context.Background(), "", "fine")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(res.Suggestions) < 1 || len(res.Suggestions) > maxSuggestions {
		t.Errorf("Expected 1..%d suggestions, got %d", maxSuggestions, len(res.Suggestions))
	}
}

func TestGenerate_SplitsOverlongCandidate(t *testing.T) {
	backend := &fakeBackend{response: `{
		"suggestions": ["I would love that, sounds really great, count me in for sure"],
		"corrected_text": "we could go to the park."
	}`}
	g := newTestGenerator(backend)

	res, err := g.Generate(context.Background(), "", "we could go to the park")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	want := []string{"I Would Love That", "Sounds Really Great", "Count Me In For Sure"}
	if !reflect.DeepEqual(res.Suggestions, want) {
		t.Errorf("Suggestions = %v, want %v", res.Suggestions, want)
	}
}

func TestGenerate_BackendFailureSurfaces(t *testing.T) {
	boom := errors.New("http 500")
	g := newTestGenerator(&fakeBackend{err: boom})

	res, err := g.Generate(context.Background(), "", "hello")
	if err == nil || !errors.Is(err, boom) {
		t.Fatalf("Expected wrapped backend error, got %v (res %v)", err, res)
	}
}

func TestGenerate_MockMode(t *testing.T) {
	g := newTestGenerator(nil)
	if !g.MockMode() {
		t.Fatal("Expected mock mode without a backend")
	}

	res, err := g.Generate(context.Background(), "", "are you hungry")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !reflect.DeepEqual(res.Suggestions, MockSuggestions) {
		t.Errorf("Expected mock suggestions, got %v", res.Suggestions)
	}
	if res.CorrectedText != "are you hungry?" {
		t.Errorf("CorrectedText = %q", res.CorrectedText)
	}
	if res.UncertaintyResponse != "I'm not sure" {
		t.Errorf("Uncertainty = %q", res.UncertaintyResponse)
	}
}

func TestGenerate_MockModeHonorsContext(t *testing.T) {
	g := NewGenerator(nil, nil, time.Second, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := g.Generate(ctx, "", "hi"); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestFormatHistory(t *testing.T) {
	got := FormatHistory([]HistoryEntry{
		{Role: RoleSpeaker, Content: "How are you today?"},
		{Role: RoleSelf, Content: "Pretty good"},
	})
	want := "Speaker: How are you today?\nMe: Pretty good"
	if got != want {
		t.Errorf("FormatHistory = %q, want %q", got, want)
	}
	if FormatHistory(nil) != "" {
		t.Error("Expected empty history to format to empty string")
	}
}
