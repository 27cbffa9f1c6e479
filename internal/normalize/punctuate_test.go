package normalize

import "testing"

func TestPunctuate_Questions(t *testing.T) {
	cases := map[string]string{
		"are you hungry":           "are you hungry?",
		"what time is it":          "what time is it?",
		"could we leave soon":      "could we leave soon?",
		"nice weather today right": "nice weather today right?",
		"you said no huh":          "you said no huh?",
		"you want tea? or coffee":  "you want tea? or coffee?",
	}
	for in, want := range cases {
		if got := Punctuate(in, ""); got != want {
			t.Errorf("Punctuate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPunctuate_Exclamations(t *testing.T) {
	cases := map[string]string{
		"wow that is incredible": "wow that is incredible!",
		"watch out":              "watch out!",
		"no way":                 "no way!",
		"yes sir":                "yes sir!",
	}
	for in, want := range cases {
		if got := Punctuate(in, ""); got != want {
			t.Errorf("Punctuate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPunctuate_Statements(t *testing.T) {
	if got := Punctuate("I had lunch earlier", ""); got != "I had lunch earlier." {
		t.Errorf("Expected statement period, got %q", got)
	}
}

func TestPunctuate_Idempotent(t *testing.T) {
	for _, in := range []string{"Already done.", "Are you sure?", "Stop!", "  padded.  "} {
		first := Punctuate(in, "")
		if second := Punctuate(first, ""); second != first {
			t.Errorf("Punctuate not idempotent: %q -> %q -> %q", in, first, second)
		}
	}
	if got := Punctuate("Are you sure?", ""); got != "Are you sure?" {
		t.Errorf("Expected trimmed passthrough, got %q", got)
	}
}

func TestPunctuate_ShoutDetection(t *testing.T) {
	if got := Punctuate("stop the car", "STOP THE CAR"); got != "stop the car!" {
		t.Errorf("Expected shout exclamation, got %q", got)
	}
	// Short or mixed-case originals are not shouts.
	if got := Punctuate("fine then", "OK"); got != "fine then." {
		t.Errorf("Expected statement for short original, got %q", got)
	}
	if got := Punctuate("it is fine", "It is fine"); got != "it is fine." {
		t.Errorf("Expected statement for mixed-case original, got %q", got)
	}
}

func TestPunctuate_Empty(t *testing.T) {
	if got := Punctuate("   ", ""); got != "" {
		t.Errorf("Expected empty result for blank input, got %q", got)
	}
}

func TestClassify_QuestionOutranksExclamation(t *testing.T) {
	// "help" is an exclamation keyword but the interrogative opener wins.
	if kind := Classify("can you help me", ""); kind != Question {
		t.Errorf("Expected Question, got %v", kind)
	}
}
