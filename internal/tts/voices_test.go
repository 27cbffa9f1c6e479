package tts

import "testing"

func TestSelectVoice_PrefersGenderAndQuality(t *testing.T) {
	voices := []Voice{
		{Name: "Daniel", Lang: "en-GB"},
		{Name: "Samantha", Lang: "en-US"},
		{Name: "Samantha (Enhanced)", Lang: "en-US"},
	}

	got := SelectVoice(voices, Female, "en")
	if got == nil || got.Name != "Samantha (Enhanced)" {
		t.Errorf("Expected enhanced Samantha, got %+v", got)
	}

	got = SelectVoice(voices, Male, "en")
	if got == nil || got.Name != "Daniel" {
		t.Errorf("Expected Daniel, got %+v", got)
	}
}

func TestSelectVoice_FallsBackToQualityThenFirst(t *testing.T) {
	voices := []Voice{
		{Name: "Voice One", Lang: "en-US"},
		{Name: "Voice Two (Premium)", Lang: "en-US"},
	}
	if got := SelectVoice(voices, Female, "en"); got == nil || got.Name != "Voice Two (Premium)" {
		t.Errorf("Expected premium fallback, got %+v", got)
	}

	plain := []Voice{{Name: "Voice One", Lang: "en-US"}}
	if got := SelectVoice(plain, Male, "en"); got == nil || got.Name != "Voice One" {
		t.Errorf("Expected first voice fallback, got %+v", got)
	}
}

func TestSelectVoice_LanguageFilter(t *testing.T) {
	voices := []Voice{
		{Name: "Amelie", Lang: "fr-FR"},
		{Name: "Samantha", Lang: "en-US"},
	}
	if got := SelectVoice(voices, Female, "en"); got == nil || got.Name != "Samantha" {
		t.Errorf("Expected English voice, got %+v", got)
	}
	if got := SelectVoice(voices, Female, "de"); got != nil {
		t.Errorf("Expected nil for unavailable language, got %+v", got)
	}
}

func TestParseGender(t *testing.T) {
	if ParseGender("male") != Male {
		t.Error("Expected Male")
	}
	if ParseGender("anything else") != Female {
		t.Error("Expected Female default")
	}
}
