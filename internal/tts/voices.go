package tts

import "strings"

// Voice name tokens hinting at a gender. Synthesis engines rarely expose a
// gender field, so selection leans on well-known voice names.
var (
	femaleHints = []string{"female", "samantha", "victoria", "karen", "tessa", "susan", "zira", "allison"}
	maleHints   = []string{"male", "daniel", "alex", "rishi", "david", "fred", "tom"}

	// Tokens hinting at a higher-quality voice build.
	qualityHints = []string{"enhanced", "premium", "neural"}
)

// SelectVoice picks the best available voice for the requested gender and
// language. Preference order: gender match with a quality hint, gender
// match, any quality-hinted voice, first voice for the language, none
// (engine default, returned as nil).
func SelectVoice(voices []Voice, gender Gender, lang string) *Voice {
	langMatches := make([]Voice, 0, len(voices))
	for _, v := range voices {
		if lang == "" || strings.HasPrefix(strings.ToLower(v.Lang), strings.ToLower(lang)) {
			langMatches = append(langMatches, v)
		}
	}
	if len(langMatches) == 0 {
		return nil
	}

	hints := femaleHints
	if gender == Male {
		hints = maleHints
	}

	var genderMatch *Voice
	for i := range langMatches {
		v := &langMatches[i]
		name := strings.ToLower(v.Name)
		if !containsAnyToken(name, hints) {
			continue
		}
		if containsAnyToken(name, qualityHints) {
			return v
		}
		if genderMatch == nil {
			genderMatch = v
		}
	}
	if genderMatch != nil {
		return genderMatch
	}

	for i := range langMatches {
		if containsAnyToken(strings.ToLower(langMatches[i].Name), qualityHints) {
			return &langMatches[i]
		}
	}
	return &langMatches[0]
}

func containsAnyToken(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
