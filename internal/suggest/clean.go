package suggest

import (
	"regexp"
	"strings"
)

// Repair thresholds for model output that violates the requested format.
// Tunable heuristics, not contracts.
const (
	// splitMinLen is the length at which a single candidate is suspected
	// of containing several items glued together.
	splitMinLen = 30
	// retrySplitLen triggers one more split attempt when expansion left a
	// single overlong candidate.
	retrySplitLen = 40
	// maxSuggestions caps the candidate list.
	maxSuggestions = 8
	// maxTileLen truncates a candidate so it fits on a tile.
	maxTileLen = 50
)

var (
	fieldEchoPattern  = regexp.MustCompile(`(?i)^(uncertainty_response|corrected_text|suggestions):\s*`)
	leadEnumPattern   = regexp.MustCompile(`^[\d\-.)\s]+`)
	strayCharPattern  = regexp.MustCompile("[*`\"]+")
	multiSpacePattern = regexp.MustCompile(`\s+`)
	yesNoStripPattern = regexp.MustCompile(`[!?.,]`)
)

// cleanCandidate normalizes one raw model candidate into tile text: field
// echoes, enumeration prefixes and stray markdown stripped, whitespace
// collapsed, trailing period removed, each word capitalized, truncated to
// tile length.
func cleanCandidate(s string) string {
	s = fieldEchoPattern.ReplaceAllString(s, "")
	s = leadEnumPattern.ReplaceAllString(s, "")
	s = strayCharPattern.ReplaceAllString(s, "")
	s = multiSpacePattern.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".")
	s = strings.TrimSpace(s)
	s = titleCaseWords(s)

	if r := []rune(s); len(r) > maxTileLen {
		s = strings.TrimSpace(string(r[:maxTileLen]))
	}
	return s
}

func titleCaseWords(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(strings.ToLower(w))
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// splitIfNeeded breaks a suspected multi-item candidate apart. Delimiters
// are tried in order of likeliness; a split is accepted only when it
// yields between 2 and maxSuggestions non-empty parts.
func splitIfNeeded(item string) []string {
	if len([]rune(item)) < splitMinLen {
		return []string{item}
	}
	for _, sep := range []string{",", "?", "."} {
		parts := nonEmptyParts(strings.Split(item, sep))
		if len(parts) >= 2 && len(parts) <= maxSuggestions {
			return parts
		}
	}
	return []string{item}
}

func nonEmptyParts(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// expandCandidates splits multi-item candidates apart and retries once
// when everything collapsed into a single overlong entry.
func expandCandidates(candidates []string) []string {
	expanded := make([]string, 0, len(candidates))
	for _, c := range candidates {
		expanded = append(expanded, splitIfNeeded(c)...)
	}
	if len(expanded) == 1 && len([]rune(expanded[0])) > retrySplitLen {
		if parts := splitIfNeeded(expanded[0]); len(parts) >= 2 {
			expanded = parts
		}
	}
	return expanded
}

// capCandidates cleans every candidate, drops the empties and caps the
// list.
func capCandidates(candidates []string) []string {
	out := make([]string, 0, maxSuggestions)
	for _, c := range candidates {
		if cleaned := cleanCandidate(c); cleaned != "" {
			out = append(out, cleaned)
			if len(out) == maxSuggestions {
				break
			}
		}
	}
	return out
}

// ensureYesNo rewrites a candidate list for a yes/no question: exactly one
// "Yes" then one "No", followed by the remaining candidates with yes/no
// duplicates removed, capped.
func ensureYesNo(candidates []string) []string {
	final := []string{"Yes", "No"}
	for _, s := range candidates {
		stripped := strings.TrimSpace(yesNoStripPattern.ReplaceAllString(strings.ToLower(s), ""))
		if stripped == "yes" || stripped == "no" {
			continue
		}
		if len(final) == maxSuggestions {
			break
		}
		final = append(final, s)
	}
	return final
}
