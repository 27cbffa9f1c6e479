// Package normalize turns raw speech-recognition text into a punctuated
// canonical utterance. Speech engines deliver unpunctuated, lowercase-ish
// text; the classifier and the suggestion pipeline both key off the
// terminal punctuation this package assigns.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

// SentenceKind is the coarse sentence type inferred from an utterance.
type SentenceKind int

const (
	Statement SentenceKind = iota
	Question
	Exclamation
)

func (k SentenceKind) String() string {
	switch k {
	case Question:
		return "question"
	case Exclamation:
		return "exclamation"
	default:
		return "statement"
	}
}

// Mark returns the terminal punctuation mark for the kind.
func (k SentenceKind) Mark() string {
	switch k {
	case Question:
		return "?"
	case Exclamation:
		return "!"
	default:
		return "."
	}
}

var (
	// Interrogative openers: auxiliary verbs and wh-words followed by a space.
	questionLeadPattern = regexp.MustCompile(`(?i)^(is|are|am|was|were|do|does|did|have|has|had|can|could|will|would|should|may|might|must|what|when|where|why|which|who|whose|how)\s`)

	// Trailing tag-question cues ("nice day, right").
	tagQuestionPattern = regexp.MustCompile(`(?i)\b(right|yeah|ok|innit|huh)\s*$`)

	// Emphatic or emotion-loaded vocabulary.
	exclaimWordPattern = regexp.MustCompile(`(?i)\b(wow|awesome|amazing|great|excellent|incredible|fantastic|wonderful|horrible|terrible|dreadful|yay|hurray|help|watch out)\b`)

	// Strong emphatic openers ("no way", "yes sir").
	emphaticLeadPattern = regexp.MustCompile(`^(no|yes)\s+(way|sir|ma'am|really|absolutely)`)
)

// Classify reports the sentence kind of text. originalUtterance, when
// non-empty, is the raw recognized form used for shout detection: an
// all-caps utterance longer than two characters reads as an exclamation.
func Classify(text, originalUtterance string) SentenceKind {
	switch {
	case questionLeadPattern.MatchString(text),
		tagQuestionPattern.MatchString(text),
		strings.Contains(text, "?"):
		return Question
	case exclaimWordPattern.MatchString(text),
		emphaticLeadPattern.MatchString(text),
		strings.HasSuffix(text, "!"),
		isShout(originalUtterance):
		return Exclamation
	default:
		return Statement
	}
}

// Punctuate returns text with terminal punctuation appended according to
// its sentence kind. Text already ending in '.', '!' or '?' is returned
// trimmed as-is. Empty input (after trimming) yields "": there is nothing
// to punctuate.
func Punctuate(text, originalUtterance string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if strings.HasSuffix(text, ".") || strings.HasSuffix(text, "!") || strings.HasSuffix(text, "?") {
		return text
	}
	return text + Classify(text, originalUtterance).Mark()
}

// isShout reports whether the raw utterance was delivered entirely in
// uppercase, which some recognition engines use to flag shouted speech.
func isShout(raw string) bool {
	if len(raw) <= 2 {
		return false
	}
	first := []rune(raw)[0]
	if !unicode.IsUpper(first) {
		return false
	}
	return raw == strings.ToUpper(raw)
}
