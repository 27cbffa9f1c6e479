// Package classify maps a punctuated utterance onto a context category so
// the session can surface a specialized keypad (food, comfort, help,
// yes/no, numbers). It also extracts "X or Y" binary options and infers
// measurement units for numeric questions.
//
// All detectors are deliberately simple keyword and regex tests, not
// statistical models. They run in strict priority order: the first match
// wins.
package classify

import (
	"regexp"
	"strings"
)

// Category is one context category for the suggestion keypad. Auto is both
// a manual selection and the "let the classifier decide" sentinel.
type Category string

const (
	Auto    Category = "auto"
	Food    Category = "food"
	Comfort Category = "comfort"
	General Category = "general"
	YesNo   Category = "yes-no"
	Help    Category = "help"
	Numbers Category = "numbers"
)

// ParseCategory returns the category for a wire label, or Auto and false
// when the label is unknown.
func ParseCategory(s string) (Category, bool) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case Auto:
		return Auto, true
	case Food:
		return Food, true
	case Comfort:
		return Comfort, true
	case General:
		return General, true
	case YesNo:
		return YesNo, true
	case Help:
		return Help, true
	case Numbers:
		return Numbers, true
	}
	return Auto, false
}

var (
	foodKeywords = []string{
		"food", "eat", "hungry", "thirsty", "drink", "salad", "pizza",
		"burger", "want", "like", "taste", "meal", "dinner", "lunch",
		"breakfast",
	}

	comfortKeywords = []string{
		"hurt", "pain", "cold", "hot", "tired", "sleep", "comfortable",
		"scared", "sad", "happy", "mood", "feel", "fever", "ache",
	}

	helpKeywords = []string{
		"help", "emergency", "call", "doctor", "hospital", "urgent",
		"911", "need", "sick", "problem",
	}

	quantityKeywords = []string{
		"how many", "how much", "number", "amount", "quantity", "percent",
		"percentage", "weight", "weigh", "distance", "far", "length",
		"long", "tall", "height", "width", "size", "speed", "temperature",
		"degree", "degrees", "age", "old", "time", "minute", "minutes",
		"hour", "hours", "day", "days", "cost", "price", "dollar",
		"dollars", "cent", "cents", "pay", "fee", "rate",
	}

	hasDigitPattern        = regexp.MustCompile(`\d`)
	quantityAskPattern     = regexp.MustCompile(`(?i)\b(how many|how much|what number|which number|what amount|what time|how long|how far|how tall|how old|how big|how heavy|how fast)\b`)
	yesNoOpenerPattern     = regexp.MustCompile(`(?i)^(is|are|am|was|were|do|does|did|have|has|had|can|could|will|would|should|may|might|must)\s`)
)

// Classify returns the category for text, or Auto when no detector fires.
// Detectors run in priority order: numeric question, food, comfort, help,
// yes/no. Matching is case-insensitive.
func Classify(text string) Category {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return Auto
	}

	if isNumericQuestion(lower) {
		return Numbers
	}
	if containsAny(lower, foodKeywords) {
		return Food
	}
	if containsAny(lower, comfortKeywords) {
		return Comfort
	}
	if containsAny(lower, helpKeywords) {
		return Help
	}
	if yesNoOpenerPattern.MatchString(lower) {
		return YesNo
	}
	return Auto
}

// isNumericQuestion requires both a numeric signal (a digit or a quantity
// keyword) and an interrogative signal (trailing '?' or a quantity-asking
// phrase). Requiring both keeps plain statements like "it costs a lot" out
// of the numbers keypad.
func isNumericQuestion(lower string) bool {
	numeric := hasDigitPattern.MatchString(lower) || containsAny(lower, quantityKeywords)
	if !numeric {
		return false
	}
	return strings.HasSuffix(lower, "?") || quantityAskPattern.MatchString(lower)
}

// IsYesNoQuestion reports whether text both opens with a yes/no auxiliary
// verb and carries a literal question mark. Unlike Classify, this check is
// not subject to priority order: "Are you hungry?" is a yes/no question
// even though it would classify as Food.
func IsYesNoQuestion(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	return yesNoOpenerPattern.MatchString(lower) && strings.Contains(lower, "?")
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
