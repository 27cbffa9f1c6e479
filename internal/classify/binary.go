package classify

import (
	"regexp"
	"strings"
)

var (
	clauseSplitPattern = regexp.MustCompile(`[?.!]`)
	orSplitPattern     = regexp.MustCompile(`(?i)\bor\b`)
	edgePunctPattern   = regexp.MustCompile(`^\W+|\W+$`)
)

// leadFillerWords are question-framing words that precede the actual
// option in a binary question ("do you want coffee or tea"). The cleaned
// option is whatever follows the last of these.
var leadFillerWords = map[string]bool{
	"who": true, "what": true, "which": true,
	"is": true, "are": true, "am": true, "was": true, "were": true,
	"do": true, "does": true, "did": true,
	"can": true, "could": true, "will": true, "would": true,
	"should": true, "may": true, "might": true, "must": true,
	"you": true, "we": true, "they": true, "he": true, "she": true, "it": true,
	"want": true, "like": true, "prefer": true, "preferred": true,
	"choose": true, "pick": true, "rather": true, "having": true,
	"favorite": true, "favourite": true,
}

// leadStopWords are single leading tokens stripped from an option after
// filler removal: determiners, possessives and generic nouns that precede
// the option itself ("the red one" -> "red one"). At most one is dropped,
// and never the last remaining token.
var leadStopWords = map[string]bool{
	"the": true, "a": true, "an": true,
	"your": true, "my": true, "our": true, "their": true,
	"his": true, "her": true,
	"child": true, "person": true, "pet": true,
	"option": true, "choice": true, "one": true,
}

// ExtractBinaryOptions pulls the two alternatives out of an "X or Y"
// question. It looks only at the final clause of text, splits on the word
// "or" and keeps the last two parts, so "coffee, tea, or juice" yields
// tea/juice. Returns nil when the clause has no standalone "or" or either
// cleaned side comes out empty.
func ExtractBinaryOptions(text string) []string {
	clause := finalClause(text)
	if clause == "" || !orSplitPattern.MatchString(clause) {
		return nil
	}

	parts := orSplitPattern.Split(clause, -1)
	if len(parts) < 2 {
		return nil
	}
	left := cleanOption(parts[len(parts)-2])
	right := cleanOption(parts[len(parts)-1])
	if left == "" || right == "" {
		return nil
	}
	return []string{left, right}
}

// finalClause returns the last non-empty segment of text after splitting
// on sentence punctuation.
func finalClause(text string) string {
	segments := clauseSplitPattern.Split(text, -1)
	for i := len(segments) - 1; i >= 0; i-- {
		if seg := strings.TrimSpace(segments[i]); seg != "" {
			return seg
		}
	}
	return ""
}

// cleanOption reduces one side of an "or" split to the option phrase:
// last comma segment, edge punctuation stripped, question framing dropped.
func cleanOption(s string) string {
	// "coffee, tea," -> "tea": only the chunk nearest the "or" is the option.
	if segs := strings.Split(s, ","); len(segs) > 1 {
		for i := len(segs) - 1; i >= 0; i-- {
			if strings.TrimSpace(segs[i]) != "" {
				s = segs[i]
				break
			}
		}
	}
	s = edgePunctPattern.ReplaceAllString(strings.TrimSpace(s), "")
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	// Drop everything through the last filler word ("do you want coffee"
	// -> "coffee"), as long as an option remains.
	for i := len(words) - 1; i >= 0; i-- {
		if leadFillerWords[strings.ToLower(words[i])] && i < len(words)-1 {
			words = words[i+1:]
			break
		}
	}

	// Strip at most one leading determiner-ish token, keeping >= 1 token.
	if len(words) > 1 && leadStopWords[strings.ToLower(words[0])] {
		words = words[1:]
	}

	return edgePunctPattern.ReplaceAllString(strings.Join(words, " "), "")
}
