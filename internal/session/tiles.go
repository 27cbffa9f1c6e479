package session

// Variant distinguishes normal reply tiles from hedging ones, which the
// client renders in a muted style.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantUncertainty Variant = "uncertainty"
)

// Tile is one tappable reply candidate.
type Tile struct {
	Text    string  `json:"text"`
	Variant Variant `json:"variant"`
}

func tilesFromTexts(texts []string) []Tile {
	tiles := make([]Tile, 0, len(texts))
	for _, t := range texts {
		tiles = append(tiles, Tile{Text: t, Variant: VariantDefault})
	}
	return tiles
}

// DefaultSuggestions is the tile set shown before any generation cycle
// has completed, and restored on reset.
func DefaultSuggestions() []Tile {
	return []Tile{
		{Text: "Yes", Variant: VariantDefault},
		{Text: "No", Variant: VariantDefault},
		{Text: "Thank you", Variant: VariantDefault},
		{Text: "Please", Variant: VariantDefault},
		{Text: "I need help", Variant: VariantDefault},
		{Text: "Wait", Variant: VariantDefault},
		{Text: "I don't know", Variant: VariantUncertainty},
	}
}

// Canned tile sets shown when the user pins a category. Unrecognized
// categories fall back to the general set.
var (
	foodTiles = []string{
		"I'm hungry", "I'm thirsty", "Water please", "Something to eat",
		"It tastes good", "No more", "Something different", "I'm full",
	}
	comfortTiles = []string{
		"I'm in pain", "I'm cold", "I'm hot", "I'm tired",
		"I'm comfortable", "I'm scared", "I feel good", "Please adjust me",
	}
	generalTiles = []string{
		"Yes", "No", "Thank you", "Please",
		"Hello", "Goodbye", "Wait", "I need help",
	}
	yesNoTiles = []string{
		"Yes", "No", "Definitely", "Not really",
	}
	helpTiles = []string{
		"I need help", "Call the doctor", "Call the nurse", "It's urgent",
		"I feel sick", "Emergency", "I'm okay", "Please wait",
	}
)

// NumericKeypad is the fixed tile set for the numbers category. Del is
// rendered in the uncertainty style to set it apart from the digits.
func NumericKeypad() []Tile {
	tiles := make([]Tile, 0, 12)
	for _, d := range []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "0"} {
		tiles = append(tiles, Tile{Text: d, Variant: VariantDefault})
	}
	tiles = append(tiles, Tile{Text: "Del", Variant: VariantUncertainty})
	tiles = append(tiles, Tile{Text: "Enter", Variant: VariantDefault})
	return tiles
}

// FontPreset is a named font size choice.
type FontPreset string

const (
	FontSmall  FontPreset = "small"
	FontMedium FontPreset = "medium"
	FontLarge  FontPreset = "large"
)

// ParseFontPreset returns the preset for a wire label, defaulting to
// Medium for anything unrecognized.
func ParseFontPreset(s string) FontPreset {
	switch FontPreset(s) {
	case FontSmall:
		return FontSmall
	case FontLarge:
		return FontLarge
	default:
		return FontMedium
	}
}

// Scale maps the preset to the client-side text scale factor.
func (p FontPreset) Scale() float64 {
	switch p {
	case FontSmall:
		return 0.875
	case FontLarge:
		return 1.5
	default:
		return 1.0
	}
}
