// Package tts defines the speech-synthesis collaborator contract. The
// actual synthesis engine lives on the client device; the gateway only
// picks a voice and issues speak commands.
package tts

// Gender selects the requested voice gender.
type Gender string

const (
	Female Gender = "female"
	Male   Gender = "male"
)

// ParseGender returns the gender for a wire label, defaulting to Female.
func ParseGender(s string) Gender {
	if Gender(s) == Male {
		return Male
	}
	return Female
}

// Voice is one synthesis voice available on the client device.
type Voice struct {
	Name string `json:"name"`
	Lang string `json:"lang"`
}

// Synthesizer speaks text aloud for the AAC user.
type Synthesizer interface {
	Speak(text string, gender Gender)
}
