package resilience

import "strings"

// Recognition error codes delivered by speech-recognition collaborators.
// The set mirrors the web speech recognition error vocabulary, which both
// the client-side engine and the streaming STT adapter normalize to.
const (
	ErrCodeNoSpeech     = "no-speech"
	ErrCodeAudioCapture = "audio-capture"
	ErrCodeNetwork      = "network"
	ErrCodeAborted      = "aborted"
	ErrCodeNotAllowed   = "not-allowed"
)

// IsRetryableRecognitionError reports whether a recognition stream failure
// is transient and worth a single scheduled restart. Permission failures
// and anything unrecognized are fatal: restarting would just fail again.
func IsRetryableRecognitionError(code string) bool {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case ErrCodeNoSpeech, ErrCodeAudioCapture, ErrCodeNetwork, ErrCodeAborted:
		return true
	}
	return false
}

// IsRetryableNetworkError reports whether an error string looks like a
// transient transport failure. Used by the streaming STT adapter when the
// underlying SDK surfaces raw connection errors.
func IsRetryableNetworkError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{
		"connection refused",
		"connection reset",
		"connection closed",
		"unavailable",
		"network is unreachable",
		"no route to host",
		"deadline exceeded",
		"timeout",
		"i/o timeout",
	} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
