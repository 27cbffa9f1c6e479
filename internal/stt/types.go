// Package stt defines the speech-recognition collaborator contract and a
// Deepgram live-streaming implementation for the server-side audio path.
package stt

// ResultHandler receives each partial or final recognition hypothesis.
// Partials for the same utterance replace one another; a final result
// closes the utterance.
type ResultHandler func(text string, isFinal bool)

// ErrorHandler receives stream failures. code is one of the recognition
// error codes in the resilience package; the session decides whether the
// failure warrants a restart.
type ErrorHandler func(code string, err error)

// Recognizer streams recognition results while engaged. Start and Stop
// are idempotent; results are delivered through the handlers registered
// at construction.
type Recognizer interface {
	Start() error
	Stop() error
}

// StreamingRecognizer additionally accepts raw audio pushed by the
// caller, for clients that forward microphone PCM instead of running
// recognition on-device. Audio sent while no stream is open is an error,
// so pushers check IsActive first.
type StreamingRecognizer interface {
	Recognizer
	SendAudio(data []byte) error
	IsActive() bool
	Close() error
}
