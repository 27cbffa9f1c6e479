package stt

import (
	"encoding/json"
	"fmt"
	"testing"

	msginterfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/websocket/interfaces"
	"github.com/rs/zerolog"
)

// The gateway holds the Deepgram recognizer through the streaming
// interface; keep the implementation pinned to it.
var _ StreamingRecognizer = (*DeepgramRecognizer)(nil)

func newTestRecognizer() *DeepgramRecognizer {
	cfg := DeepgramConfig{
		APIKey:     "test-key",
		Model:      "nova-2",
		Language:   "en",
		SampleRate: 16000,
	}
	return NewDeepgramRecognizer(cfg, nil, nil, zerolog.Nop())
}

func TestDeepgramRecognizer_InactiveByDefault(t *testing.T) {
	rec := newTestRecognizer()
	if rec.IsActive() {
		t.Error("Expected recognizer inactive before Start")
	}
}

func TestDeepgramRecognizer_SendAudioWhileInactive(t *testing.T) {
	rec := newTestRecognizer()
	if err := rec.SendAudio([]byte{0x00, 0x01}); err == nil {
		t.Error("Expected error sending audio without an open stream")
	}
}

func TestDeepgramRecognizer_StopWhileInactive(t *testing.T) {
	rec := newTestRecognizer()
	if err := rec.Stop(); err != nil {
		t.Errorf("Expected idempotent stop, got %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Errorf("Expected clean close, got %v", err)
	}
}

// newResultsMessage builds a results message from its wire form.
func newResultsMessage(t *testing.T, transcript string, final bool) *msginterfaces.MessageResponse {
	t.Helper()
	raw := fmt.Sprintf(`{"type":"Results","is_final":%v,"channel":{"alternatives":[{"transcript":%q}]}}`, final, transcript)
	var msg msginterfaces.MessageResponse
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		t.Fatalf("Failed to build results message: %v", err)
	}
	return &msg
}

func TestDeepgramRecognizer_HandleMessage(t *testing.T) {
	var gotText string
	var gotFinal bool
	rec := NewDeepgramRecognizer(DeepgramConfig{SampleRate: 16000},
		func(text string, isFinal bool) {
			gotText = text
			gotFinal = isFinal
		}, nil, zerolog.Nop())

	rec.handleMessage(nil)
	if gotText != "" {
		t.Error("Expected nil message ignored")
	}

	msg := newResultsMessage(t, "hello there", true)
	rec.handleMessage(msg)
	if gotText != "hello there" || !gotFinal {
		t.Errorf("Expected final 'hello there', got %q final=%v", gotText, gotFinal)
	}

	// Empty transcripts are noise, not results.
	gotText = ""
	rec.handleMessage(newResultsMessage(t, "", false))
	if gotText != "" {
		t.Error("Expected empty transcript ignored")
	}
}
