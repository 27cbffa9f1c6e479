package stt

import (
	"context"
	"fmt"
	"sync"

	websocketv1api "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/websocket"
	msginterfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/websocket/interfaces"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	listenClient "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/listen"
	"github.com/rs/zerolog"

	"github.com/speakeasyai/aac-gateway/internal/resilience"
)

// DeepgramConfig holds the streaming transcription parameters.
type DeepgramConfig struct {
	APIKey     string
	Model      string
	Language   string
	SampleRate int
}

// messageCallbackHandler implements the SDK's LiveMessageCallback
// interface, embedding the default handler and overriding only the
// message and error paths.
type messageCallbackHandler struct {
	*websocketv1api.DefaultCallbackHandler
	onMessage func(*msginterfaces.MessageResponse)
	onError   func(*msginterfaces.ErrorResponse) error
}

func (m *messageCallbackHandler) Message(msg *msginterfaces.MessageResponse) error {
	m.onMessage(msg)
	return nil
}

func (m *messageCallbackHandler) Error(resp *msginterfaces.ErrorResponse) error {
	if m.onError != nil {
		return m.onError(resp)
	}
	return m.DefaultCallbackHandler.Error(resp)
}

// DeepgramRecognizer implements StreamingRecognizer using Deepgram's live
// websocket API. Callers push linear PCM via SendAudio; hypotheses come
// back through the registered handlers. The recognizer does not restart
// itself on failure: errors are normalized to recognition error codes and
// forwarded so the owner can schedule recovery.
type DeepgramRecognizer struct {
	cfg      DeepgramConfig
	onResult ResultHandler
	onError  ErrorHandler
	logger   zerolog.Logger

	mu       sync.RWMutex
	client   *listenClient.WSCallback
	isActive bool
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewDeepgramRecognizer creates a recognizer. Handlers may be nil.
func NewDeepgramRecognizer(cfg DeepgramConfig, onResult ResultHandler, onError ErrorHandler, logger zerolog.Logger) *DeepgramRecognizer {
	ctx, cancel := context.WithCancel(context.Background())
	return &DeepgramRecognizer{
		cfg:      cfg,
		onResult: onResult,
		onError:  onError,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start opens a new live transcription stream. Already-started
// recognizers return nil.
func (d *DeepgramRecognizer) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.isActive {
		return nil
	}

	tOptions := &interfaces.LiveTranscriptionOptions{
		Model:          d.cfg.Model,
		Language:       d.cfg.Language,
		Punctuate:      false, // punctuation is the normalizer's job
		InterimResults: true,
		UtteranceEndMs: "1000",
		VadEvents:      true,
		Encoding:       "linear16",
		Channels:       1,
		SampleRate:     d.cfg.SampleRate,
	}

	callback := &messageCallbackHandler{
		DefaultCallbackHandler: websocketv1api.NewDefaultCallbackHandler(),
		onMessage:              d.handleMessage,
		onError: func(resp *msginterfaces.ErrorResponse) error {
			d.logger.Warn().Str("deepgram_error", resp.Description).Msg("Deepgram stream error")
			d.mu.Lock()
			d.isActive = false
			d.mu.Unlock()
			if d.onError != nil {
				err := fmt.Errorf("deepgram: %s", resp.Description)
				code := resilience.ErrCodeAborted
				if resilience.IsRetryableNetworkError(err) {
					code = resilience.ErrCodeNetwork
				}
				d.onError(code, err)
			}
			return nil
		},
	}

	client, err := listenClient.NewWSUsingCallback(d.ctx, d.cfg.APIKey, nil, tOptions, callback)
	if err != nil {
		return fmt.Errorf("create deepgram client: %w", err)
	}

	d.client = client
	d.isActive = true
	d.logger.Info().
		Str("model", d.cfg.Model).
		Str("language", d.cfg.Language).
		Int("sample_rate", d.cfg.SampleRate).
		Msg("Deepgram recognizer started")
	return nil
}

func (d *DeepgramRecognizer) handleMessage(msg *msginterfaces.MessageResponse) {
	if msg == nil {
		return
	}

	switch msg.Type {
	case "Results", "Message":
		if len(msg.Channel.Alternatives) == 0 {
			return
		}
		alt := msg.Channel.Alternatives[0]
		if alt.Transcript == "" {
			return
		}
		if d.onResult != nil {
			d.onResult(alt.Transcript, msg.IsFinal)
		}
	case "UtteranceEnd", "SpeechStarted", "Metadata":
		// Informational; the session keys off final results only.
	default:
		d.logger.Debug().Str("type", msg.Type).Msg("Unhandled Deepgram message type")
	}
}

// SendAudio pushes one chunk of linear PCM into the stream.
func (d *DeepgramRecognizer) SendAudio(data []byte) error {
	d.mu.RLock()
	active := d.isActive
	client := d.client
	d.mu.RUnlock()

	if !active || client == nil {
		return fmt.Errorf("deepgram recognizer is not active")
	}
	if _, err := client.Write(data); err != nil {
		return fmt.Errorf("send audio to deepgram: %w", err)
	}
	return nil
}

// Stop finishes the current stream. Already-stopped recognizers return
// nil.
func (d *DeepgramRecognizer) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.isActive {
		return nil
	}
	d.client.Finish()
	d.isActive = false
	d.logger.Info().Msg("Deepgram recognizer stopped")
	return nil
}

// Close stops the stream and releases the recognizer for good.
func (d *DeepgramRecognizer) Close() error {
	d.cancel()
	return d.Stop()
}

// IsActive reports whether a stream is currently open.
func (d *DeepgramRecognizer) IsActive() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.isActive
}
