// Package gateway is the WebSocket transport: one connection is one
// client device session. JSON text frames carry control and speech
// events in and state snapshots and speak commands out; binary frames
// carry microphone PCM for the server-side recognition path.
package gateway

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/speakeasyai/aac-gateway/internal/audio"
	"github.com/speakeasyai/aac-gateway/internal/classify"
	"github.com/speakeasyai/aac-gateway/internal/config"
	"github.com/speakeasyai/aac-gateway/internal/observability"
	"github.com/speakeasyai/aac-gateway/internal/session"
	"github.com/speakeasyai/aac-gateway/internal/store"
	"github.com/speakeasyai/aac-gateway/internal/stt"
	"github.com/speakeasyai/aac-gateway/internal/suggest"
	"github.com/speakeasyai/aac-gateway/internal/tts"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Client devices connect from app webviews with varying origins.
		return true
	},
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// clientMessage is the envelope for every text frame from the client.
type clientMessage struct {
	Type     string      `json:"type"`
	Text     string      `json:"text,omitempty"`
	Final    bool        `json:"final,omitempty"`
	Category string      `json:"category,omitempty"`
	Unit     string      `json:"unit,omitempty"`
	Gender   string      `json:"gender,omitempty"`
	Size     string      `json:"size,omitempty"`
	Visible  bool        `json:"visible,omitempty"`
	Voices   []tts.Voice `json:"voices,omitempty"`
}

type stateMessage struct {
	Type  string           `json:"type"`
	State session.Snapshot `json:"state"`
}

type speakMessage struct {
	Type   string     `json:"type"`
	Text   string     `json:"text"`
	Gender tts.Gender `json:"gender"`
	Voice  *tts.Voice `json:"voice,omitempty"`
}

// Deps are the shared collaborators every client session is built from.
type Deps struct {
	Config    *config.Config
	Generator *suggest.Generator
	Store     store.Store
	Logger    zerolog.Logger
}

// ClientSession is the server side of one connected device. It owns the
// websocket, the per-connection recognizer and the conversation session,
// and implements the synthesizer contract by sending speak commands back
// to the device.
type ClientSession struct {
	id   string
	conn *websocket.Conn
	deps Deps

	writeMu sync.Mutex

	sess       *session.Session
	recognizer stt.StreamingRecognizer

	audioBuffer *audio.RingBuffer
	vad         *audio.VADDetector
	frameBytes  int

	voicesMu sync.RWMutex
	voices   []tts.Voice

	logger zerolog.Logger
}

// Handler returns the /ws endpoint handler.
func Handler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			deps.Logger.Error().Err(err).Msg("Failed to upgrade connection to WebSocket")
			return
		}

		client := newClientSession(conn, deps)
		client.logger.Info().Msg("Client connected")
		client.run()
		client.logger.Info().Msg("Client disconnected")
	}
}

func newClientSession(conn *websocket.Conn, deps Deps) *ClientSession {
	id := observability.NewSessionID()
	logger := observability.WithSessionID(id)

	vadConfig := &audio.VADConfig{
		EnergyThreshold: deps.Config.VADEnergyThreshold,
		SilenceFrames:   deps.Config.VADSilenceFrames,
		FrameSize:       deps.Config.DeepgramSampleRate / 50, // 20ms frames
	}

	c := &ClientSession{
		id:          id,
		conn:        conn,
		deps:        deps,
		audioBuffer: audio.NewRingBuffer(deps.Config.AudioBufferSize),
		vad:         audio.NewVADDetector(vadConfig),
		frameBytes:  vadConfig.FrameSize * 2,
		logger:      logger,
	}

	if deps.Config.SpeechToTextEnabled() {
		c.recognizer = stt.NewDeepgramRecognizer(
			stt.DeepgramConfig{
				APIKey:     deps.Config.DeepgramAPIKey,
				Model:      deps.Config.DeepgramModel,
				Language:   deps.Config.DeepgramLanguage,
				SampleRate: deps.Config.DeepgramSampleRate,
			},
			func(text string, isFinal bool) { c.sess.HandleRecognition(text, isFinal) },
			func(code string, err error) { c.sess.HandleRecognitionError(code, err) },
			logger,
		)
	}

	sessDeps := session.Deps{
		Synthesizer:       c,
		Generator:         deps.Generator,
		Store:             deps.Store,
		RestartBackoff:    deps.Config.RecognitionRestartBackoff(),
		GenerationTimeout: deps.Config.GenerationTimeout(),
		Logger:            logger,
		OnChange:          c.pushState,
	}
	if c.recognizer != nil {
		sessDeps.Recognizer = c.recognizer
	}
	c.sess = session.New(sessDeps)
	return c
}

// run reads frames until the connection closes.
func (c *ClientSession) run() {
	defer func() {
		c.sess.Close()
		if c.recognizer != nil {
			if err := c.recognizer.Close(); err != nil {
				c.logger.Warn().Err(err).Msg("Failed to close recognizer")
			}
		}
		c.conn.Close()
	}()

	c.pushState()

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn().Err(err).Msg("WebSocket read error")
			}
			return
		}

		switch messageType {
		case websocket.TextMessage:
			c.handleTextMessage(data)
		case websocket.BinaryMessage:
			c.handleAudioFrame(data)
		}
	}
}

func (c *ClientSession) handleTextMessage(data []byte) {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.logger.Error().Err(err).Msg("Failed to parse client message")
		return
	}

	switch msg.Type {
	case "start":
		if err := c.sess.StartListening(); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to start listening")
			c.pushState()
		}
	case "stop":
		if err := c.sess.StopListening(); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to stop listening")
		}
	case "speech":
		// Client-side recognition result.
		c.sess.HandleRecognition(msg.Text, msg.Final)
	case "tile":
		c.sess.ActivateTile(msg.Text)
	case "category":
		if cat, ok := classify.ParseCategory(msg.Category); ok {
			c.sess.SelectCategory(cat)
		} else {
			c.logger.Warn().Str("category", msg.Category).Msg("Unknown category")
		}
	case "unit":
		c.sess.ToggleUnit(msg.Unit)
	case "favorite_add":
		c.sess.AddFavorite(msg.Text)
	case "favorite_remove":
		c.sess.RemoveFavorite(msg.Text)
	case "custom_add":
		c.sess.AddCustomPhrase(msg.Text)
	case "custom_remove":
		c.sess.RemoveCustomPhrase(msg.Text)
	case "custom_panel":
		c.sess.SetCustomPanelVisible(msg.Visible)
	case "history_clear":
		c.sess.ClearHistory()
	case "voice":
		c.sess.SetVoiceGender(tts.ParseGender(msg.Gender))
	case "font":
		c.sess.SetFontSize(session.ParseFontPreset(msg.Size))
	case "voices":
		c.voicesMu.Lock()
		c.voices = msg.Voices
		c.voicesMu.Unlock()
	case "reset":
		c.sess.Reset()
	case "clear":
		c.sess.ClearTranscript()
	default:
		c.logger.Warn().Str("type", msg.Type).Msg("Unknown client message type")
	}
}

// handleAudioFrame feeds one binary PCM frame through resampling, VAD
// silence suppression and on to the recognizer. Frames arriving without
// a configured server-side recognizer are dropped.
func (c *ClientSession) handleAudioFrame(data []byte) {
	if c.recognizer == nil || !c.recognizer.IsActive() {
		return
	}

	samples, err := audio.DecodePCM16(data)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Invalid audio frame")
		return
	}
	if c.deps.Config.AudioSampleRate != c.deps.Config.DeepgramSampleRate {
		samples = audio.Resample(samples, c.deps.Config.AudioSampleRate, c.deps.Config.DeepgramSampleRate)
	}
	c.audioBuffer.Write(audio.EncodePCM16(samples))

	frame := make([]byte, c.frameBytes)
	for c.audioBuffer.Available() >= c.frameBytes {
		n := c.audioBuffer.Read(frame)
		frameSamples, err := audio.DecodePCM16(frame[:n])
		if err != nil {
			return
		}
		speaking, started, ended := c.vad.ProcessFrame(frameSamples)
		if started {
			c.logger.Debug().Msg("Speech started")
		}
		if ended {
			c.logger.Debug().Msg("Speech ended")
		}
		// Silent stretches between utterances are not worth forwarding.
		if !speaking && !ended {
			continue
		}
		if err := c.recognizer.SendAudio(frame[:n]); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to forward audio")
			return
		}
	}
}

// Speak implements the synthesizer contract: synthesis runs on the
// device, so the gateway picks a voice from the client-reported list and
// sends a speak command.
func (c *ClientSession) Speak(text string, gender tts.Gender) {
	c.voicesMu.RLock()
	voice := tts.SelectVoice(c.voices, gender, c.deps.Config.DeepgramLanguage)
	c.voicesMu.RUnlock()

	c.send(speakMessage{Type: "speak", Text: text, Gender: gender, Voice: voice})
}

func (c *ClientSession) pushState() {
	c.send(stateMessage{Type: "state", State: c.sess.Snapshot()})
}

func (c *ClientSession) send(v interface{}) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteJSON(v); err != nil {
		c.logger.Warn().Err(err).Msg("WebSocket write failed")
	}
}
