// Package session implements the conversation orchestrator: it owns the
// transcript, the active category, the numeric entry sub-state and the
// persisted lists, and drives suggestion generation from finalized
// recognition results.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/speakeasyai/aac-gateway/internal/classify"
	"github.com/speakeasyai/aac-gateway/internal/observability"
	"github.com/speakeasyai/aac-gateway/internal/resilience"
	"github.com/speakeasyai/aac-gateway/internal/store"
	"github.com/speakeasyai/aac-gateway/internal/suggest"
	"github.com/speakeasyai/aac-gateway/internal/tts"
)

const (
	maxSuggestionTiles = 8
	phraseHistoryCap   = 20
	cantChooseTile     = "Can't choose"
)

// Role identifies who produced a transcript entry.
type Role string

const (
	RoleSpeaker Role = "speaker" // the conversational partner
	RoleSelf    Role = "self"    // the AAC user
)

// Entry is one transcript line. Timestamps strictly increase in append
// order; the id is the handle used to target a later correction.
type Entry struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// Snapshot is the full client-visible session state.
type Snapshot struct {
	Transcript      []Entry           `json:"transcript"`
	Interim         string            `json:"interim"`
	Tiles           []Tile            `json:"tiles"`
	Category        classify.Category `json:"category"`
	Units           []string          `json:"units,omitempty"`
	NumericDigits   string            `json:"numeric_digits"`
	NumericUnit     string            `json:"numeric_unit"`
	Loading         bool              `json:"loading"`
	Error           string            `json:"error,omitempty"`
	MockMode        bool              `json:"mock_mode"`
	Listening       bool              `json:"listening"`
	Favorites       []string          `json:"favorites"`
	CustomPhrases   []string          `json:"custom_phrases"`
	History         []string          `json:"history"`
	FontSize        FontPreset        `json:"font_size"`
	FontScale       float64           `json:"font_scale"`
	VoiceGender     tts.Gender        `json:"voice_gender"`
	ShowCustomPanel bool              `json:"show_custom_panel"`
}

// Recognizer is the slice of the speech-recognition collaborator the
// session drives.
type Recognizer interface {
	Start() error
	Stop() error
}

// Deps are the collaborators a session is built from. Recognizer and
// OnChange may be nil; Store defaults to an in-memory store.
type Deps struct {
	Recognizer     Recognizer
	Synthesizer    tts.Synthesizer
	Generator      *suggest.Generator
	Store          store.Store
	RestartBackoff time.Duration
	// GenerationTimeout bounds each backend request so a hung backend
	// cannot leave the session loading forever. Zero disables the bound.
	GenerationTimeout time.Duration
	Logger            zerolog.Logger
	// OnChange is invoked after every state transition so the transport
	// can push a fresh snapshot.
	OnChange func()
}

// Session is the per-client conversation orchestrator. All state is
// guarded by one mutex; recognition callbacks, generation completions
// and transport commands may arrive on different goroutines.
type Session struct {
	recognizer Recognizer
	synth      tts.Synthesizer
	gen        *suggest.Generator
	genTimeout time.Duration
	store      store.Store
	restart    *resilience.RestartScheduler
	logger     zerolog.Logger
	onChange   func()

	mu            sync.Mutex
	listening     bool
	interim       string
	transcript    []Entry
	clock         int64
	suggestions   []Tile
	category      classify.Category
	autoAssigned  bool
	units         []string
	numericDigits string
	numericUnit   string
	loading       bool
	errMsg        string
	voiceGender   tts.Gender
	fontSize      FontPreset
	favorites     []string
	customPhrases []string
	history       []string
	showCustom    bool
	lastUtterance string
	genSeq        uint64
}

// New creates a session and loads the persisted lists. The caller wires
// the recognizer's result and error callbacks to HandleRecognition and
// HandleRecognitionError.
func New(deps Deps) *Session {
	st := deps.Store
	if st == nil {
		st = store.NewMemory()
	}
	s := &Session{
		recognizer:  deps.Recognizer,
		synth:       deps.Synthesizer,
		gen:         deps.Generator,
		genTimeout:  deps.GenerationTimeout,
		store:       st,
		restart:     resilience.NewRestartScheduler(deps.RestartBackoff),
		logger:      deps.Logger,
		onChange:    deps.OnChange,
		suggestions: DefaultSuggestions(),
		category:    classify.Auto,
		voiceGender: tts.Female,
		fontSize:    FontMedium,
	}
	s.favorites = store.GetStringList(st, store.KeyFavorites)
	s.customPhrases = store.GetStringList(st, store.KeyCustomPhrases)
	s.history = store.GetStringList(st, store.KeyPhraseHistory)
	if len(s.history) > phraseHistoryCap {
		s.history = s.history[:phraseHistoryCap]
	}
	if v, err := st.Get(store.KeyFontSize); err == nil {
		s.fontSize = ParseFontPreset(v)
	}
	observability.RecordSessionStart()
	return s
}

// Close releases the session. In-flight generation completions become
// no-ops for everything except entry-id-keyed corrections.
func (s *Session) Close() {
	s.mu.Lock()
	s.restart.Cancel()
	s.listening = false
	s.genSeq++
	s.mu.Unlock()
	if s.recognizer != nil {
		if err := s.recognizer.Stop(); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to stop recognizer on close")
		}
	}
	observability.RecordSessionEnd()
}

func (s *Session) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

// StartListening engages the speech-recognition collaborator.
func (s *Session) StartListening() error {
	s.mu.Lock()
	if s.listening {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	if s.recognizer != nil {
		if err := s.recognizer.Start(); err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.listening = true
	s.mu.Unlock()
	s.changed()
	return nil
}

// StopListening disengages recognition and cancels any pending restart.
// It does not cancel an in-flight generation request.
func (s *Session) StopListening() error {
	s.mu.Lock()
	s.restart.Cancel()
	wasListening := s.listening
	s.listening = false
	s.interim = ""
	s.mu.Unlock()

	var err error
	if wasListening && s.recognizer != nil {
		err = s.recognizer.Stop()
	}
	s.changed()
	return err
}

// Listening reports whether recognition is engaged.
func (s *Session) Listening() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listening
}

// HandleRecognition is the recognizer's result callback. Non-final
// hypotheses replace the interim display; a final hypothesis starts a
// generation cycle.
func (s *Session) HandleRecognition(text string, isFinal bool) {
	observability.RecordRecognition(isFinal)
	if !isFinal {
		s.mu.Lock()
		s.interim = text
		s.mu.Unlock()
		s.changed()
		return
	}

	raw := strings.TrimSpace(text)
	if raw == "" {
		return
	}

	s.mu.Lock()
	prior := make([]suggest.HistoryEntry, 0, len(s.transcript))
	for _, e := range s.transcript {
		role := suggest.RoleSpeaker
		if e.Role == RoleSelf {
			role = suggest.RoleSelf
		}
		prior = append(prior, suggest.HistoryEntry{Role: role, Content: e.Content})
	}
	entryID := s.appendEntryLocked(RoleSpeaker, raw)
	s.interim = ""
	s.errMsg = ""
	s.loading = true
	s.lastUtterance = raw
	s.genSeq++
	seq := s.genSeq
	s.mu.Unlock()
	s.changed()

	go s.generate(seq, entryID, suggest.FormatHistory(prior), raw)
}

// HandleRecognitionError is the recognizer's failure callback. Retryable
// conditions schedule one restart attempt while the user still wants to
// listen; fatal ones force listening off.
func (s *Session) HandleRecognitionError(code string, err error) {
	s.mu.Lock()
	if !s.listening {
		s.mu.Unlock()
		return
	}

	if !resilience.IsRetryableRecognitionError(code) {
		s.listening = false
		s.mu.Unlock()
		s.logger.Warn().Str("code", code).Err(err).Msg("Recognition stopped on fatal error")
		observability.RecordError(code, "recognition")
		s.changed()
		return
	}

	scheduled := s.restart.Schedule(func() {
		s.mu.Lock()
		wanted := s.listening
		s.mu.Unlock()
		if !wanted || s.recognizer == nil {
			return
		}
		observability.RecordRecognitionRestart()
		if startErr := s.recognizer.Start(); startErr != nil {
			s.logger.Warn().Err(startErr).Msg("Recognition restart failed")
		}
	})
	s.mu.Unlock()
	if scheduled {
		s.logger.Debug().Str("code", code).Msg("Recognition restart scheduled")
	}
}

// generate runs one suggestion cycle. The sequence number implements
// latest-request-wins: a stale completion may still correct its own
// transcript entry, but never writes suggestions or category.
func (s *Session) generate(seq uint64, entryID, history, raw string) {
	ctx := context.Background()
	if s.genTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.genTimeout)
		defer cancel()
	}
	res, err := s.gen.Generate(ctx, history, raw)

	s.mu.Lock()
	if err != nil {
		if seq == s.genSeq {
			s.errMsg = err.Error()
			s.loading = false
		}
		s.mu.Unlock()
		s.logger.Warn().Err(err).Msg("Suggestion generation failed")
		s.changed()
		return
	}

	corrected := res.CorrectedText
	if corrected == "" {
		corrected = raw
	}
	s.correctEntryLocked(entryID, corrected)

	if seq != s.genSeq {
		s.mu.Unlock()
		return
	}

	s.applyClassificationLocked(corrected)
	s.suggestions = buildTiles(res, corrected)
	s.loading = false
	s.errMsg = ""
	s.mu.Unlock()
	s.changed()
}

// applyClassificationLocked runs the category-switch policy for one
// corrected utterance. A user-pinned category never auto-switches; an
// auto-assigned one follows the classifier, including reverting to Auto
// when the signal disappears.
func (s *Session) applyClassificationLocked(text string) {
	label := classify.Classify(text)
	switch {
	case s.category == classify.Auto:
		if label != classify.Auto {
			s.switchCategoryLocked(label, true, text)
		}
	case s.autoAssigned:
		if label != s.category {
			s.switchCategoryLocked(label, label != classify.Auto, text)
		}
	}
}

func (s *Session) switchCategoryLocked(c classify.Category, auto bool, contextText string) {
	s.category = c
	s.autoAssigned = auto
	s.numericDigits = ""
	s.numericUnit = ""
	if c == classify.Numbers {
		s.units = classify.InferUnits(contextText)
	} else {
		s.units = nil
	}
}

// buildTiles augments one generation cycle's candidates: binary options
// first (with a neutral escape tile), else Yes/No for yes-no questions,
// then the uncertainty response as a trailing hedge tile, capped at the
// display bound.
func buildTiles(res *suggest.Result, corrected string) []Tile {
	texts := res.Suggestions
	if opts := classify.ExtractBinaryOptions(corrected); len(opts) == 2 {
		texts = prependDedup(texts, opts[0], opts[1])
		if !containsFold(texts, cantChooseTile) {
			texts = append(texts, cantChooseTile)
		}
	} else if classify.Classify(corrected) == classify.YesNo {
		texts = prependDedup(texts, "Yes", "No")
	}

	tiles := tilesFromTexts(texts)
	if res.UncertaintyResponse != "" && !containsTileFold(tiles, res.UncertaintyResponse) {
		tiles = append(tiles, Tile{Text: res.UncertaintyResponse, Variant: VariantUncertainty})
	}
	if len(tiles) > maxSuggestionTiles {
		tiles = tiles[:maxSuggestionTiles]
	}
	return tiles
}

func prependDedup(texts []string, front ...string) []string {
	out := make([]string, 0, len(texts)+len(front))
	out = append(out, front...)
	for _, t := range texts {
		if !containsFold(out, t) {
			out = append(out, t)
		}
	}
	return out
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func containsTileFold(tiles []Tile, s string) bool {
	for _, t := range tiles {
		if strings.EqualFold(t.Text, s) {
			return true
		}
	}
	return false
}

func (s *Session) appendEntryLocked(role Role, content string) string {
	s.clock++
	e := Entry{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: s.clock,
	}
	s.transcript = append(s.transcript, e)
	return e.ID
}

// correctEntryLocked replaces a Speaker entry's content, but only while
// it is still the most recent Speaker entry. A correction landing after
// the conversation moved on is dropped.
func (s *Session) correctEntryLocked(id, content string) {
	for i := len(s.transcript) - 1; i >= 0; i-- {
		e := &s.transcript[i]
		if e.Role != RoleSpeaker {
			continue
		}
		if e.ID == id && e.Content != content {
			e.Content = content
		}
		return
	}
}

// ActivateTile handles a tile tap. In the numbers category digits, Del
// and Enter drive the numeric entry machine; everything else is spoken
// directly.
func (s *Session) ActivateTile(text string) {
	s.mu.Lock()
	if s.category == classify.Numbers {
		if handled := s.numericTileLocked(text); handled {
			s.mu.Unlock()
			s.changed()
			return
		}
	}
	s.speakPhraseLocked(text)
	s.mu.Unlock()
	s.changed()
}

func (s *Session) numericTileLocked(text string) bool {
	if len(text) == 1 && text[0] >= '0' && text[0] <= '9' {
		s.numericDigits += text
		return true
	}
	switch text {
	case "Del":
		if s.numericDigits != "" {
			s.numericDigits = s.numericDigits[:len(s.numericDigits)-1]
		} else {
			s.numericUnit = ""
		}
		return true
	case "Enter":
		if s.numericDigits == "" {
			return true
		}
		composed := s.numericDigits
		if s.numericUnit != "" {
			composed += " " + s.numericUnit
		}
		s.numericDigits = ""
		s.numericUnit = ""
		s.speakPhraseLocked(composed)
		return true
	}
	return false
}

// ToggleUnit selects a unit for numeric entry; selecting the active unit
// clears it.
func (s *Session) ToggleUnit(unit string) {
	s.mu.Lock()
	if s.numericUnit == unit {
		s.numericUnit = ""
	} else {
		s.numericUnit = unit
	}
	s.mu.Unlock()
	s.changed()
}

func (s *Session) speakPhraseLocked(text string) {
	if s.synth != nil {
		s.synth.Speak(text, s.voiceGender)
	}
	s.appendEntryLocked(RoleSelf, text)
	s.history = frontInsert(s.history, text, phraseHistoryCap)
	s.persistListLocked(store.KeyPhraseHistory, s.history)
	observability.RecordSpokenTile()
}

// frontInsert puts text at the head of list, moving an existing
// duplicate instead of growing, and caps the result. Dedup is
// case-insensitive like the favorites and custom phrase sets.
func frontInsert(list []string, text string, limit int) []string {
	out := make([]string, 0, len(list)+1)
	out = append(out, text)
	for _, v := range list {
		if !strings.EqualFold(v, text) {
			out = append(out, v)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// SelectCategory is an explicit user choice; it always clears the
// auto-assigned marker so later classifications cannot override it.
func (s *Session) SelectCategory(c classify.Category) {
	s.mu.Lock()
	s.switchCategoryLocked(c, false, s.lastUtterance)
	s.mu.Unlock()
	s.changed()
}

// AddFavorite records a favorite phrase. Favorites are a deduplicated
// set.
func (s *Session) AddFavorite(text string) {
	s.mu.Lock()
	if !containsFold(s.favorites, text) {
		s.favorites = append(s.favorites, text)
		s.persistListLocked(store.KeyFavorites, s.favorites)
	}
	s.mu.Unlock()
	s.changed()
}

// RemoveFavorite drops a favorite phrase.
func (s *Session) RemoveFavorite(text string) {
	s.mu.Lock()
	s.favorites = removeFold(s.favorites, text)
	s.persistListLocked(store.KeyFavorites, s.favorites)
	s.mu.Unlock()
	s.changed()
}

// AddCustomPhrase records a user-authored phrase tile.
func (s *Session) AddCustomPhrase(text string) {
	s.mu.Lock()
	if !containsFold(s.customPhrases, text) {
		s.customPhrases = append(s.customPhrases, text)
		s.persistListLocked(store.KeyCustomPhrases, s.customPhrases)
	}
	s.mu.Unlock()
	s.changed()
}

// RemoveCustomPhrase drops a user-authored phrase tile.
func (s *Session) RemoveCustomPhrase(text string) {
	s.mu.Lock()
	s.customPhrases = removeFold(s.customPhrases, text)
	s.persistListLocked(store.KeyCustomPhrases, s.customPhrases)
	s.mu.Unlock()
	s.changed()
}

// ClearHistory empties the spoken-phrase history.
func (s *Session) ClearHistory() {
	s.mu.Lock()
	s.history = nil
	s.persistListLocked(store.KeyPhraseHistory, nil)
	s.mu.Unlock()
	s.changed()
}

func removeFold(list []string, text string) []string {
	out := list[:0]
	for _, v := range list {
		if !strings.EqualFold(v, text) {
			out = append(out, v)
		}
	}
	return out
}

// SetVoiceGender changes the synthesis voice for future speak commands.
func (s *Session) SetVoiceGender(g tts.Gender) {
	s.mu.Lock()
	s.voiceGender = g
	s.mu.Unlock()
	s.changed()
}

// SetFontSize changes and persists the font preset.
func (s *Session) SetFontSize(p FontPreset) {
	s.mu.Lock()
	s.fontSize = p
	if err := s.store.Set(store.KeyFontSize, string(p)); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to persist font size")
		observability.RecordStoreError("set")
	}
	s.mu.Unlock()
	s.changed()
}

// SetCustomPanelVisible toggles the custom phrases panel.
func (s *Session) SetCustomPanelVisible(visible bool) {
	s.mu.Lock()
	s.showCustom = visible
	s.mu.Unlock()
	s.changed()
}

// Reset restores the session to its initial state and wipes the
// persisted lists. In-flight generations are invalidated.
func (s *Session) Reset() {
	s.mu.Lock()
	s.transcript = nil
	s.interim = ""
	s.suggestions = DefaultSuggestions()
	s.errMsg = ""
	s.loading = false
	s.fontSize = FontMedium
	s.category = classify.Auto
	s.autoAssigned = false
	s.units = nil
	s.numericDigits = ""
	s.numericUnit = ""
	s.lastUtterance = ""
	s.voiceGender = tts.Female
	s.showCustom = false
	s.favorites = nil
	s.customPhrases = nil
	s.history = nil
	s.genSeq++
	for _, key := range []string{store.KeyFavorites, store.KeyCustomPhrases, store.KeyPhraseHistory, store.KeyFontSize} {
		if err := s.store.Delete(key); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("Failed to clear persisted value")
			observability.RecordStoreError("delete")
		}
	}
	s.mu.Unlock()
	s.changed()
}

// ClearTranscript clears the conversation only; suggestions, category
// and persisted lists survive.
func (s *Session) ClearTranscript() {
	s.mu.Lock()
	s.transcript = nil
	s.interim = ""
	s.errMsg = ""
	s.loading = false
	s.genSeq++
	s.mu.Unlock()
	s.changed()
}

// persistListLocked writes a list best-effort; in-memory state stays the
// source of truth on failure.
func (s *Session) persistListLocked(key string, list []string) {
	if err := store.SetStringList(s.store, key, list); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Failed to persist list")
		observability.RecordStoreError("set")
	}
}

// MockMode reports whether suggestions come from the fixed mock set.
func (s *Session) MockMode() bool {
	return s.gen.MockMode()
}

// Snapshot returns a copy of the client-visible state. The tile list is
// resolved for the active category: generated tiles for Auto, the keypad
// for Numbers, a canned set otherwise.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Transcript:      append([]Entry(nil), s.transcript...),
		Interim:         s.interim,
		Tiles:           s.resolveTilesLocked(),
		Category:        s.category,
		Units:           append([]string(nil), s.units...),
		NumericDigits:   s.numericDigits,
		NumericUnit:     s.numericUnit,
		Loading:         s.loading,
		Error:           s.errMsg,
		MockMode:        s.gen.MockMode(),
		Listening:       s.listening,
		Favorites:       append([]string(nil), s.favorites...),
		CustomPhrases:   append([]string(nil), s.customPhrases...),
		History:         append([]string(nil), s.history...),
		FontSize:        s.fontSize,
		FontScale:       s.fontSize.Scale(),
		VoiceGender:     s.voiceGender,
		ShowCustomPanel: s.showCustom,
	}
	if snap.Favorites == nil {
		snap.Favorites = []string{}
	}
	if snap.CustomPhrases == nil {
		snap.CustomPhrases = []string{}
	}
	if snap.History == nil {
		snap.History = []string{}
	}
	if snap.Transcript == nil {
		snap.Transcript = []Entry{}
	}
	return snap
}

func (s *Session) resolveTilesLocked() []Tile {
	switch s.category {
	case classify.Auto:
		return append([]Tile(nil), s.suggestions...)
	case classify.Numbers:
		return NumericKeypad()
	case classify.Food:
		return tilesFromTexts(foodTiles)
	case classify.Comfort:
		return tilesFromTexts(comfortTiles)
	case classify.YesNo:
		return tilesFromTexts(yesNoTiles)
	case classify.Help:
		return tilesFromTexts(helpTiles)
	default:
		return tilesFromTexts(generalTiles)
	}
}
