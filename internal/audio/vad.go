package audio

// VADConfig holds the voice activity detection thresholds.
type VADConfig struct {
	EnergyThreshold float64 // RMS energy above which a frame counts as speech
	SilenceFrames   int     // consecutive silent frames that end an utterance
	FrameSize       int     // samples per frame
}

// DefaultVADConfig returns thresholds tuned for 16kHz client microphone
// audio: 20ms frames, 500ms of silence ends an utterance.
func DefaultVADConfig() *VADConfig {
	return &VADConfig{
		EnergyThreshold: 500.0,
		SilenceFrames:   25,
		FrameSize:       320, // 20ms at 16kHz
	}
}

// VADDetector tracks whether the conversational partner is currently
// speaking, frame by frame. It gates which audio is worth forwarding to
// the recognizer.
type VADDetector struct {
	config         *VADConfig
	silenceCounter int
	isSpeaking     bool
}

// NewVADDetector creates a detector; a nil config uses the defaults.
func NewVADDetector(config *VADConfig) *VADDetector {
	if config == nil {
		config = DefaultVADConfig()
	}
	return &VADDetector{config: config}
}

// ProcessFrame consumes one frame of samples.
// Returns: (isSpeaking, speechStarted, speechEnded).
func (v *VADDetector) ProcessFrame(samples []int16) (bool, bool, bool) {
	frameHasSpeech := CalculateRMS(samples) > v.config.EnergyThreshold

	var speechStarted, speechEnded bool
	if frameHasSpeech {
		v.silenceCounter = 0
		if !v.isSpeaking {
			speechStarted = true
			v.isSpeaking = true
		}
	} else {
		v.silenceCounter++
		if v.isSpeaking && v.silenceCounter >= v.config.SilenceFrames {
			speechEnded = true
			v.isSpeaking = false
			v.silenceCounter = 0
		}
	}

	return v.isSpeaking, speechStarted, speechEnded
}

// Reset clears the detector state between listening sessions.
func (v *VADDetector) Reset() {
	v.silenceCounter = 0
	v.isSpeaking = false
}

// IsSpeaking reports whether speech is currently detected.
func (v *VADDetector) IsSpeaking() bool {
	return v.isSpeaking
}

// DetectSilence reports whether samples fall below an energy threshold.
func DetectSilence(samples []int16, threshold float64) bool {
	return CalculateRMS(samples) < threshold
}
