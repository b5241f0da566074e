package speech

import (
	"sync"

	"go.uber.org/zap"
)

// Synthesizer is the device text-to-speech contract. Speak is asynchronous
// and must invoke onDone exactly once, on completion or on error.
type Synthesizer interface {
	Speak(text string, onDone func(err error))
	CancelAll()
}

// Speaker wraps a Synthesizer and keeps at most one utterance outstanding.
// A failed utterance clears the flag through the same callback path, so a
// broken engine never wedges the gate.
type Speaker struct {
	mu       sync.Mutex
	speaking bool
	synth    Synthesizer
	log      *zap.Logger
}

func NewSpeaker(synth Synthesizer, log *zap.Logger) *Speaker {
	return &Speaker{
		synth: synth,
		log:   log,
	}
}

// Speak dispatches text unless an utterance is already in flight. Returns
// whether the utterance was dispatched.
func (s *Speaker) Speak(text string) bool {
	s.mu.Lock()
	if s.speaking {
		s.mu.Unlock()
		return false
	}
	s.speaking = true
	s.mu.Unlock()

	s.synth.Speak(text, func(err error) {
		s.mu.Lock()
		s.speaking = false
		s.mu.Unlock()
		if err != nil {
			s.log.Warn("speech synthesis failed", zap.String("text", text), zap.Error(err))
		}
	})
	return true
}

func (s *Speaker) IsSpeaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speaking
}

// Cancel stops any in-flight utterance. Idempotent.
func (s *Speaker) Cancel() {
	s.synth.CancelAll()
	s.mu.Lock()
	s.speaking = false
	s.mu.Unlock()
}

// NoopSynthesizer completes every utterance immediately. Used headless and
// in tests.
type NoopSynthesizer struct{}

func (NoopSynthesizer) Speak(text string, onDone func(err error)) {
	if onDone != nil {
		onDone(nil)
	}
}

func (NoopSynthesizer) CancelAll() {}

// LogSynthesizer writes each utterance to the logger instead of speaking it.
type LogSynthesizer struct {
	Log *zap.Logger
}

func (l LogSynthesizer) Speak(text string, onDone func(err error)) {
	l.Log.Info("voice guidance", zap.String("text", text))
	if onDone != nil {
		onDone(nil)
	}
}

func (l LogSynthesizer) CancelAll() {}
