package navigation

import (
	"strings"
	"testing"

	"github.com/chargepilot/chargepilot/pkg/speech"
	"go.uber.org/zap"
)

// recordingSynthesizer completes utterances on demand so the busy state can
// be held across samples.
type recordingSynthesizer struct {
	spoken  []string
	pending []func(error)
	instant bool
}

func (r *recordingSynthesizer) Speak(text string, onDone func(err error)) {
	r.spoken = append(r.spoken, text)
	if r.instant {
		onDone(nil)
		return
	}
	r.pending = append(r.pending, onDone)
}

func (r *recordingSynthesizer) CancelAll() {
	r.pending = nil
}

func (r *recordingSynthesizer) finishAll() {
	for _, done := range r.pending {
		done(nil)
	}
	r.pending = nil
}

func TestAnnouncerFarCueFiresOnce(t *testing.T) {
	synth := &recordingSynthesizer{instant: true}
	a := newAnnouncer(speech.NewSpeaker(synth, zap.NewNop()))

	// repeated samples around the far threshold for the same step
	for _, dist := range []float64{250, 199, 180, 210, 195, 170} {
		a.onSample(0, dist, "turn left")
	}

	farCount := 0
	for _, text := range synth.spoken {
		if strings.HasPrefix(text, "In ") {
			farCount++
		}
	}
	if farCount != 1 {
		t.Errorf("far cue fired %d times, want exactly 1; spoken: %v", farCount, synth.spoken)
	}
}

func TestAnnouncerNearCueIsFinalReminder(t *testing.T) {
	synth := &recordingSynthesizer{instant: true}
	a := newAnnouncer(speech.NewSpeaker(synth, zap.NewNop()))

	a.onSample(0, 190, "turn left")
	a.onSample(0, 120, "turn left")
	a.onSample(0, 45, "turn left")
	a.onSample(0, 30, "turn left")

	want := []string{"In 190 meters, turn left", "turn left"}
	if len(synth.spoken) != len(want) {
		t.Fatalf("spoken %v, want %v", synth.spoken, want)
	}
	for i := range want {
		if synth.spoken[i] != want[i] {
			t.Errorf("utterance %d = %q, want %q", i, synth.spoken[i], want[i])
		}
	}
}

func TestAnnouncerNearCueFiresWhenFarWasBusy(t *testing.T) {
	synth := &recordingSynthesizer{}
	speaker := speech.NewSpeaker(synth, zap.NewNop())
	a := newAnnouncer(speaker)

	// occupy the synthesizer, then cross the far threshold while busy
	speaker.Speak("recalculating estimate")
	a.onSample(0, 190, "turn left")
	a.onSample(0, 150, "turn left")

	synth.finishAll()

	// far window passed while busy; near cue must still deliver once
	a.onSample(0, 45, "turn left")
	a.onSample(0, 30, "turn left")

	// the busy utterance plus exactly one cue for the step
	if len(synth.spoken) != 2 {
		t.Fatalf("spoken %v, want busy utterance plus one cue", synth.spoken)
	}
	if synth.spoken[1] != "In 45 meters, turn left" {
		t.Errorf("cue = %q, want far-format cue at 45 m", synth.spoken[1])
	}
}

func TestAnnouncerResetsPerStep(t *testing.T) {
	synth := &recordingSynthesizer{instant: true}
	a := newAnnouncer(speech.NewSpeaker(synth, zap.NewNop()))

	a.onSample(0, 150, "turn left")
	a.reset(1)
	a.onSample(1, 150, "turn right")

	if len(synth.spoken) != 2 {
		t.Fatalf("spoken %v, want one far cue per step", synth.spoken)
	}
}
