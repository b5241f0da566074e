package navigation

import (
	"fmt"
	"math"

	"github.com/chargepilot/chargepilot/pkg"
	"github.com/chargepilot/chargepilot/pkg/speech"
)

// announcer gates voice guidance for the current step. The dedup key is
// (step, threshold bucket): the far cue and the near cue each fire at most
// once per step, and a cue skipped because the synthesizer was busy keeps
// retrying on later samples instead of being dropped.
type announcer struct {
	speaker    *speech.Speaker
	step       int
	farSpoken  bool
	nearSpoken bool
}

func newAnnouncer(speaker *speech.Speaker) *announcer {
	return &announcer{
		speaker: speaker,
		step:    -1,
	}
}

func (a *announcer) onSample(stepIndex int, distanceToTurnMeters float64, voiceText string) {
	if a.step != stepIndex {
		a.reset(stepIndex)
	}

	if distanceToTurnMeters <= pkg.FAR_ANNOUNCE_METERS && !a.farSpoken && !a.speaker.IsSpeaking() {
		text := fmt.Sprintf("In %d meters, %s", int(math.Round(distanceToTurnMeters)), voiceText)
		if a.speaker.Speak(text) {
			a.farSpoken = true
		}
		return
	}

	if distanceToTurnMeters <= pkg.NEAR_ANNOUNCE_METERS && !a.nearSpoken && !a.speaker.IsSpeaking() {
		if a.speaker.Speak(voiceText) {
			a.nearSpoken = true
		}
	}
}

func (a *announcer) reset(stepIndex int) {
	a.step = stepIndex
	a.farSpoken = false
	a.nearSpoken = false
}
