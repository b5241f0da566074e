package navigation

import (
	"context"
	"sync"
	"time"

	"github.com/chargepilot/chargepilot/pkg"
	"github.com/chargepilot/chargepilot/pkg/battery"
	"github.com/chargepilot/chargepilot/pkg/datastructure"
	"github.com/chargepilot/chargepilot/pkg/geo"
	"github.com/chargepilot/chargepilot/pkg/location"
	"github.com/chargepilot/chargepilot/pkg/speech"
	"github.com/chargepilot/chargepilot/pkg/util"
	"go.uber.org/zap"
)

const awardTimeout = 5 * time.Second

// RewardAwarder reports the arrival reward to the backend.
type RewardAwarder interface {
	AwardCoins(ctx context.Context, amount int, reason string, metadata map[string]interface{}) error
}

// VehicleProfile is the battery configuration of the vehicle driving the
// route.
type VehicleProfile struct {
	CapacityKwh  float64 `json:"capacity_kwh"`
	StartPercent float64 `json:"start_percent"`
}

// Session owns the progress state of one active trip: step index, battery
// estimate, trip stats and the charging prompt. All mutation happens under
// the session mutex on the sample path, so samples arriving from connection
// goroutines stay serialized.
type Session struct {
	mu  sync.Mutex
	log *zap.Logger

	route   *datastructure.Route
	vehicle VehicleProfile

	state              pkg.SessionState
	stepIndex          int
	distanceToNextTurn float64
	batteryPercent     float64
	snapped            geo.Coordinate
	lastSample         *datastructure.GPSSample

	stats     *TripStats
	monitor   *battery.LowBatteryMonitor
	announcer *announcer
	speaker   *speech.Speaker
	advisor   *Advisor
	awarder   RewardAwarder

	prompt  *ChargingPrompt
	summary *ArrivalSummary

	sub     location.Subscription
	stopped bool
}

func NewSession(route *datastructure.Route, vehicle VehicleProfile,
	speaker *speech.Speaker, awarder RewardAwarder, log *zap.Logger) (*Session, error) {
	if route == nil {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "session requires a route")
	}
	if vehicle.CapacityKwh < 0 || vehicle.StartPercent < 0 || vehicle.StartPercent > 100 {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
			"invalid vehicle profile: capacity %f kwh, start charge %f%%",
			vehicle.CapacityKwh, vehicle.StartPercent)
	}

	return &Session{
		log:            log,
		route:          route,
		vehicle:        vehicle,
		state:          pkg.NOT_STARTED,
		batteryPercent: vehicle.StartPercent,
		stats:          &TripStats{},
		monitor:        battery.NewLowBatteryMonitor(vehicle.StartPercent),
		announcer:      newAnnouncer(speaker),
		speaker:        speaker,
		advisor:        NewAdvisor(route.GetChargers()),
		awarder:        awarder,
		snapped:        route.GetGeometry()[0],
	}, nil
}

// Start subscribes to the location stream and begins navigating. Provider
// failure is fatal to starting; the session stays NOT_STARTED.
func (s *Session) Start(ctx context.Context, provider location.Provider) error {
	s.mu.Lock()
	if s.state != pkg.NOT_STARTED {
		s.mu.Unlock()
		return util.WrapErrorf(nil, util.ErrConflict, "session already started")
	}
	s.state = pkg.NAVIGATING
	s.mu.Unlock()

	sub, err := provider.Subscribe(ctx, s.HandleSample)
	if err != nil {
		s.mu.Lock()
		s.state = pkg.NOT_STARTED
		s.mu.Unlock()
		return util.WrapErrorf(err, util.ErrInternalServerError, "location subscribe failed")
	}

	s.mu.Lock()
	s.sub = sub
	if s.stopped {
		// Stop raced the subscribe
		sub.Unsubscribe()
	}
	s.mu.Unlock()
	return nil
}

// HandleSample runs one full progress transition for a position sample:
// distance to the next turn, trip accumulation, battery estimate, voice
// gate, step advancement and the low-battery edge check, in that order.
func (s *Session) HandleSample(sample *datastructure.GPSSample) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != pkg.NAVIGATING {
		return
	}

	n := s.route.NumInstructions()
	if s.stepIndex >= n {
		return
	}

	instruction := s.route.GetInstruction(s.stepIndex)
	target := instruction.GetPoint()
	s.distanceToNextTurn = geo.DistanceMeters(sample.Lat(), sample.Lon(), target.Lat, target.Lon)
	s.snapped = geo.SnapToPolyline(s.route.GetGeometry(), sample.Coordinate())

	if s.lastSample != nil {
		deltaKm := geo.CalculateHaversineDistance(s.lastSample.Lat(), s.lastSample.Lon(),
			sample.Lat(), sample.Lon())
		s.stats.AddDistanceKm(deltaKm)
		s.stats.AddDuration(sample.Time().Sub(s.lastSample.Time()))
	}
	s.lastSample = sample

	s.batteryPercent = battery.EstimateRemainingPercent(s.vehicle.StartPercent,
		s.vehicle.CapacityKwh, s.stats.DistanceDrivenKm(),
		s.route.GetTotalDistanceKm(), s.route.GetTotalEnergyKwh())
	if s.route.GetTotalDistanceKm() > 0 {
		s.stats.SetEnergyUsedKwh(s.stats.DistanceDrivenKm() *
			s.route.GetTotalEnergyKwh() / s.route.GetTotalDistanceKm())
	}

	s.announcer.onSample(s.stepIndex, s.distanceToNextTurn, instruction.GetVoiceText())

	if s.distanceToNextTurn <= pkg.ADVANCE_THRESHOLD_METERS {
		s.stepIndex++
		s.announcer.reset(s.stepIndex)
		if s.stepIndex == n {
			s.arriveLocked()
		}
	}

	if s.monitor.Update(s.batteryPercent) && s.state == pkg.NAVIGATING && !s.prompt.IsActive() {
		s.prompt = s.advisor.Suggest(sample.Coordinate())
		if s.prompt != nil {
			s.log.Info("low battery, suggesting charging stop",
				zap.Float64("battery_percent", s.batteryPercent),
				zap.String("charger", s.prompt.Charger.Name),
				zap.Float64("distance_meters", s.prompt.DistanceMeters))
		}
	}
}

// arriveLocked finishes the trip: stops updates and speech, builds the
// summary and reports the reward. Award failure is logged and swallowed, the
// summary is produced regardless. Caller holds the mutex.
func (s *Session) arriveLocked() {
	s.state = pkg.ARRIVED
	s.distanceToNextTurn = 0
	if s.sub != nil {
		s.sub.Unsubscribe()
	}
	s.speaker.Cancel()

	s.summary = newArrivalSummary(s.stats, s.batteryPercent)

	coins := s.summary.CoinsEarned
	distanceKm := s.summary.DistanceDrivenKm
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), awardTimeout)
		defer cancel()
		err := s.awarder.AwardCoins(ctx, coins, "navigation_completed",
			map[string]interface{}{"distance_km": util.RoundFloat(distanceKm, 2)})
		if err != nil {
			s.log.Warn("reward award failed", zap.Int("coins", coins), zap.Error(err))
		}
	}()

	s.log.Info("arrived at destination",
		zap.Float64("distance_driven_km", distanceKm),
		zap.Float64("battery_percent", s.batteryPercent),
		zap.Int("coins_earned", coins))
}

// RespondToPrompt consumes the active charging prompt. Accepting the detour
// is forwarded to the backend by the caller; the session only clears the
// advisory.
func (s *Session) RespondToPrompt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompt.Consume()
}

// Stop tears the session down: unsubscribes from the location stream and
// cancels any outstanding speech. Idempotent; an arrived session keeps its
// ARRIVED state.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	if s.sub != nil {
		s.sub.Unsubscribe()
	}
	s.speaker.Cancel()
	if s.state == pkg.NAVIGATING || s.state == pkg.NOT_STARTED {
		s.state = pkg.CANCELLED
	}
}

// Snapshot is a point-in-time view of session progress for the API layer.
type Snapshot struct {
	State                    string          `json:"state"`
	StepIndex                int             `json:"step_index"`
	NumInstructions          int             `json:"num_instructions"`
	CurrentInstruction       string          `json:"current_instruction,omitempty"`
	DistanceToNextTurnMeters float64         `json:"distance_to_next_turn_meters"`
	BatteryPercent           float64         `json:"battery_percent"`
	DistanceDrivenKm         float64         `json:"distance_driven_km"`
	EnergyUsedKwh            float64         `json:"energy_used_kwh"`
	DurationSeconds          float64         `json:"duration_seconds"`
	SnappedPosition          geo.Coordinate  `json:"snapped_position"`
	ChargingPrompt           *ChargingPrompt `json:"charging_prompt,omitempty"`
	ArrivalSummary           *ArrivalSummary `json:"arrival_summary,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		State:                    s.state.String(),
		StepIndex:                s.stepIndex,
		NumInstructions:          s.route.NumInstructions(),
		DistanceToNextTurnMeters: util.RoundFloat(s.distanceToNextTurn, 2),
		BatteryPercent:           util.RoundFloat(s.batteryPercent, 2),
		DistanceDrivenKm:         util.RoundFloat(s.stats.DistanceDrivenKm(), 3),
		EnergyUsedKwh:            util.RoundFloat(s.stats.EnergyUsedKwh(), 3),
		DurationSeconds:          s.stats.Duration().Seconds(),
		SnappedPosition:          s.snapped,
		ArrivalSummary:           s.summary,
	}
	if s.stepIndex < s.route.NumInstructions() {
		snap.CurrentInstruction = s.route.GetInstruction(s.stepIndex).GetText()
	}
	if s.prompt.IsActive() {
		snap.ChargingPrompt = s.prompt
	}
	return snap
}

func (s *Session) State() pkg.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) StepIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stepIndex
}
