package navigation

import (
	"math"
	"time"

	"github.com/chargepilot/chargepilot/pkg"
)

// TripStats accumulates distance, energy and duration over a session.
// Distance is accumulated from deltas between consecutive raw samples, not
// from distance-to-turn, since the vehicle may deviate from the planned
// polyline.
type TripStats struct {
	distanceDrivenKm float64
	energyUsedKwh    float64
	duration         time.Duration
}

func (ts *TripStats) AddDistanceKm(km float64) {
	if km > 0 {
		ts.distanceDrivenKm += km
	}
}

func (ts *TripStats) AddDuration(d time.Duration) {
	if d > 0 {
		ts.duration += d
	}
}

func (ts *TripStats) SetEnergyUsedKwh(kwh float64) {
	if kwh >= 0 {
		ts.energyUsedKwh = kwh
	}
}

func (ts *TripStats) DistanceDrivenKm() float64 {
	return ts.distanceDrivenKm
}

func (ts *TripStats) EnergyUsedKwh() float64 {
	return ts.energyUsedKwh
}

func (ts *TripStats) Duration() time.Duration {
	return ts.duration
}

// CoinsEarned computes the arrival reward: base reward plus one coin per
// ten kilometers driven. The formula is fixed by the reward backend.
func CoinsEarned(distanceDrivenKm float64) int {
	return int(math.Floor(distanceDrivenKm/pkg.COIN_REWARD_PER_KM)) + pkg.COIN_BASE_REWARD
}

// ArrivalSummary is the trip report shown when the route completes.
type ArrivalSummary struct {
	DistanceDrivenKm float64 `json:"distance_driven_km"`
	EnergyUsedKwh    float64 `json:"energy_used_kwh"`
	DurationSeconds  float64 `json:"duration_seconds"`
	BatteryPercent   float64 `json:"battery_percent"`
	CoinsEarned      int     `json:"coins_earned"`
}

func newArrivalSummary(stats *TripStats, batteryPercent float64) *ArrivalSummary {
	return &ArrivalSummary{
		DistanceDrivenKm: stats.DistanceDrivenKm(),
		EnergyUsedKwh:    stats.EnergyUsedKwh(),
		DurationSeconds:  stats.Duration().Seconds(),
		BatteryPercent:   batteryPercent,
		CoinsEarned:      CoinsEarned(stats.DistanceDrivenKm()),
	}
}
