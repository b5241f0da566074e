package battery

import (
	"math"

	"github.com/chargepilot/chargepilot/pkg"
	"github.com/chargepilot/chargepilot/pkg/util"
)

// EstimateRemainingPercent. linear depletion model: energy used scales with
// distance driven against the route's total energy estimate. Result is
// clamped to [0, 100]. When the route total distance or the pack capacity is
// zero the start percent is returned unchanged.
func EstimateRemainingPercent(startPercent, capacityKwh, distanceDrivenKm,
	routeTotalDistanceKm, routeTotalEnergyKwh float64) float64 {
	if routeTotalDistanceKm == 0 || capacityKwh == 0 {
		return util.Clamp(startPercent, 0, 100)
	}

	energyPerKm := routeTotalEnergyKwh / routeTotalDistanceKm
	energyUsed := distanceDrivenKm * energyPerKm
	usedPercent := (energyUsed / capacityKwh) * 100.0

	if math.IsNaN(usedPercent) || math.IsInf(usedPercent, 0) {
		return util.Clamp(startPercent, 0, 100)
	}

	return util.Clamp(startPercent-usedPercent, 0, 100)
}

// LowBatteryMonitor fires exactly once per downward crossing of the alert
// threshold. While the estimate hovers below the threshold no further alerts
// fire; the monitor re-arms only after the level rises back above it.
type LowBatteryMonitor struct {
	threshold   float64
	prevPercent float64
}

func NewLowBatteryMonitor(startPercent float64) *LowBatteryMonitor {
	return &LowBatteryMonitor{
		threshold:   pkg.LOW_BATTERY_ALERT_PERCENT,
		prevPercent: util.Clamp(startPercent, 0, 100),
	}
}

// Update feeds the next battery estimate and reports whether the low-battery
// alert should fire for this sample.
func (m *LowBatteryMonitor) Update(currentPercent float64) bool {
	currentPercent = util.Clamp(currentPercent, 0, 100)
	crossed := m.prevPercent > m.threshold && currentPercent <= m.threshold
	m.prevPercent = currentPercent
	return crossed
}

func (m *LowBatteryMonitor) Previous() float64 {
	return m.prevPercent
}
