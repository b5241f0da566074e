package navigation

import (
	"github.com/chargepilot/chargepilot/pkg"
	"github.com/chargepilot/chargepilot/pkg/datastructure"
	"github.com/chargepilot/chargepilot/pkg/geo"
	"github.com/chargepilot/chargepilot/pkg/spatialindex"
)

// FindNearest returns the closest charger to pos, or nil when candidates is
// empty. Ties keep the first candidate encountered.
func FindNearest(pos geo.Coordinate, candidates []datastructure.Charger) *datastructure.Charger {
	if len(candidates) == 0 {
		return nil
	}

	nearest := 0
	minDist := geo.DistanceMeters(pos.Lat, pos.Lon,
		candidates[0].Location.Lat, candidates[0].Location.Lon)
	for i := 1; i < len(candidates); i++ {
		dist := geo.DistanceMeters(pos.Lat, pos.Lon,
			candidates[i].Location.Lat, candidates[i].Location.Lon)
		if dist < minDist {
			minDist = dist
			nearest = i
		}
	}
	return &candidates[nearest]
}

// ChargingPrompt is the advisory shown once when battery crosses the low
// threshold. It is consumed by the user's response and never reused.
type ChargingPrompt struct {
	Charger        datastructure.Charger `json:"charger"`
	DistanceMeters float64               `json:"distance_meters"`
	active         bool
}

func (p *ChargingPrompt) IsActive() bool {
	return p != nil && p.active
}

// Consume marks the prompt answered. The response itself (add stop or keep
// driving) is the caller's concern; detour routing happens on the backend.
func (p *ChargingPrompt) Consume() {
	if p != nil {
		p.active = false
	}
}

// Advisor selects a detour candidate when the low-battery alert fires. Large
// candidate sets go through the r-tree first so the scan stays short.
type Advisor struct {
	chargers []datastructure.Charger
	index    *spatialindex.Rtree
}

func NewAdvisor(chargers []datastructure.Charger) *Advisor {
	a := &Advisor{chargers: chargers}
	if len(chargers) > pkg.CHARGER_PREFILTER_CUTOFF {
		a.index = spatialindex.NewRtree()
		a.index.Build(chargers)
	}
	return a
}

// Suggest returns an active prompt for the nearest charger, or nil when no
// candidate exists.
func (a *Advisor) Suggest(pos geo.Coordinate) *ChargingPrompt {
	candidates := a.chargers
	if a.index != nil {
		nearby := a.index.SearchWithinRadius(pos.Lat, pos.Lon, pkg.CHARGER_SEARCH_RADIUS_KM)
		if len(nearby) > 0 {
			candidates = nearby
		}
	}

	nearest := FindNearest(pos, candidates)
	if nearest == nil {
		return nil
	}

	return &ChargingPrompt{
		Charger: *nearest,
		DistanceMeters: geo.DistanceMeters(pos.Lat, pos.Lon,
			nearest.Location.Lat, nearest.Location.Lon),
		active: true,
	}
}
