package spatialindex

import (
	"github.com/chargepilot/chargepilot/pkg/datastructure"
	"github.com/chargepilot/chargepilot/pkg/geo"
	"github.com/tidwall/rtree"
)

// Rtree indexes candidate chargers along the route so the advisor only
// scans candidates near the vehicle instead of the whole list.
type Rtree struct {
	tr   *rtree.RTreeG[datastructure.Charger]
	size int
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[datastructure.Charger]
	return &Rtree{
		tr: &tr,
	}
}

func (rt *Rtree) Build(chargers []datastructure.Charger) {
	for _, c := range chargers {
		loc := c.Location
		rt.tr.Insert([2]float64{loc.Lon, loc.Lat}, [2]float64{loc.Lon, loc.Lat}, c)
		rt.size++
	}
}

func (rt *Rtree) Size() int {
	return rt.size
}

// SearchWithinRadius returns all chargers inside the bounding box with
// radius (in km) around the query point (qLat, qLon).
func (rt *Rtree) SearchWithinRadius(qLat, qLon, radius float64) []datastructure.Charger {
	lowerLat, lowerLon := geo.GetDestinationPoint(qLat, qLon, 225, radius)
	upperLat, upperLon := geo.GetDestinationPoint(qLat, qLon, 45, radius)

	results := make([]datastructure.Charger, 0, 10)
	rt.tr.Search([2]float64{lowerLon, lowerLat}, [2]float64{upperLon, upperLat},
		func(min, max [2]float64, data datastructure.Charger) bool {
			results = append(results, data)
			return true
		})
	return results
}
