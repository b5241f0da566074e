package datastructure

import (
	"time"

	"github.com/chargepilot/chargepilot/pkg/geo"
)

type GPSSample struct {
	lat      float64
	lon      float64
	time     time.Time
	accuracy float64 // horizontal accuracy radius in meter
	speed    float64 // meter/second, 0 when the provider does not report it
}

func NewGPSSample(lat, lon float64, t time.Time, accuracy, speed float64) *GPSSample {
	return &GPSSample{
		lat:      lat,
		lon:      lon,
		time:     t,
		accuracy: accuracy,
		speed:    speed,
	}
}

func (gp *GPSSample) Lat() float64 {
	return gp.lat
}

func (gp *GPSSample) Lon() float64 {
	return gp.lon
}

func (gp *GPSSample) Time() time.Time {
	return gp.time
}

func (gp *GPSSample) Accuracy() float64 {
	return gp.accuracy
}

func (gp *GPSSample) Speed() float64 {
	return gp.speed
}

func (gp *GPSSample) Coordinate() geo.Coordinate {
	return geo.NewCoordinate(gp.lat, gp.lon)
}
