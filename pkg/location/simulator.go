package location

import (
	"context"
	"time"

	"github.com/chargepilot/chargepilot/pkg/datastructure"
	"github.com/chargepilot/chargepilot/pkg/geo"
)

// Simulator walks a route polyline at a fixed speed, emitting a sample every
// interval. Intended for headless runs and tests; the stream ends when the
// polyline is exhausted.
type Simulator struct {
	polyline []geo.Coordinate
	speedKmh float64
	interval time.Duration
}

func NewSimulator(polyline []geo.Coordinate, speedKmh float64, interval time.Duration) *Simulator {
	if speedKmh <= 0 {
		speedKmh = 40.0
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Simulator{
		polyline: polyline,
		speedKmh: speedKmh,
		interval: interval,
	}
}

func (s *Simulator) Subscribe(ctx context.Context, handler Handler) (Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)
	sub := newSubscription(cancel)

	go s.run(ctx, handler)

	return sub, nil
}

func (s *Simulator) run(ctx context.Context, handler Handler) {
	strideKm := s.speedKmh * s.interval.Hours()
	speedMs := s.speedKmh / 3.6

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	if len(s.polyline) == 0 {
		return
	}

	pos := s.polyline[0]
	next := 1
	handler(datastructure.NewGPSSample(pos.Lat, pos.Lon, time.Now(), 5.0, 0))

	for next < len(s.polyline) {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		remaining := strideKm
		for next < len(s.polyline) && remaining > 0 {
			target := s.polyline[next]
			segKm := geo.CalculateHaversineDistance(pos.Lat, pos.Lon, target.Lat, target.Lon)
			if segKm <= remaining {
				pos = target
				next++
				remaining -= segKm
				continue
			}
			bearing := geo.Bearing(pos.Lat, pos.Lon, target.Lat, target.Lon)
			lat, lon := geo.GetDestinationPoint(pos.Lat, pos.Lon, bearing, remaining)
			pos = geo.NewCoordinate(lat, lon)
			remaining = 0
		}

		handler(datastructure.NewGPSSample(pos.Lat, pos.Lon, time.Now(), 5.0, speedMs))
	}
}
