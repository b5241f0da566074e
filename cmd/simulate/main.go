package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/chargepilot/chargepilot/pkg"
	"github.com/chargepilot/chargepilot/pkg/backend"
	"github.com/chargepilot/chargepilot/pkg/config"
	"github.com/chargepilot/chargepilot/pkg/geo"
	"github.com/chargepilot/chargepilot/pkg/location"
	"github.com/chargepilot/chargepilot/pkg/logger"
	"github.com/chargepilot/chargepilot/pkg/navigation"
	"github.com/chargepilot/chargepilot/pkg/speech"
	"go.uber.org/zap"
)

var (
	configPath   = flag.String("config_path", "./config", "directory containing config.yaml")
	originLat    = flag.Float64("origin_lat", -7.7828, "trip origin latitude")
	originLon    = flag.Float64("origin_lon", 110.3671, "trip origin longitude")
	destLat      = flag.Float64("dest_lat", -6.1754, "trip destination latitude")
	destLon      = flag.Float64("dest_lon", 106.8272, "trip destination longitude")
	capacityKwh  = flag.Float64("capacity_kwh", 60.0, "vehicle battery capacity in kWh")
	startPercent = flag.Float64("start_percent", 80.0, "battery state of charge at departure")
)

// simulate drives a fetched route headless: a Simulator walks the route
// geometry emitting GPS fixes, voice cues go to the logger, and the arrival
// summary is printed when the session reaches the destination.
func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}

	cfg, err := config.Read(*configPath)
	if err != nil {
		panic(err)
	}

	backendClient := backend.NewClient(cfg.Backend.BaseURL,
		time.Duration(cfg.Backend.TimeoutSeconds)*time.Second, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	origin := geo.NewCoordinate(*originLat, *originLon)
	destination := geo.NewCoordinate(*destLat, *destLon)

	route, err := backendClient.FetchRoute(ctx, origin, destination)
	if err != nil {
		logger.Fatal("fetch route", zap.Error(err))
	}
	logger.Info("route fetched",
		zap.Float64("distance_km", route.GetTotalDistanceKm()),
		zap.Int("instructions", route.NumInstructions()))

	speaker := speech.NewSpeaker(speech.LogSynthesizer{Log: logger}, logger)
	session, err := navigation.NewSession(route,
		navigation.VehicleProfile{CapacityKwh: *capacityKwh, StartPercent: *startPercent},
		speaker, backendClient, logger)
	if err != nil {
		logger.Fatal("create session", zap.Error(err))
	}

	simulator := location.NewSimulator(route.GetGeometry(), cfg.Simulator.SpeedKmh,
		time.Duration(cfg.Simulator.IntervalMs)*time.Millisecond)
	if err := session.Start(ctx, simulator); err != nil {
		logger.Fatal("start session", zap.Error(err))
	}

	for session.State() == pkg.NAVIGATING {
		time.Sleep(time.Duration(cfg.Simulator.IntervalMs) * time.Millisecond)

		snapshot := session.Snapshot()
		if prompt := snapshot.ChargingPrompt; prompt != nil {
			logger.Info("charging stop suggested",
				zap.String("charger", prompt.Charger.Name),
				zap.Float64("distance_meters", prompt.DistanceMeters))
			session.RespondToPrompt()
		}
	}

	session.Stop()

	summary := session.Snapshot().ArrivalSummary
	if summary == nil {
		logger.Info("simulation ended before arrival")
		return
	}

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		logger.Fatal("marshal summary", zap.Error(err))
	}
	fmt.Fprintln(os.Stdout, string(out))
}
