package navigation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chargepilot/chargepilot/pkg"
	"github.com/chargepilot/chargepilot/pkg/datastructure"
	"github.com/chargepilot/chargepilot/pkg/geo"
	"github.com/chargepilot/chargepilot/pkg/location"
	"github.com/chargepilot/chargepilot/pkg/speech"
	"go.uber.org/zap"
)

type stubAwarder struct {
	called chan awardCall
	err    error
}

type awardCall struct {
	amount   int
	reason   string
	metadata map[string]interface{}
}

func newStubAwarder(err error) *stubAwarder {
	return &stubAwarder{called: make(chan awardCall, 1), err: err}
}

func (a *stubAwarder) AwardCoins(ctx context.Context, amount int, reason string,
	metadata map[string]interface{}) error {
	a.called <- awardCall{amount: amount, reason: reason, metadata: metadata}
	return a.err
}

// eastwardPoint returns the point km kilometers east of origin along the
// equator.
func eastwardPoint(origin geo.Coordinate, km float64) geo.Coordinate {
	lat, lon := geo.GetDestinationPoint(origin.Lat, origin.Lon, 90, km)
	return geo.NewCoordinate(lat, lon)
}

// thirtyKmRoute builds a 30 km route with turns at 10, 20 and 30 km.
func thirtyKmRoute(t *testing.T, chargers []datastructure.Charger) *datastructure.Route {
	t.Helper()
	origin := geo.NewCoordinate(0, 0)

	geometry := make([]geo.Coordinate, 0, 7)
	for km := 0.0; km <= 30.0; km += 5.0 {
		geometry = append(geometry, eastwardPoint(origin, km))
	}

	instructions := []datastructure.TurnInstruction{
		datastructure.NewTurnInstruction(0, eastwardPoint(origin, 10), datastructure.MANEUVER_TURN,
			datastructure.MODIFIER_LEFT, "Jalan Malioboro", "", "", 10000, 600, nil),
		datastructure.NewTurnInstruction(1, eastwardPoint(origin, 20), datastructure.MANEUVER_TURN,
			datastructure.MODIFIER_RIGHT, "Jalan Solo", "", "", 10000, 600, nil),
		datastructure.NewTurnInstruction(2, eastwardPoint(origin, 30), datastructure.MANEUVER_ARRIVE,
			datastructure.MODIFIER_NONE, "", "", "", 10000, 600, nil),
	}

	route, err := datastructure.NewRoute(geometry, instructions, 30000, 1800, 9, chargers)
	if err != nil {
		t.Fatalf("route construction failed: %v", err)
	}
	return route
}

func driveRoute(t *testing.T, s *Session, stepKm float64, totalKm float64) []int {
	t.Helper()
	origin := geo.NewCoordinate(0, 0)
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	visited := []int{s.StepIndex()}
	i := 0
	for km := 0.0; km <= totalKm+1e-9; km += stepKm {
		p := eastwardPoint(origin, km)
		s.HandleSample(datastructure.NewGPSSample(p.Lat, p.Lon,
			base.Add(time.Duration(i)*time.Minute), 5.0, 11.0))
		if cur := s.StepIndex(); cur != visited[len(visited)-1] {
			visited = append(visited, cur)
		}
		i++
	}
	return visited
}

type manualProvider struct{}

type manualSubscription struct{}

func (manualSubscription) Unsubscribe() {}

func (manualProvider) Subscribe(ctx context.Context, handler location.Handler) (location.Subscription, error) {
	return manualSubscription{}, nil
}

func startSession(t *testing.T, s *Session) {
	t.Helper()
	if err := s.Start(context.Background(), manualProvider{}); err != nil {
		t.Fatalf("Start: %v", err)
	}
}

func TestSessionEndToEnd(t *testing.T) {
	awarder := newStubAwarder(nil)
	speaker := speech.NewSpeaker(speech.NoopSynthesizer{}, zap.NewNop())
	session, err := NewSession(thirtyKmRoute(t, nil),
		VehicleProfile{CapacityKwh: 60, StartPercent: 80}, speaker, awarder, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	startSession(t, session)

	visited := driveRoute(t, session, 1.0, 30.0)

	// strictly ordered step progression, no skips, no repeats
	want := []int{0, 1, 2, 3}
	if len(visited) != len(want) {
		t.Fatalf("visited steps %v, want %v", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Fatalf("visited steps %v, want %v", visited, want)
		}
	}

	if session.State() != pkg.ARRIVED {
		t.Errorf("final state %s, want ARRIVED", session.State())
	}

	snap := session.Snapshot()
	if snap.ArrivalSummary == nil {
		t.Fatal("arrival summary missing")
	}
	if snap.ArrivalSummary.CoinsEarned != 8 {
		t.Errorf("coins earned = %d, want 8", snap.ArrivalSummary.CoinsEarned)
	}
	if snap.BatteryPercent < 64.5 || snap.BatteryPercent > 65.5 {
		t.Errorf("battery at arrival = %f, want about 65", snap.BatteryPercent)
	}
	if snap.DistanceDrivenKm < 29.5 || snap.DistanceDrivenKm > 30.5 {
		t.Errorf("distance driven = %f km, want about 30", snap.DistanceDrivenKm)
	}

	select {
	case call := <-awarder.called:
		if call.amount != 8 {
			t.Errorf("award amount = %d, want 8", call.amount)
		}
		if call.reason != "navigation_completed" {
			t.Errorf("award reason = %q, want navigation_completed", call.reason)
		}
		if _, ok := call.metadata["distance_km"]; !ok {
			t.Error("award metadata missing distance_km")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("award call never made")
	}
}

func TestSessionAwardFailureDoesNotBlockSummary(t *testing.T) {
	awarder := newStubAwarder(errors.New("backend unreachable"))
	speaker := speech.NewSpeaker(speech.NoopSynthesizer{}, zap.NewNop())
	session, err := NewSession(thirtyKmRoute(t, nil),
		VehicleProfile{CapacityKwh: 60, StartPercent: 80}, speaker, awarder, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	startSession(t, session)

	driveRoute(t, session, 1.0, 30.0)

	if session.State() != pkg.ARRIVED {
		t.Fatalf("final state %s, want ARRIVED", session.State())
	}
	if session.Snapshot().ArrivalSummary == nil {
		t.Error("summary must be produced even when the award call fails")
	}
	<-awarder.called
}

func TestSessionLowBatteryPrompt(t *testing.T) {
	origin := geo.NewCoordinate(0, 0)
	chargers := []datastructure.Charger{
		{ID: "far", Name: "far", Location: eastwardPoint(origin, 28)},
		{ID: "close", Name: "close", Location: eastwardPoint(origin, 16)},
	}

	// start at 25% so the 22% threshold is crossed mid-route
	awarder := newStubAwarder(nil)
	speaker := speech.NewSpeaker(speech.NoopSynthesizer{}, zap.NewNop())
	session, err := NewSession(thirtyKmRoute(t, chargers),
		VehicleProfile{CapacityKwh: 60, StartPercent: 25}, speaker, awarder, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	startSession(t, session)

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	var prompt *ChargingPrompt
	for km, i := 0.0, 0; km <= 30.0; km, i = km+1.0, i+1 {
		p := eastwardPoint(origin, km)
		session.HandleSample(datastructure.NewGPSSample(p.Lat, p.Lon,
			base.Add(time.Duration(i)*time.Minute), 5.0, 11.0))
		if got := session.Snapshot().ChargingPrompt; got != nil && prompt == nil {
			prompt = got
		}
	}

	if prompt == nil {
		t.Fatal("low battery never produced a charging prompt")
	}
	if prompt.Charger.ID != "close" {
		t.Errorf("prompt charger = %s, want the nearest (close)", prompt.Charger.ID)
	}

	session.RespondToPrompt()
	if session.Snapshot().ChargingPrompt != nil {
		t.Error("prompt still active after user response")
	}
	<-awarder.called
}

func TestSessionStopIsIdempotent(t *testing.T) {
	awarder := newStubAwarder(nil)
	speaker := speech.NewSpeaker(speech.NoopSynthesizer{}, zap.NewNop())
	session, err := NewSession(thirtyKmRoute(t, nil),
		VehicleProfile{CapacityKwh: 60, StartPercent: 80}, speaker, awarder, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	session.Stop()
	session.Stop()

	if session.State() != pkg.CANCELLED {
		t.Errorf("state after stop = %s, want CANCELLED", session.State())
	}

	// samples after teardown are ignored
	p := eastwardPoint(geo.NewCoordinate(0, 0), 1)
	session.HandleSample(datastructure.NewGPSSample(p.Lat, p.Lon, time.Now(), 5.0, 0))
	if session.StepIndex() != 0 {
		t.Error("cancelled session still advancing")
	}
}

func TestNewSessionRejectsBadInput(t *testing.T) {
	speaker := speech.NewSpeaker(speech.NoopSynthesizer{}, zap.NewNop())

	if _, err := NewSession(nil, VehicleProfile{CapacityKwh: 60, StartPercent: 80},
		speaker, newStubAwarder(nil), zap.NewNop()); err == nil {
		t.Error("nil route accepted")
	}
	if _, err := NewSession(thirtyKmRoute(t, nil), VehicleProfile{CapacityKwh: 60, StartPercent: 140},
		speaker, newStubAwarder(nil), zap.NewNop()); err == nil {
		t.Error("start charge above 100 accepted")
	}
}
