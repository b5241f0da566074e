package usecases

import (
	"context"
	"sync"

	"github.com/chargepilot/chargepilot/pkg/datastructure"
	"github.com/chargepilot/chargepilot/pkg/geo"
	"github.com/chargepilot/chargepilot/pkg/location"
	"github.com/chargepilot/chargepilot/pkg/navigation"
	"github.com/chargepilot/chargepilot/pkg/speech"
	"github.com/chargepilot/chargepilot/pkg/util"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NavigationService owns the active sessions. One session per trip; samples
// are pushed in through FeedSample by the websocket ingest.
type NavigationService struct {
	log     *zap.Logger
	fetcher RouteFetcher
	awarder navigation.RewardAwarder
	synth   speech.Synthesizer

	mu       sync.RWMutex
	sessions map[string]*navigation.Session
}

func NewNavigationService(log *zap.Logger, fetcher RouteFetcher,
	awarder navigation.RewardAwarder, synth speech.Synthesizer) *NavigationService {
	return &NavigationService{
		log:      log,
		fetcher:  fetcher,
		awarder:  awarder,
		synth:    synth,
		sessions: make(map[string]*navigation.Session),
	}
}

// StartNavigation fetches a route from the backend and starts a session for
// it. Route fetch or validation failure refuses the session.
func (ns *NavigationService) StartNavigation(ctx context.Context, origin, destination geo.Coordinate,
	vehicle navigation.VehicleProfile) (string, navigation.Snapshot, error) {
	route, err := ns.fetcher.FetchRoute(ctx, origin, destination)
	if err != nil {
		return "", navigation.Snapshot{}, err
	}

	speaker := speech.NewSpeaker(ns.synth, ns.log)
	session, err := navigation.NewSession(route, vehicle, speaker, ns.awarder, ns.log)
	if err != nil {
		return "", navigation.Snapshot{}, err
	}
	if err := session.Start(ctx, location.NewManualProvider()); err != nil {
		return "", navigation.Snapshot{}, err
	}

	id := uuid.NewString()
	ns.mu.Lock()
	ns.sessions[id] = session
	ns.mu.Unlock()

	ns.log.Info("navigation session started",
		zap.String("session_id", id),
		zap.Float64("route_km", route.GetTotalDistanceKm()),
		zap.Int("instructions", route.NumInstructions()),
		zap.Int("chargers", len(route.GetChargers())))

	return id, session.Snapshot(), nil
}

func (ns *NavigationService) session(id string) (*navigation.Session, error) {
	ns.mu.RLock()
	session, ok := ns.sessions[id]
	ns.mu.RUnlock()
	if !ok {
		return nil, util.WrapErrorf(nil, util.ErrNotFound, "no session %s", id)
	}
	return session, nil
}

// FeedSample runs one progress transition and returns the resulting
// snapshot.
func (ns *NavigationService) FeedSample(sessionID string, sample *datastructure.GPSSample) (navigation.Snapshot, error) {
	session, err := ns.session(sessionID)
	if err != nil {
		return navigation.Snapshot{}, err
	}
	session.HandleSample(sample)
	return session.Snapshot(), nil
}

func (ns *NavigationService) Progress(sessionID string) (navigation.Snapshot, error) {
	session, err := ns.session(sessionID)
	if err != nil {
		return navigation.Snapshot{}, err
	}
	return session.Snapshot(), nil
}

// RespondToPrompt consumes an active charging prompt.
func (ns *NavigationService) RespondToPrompt(sessionID string) error {
	session, err := ns.session(sessionID)
	if err != nil {
		return err
	}
	session.RespondToPrompt()
	return nil
}

// Cancel tears the session down and forgets it. Safe to call twice; the
// second call reports not found.
func (ns *NavigationService) Cancel(sessionID string) error {
	session, err := ns.session(sessionID)
	if err != nil {
		return err
	}
	session.Stop()

	ns.mu.Lock()
	delete(ns.sessions, sessionID)
	ns.mu.Unlock()

	ns.log.Info("navigation session cancelled", zap.String("session_id", sessionID))
	return nil
}

// StopAll tears down every active session. Used on server shutdown.
func (ns *NavigationService) StopAll() {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	for id, session := range ns.sessions {
		session.Stop()
		delete(ns.sessions, id)
	}
}
