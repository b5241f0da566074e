package controllers

import (
	"context"

	"github.com/chargepilot/chargepilot/pkg/datastructure"
	"github.com/chargepilot/chargepilot/pkg/geo"
	"github.com/chargepilot/chargepilot/pkg/navigation"
)

type NavigationService interface {
	StartNavigation(ctx context.Context, origin, destination geo.Coordinate,
		vehicle navigation.VehicleProfile) (string, navigation.Snapshot, error)
	FeedSample(sessionID string, sample *datastructure.GPSSample) (navigation.Snapshot, error)
	Progress(sessionID string) (navigation.Snapshot, error)
	RespondToPrompt(sessionID string) error
	Cancel(sessionID string) error
}
