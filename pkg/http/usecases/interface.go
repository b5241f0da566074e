package usecases

import (
	"context"

	"github.com/chargepilot/chargepilot/pkg/datastructure"
	"github.com/chargepilot/chargepilot/pkg/geo"
)

type RouteFetcher interface {
	FetchRoute(ctx context.Context, origin, destination geo.Coordinate) (*datastructure.Route, error)
}
