package navigation

import (
	"fmt"
	"testing"

	"github.com/chargepilot/chargepilot/pkg/datastructure"
	"github.com/chargepilot/chargepilot/pkg/geo"
)

func chargerAtDistance(id string, from geo.Coordinate, meters float64) datastructure.Charger {
	lat, lon := geo.GetDestinationPoint(from.Lat, from.Lon, 90, meters/1000.0)
	return datastructure.Charger{
		ID:       id,
		Name:     id,
		Location: geo.NewCoordinate(lat, lon),
	}
}

func TestFindNearest(t *testing.T) {
	pos := geo.NewCoordinate(-7.7829, 110.3671)

	testCases := []struct {
		name     string
		chargers []datastructure.Charger
		wantID   string
	}{
		{
			name: "picks the closest of three",
			chargers: []datastructure.Charger{
				chargerAtDistance("far-500", pos, 500),
				chargerAtDistance("near-50", pos, 50),
				chargerAtDistance("far-2000", pos, 2000),
			},
			wantID: "near-50",
		},
		{
			name: "first wins on equal distance",
			chargers: []datastructure.Charger{
				chargerAtDistance("first", pos, 100),
				chargerAtDistance("second", pos, 100),
			},
			wantID: "first",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got := FindNearest(pos, tt.chargers)
			if got == nil {
				t.Fatal("FindNearest returned nil for non-empty candidates")
			}
			if got.ID != tt.wantID {
				t.Errorf("got charger %s, want %s", got.ID, tt.wantID)
			}
		})
	}
}

func TestFindNearestEmpty(t *testing.T) {
	if got := FindNearest(geo.NewCoordinate(0, 0), nil); got != nil {
		t.Errorf("want nil on empty candidates, got %v", got)
	}
}

func TestAdvisorSuggestUsesIndexForLargeSets(t *testing.T) {
	pos := geo.NewCoordinate(-7.7829, 110.3671)

	chargers := make([]datastructure.Charger, 0, 200)
	for i := 0; i < 200; i++ {
		chargers = append(chargers, chargerAtDistance(fmt.Sprintf("c%d", i), pos, float64(100+i*50)))
	}

	advisor := NewAdvisor(chargers)
	prompt := advisor.Suggest(pos)
	if prompt == nil {
		t.Fatal("expected a prompt")
	}
	if prompt.Charger.ID != "c0" {
		t.Errorf("got %s, want nearest charger c0", prompt.Charger.ID)
	}
	if !prompt.IsActive() {
		t.Error("fresh prompt should be active")
	}

	prompt.Consume()
	if prompt.IsActive() {
		t.Error("consumed prompt should be inactive")
	}
}
