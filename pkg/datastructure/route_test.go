package datastructure

import (
	"errors"
	"testing"

	"github.com/chargepilot/chargepilot/pkg/geo"
	"github.com/chargepilot/chargepilot/pkg/util"
)

func validGeometry() []geo.Coordinate {
	return []geo.Coordinate{
		geo.NewCoordinate(-7.7829, 110.3671),
		geo.NewCoordinate(-7.7830, 110.3700),
		geo.NewCoordinate(-7.7850, 110.3750),
	}
}

func validInstructions() []TurnInstruction {
	return []TurnInstruction{
		NewTurnInstruction(0, geo.NewCoordinate(-7.7830, 110.3700), MANEUVER_TURN,
			MODIFIER_LEFT, "Jalan Malioboro", "", "", 500, 60, nil),
		NewTurnInstruction(1, geo.NewCoordinate(-7.7850, 110.3750), MANEUVER_ARRIVE,
			MODIFIER_NONE, "", "", "", 700, 90, nil),
	}
}

func TestNewRouteValid(t *testing.T) {
	route, err := NewRoute(validGeometry(), validInstructions(), 1200, 150, 0.4, nil)
	if err != nil {
		t.Fatalf("valid route rejected: %v", err)
	}
	if route.NumInstructions() != 2 {
		t.Errorf("instruction count = %d, want 2", route.NumInstructions())
	}
	if route.GetTotalDistanceKm() != 1.2 {
		t.Errorf("total distance = %f km, want 1.2", route.GetTotalDistanceKm())
	}
}

func TestNewRouteRejectsMalformedData(t *testing.T) {
	badIndexInstructions := validInstructions()
	badIndexInstructions[1] = NewTurnInstruction(5, geo.NewCoordinate(-7.7850, 110.3750),
		MANEUVER_ARRIVE, MODIFIER_NONE, "", "", "", 700, 90, nil)

	testCases := []struct {
		name         string
		geometry     []geo.Coordinate
		instructions []TurnInstruction
		distance     float64
	}{
		{name: "empty geometry", geometry: nil, instructions: validInstructions(), distance: 1200},
		{name: "single waypoint", geometry: validGeometry()[:1], instructions: validInstructions(), distance: 1200},
		{name: "no instructions", geometry: validGeometry(), instructions: nil, distance: 1200},
		{name: "out of order indices", geometry: validGeometry(), instructions: badIndexInstructions, distance: 1200},
		{name: "negative distance", geometry: validGeometry(), instructions: validInstructions(), distance: -5},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRoute(tt.geometry, tt.instructions, tt.distance, 150, 0.4, nil)
			if err == nil {
				t.Fatal("malformed route accepted")
			}
			var werr *util.Error
			if !errors.As(err, &werr) || !errors.Is(werr.Code(), util.ErrBadParamInput) {
				t.Errorf("error code = %v, want ErrBadParamInput", err)
			}
		})
	}
}

func TestGetTurnDescription(t *testing.T) {
	testCases := []struct {
		name         string
		maneuverType ManeuverType
		modifier     ManeuverModifier
		street       string
		want         string
	}{
		{name: "turn left onto street", maneuverType: MANEUVER_TURN, modifier: MODIFIER_LEFT,
			street: "Jalan Malioboro", want: "Turn left onto Jalan Malioboro"},
		{name: "turn without street", maneuverType: MANEUVER_TURN, modifier: MODIFIER_SHARP_RIGHT,
			street: "", want: "Turn sharp right"},
		{name: "merge", maneuverType: MANEUVER_MERGE, modifier: MODIFIER_SLIGHT_LEFT,
			street: "Ring Road", want: "Merge slight left onto Ring Road"},
		{name: "keep at fork", maneuverType: MANEUVER_FORK, modifier: MODIFIER_RIGHT,
			street: "Jalan Solo", want: "Keep right onto Jalan Solo"},
		{name: "uturn", maneuverType: MANEUVER_TURN, modifier: MODIFIER_UTURN,
			street: "", want: "Make a U-turn"},
		{name: "continue", maneuverType: MANEUVER_CONTINUE, modifier: MODIFIER_NONE,
			street: "Jalan Solo", want: "Continue onto Jalan Solo"},
		{name: "arrive", maneuverType: MANEUVER_ARRIVE, modifier: MODIFIER_NONE,
			street: "", want: "You have arrived at your destination"},
		{name: "depart", maneuverType: MANEUVER_DEPART, modifier: MODIFIER_NONE,
			street: "Jalan Kaliurang", want: "Head toward Jalan Kaliurang"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			ins := NewTurnInstruction(0, geo.NewCoordinate(0, 0), tt.maneuverType,
				tt.modifier, tt.street, "", "", 100, 10, nil)
			if got := ins.GetTurnDescription(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseManeuver(t *testing.T) {
	if got := ParseManeuverType("Turn"); got != MANEUVER_TURN {
		t.Errorf("ParseManeuverType(Turn) = %v", got)
	}
	if got := ParseManeuverType("teleport"); got != MANEUVER_CONTINUE {
		t.Errorf("unknown maneuver should fall back to continue, got %v", got)
	}
	if got := ParseManeuverModifier("slight right"); got != MODIFIER_SLIGHT_RIGHT {
		t.Errorf("ParseManeuverModifier(slight right) = %v", got)
	}
	if got := ParseManeuverModifier(""); got != MODIFIER_NONE {
		t.Errorf("empty modifier should be none, got %v", got)
	}
}

func TestInstructionTextFallsBackToDescription(t *testing.T) {
	ins := NewTurnInstruction(0, geo.NewCoordinate(0, 0), MANEUVER_TURN,
		MODIFIER_LEFT, "Jalan Solo", "", "", 100, 10, nil)
	if ins.GetText() != "Turn left onto Jalan Solo" {
		t.Errorf("text fallback = %q", ins.GetText())
	}
	if ins.GetVoiceText() != ins.GetText() {
		t.Errorf("voice text fallback = %q", ins.GetVoiceText())
	}
}
