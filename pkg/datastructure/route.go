package datastructure

import (
	"fmt"
	"math"
	"strings"

	"github.com/chargepilot/chargepilot/pkg/geo"
	"github.com/chargepilot/chargepilot/pkg/util"
)

// enum of maneuver type
type ManeuverType uint8

const (
	MANEUVER_DEPART ManeuverType = iota
	MANEUVER_TURN
	MANEUVER_CONTINUE
	MANEUVER_MERGE
	MANEUVER_FORK
	MANEUVER_RAMP
	MANEUVER_ROUNDABOUT
	MANEUVER_ARRIVE
)

func (m ManeuverType) String() string {
	switch m {
	case MANEUVER_DEPART:
		return "depart"
	case MANEUVER_TURN:
		return "turn"
	case MANEUVER_CONTINUE:
		return "continue"
	case MANEUVER_MERGE:
		return "merge"
	case MANEUVER_FORK:
		return "fork"
	case MANEUVER_RAMP:
		return "ramp"
	case MANEUVER_ROUNDABOUT:
		return "roundabout"
	case MANEUVER_ARRIVE:
		return "arrive"
	default:
		return "unknown"
	}
}

// enum of maneuver modifier
type ManeuverModifier uint8

const (
	MODIFIER_NONE ManeuverModifier = iota
	MODIFIER_UTURN
	MODIFIER_SHARP_LEFT
	MODIFIER_LEFT
	MODIFIER_SLIGHT_LEFT
	MODIFIER_STRAIGHT
	MODIFIER_SLIGHT_RIGHT
	MODIFIER_RIGHT
	MODIFIER_SHARP_RIGHT
)

func (m ManeuverModifier) String() string {
	switch m {
	case MODIFIER_UTURN:
		return "uturn"
	case MODIFIER_SHARP_LEFT:
		return "sharp left"
	case MODIFIER_LEFT:
		return "left"
	case MODIFIER_SLIGHT_LEFT:
		return "slight left"
	case MODIFIER_STRAIGHT:
		return "straight"
	case MODIFIER_SLIGHT_RIGHT:
		return "slight right"
	case MODIFIER_RIGHT:
		return "right"
	case MODIFIER_SHARP_RIGHT:
		return "sharp right"
	default:
		return ""
	}
}

var maneuverTypeNames = map[string]ManeuverType{
	"depart":     MANEUVER_DEPART,
	"turn":       MANEUVER_TURN,
	"continue":   MANEUVER_CONTINUE,
	"merge":      MANEUVER_MERGE,
	"fork":       MANEUVER_FORK,
	"ramp":       MANEUVER_RAMP,
	"roundabout": MANEUVER_ROUNDABOUT,
	"arrive":     MANEUVER_ARRIVE,
}

var maneuverModifierNames = map[string]ManeuverModifier{
	"uturn":        MODIFIER_UTURN,
	"sharp left":   MODIFIER_SHARP_LEFT,
	"left":         MODIFIER_LEFT,
	"slight left":  MODIFIER_SLIGHT_LEFT,
	"straight":     MODIFIER_STRAIGHT,
	"slight right": MODIFIER_SLIGHT_RIGHT,
	"right":        MODIFIER_RIGHT,
	"sharp right":  MODIFIER_SHARP_RIGHT,
}

func ParseManeuverType(s string) ManeuverType {
	if t, ok := maneuverTypeNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t
	}
	return MANEUVER_CONTINUE
}

func ParseManeuverModifier(s string) ManeuverModifier {
	if m, ok := maneuverModifierNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return m
	}
	return MODIFIER_NONE
}

// Lane. single lane guidance hint at a turn point.
type Lane struct {
	Indications []string `json:"indications"`
	Valid       bool     `json:"valid"`
}

type TurnInstruction struct {
	index        int
	point        geo.Coordinate
	maneuverType ManeuverType
	modifier     ManeuverModifier
	streetname   string
	text         string
	voiceText    string
	distance     float64 // meter, to this step
	duration     float64 // second, to this step
	lanes        []Lane
}

func NewTurnInstruction(index int, point geo.Coordinate, maneuverType ManeuverType,
	modifier ManeuverModifier, streetname, text, voiceText string,
	distance, duration float64, lanes []Lane) TurnInstruction {
	ins := TurnInstruction{
		index:        index,
		point:        point,
		maneuverType: maneuverType,
		modifier:     modifier,
		streetname:   streetname,
		text:         text,
		voiceText:    voiceText,
		distance:     distance,
		duration:     duration,
		lanes:        lanes,
	}

	if ins.text == "" {
		ins.text = ins.GetTurnDescription()
	}
	if ins.voiceText == "" {
		ins.voiceText = ins.text
	}
	return ins
}

func (ins *TurnInstruction) GetIndex() int {
	return ins.index
}

func (ins *TurnInstruction) GetPoint() geo.Coordinate {
	return ins.point
}

func (ins *TurnInstruction) GetManeuverType() ManeuverType {
	return ins.maneuverType
}

func (ins *TurnInstruction) GetModifier() ManeuverModifier {
	return ins.modifier
}

func (ins *TurnInstruction) GetStreetName() string {
	return ins.streetname
}

func (ins *TurnInstruction) GetText() string {
	return ins.text
}

func (ins *TurnInstruction) GetVoiceText() string {
	return ins.voiceText
}

func (ins *TurnInstruction) GetDistance() float64 {
	return ins.distance
}

func (ins *TurnInstruction) GetDuration() float64 {
	return ins.duration
}

func (ins *TurnInstruction) GetLanes() []Lane {
	return ins.lanes
}

func (ins *TurnInstruction) GetTurnDescription() string {
	streetName := ins.GetStreetName()
	var description string

	switch ins.maneuverType {
	case MANEUVER_DEPART:
		if isEmpty(streetName) {
			description = "Head out"
		} else {
			description = fmt.Sprintf("Head toward %s", streetName)
		}
	case MANEUVER_ARRIVE:
		description = "You have arrived at your destination"
	case MANEUVER_CONTINUE:
		if isEmpty(streetName) {
			description = "Continue"
		} else {
			description = fmt.Sprintf("Continue onto %s", streetName)
		}
	case MANEUVER_ROUNDABOUT:
		if isEmpty(streetName) {
			description = "Enter the roundabout"
		} else {
			description = fmt.Sprintf("At the roundabout, take the exit onto %s", streetName)
		}
	default:
		dir := directionDescription(ins.maneuverType, ins.modifier)
		if isEmpty(streetName) {
			description = dir
		} else {
			description = fmt.Sprintf("%s onto %s", dir, streetName)
		}
	}

	return description
}

func directionDescription(maneuverType ManeuverType, modifier ManeuverModifier) string {
	var verb string
	switch maneuverType {
	case MANEUVER_MERGE:
		verb = "Merge"
	case MANEUVER_FORK:
		verb = "Keep"
	case MANEUVER_RAMP:
		verb = "Take the ramp"
	default:
		verb = "Turn"
	}

	switch modifier {
	case MODIFIER_UTURN:
		return "Make a U-turn"
	case MODIFIER_STRAIGHT:
		if maneuverType == MANEUVER_FORK {
			return "Keep straight"
		}
		return "Continue straight"
	case MODIFIER_NONE:
		return verb
	default:
		return fmt.Sprintf("%s %s", verb, modifier.String())
	}
}

func isEmpty(str string) bool {
	return strings.TrimSpace(str) == ""
}

// Charger. candidate charging station along the route, fetched from the
// backend and read-only to the engine.
type Charger struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Address        string         `json:"address"`
	Location       geo.Coordinate `json:"location"`
	AvailablePorts int            `json:"available_ports"`
	PortTypes      []string       `json:"port_types"`
}

// Route. immutable planned route: ordered waypoint polyline, ordered turn
// instructions and trip totals. Instructions are consumed strictly in index
// order, no backtracking.
type Route struct {
	geometry             []geo.Coordinate
	instructions         []TurnInstruction
	totalDistanceMeters  float64
	totalDurationSeconds float64
	totalEnergyKwh       float64
	chargers             []Charger
}

func NewRoute(geometry []geo.Coordinate, instructions []TurnInstruction,
	totalDistanceMeters, totalDurationSeconds, totalEnergyKwh float64,
	chargers []Charger) (*Route, error) {
	if len(geometry) < 2 {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
			"route geometry must have at least 2 waypoints, got %d", len(geometry))
	}
	if len(instructions) == 0 {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "route has no turn instructions")
	}
	for i := range instructions {
		if instructions[i].GetIndex() != i {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
				"instruction at position %d has index %d, want sequential zero-based indices",
				i, instructions[i].GetIndex())
		}
		p := instructions[i].GetPoint()
		if p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
				"instruction %d target location out of range: %f,%f", i, p.Lat, p.Lon)
		}
	}
	for _, v := range []float64{totalDistanceMeters, totalDurationSeconds, totalEnergyKwh} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
				"route totals must be finite and non-negative")
		}
	}

	return &Route{
		geometry:             geometry,
		instructions:         instructions,
		totalDistanceMeters:  totalDistanceMeters,
		totalDurationSeconds: totalDurationSeconds,
		totalEnergyKwh:       totalEnergyKwh,
		chargers:             chargers,
	}, nil
}

func (r *Route) GetGeometry() []geo.Coordinate {
	return r.geometry
}

func (r *Route) GetInstructions() []TurnInstruction {
	return r.instructions
}

func (r *Route) GetInstruction(i int) *TurnInstruction {
	return &r.instructions[i]
}

func (r *Route) NumInstructions() int {
	return len(r.instructions)
}

func (r *Route) GetTotalDistanceMeters() float64 {
	return r.totalDistanceMeters
}

func (r *Route) GetTotalDistanceKm() float64 {
	return r.totalDistanceMeters / 1000.0
}

func (r *Route) GetTotalDurationSeconds() float64 {
	return r.totalDurationSeconds
}

func (r *Route) GetTotalEnergyKwh() float64 {
	return r.totalEnergyKwh
}

func (r *Route) GetChargers() []Charger {
	return r.chargers
}
