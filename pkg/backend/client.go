package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/chargepilot/chargepilot/pkg/datastructure"
	"github.com/chargepilot/chargepilot/pkg/geo"
	"github.com/chargepilot/chargepilot/pkg/util"
	"github.com/twpayne/go-polyline"
	"go.uber.org/zap"
)

// Client talks to the charging backend: route computation, candidate
// chargers and reward crediting. The engine never computes routes itself.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

type routeResponse struct {
	Data struct {
		Route routePayload `json:"route"`
	} `json:"data"`
}

type routePayload struct {
	Geometry        string                  `json:"geometry"` // encoded polyline5
	DistanceMeters  float64                 `json:"distance_meters"`
	DurationSeconds float64                 `json:"duration_seconds"`
	EnergyKwh       float64                 `json:"energy_kwh"`
	Instructions    []instructionPayload    `json:"instructions"`
	Chargers        []datastructure.Charger `json:"chargers"`
}

type instructionPayload struct {
	Index    int            `json:"index"`
	Location geo.Coordinate `json:"location"`
	Maneuver struct {
		Type     string `json:"type"`
		Modifier string `json:"modifier"`
	} `json:"maneuver"`
	StreetName string               `json:"street_name"`
	Text       string               `json:"text"`
	VoiceText  string               `json:"voice_text"`
	Distance   float64              `json:"distance"`
	Duration   float64              `json:"duration"`
	Lanes      []datastructure.Lane `json:"lanes,omitempty"`
}

// FetchRoute asks the backend for a route between origin and destination and
// validates the payload into an immutable Route. A malformed payload is a
// fatal input error; the session must refuse to start.
func (c *Client) FetchRoute(ctx context.Context, origin, destination geo.Coordinate) (*datastructure.Route, error) {
	query := url.Values{}
	query.Set("origin_lat", fmt.Sprintf("%f", origin.Lat))
	query.Set("origin_lon", fmt.Sprintf("%f", origin.Lon))
	query.Set("destination_lat", fmt.Sprintf("%f", destination.Lat))
	query.Set("destination_lon", fmt.Sprintf("%f", destination.Lon))

	endpoint := fmt.Sprintf("%s/api/routes?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "build route request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "route fetch failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, util.WrapErrorf(nil, util.ErrInternalServerError,
			"route fetch returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "malformed route payload")
	}

	return buildRoute(parsed.Data.Route)
}

func buildRoute(payload routePayload) (*datastructure.Route, error) {
	coords, _, err := polyline.DecodeCoords([]byte(payload.Geometry))
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "malformed route geometry")
	}

	geometry := make([]geo.Coordinate, len(coords))
	for i, c := range coords {
		geometry[i] = geo.NewCoordinate(c[0], c[1])
	}

	instructions := make([]datastructure.TurnInstruction, len(payload.Instructions))
	for i, ins := range payload.Instructions {
		instructions[i] = datastructure.NewTurnInstruction(
			ins.Index,
			ins.Location,
			datastructure.ParseManeuverType(ins.Maneuver.Type),
			datastructure.ParseManeuverModifier(ins.Maneuver.Modifier),
			ins.StreetName,
			ins.Text,
			ins.VoiceText,
			ins.Distance,
			ins.Duration,
			ins.Lanes,
		)
	}

	return datastructure.NewRoute(geometry, instructions,
		payload.DistanceMeters, payload.DurationSeconds, payload.EnergyKwh,
		payload.Chargers)
}

type awardRequest struct {
	Amount   int                    `json:"amount"`
	Reason   string                 `json:"reason"`
	Metadata map[string]interface{} `json:"metadata"`
}

// AwardCoins credits the arrival reward. Callers treat failure as
// non-fatal; the engine logs and swallows it.
func (c *Client) AwardCoins(ctx context.Context, amount int, reason string,
	metadata map[string]interface{}) error {
	body, err := json.Marshal(awardRequest{
		Amount:   amount,
		Reason:   reason,
		Metadata: metadata,
	})
	if err != nil {
		return util.WrapErrorf(err, util.ErrInternalServerError, "encode award request")
	}

	endpoint := fmt.Sprintf("%s/api/rewards/award", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return util.WrapErrorf(err, util.ErrInternalServerError, "build award request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return util.WrapErrorf(err, util.ErrInternalServerError, "award call failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return util.WrapErrorf(nil, util.ErrInternalServerError,
			"award call returned %d", resp.StatusCode)
	}

	c.log.Debug("reward credited", zap.Int("amount", amount), zap.String("reason", reason))
	return nil
}
