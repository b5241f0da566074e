package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chargepilot/chargepilot/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-polyline"
	"go.uber.org/zap"
)

func routeJSON(t *testing.T) []byte {
	t.Helper()
	encoded := polyline.EncodeCoords([][]float64{
		{-7.7829, 110.3671},
		{-7.7830, 110.3700},
		{-7.7850, 110.3750},
	})

	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"route": map[string]interface{}{
				"geometry":         string(encoded),
				"distance_meters":  1200.0,
				"duration_seconds": 150.0,
				"energy_kwh":       0.4,
				"instructions": []map[string]interface{}{
					{
						"index":       0,
						"location":    map[string]float64{"lat": -7.7830, "lon": 110.3700},
						"maneuver":    map[string]string{"type": "turn", "modifier": "left"},
						"street_name": "Jalan Malioboro",
						"voice_text":  "turn left onto Jalan Malioboro",
						"distance":    500.0,
						"duration":    60.0,
					},
					{
						"index":    1,
						"location": map[string]float64{"lat": -7.7850, "lon": 110.3750},
						"maneuver": map[string]string{"type": "arrive", "modifier": ""},
						"distance": 700.0,
						"duration": 90.0,
					},
				},
				"chargers": []map[string]interface{}{
					{
						"id":       "chg-1",
						"name":     "Malioboro Fast Charge",
						"location": map[string]float64{"lat": -7.7840, "lon": 110.3720},
					},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return body
}

func TestFetchRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/routes", r.URL.Path)
		assert.NotEmpty(t, r.URL.Query().Get("origin_lat"))
		w.Header().Set("Content-Type", "application/json")
		w.Write(routeJSON(t))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, zap.NewNop())
	route, err := client.FetchRoute(context.Background(),
		geo.NewCoordinate(-7.7829, 110.3671), geo.NewCoordinate(-7.7850, 110.3750))
	require.NoError(t, err)

	assert.Equal(t, 2, route.NumInstructions())
	assert.Equal(t, 3, len(route.GetGeometry()))
	assert.InDelta(t, 1.2, route.GetTotalDistanceKm(), 1e-9)
	assert.InDelta(t, 0.4, route.GetTotalEnergyKwh(), 1e-9)
	require.Len(t, route.GetChargers(), 1)
	assert.Equal(t, "chg-1", route.GetChargers()[0].ID)

	first := route.GetInstruction(0)
	assert.Equal(t, "turn left onto Jalan Malioboro", first.GetVoiceText())
	assert.InDelta(t, -7.7830, first.GetPoint().Lat, 1e-6)
}

func TestFetchRouteRejectsMalformedPayload(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "not json", body: "<html>backend down</html>"},
		{name: "bad geometry", body: `{"data":{"route":{"geometry":"","instructions":[{"index":0,"location":{"lat":0,"lon":0},"distance":1,"duration":1}],"distance_meters":100,"duration_seconds":10,"energy_kwh":1}}}`},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, 5*time.Second, zap.NewNop())
			_, err := client.FetchRoute(context.Background(),
				geo.NewCoordinate(0, 0), geo.NewCoordinate(1, 1))
			require.Error(t, err)
		})
	}
}

func TestFetchRouteNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no route", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, zap.NewNop())
	_, err := client.FetchRoute(context.Background(),
		geo.NewCoordinate(0, 0), geo.NewCoordinate(1, 1))
	require.Error(t, err)
}

func TestAwardCoins(t *testing.T) {
	var received awardRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/rewards/award", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, zap.NewNop())
	err := client.AwardCoins(context.Background(), 8, "navigation_completed",
		map[string]interface{}{"distance_km": 30.0})
	require.NoError(t, err)

	assert.Equal(t, 8, received.Amount)
	assert.Equal(t, "navigation_completed", received.Reason)
	assert.Equal(t, 30.0, received.Metadata["distance_km"])
}

func TestAwardCoinsNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, zap.NewNop())
	err := client.AwardCoins(context.Background(), 8, "navigation_completed", nil)
	require.Error(t, err)
}
