package controllers

import (
	"github.com/chargepilot/chargepilot/pkg/navigation"
)

type startNavigationRequest struct {
	OriginLat      float64 `json:"origin_lat" validate:"required,min=-90,max=90"`
	OriginLon      float64 `json:"origin_lon" validate:"required,min=-180,max=180"`
	DestinationLat float64 `json:"destination_lat" validate:"required,min=-90,max=90"`
	DestinationLon float64 `json:"destination_lon" validate:"required,min=-180,max=180"`
	CapacityKwh    float64 `json:"capacity_kwh" validate:"required,gt=0,max=300"`
	StartPercent   float64 `json:"start_percent" validate:"required,gt=0,max=100"`
}

type startNavigationResponse struct {
	SessionID string              `json:"session_id"`
	Progress  navigation.Snapshot `json:"progress"`
}

func NewStartNavigationResponse(sessionID string, snapshot navigation.Snapshot) startNavigationResponse {
	return startNavigationResponse{
		SessionID: sessionID,
		Progress:  snapshot,
	}
}

// gpsFrame is one websocket position push.
type gpsFrame struct {
	SessionID string  `json:"session_id" validate:"required"`
	Lat       float64 `json:"latitude" validate:"min=-90,max=90"`
	Lon       float64 `json:"longitude" validate:"min=-180,max=180"`
	Timestamp int64   `json:"timestamp"`
	Accuracy  float64 `json:"accuracy" validate:"min=0"`
	Speed     float64 `json:"speed" validate:"min=0"`
}
