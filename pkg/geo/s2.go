package geo

import (
	"github.com/golang/geo/s2"
)

func ProjectPointToLineCoord(pointA Coordinate, pointB Coordinate,
	snap Coordinate) Coordinate {
	pointAS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(pointA.Lat, pointA.Lon))
	pointBS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(pointB.Lat, pointB.Lon))
	snapS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(snap.Lat, snap.Lon))
	projection := s2.Project(snapS2, pointAS2, pointBS2)
	projectLatLng := s2.LatLngFromPoint(projection)
	return NewCoordinate(projectLatLng.Lat.Degrees(), projectLatLng.Lng.Degrees())
}

// PointLinePerpendicularDistance. distance in meter from snap to segment (pointA, pointB)
func PointLinePerpendicularDistance(pointA Coordinate, pointB Coordinate,
	snap Coordinate) float64 {
	projectionPoint := ProjectPointToLineCoord(pointA, pointB, snap)

	return DistanceMeters(snap.GetLat(), snap.GetLon(), projectionPoint.GetLat(), projectionPoint.GetLon())
}

// SnapToPolyline projects a raw gps fix onto the nearest segment of the
// route geometry. Used for the displayed position only, never for
// advancement decisions.
func SnapToPolyline(polyline []Coordinate, fix Coordinate) Coordinate {
	if len(polyline) == 0 {
		return fix
	}
	if len(polyline) == 1 {
		return polyline[0]
	}

	best := polyline[0]
	bestDist := DistanceMeters(fix.Lat, fix.Lon, best.Lat, best.Lon)
	for i := 0; i+1 < len(polyline); i++ {
		projected := ProjectPointToLineCoord(polyline[i], polyline[i+1], fix)
		dist := DistanceMeters(fix.Lat, fix.Lon, projected.Lat, projected.Lon)
		if dist < bestDist {
			bestDist = dist
			best = projected
		}
	}
	return best
}
