// Package present turns aggregated survey answers into map layers, chart
// series and downloadable files.
package present

import (
	"fmt"

	"github.com/golang/geo/s2"

	"github.com/hermecp/mapacuestionario/internal/analysis"
	"github.com/hermecp/mapacuestionario/internal/survey"
)

// MapPoint is one colored marker on the survey map.
type MapPoint struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Color   string  `json:"color"`
	Tooltip string  `json:"tooltip"`
	Value   string  `json:"value"`
}

// MapPoints returns one point per row with a non-null answer for column, in
// row order. The tooltip reads "<column>: <normalized value>".
func MapPoints(rows []survey.Row, column string, colors analysis.ColorAssignment) []MapPoint {
	points := make([]MapPoint, 0, len(rows))
	for _, r := range rows {
		raw, ok := r.Value(column)
		if !ok {
			continue
		}
		v := survey.Normalize(raw)
		points = append(points, MapPoint{
			Lat:     r.Latitude,
			Lon:     r.Longitude,
			Color:   colors.Lookup(v),
			Tooltip: fmt.Sprintf("%s: %s", column, v),
			Value:   v,
		})
	}
	return points
}

// Bounds is a lat/lon bounding box in degrees.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// MapView is the initial viewport of the map.
type MapView struct {
	CenterLat float64 `json:"center_lat"`
	CenterLon float64 `json:"center_lon"`
	Zoom      int     `json:"zoom"`
	Bounds    *Bounds `json:"bounds,omitempty"`
}

// Viewport centers the map on the bounding rectangle of points. With no
// points the fallback view is returned unchanged.
func Viewport(points []MapPoint, fallback MapView) MapView {
	if len(points) == 0 {
		return fallback
	}

	rect := s2.EmptyRect()
	for _, p := range points {
		rect = rect.AddPoint(s2.LatLngFromDegrees(p.Lat, p.Lon))
	}
	center := rect.Center()
	lo, hi := rect.Lo(), rect.Hi()

	return MapView{
		CenterLat: center.Lat.Degrees(),
		CenterLon: center.Lng.Degrees(),
		Zoom:      fallback.Zoom,
		Bounds: &Bounds{
			South: lo.Lat.Degrees(),
			West:  lo.Lng.Degrees(),
			North: hi.Lat.Degrees(),
			East:  hi.Lng.Degrees(),
		},
	}
}
