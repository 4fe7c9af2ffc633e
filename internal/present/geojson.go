package present

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// PointsGeoJSON encodes points as a GeoJSON FeatureCollection. Each feature
// carries color, tooltip and value properties for the map layer.
func PointsGeoJSON(points []MapPoint) ([]byte, error) {
	fc := geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(points))}
	for _, p := range points {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: geom.NewPointFlat(geom.XY, []float64{p.Lon, p.Lat}),
			Properties: map[string]interface{}{
				"color":   p.Color,
				"tooltip": p.Tooltip,
				"value":   p.Value,
			},
		})
	}

	data, err := json.Marshal(&fc)
	if err != nil {
		return nil, eris.Wrap(err, "present: encode geojson")
	}
	return data, nil
}
