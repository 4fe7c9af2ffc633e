package present

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// wgs84PRJ is the projection sidecar for EPSG:4326 coordinates.
const wgs84PRJ = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`

// shapefileFields are the DBF attributes of each exported point.
var shapefileFields = []shp.Field{
	shp.StringField("VALOR", 254),
	shp.StringField("COLOR", 16),
	shp.FloatField("LAT", 16, 8),
	shp.FloatField("LON", 16, 8),
}

// WriteShapefileZip writes points as a zipped point shapefile named
// base.shp/.shx/.dbf/.prj.
func WriteShapefileZip(w io.Writer, base string, points []MapPoint) error {
	dir, err := os.MkdirTemp("", "mapa-shp-*")
	if err != nil {
		return eris.Wrap(err, "shapefile: create temp dir")
	}
	defer func() { _ = os.RemoveAll(dir) }()

	if err := writeShapefile(dir, base, points); err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	for _, ext := range []string{".shp", ".shx", ".dbf", ".prj"} {
		if err := addZipFile(zw, filepath.Join(dir, base+ext)); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return eris.Wrap(err, "shapefile: close zip")
	}

	zap.L().Debug("shapefile: exported points", zap.String("base", base), zap.Int("points", len(points)))
	return nil
}

// writeShapefile writes base.shp/.shx/.dbf/.prj into dir.
func writeShapefile(dir, base string, points []MapPoint) error {
	shpPath := filepath.Join(dir, base+".shp")
	sw, err := shp.Create(shpPath, shp.POINT)
	if err != nil {
		return eris.Wrapf(err, "shapefile: create %s", shpPath)
	}
	if err := sw.SetFields(shapefileFields); err != nil {
		sw.Close()
		return eris.Wrap(err, "shapefile: set dbf fields")
	}

	for _, p := range points {
		idx := int(sw.Write(&shp.Point{X: p.Lon, Y: p.Lat}))
		attrs := []any{
			fitField(p.Value, shapefileFields[0].Size),
			fitField(p.Color, shapefileFields[1].Size),
			p.Lat,
			p.Lon,
		}
		for field, v := range attrs {
			if err := sw.WriteAttribute(idx, field, v); err != nil {
				sw.Close()
				return eris.Wrapf(err, "shapefile: point %d attribute %d", idx, field)
			}
		}
	}
	sw.Close()

	if err := os.WriteFile(filepath.Join(dir, base+".prj"), []byte(wgs84PRJ), 0o644); err != nil {
		return eris.Wrap(err, "shapefile: write prj")
	}
	return nil
}

// fitField cuts s to at most size bytes without splitting a rune.
func fitField(s string, size uint8) string {
	n := int(size)
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func addZipFile(zw *zip.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return eris.Wrapf(err, "shapefile: open %s", filepath.Base(path))
	}
	defer f.Close() //nolint:errcheck

	entry, err := zw.Create(filepath.Base(path))
	if err != nil {
		return eris.Wrap(err, "shapefile: create zip entry")
	}
	if _, err := io.Copy(entry, f); err != nil {
		return eris.Wrap(err, "shapefile: write zip entry")
	}
	return nil
}
