package present

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"

	"github.com/hermecp/mapacuestionario/internal/analysis"
)

// Format is a download format.
type Format string

// Supported download formats.
const (
	FormatCSV       Format = "csv"
	FormatPNG       Format = "png"
	FormatPDF       Format = "pdf"
	FormatXLSX      Format = "xlsx"
	FormatShapefile Format = "zip"
)

// Formats lists every format in menu order.
var Formats = []Format{FormatCSV, FormatPNG, FormatPDF, FormatXLSX, FormatShapefile}

// ParseFormat resolves a format name or file extension.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")))
	switch f {
	case FormatCSV, FormatPNG, FormatPDF, FormatXLSX, FormatShapefile:
		return f, nil
	case "shp":
		return FormatShapefile, nil
	default:
		return "", eris.Errorf("present: unknown export format %q", s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatShapefile:
		return "application/zip"
	default:
		return "application/octet-stream"
	}
}

// IsImage reports whether the format needs the chart renderer.
func (f Format) IsImage() bool {
	return f == FormatPNG || f == FormatPDF
}

const maxFileBaseBytes = 120

var fileNameReplacer = strings.NewReplacer(" ", "_", "/", "_", "\\", "_", "\"", "", "\n", "_", "\r", "")

// FileBase returns "frecuencia_<column>" with spaces replaced by
// underscores, or "puntos_<column>" for the shapefile layer.
func FileBase(column string, f Format) string {
	prefix := "frecuencia_"
	if f == FormatShapefile {
		prefix = "puntos_"
	}
	name := fileNameReplacer.Replace(column)
	for len(name) > maxFileBaseBytes {
		_, size := utf8.DecodeLastRuneInString(name)
		name = name[:len(name)-size]
	}
	return prefix + name
}

// FileName returns the download file name for column in format f.
func FileName(column string, f Format) string {
	return FileBase(column, f) + "." + string(f)
}

// ExportInput is everything one export needs for a single column selection.
type ExportInput struct {
	Column      string
	Frequencies []analysis.FrequencyRow
	Points      []MapPoint
}

// Exporter writes selections in any supported format.
type Exporter struct {
	renderer *Renderer
}

// NewExporter creates an Exporter. A nil or disabled renderer leaves only
// the non-image formats available.
func NewExporter(r *Renderer) *Exporter {
	return &Exporter{renderer: r}
}

// Available reports whether format f can be produced right now.
func (e *Exporter) Available(f Format) bool {
	if f.IsImage() {
		return e.renderer.Available()
	}
	return true
}

// Export writes in to w in format f.
func (e *Exporter) Export(w io.Writer, in ExportInput, f Format) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, in.Frequencies)
	case FormatPNG:
		return e.renderer.RenderPNG(w, ChartSeries(in.Column, in.Frequencies))
	case FormatPDF:
		return e.renderer.RenderPDF(w, ChartSeries(in.Column, in.Frequencies))
	case FormatXLSX:
		return WriteXLSX(w, in.Frequencies)
	case FormatShapefile:
		return WriteShapefileZip(w, FileBase(in.Column, f), in.Points)
	default:
		return eris.Errorf("present: unknown export format %q", f)
	}
}
