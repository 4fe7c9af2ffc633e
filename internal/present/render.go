package present

import (
	"image/color"
	"io"
	"math"
	"strconv"

	"github.com/rotisserie/eris"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
)

// ErrBackendUnavailable is returned for image exports when chart rendering
// is disabled. CSV exports stay available.
var ErrBackendUnavailable = eris.New("present: chart rendering backend unavailable")

// DefaultDPI is the raster resolution of PNG charts.
const DefaultDPI = 300

// Renderer draws the frequency bar chart as PNG or PDF.
type Renderer struct {
	enabled bool
	dpi     int
}

// NewRenderer creates a Renderer. A disabled renderer reports every image
// format unavailable.
func NewRenderer(enabled bool, dpi int) *Renderer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Renderer{enabled: enabled, dpi: dpi}
}

// Available reports whether PNG and PDF charts can be produced.
func (r *Renderer) Available() bool {
	return r != nil && r.enabled
}

// RenderPNG writes the chart as a PNG at the renderer's DPI.
func (r *Renderer) RenderPNG(w io.Writer, s Series) error {
	if !r.Available() {
		return ErrBackendUnavailable
	}
	p, width, height, err := buildPlot(s)
	if err != nil {
		return err
	}

	c := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(r.dpi))
	p.Draw(draw.New(c))
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return eris.Wrap(err, "present: write png")
	}
	return nil
}

// RenderPDF writes the chart as a single-page PDF.
func (r *Renderer) RenderPDF(w io.Writer, s Series) error {
	if !r.Available() {
		return ErrBackendUnavailable
	}
	p, width, height, err := buildPlot(s)
	if err != nil {
		return err
	}

	c := vgpdf.New(width, height)
	p.Draw(draw.New(c))
	if _, err := c.WriteTo(w); err != nil {
		return eris.Wrap(err, "present: write pdf")
	}
	return nil
}

// chartSize widens the canvas with the number of categories: max(10, 0.6n)
// inches wide, 6 inches tall.
func chartSize(n int) (vg.Length, vg.Length) {
	w := math.Max(10, float64(n)*0.6)
	return vg.Length(w) * vg.Inch, 6 * vg.Inch
}

func buildPlot(s Series) (*plot.Plot, vg.Length, vg.Length, error) {
	width, height := chartSize(s.Len())

	p := plot.New()
	p.Title.Text = s.Title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Y.Label.Text = s.YLabel
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)
	p.Y.Tick.Marker = integerTicks{}
	p.Y.Min = 0

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	grid.Horizontal.Color = color.Gray{Y: 220}
	p.Add(grid)

	if s.Len() == 0 {
		p.X.Min, p.X.Max = 0, 1
		p.Y.Max = 1
		return p, width, height, nil
	}

	barWidth := (width - 1.5*vg.Inch) / vg.Length(s.Len()) * 0.7
	xys := make(plotter.XYs, s.Len())
	labels := make([]string, s.Len())
	for i, count := range s.Counts {
		bars, err := plotter.NewBarChart(plotter.Values{float64(count)}, barWidth)
		if err != nil {
			return nil, 0, 0, eris.Wrap(err, "present: build bar")
		}
		bars.XMin = float64(i)
		bars.Color = hexColor(s.Colors[i])
		bars.LineStyle.Width = 0
		p.Add(bars)

		xys[i] = plotter.XY{X: float64(i), Y: float64(count)}
		labels[i] = strconv.Itoa(count)
	}

	counts, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, 0, 0, eris.Wrap(err, "present: build count labels")
	}
	for i := range counts.TextStyle {
		counts.TextStyle[i].XAlign = draw.XCenter
		counts.TextStyle[i].Font.Size = vg.Points(10)
	}
	counts.Offset = vg.Point{Y: vg.Points(3)}
	p.Add(counts)

	p.NominalX(s.Labels...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Padding = 0
	p.Y.Max = float64(s.MaxCount())*1.12 + 1

	return p, width, height, nil
}

// integerTicks places major ticks on whole numbers only.
type integerTicks struct{}

func (integerTicks) Ticks(lo, hi float64) []plot.Tick {
	span := hi - lo
	step := 1.0
	for span/step > 10 {
		switch {
		case span/(step*2) <= 10:
			step *= 2
		case span/(step*5) <= 10:
			step *= 5
		default:
			step *= 10
		}
	}

	var ticks []plot.Tick
	for k := math.Ceil(lo / step); k*step <= hi; k++ {
		v := k * step
		ticks = append(ticks, plot.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', 0, 64)})
	}
	return ticks
}

// hexColor parses "#rrggbb"; anything else renders gray.
func hexColor(s string) color.Color {
	if len(s) != 7 || s[0] != '#' {
		return color.Gray{Y: 128}
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.Gray{Y: 128}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}
