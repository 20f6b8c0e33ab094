package export

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/freefall/internal/dynamo"
)

const (
	FigureWidth  = 10 * vg.Inch
	FigureHeight = 6 * vg.Inch
)

var (
	kineticColor   = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	potentialColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	totalColor     = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	referenceColor = color.RGBA{A: 128}
	markerColor    = color.RGBA{R: 128, G: 128, B: 128, A: 128}
)

// FileName encodes the scenario: energia_h{h:.1f}m_m{m:.1f}kg.{ext}.
func FileName(sc dynamo.Scenario, ext string) string {
	return fmt.Sprintf("energia_h%.1fm_m%.1fkg.%s", sc.Height, sc.Mass, ext)
}

// Figure plots Ec, Ep and Em over time with a reference line at the initial
// mechanical energy and a marker at the impact time.
func Figure(series *dynamo.Series, diag dynamo.Diagnostics) (*plot.Plot, error) {
	if series == nil || series.Len() < 2 {
		return nil, fmt.Errorf("figure: %w", dynamo.ErrTooFewSamples)
	}

	p := plot.New()
	p.Title.Text = "Energy of a body in free fall"
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Energy (J)"
	p.X.Label.TextStyle.Font.Size = vg.Points(12)
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)

	grid := plotter.NewGrid()
	grid.Vertical.Color = color.Gray{Y: 220}
	grid.Horizontal.Color = color.Gray{Y: 220}
	p.Add(grid)

	times := series.Times()
	curves := []struct {
		label  string
		values []float64
		color  color.Color
		width  vg.Length
		dashed bool
	}{
		{"Kinetic energy Ec(t)", series.Kinetic(), kineticColor, vg.Points(2), false},
		{"Potential energy Ep(t)", series.Potential(), potentialColor, vg.Points(2), false},
		{"Mechanical energy Em(t)", series.Mechanical(), totalColor, vg.Points(2.5), true},
	}

	for _, c := range curves {
		line, err := plotter.NewLine(toXYs(times, c.values))
		if err != nil {
			return nil, fmt.Errorf("figure %s: %w", c.label, err)
		}
		line.LineStyle.Width = c.width
		line.LineStyle.Color = c.color
		if c.dashed {
			line.LineStyle.Dashes = []vg.Length{vg.Points(8), vg.Points(4)}
		}
		p.Add(line)
		p.Legend.Add(c.label, line)
	}

	em0 := diag.InitialEnergy
	tMax := series.ImpactTime

	ref, err := plotter.NewLine(plotter.XYs{{X: 0, Y: em0}, {X: tMax, Y: em0}})
	if err != nil {
		return nil, err
	}
	ref.LineStyle.Width = vg.Points(1)
	ref.LineStyle.Color = referenceColor
	ref.LineStyle.Dashes = []vg.Length{vg.Points(1), vg.Points(3)}
	p.Add(ref)
	p.Legend.Add(fmt.Sprintf("Initial Em = %.2f J", em0), ref)

	marker, err := plotter.NewLine(plotter.XYs{{X: tMax, Y: 0}, {X: tMax, Y: em0 * 1.05}})
	if err != nil {
		return nil, err
	}
	marker.LineStyle.Width = vg.Points(1)
	marker.LineStyle.Color = markerColor
	marker.LineStyle.Dashes = []vg.Length{vg.Points(1), vg.Points(3)}
	p.Add(marker)

	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: tMax, Y: em0 / 2}},
		Labels: []string{fmt.Sprintf("Impact: %.2f s", tMax)},
	})
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Rotation = math.Pi / 2
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YTop
	}
	p.Add(labels)

	// Headroom keeps the legend clear of the Em line.
	p.Y.Min = 0
	p.Y.Max = em0 * 1.4
	p.X.Min = 0
	p.X.Max = tMax * 1.02
	p.Legend.Top = true
	p.Legend.TextStyle.Font.Size = vg.Points(11)

	return p, nil
}

func toXYs(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	return pts
}

// WritePNG rasterizes p at the given DPI.
func WritePNG(w io.Writer, p *plot.Plot, dpi int) error {
	c := vgimg.NewWith(
		vgimg.UseWH(FigureWidth, FigureHeight),
		vgimg.UseDPI(dpi),
	)
	p.Draw(draw.New(c))

	bw := bufio.NewWriter(w)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return bw.Flush()
}

func WriteSVG(w io.Writer, p *plot.Plot) error {
	wt, err := p.WriterTo(FigureWidth, FigureHeight, "svg")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// SaveFigure renders the figure into dir and returns the written path. On
// any error no figure file is left behind.
func SaveFigure(dir, format string, dpi int, series *dynamo.Series, diag dynamo.Diagnostics) (string, error) {
	var write func(io.Writer, *plot.Plot) error
	switch format {
	case "png":
		write = func(w io.Writer, p *plot.Plot) error { return WritePNG(w, p, dpi) }
	case "svg":
		write = WriteSVG
	default:
		return "", fmt.Errorf("unsupported figure format %q", format)
	}

	p, err := Figure(series, diag)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create directory: %w", err)
	}
	path := filepath.Join(dir, FileName(series.Scenario, format))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("cannot create figure: %w", err)
	}

	err = write(f, p)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
