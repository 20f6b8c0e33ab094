package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/freefall/internal/dynamo"
)

const (
	DefaultChartWidth  = 70
	DefaultChartHeight = 15
)

// Chart plots Ec, Ep and Em against the sample index. asciigraph resamples
// the series to width columns.
func Chart(series *dynamo.Series, width, height int, th Theme) string {
	if series.Len() < 2 {
		return ""
	}
	if width <= 0 {
		width = DefaultChartWidth
	}
	if height <= 0 {
		height = DefaultChartHeight
	}

	return asciigraph.PlotMany(
		[][]float64{series.Kinetic(), series.Potential(), series.Mechanical()},
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Precision(1),
		asciigraph.SeriesColors(th.Kinetic, th.Potential, th.Mechanical),
		asciigraph.SeriesLegends("Ec", "Ep", "Em"),
		asciigraph.Caption(fmt.Sprintf("energy (J) over %.3f s", series.ImpactTime)),
	)
}
