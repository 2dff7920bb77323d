package viz

import (
	"github.com/guptarohit/asciigraph"
)

// TimeSeries plots one or more equally sampled series on a shared axis.
func TimeSeries(caption string, width, height int, series ...[]float64) string {
	if len(series) == 0 || len(series[0]) == 0 {
		return ""
	}

	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	}
	if len(series) == 1 {
		return asciigraph.Plot(series[0], opts...)
	}

	colors := []asciigraph.AnsiColor{asciigraph.Cyan, asciigraph.Magenta, asciigraph.Green}
	opts = append(opts, asciigraph.SeriesColors(colors[:min(len(series), len(colors))]...))
	return asciigraph.PlotMany(series, opts...)
}
