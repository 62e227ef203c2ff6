// Package chart renders historical rate series as PNG line charts
package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/sig-0/fxfinder/storage/types"
)

const (
	width  = 1280
	height = 720
)

// ErrNotEnoughPoints is returned when the series can't form a line
var ErrNotEnoughPoints = errors.New("at least two points are required")

// Render writes the cash sell series of the currency to w, as a PNG
func Render(w io.Writer, currency types.Currency, points []*types.HistoricalPoint) error {
	if len(points) < 2 {
		return ErrNotEnoughPoints
	}

	var (
		x = make([]time.Time, len(points))
		y = make([]float64, len(points))

		low  = math.Inf(1)
		high = math.Inf(-1)
	)

	for i, p := range points {
		x[i] = p.Date.In(time.UTC)
		y[i] = p.Value.InexactFloat64()

		low = math.Min(low, y[i])
		high = math.Max(high, y[i])
	}

	// A flat series still needs a non-zero value range
	pad := (high - low) * 0.05
	if pad == 0 {
		pad = math.Max(math.Abs(high)*0.01, 0.0001)
	}

	rateFormatter := func(v any) string {
		return chart.FloatValueFormatterWithFormat(v, "%.4f")
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("TWD/%s cash sell", currency),
		Width:  width,
		Height: height,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Rate",
			ValueFormatter: rateFormatter,
			Range: &chart.ContinuousRange{
				Min: low - pad,
				Max: high + pad,
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    fmt.Sprintf("%s cash sell", currency),
				XValues: x,
				YValues: y,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("unable to render chart: %w", err)
	}

	return nil
}
