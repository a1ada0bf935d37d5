package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"ghginventory/internal/core"
)

// ChartKind selects one of the dashboard charts.
type ChartKind string

const (
	ChartSector ChartKind = "sector"
	ChartGas    ChartKind = "gas"
	ChartTotal  ChartKind = "total"
	ChartChange ChartKind = "change"
)

// ChartKinds lists every chart in display order.
var ChartKinds = []ChartKind{ChartSector, ChartGas, ChartTotal, ChartChange}

// Valid reports whether k names a known chart.
func (k ChartKind) Valid() bool {
	for _, c := range ChartKinds {
		if c == k {
			return true
		}
	}
	return false
}

// Title is the chart heading shown above the plot.
func (k ChartKind) Title() string {
	switch k {
	case ChartSector:
		return "Emissions by Sector Over Time"
	case ChartGas:
		return "Emissions by Gas Over Time"
	case ChartTotal:
		return "Total Emissions per Year"
	case ChartChange:
		return "Year-on-Year Change in Emissions (%)"
	}
	return string(k)
}

// Default chart size.
var (
	ChartWidth  = 8 * vg.Inch
	ChartHeight = 4 * vg.Inch
)

// RenderChart draws the chart of kind k for s as PNG.
func RenderChart(w io.Writer, k ChartKind, s core.Summary) error {
	p, err := BuildChart(k, s)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(ChartWidth, ChartHeight, "png")
	if err != nil {
		return fmt.Errorf("render %s chart: %w", k, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write %s chart: %w", k, err)
	}
	return nil
}

// BuildChart assembles the plot for kind k.
func BuildChart(k ChartKind, s core.Summary) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = k.Title()
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = core.ColumnYear
	p.Y.Label.Text = core.ColumnEmissions
	p.Add(plotter.NewGrid())

	var err error
	switch k {
	case ChartSector:
		series := make(map[string]plotter.XYs)
		for _, r := range s.BySector {
			series[r.Sector] = appendPoint(series[r.Sector], r.Year, r.EmissionsKg)
		}
		err = addLines(p, s.Sectors(), series)
	case ChartGas:
		series := make(map[string]plotter.XYs)
		for _, r := range s.ByGas {
			series[r.Gas] = appendPoint(series[r.Gas], r.Year, r.EmissionsKg)
		}
		err = addLines(p, s.Gases(), series)
	case ChartTotal:
		err = addTotals(p, s.Yearly)
	case ChartChange:
		p.Y.Label.Text = core.ColumnChange
		err = addChange(p, s.Yearly)
	default:
		return nil, fmt.Errorf("unknown chart %q", k)
	}
	if err != nil {
		return nil, fmt.Errorf("build %s chart: %w", k, err)
	}
	if k != ChartTotal {
		p.X.Tick.Marker = yearTicks{}
	}
	return p, nil
}

// appendPoint skips values gonum cannot plot.
func appendPoint(xys plotter.XYs, year int, v float64) plotter.XYs {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return xys
	}
	return append(xys, plotter.XY{X: float64(year), Y: v})
}

func addLines(p *plot.Plot, names []string, series map[string]plotter.XYs) error {
	for i, name := range names {
		pts := series[name]
		if len(pts) == 0 {
			continue
		}
		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(2)
		points.Color = plotutil.Color(i)
		points.Shape = draw.CircleGlyph{}
		p.Add(line, points)
		p.Legend.Add(name, line)
	}
	p.Legend.Top = true
	return nil
}

// unavailableLabel marks a year whose total is NaN or infinite. Its bar has
// no height; the label is what tells it apart from a real zero.
const unavailableLabel = " (n/a)"

func totalBars(yearly []core.YearlyTotal) (plotter.Values, []string) {
	values := make(plotter.Values, len(yearly))
	labels := make([]string, len(yearly))
	for i, y := range yearly {
		labels[i] = strconv.Itoa(y.Year)
		if math.IsNaN(y.EmissionsKg) || math.IsInf(y.EmissionsKg, 0) {
			labels[i] += unavailableLabel
			continue
		}
		values[i] = y.EmissionsKg
	}
	return values, labels
}

func addTotals(p *plot.Plot, yearly []core.YearlyTotal) error {
	if len(yearly) == 0 {
		return nil
	}
	values, labels := totalBars(yearly)
	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return err
	}
	bars.Color = plotutil.Color(0)
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(labels...)
	return nil
}

func addChange(p *plot.Plot, yearly []core.YearlyTotal) error {
	var pts plotter.XYs
	for _, y := range yearly {
		pts = appendPoint(pts, y.Year, y.ChangePct)
	}
	if len(pts) == 0 {
		return nil
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return err
	}
	line.Color = plotutil.Color(2)
	line.Width = vg.Points(2)
	points.Shape = draw.CircleGlyph{}
	points.Color = plotutil.Color(2)
	p.Add(line, points)
	return nil
}

// yearTicks labels whole years only.
type yearTicks struct{}

func (yearTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for y := math.Ceil(min); y <= max; y++ {
		ticks = append(ticks, plot.Tick{Value: y, Label: strconv.Itoa(int(y))})
	}
	return ticks
}
