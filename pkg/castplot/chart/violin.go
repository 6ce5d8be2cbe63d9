package chart

import (
	"image/color"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/cognicore/castplot/pkg/castplot/table"
)

var (
	defaultFill = color.NRGBA{R: 31, G: 119, B: 180, A: 77}
	defaultLine = color.NRGBA{R: 31, G: 119, B: 180, A: 255}
)

// Violin draws the density of one sample mirrored around an x position,
// with optional bars at the extrema and the median.
type Violin struct {
	Position float64
	Width    float64 // full width at the density peak, in data units

	Density Density
	Min     float64
	Max     float64
	Median  float64
	Count   int

	ShowExtrema bool
	ShowMedian  bool

	Fill color.Color
	Line draw.LineStyle
}

// NewViolin builds a violin for values at position. An empty sample yields a
// violin that draws nothing but still occupies its slot.
func NewViolin(position, width float64, points int, values []float64) *Violin {
	v := &Violin{
		Position:    position,
		Width:       width,
		Count:       len(values),
		ShowExtrema: true,
		ShowMedian:  true,
		Fill:        defaultFill,
		Line:        draw.LineStyle{Color: defaultLine, Width: vg.Points(1)},
	}
	if len(values) == 0 {
		return v
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	v.Min = floats.Min(sorted)
	v.Max = floats.Max(sorted)
	v.Median = table.Median(sorted)
	v.Density = KDE(sorted, points)
	return v
}

// Empty reports whether the violin has no data.
func (v *Violin) Empty() bool {
	return v.Count == 0
}

// Plot implements plot.Plotter.
func (v *Violin) Plot(c draw.Canvas, plt *plot.Plot) {
	if v.Empty() {
		return
	}
	trX, trY := plt.Transforms(&c)

	if !v.Density.Empty() {
		peak := v.Density.Peak()
		n := len(v.Density.Coords)
		outline := make([]vg.Point, 0, 2*n+1)
		for i := 0; i < n; i++ {
			half := 0.5 * v.Width * v.Density.Values[i] / peak
			outline = append(outline, vg.Point{X: trX(v.Position - half), Y: trY(v.Density.Coords[i])})
		}
		for i := n - 1; i >= 0; i-- {
			half := 0.5 * v.Width * v.Density.Values[i] / peak
			outline = append(outline, vg.Point{X: trX(v.Position + half), Y: trY(v.Density.Coords[i])})
		}
		c.FillPolygon(v.Fill, outline)
		c.StrokeLines(v.Line, append(outline, outline[0]))
	}

	left, right := trX(v.Position-0.25*v.Width), trX(v.Position+0.25*v.Width)
	if v.ShowExtrema {
		x := trX(v.Position)
		c.StrokeLine2(v.Line, x, trY(v.Min), x, trY(v.Max))
		c.StrokeLine2(v.Line, left, trY(v.Min), right, trY(v.Min))
		c.StrokeLine2(v.Line, left, trY(v.Max), right, trY(v.Max))
	}
	if v.ShowMedian {
		c.StrokeLine2(v.Line, left, trY(v.Median), right, trY(v.Median))
	}
}

// DataRange implements plot.DataRanger. An empty violin claims its x slot
// and leaves the y range to the others.
func (v *Violin) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = v.Position-v.Width/2, v.Position+v.Width/2
	if v.Empty() {
		return xmin, xmax, math.Inf(1), math.Inf(-1)
	}
	return xmin, xmax, v.Min, v.Max
}
