package chart

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Density is a kernel density estimate sampled on an even grid.
type Density struct {
	Coords []float64 // ascending, from sample min to sample max
	Values []float64
}

// Empty reports whether the density has no body to draw.
func (d Density) Empty() bool {
	return len(d.Coords) == 0
}

// Peak returns the largest density value.
func (d Density) Peak() float64 {
	if d.Empty() {
		return 0
	}
	return floats.Max(d.Values)
}

// ScottBandwidth returns the Gaussian kernel bandwidth n^(-1/5)·σ, with σ the
// sample standard deviation (n-1 denominator). It is 0 for fewer than two
// values or a constant sample.
func ScottBandwidth(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	sd := stat.StdDev(values, nil)
	if math.IsNaN(sd) || sd == 0 {
		return 0
	}
	return math.Pow(float64(n), -1.0/5.0) * sd
}

// KDE estimates the density of values with a Gaussian kernel and Scott's
// bandwidth, evaluated at points evenly spaced between the sample extrema.
// Samples with no spread have no density and yield an empty result.
func KDE(values []float64, points int) Density {
	bw := ScottBandwidth(values)
	if bw == 0 || points < 2 {
		return Density{}
	}

	lo, hi := floats.Min(values), floats.Max(values)
	coords := floats.Span(make([]float64, points), lo, hi)
	dens := make([]float64, points)

	n := float64(len(values))
	for _, x := range values {
		kernel := distuv.Normal{Mu: x, Sigma: bw}
		for i, y := range coords {
			dens[i] += kernel.Prob(y) / n
		}
	}
	return Density{Coords: coords, Values: dens}
}
