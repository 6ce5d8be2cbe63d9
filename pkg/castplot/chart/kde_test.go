package chart

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/integrate"
)

func TestScottBandwidth(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	// σ (n-1) = sqrt(32/7)
	want := math.Pow(8, -0.2) * math.Sqrt(32.0/7.0)
	if got := ScottBandwidth(values); math.Abs(got-want) > 1e-12 {
		t.Errorf("ScottBandwidth() = %v, want %v", got, want)
	}
}

func TestScottBandwidthDegenerate(t *testing.T) {
	for _, values := range [][]float64{nil, {3}, {5, 5, 5}} {
		if got := ScottBandwidth(values); got != 0 {
			t.Errorf("ScottBandwidth(%v) = %v, want 0", values, got)
		}
	}
}

func TestKDEGrid(t *testing.T) {
	values := []float64{3, 5, 8, 8, 12, 20}
	d := KDE(values, 40)

	if len(d.Coords) != 40 || len(d.Values) != 40 {
		t.Fatalf("expected 40 points, got %d/%d", len(d.Coords), len(d.Values))
	}
	if d.Coords[0] != 3 || d.Coords[39] != 20 {
		t.Errorf("grid spans [%v, %v], want [3, 20]", d.Coords[0], d.Coords[39])
	}
	for i, v := range d.Values {
		if v <= 0 || math.IsNaN(v) {
			t.Errorf("density[%d] = %v, want positive", i, v)
		}
	}
}

func TestKDEIntegratesBelowOne(t *testing.T) {
	values := []float64{10, 15, 15, 15, 15, 20}
	d := KDE(values, 200)

	// the grid is cut at the extrema, so tails are missing
	area := integrate.Trapezoidal(d.Coords, d.Values)
	if area <= 0.5 || area >= 1 {
		t.Errorf("area under density = %v, want in (0.5, 1)", area)
	}
}

func TestKDEPeakNearMode(t *testing.T) {
	values := []float64{1, 10, 10, 10, 10, 10, 11, 19}
	d := KDE(values, 181)

	best := 0
	for i := range d.Values {
		if d.Values[i] > d.Values[best] {
			best = i
		}
	}
	if math.Abs(d.Coords[best]-10) > 1 {
		t.Errorf("peak at %v, want near 10", d.Coords[best])
	}
	if d.Peak() != d.Values[best] {
		t.Errorf("Peak() = %v, want %v", d.Peak(), d.Values[best])
	}
}

func TestKDEDegenerate(t *testing.T) {
	if d := KDE([]float64{4, 4, 4}, 40); !d.Empty() {
		t.Error("constant sample should have no density")
	}
	if d := KDE(nil, 40); !d.Empty() || d.Peak() != 0 {
		t.Error("empty sample should have no density")
	}
	if d := KDE([]float64{1, 2}, 1); !d.Empty() {
		t.Error("fewer than two points should yield no density")
	}
}
