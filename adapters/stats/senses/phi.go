package senses

import (
	"math"

	"goimpact/domain/impact"
)

// Phi returns the phi coefficient (A*D - B*C) / sqrt((A+B)(C+D)(A+C)(B+D)),
// or 0 when the denominator is zero.
func Phi(t impact.ContingencyTable) float64 {
	a, b, c, d := float64(t.A()), float64(t.B()), float64(t.C()), float64(t.D())

	denominator := math.Sqrt((a + b) * (c + d) * (a + c) * (b + d))
	if denominator == 0 {
		return 0
	}
	phi := (a*d - b*c) / denominator

	// rounding can push a perfect association a hair past the bound
	return math.Max(-1, math.Min(1, phi))
}

// BinPhi maps phi onto labels using edges as right-inclusive interval
// boundaries, with the lowest edge itself included in the first bin.
//
// Edges authored over a signed range (lowest edge negative) are matched
// against phi as-is; edges starting at zero or above are matched against
// |phi|. The second return value is false when phi falls outside every bin.
func BinPhi(phi float64, edges []float64, labels []string) (string, bool) {
	if len(edges) < 2 || len(labels) != len(edges)-1 {
		return "", false
	}

	v := phi
	if edges[0] >= 0 {
		v = math.Abs(phi)
	}

	if v == edges[0] {
		return labels[0], true
	}
	for i := 0; i+1 < len(edges); i++ {
		if v > edges[i] && v <= edges[i+1] {
			return labels[i], true
		}
	}
	return "", false
}
