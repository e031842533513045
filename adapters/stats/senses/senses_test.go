package senses

import (
	"math"
	"testing"

	"goimpact/domain/core"
	"goimpact/domain/impact"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	biasedTable   = impact.ContingencyTable{{80, 20}, {40, 60}}
	balancedTable = impact.ContingencyTable{{50, 50}, {50, 50}}
)

func TestChiSquare_BiasedTable(t *testing.T) {
	res, err := ChiSquare(biasedTable)
	require.NoError(t, err)

	// E = [[60,40],[60,40]], |O-E| = 20, corrected to 19.5 in every cell
	want := 19.5 * 19.5 * (1.0/60 + 1.0/40 + 1.0/60 + 1.0/40)
	assert.InDelta(t, want, res.Statistic, 1e-9)
	assert.Equal(t, 1, res.DegreesOfFreedom)
	assert.Less(t, res.PValue, 1e-6)
	assert.Greater(t, res.PValue, 0.0)
	assert.Equal(t, impact.FrequencyTable{{60, 40}, {60, 40}}, res.Expected)
}

func TestChiSquare_BalancedTable(t *testing.T) {
	res, err := ChiSquare(balancedTable)
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.Statistic)
	assert.InDelta(t, 1.0, res.PValue, 1e-12)
	assert.Equal(t, impact.FrequencyTable{{50, 50}, {50, 50}}, res.Expected)
}

func TestChiSquare_YatesFloorsSmallDeviations(t *testing.T) {
	// |O-E| is about 0.24 in every cell, below the 0.5 correction
	res, err := ChiSquare(impact.ContingencyTable{{10, 10}, {10, 11}})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Statistic)
	assert.InDelta(t, 1.0, res.PValue, 1e-12)
}

func TestChiSquare_DegenerateMargins(t *testing.T) {
	tables := map[string]impact.ContingencyTable{
		"empty target row": {{0, 0}, {5, 5}},
		"empty other row":  {{5, 5}, {0, 0}},
		"no successes":     {{5, 0}, {7, 0}},
		"no non-successes": {{0, 3}, {0, 9}},
		"all zero":         {},
	}
	for name, tbl := range tables {
		t.Run(name, func(t *testing.T) {
			_, err := ChiSquare(tbl)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrDegenerateTable)
		})
	}
}

func TestEvaluateSignificance_Boundary(t *testing.T) {
	assert.Equal(t, impact.Significant, EvaluateSignificance(0.05, 0.05))
	assert.Equal(t, impact.Significant, EvaluateSignificance(0.049, 0.05))
	assert.Equal(t, impact.NotSignificant, EvaluateSignificance(math.Nextafter(0.05, 1), 0.05))
	assert.Equal(t, impact.NotSignificant, EvaluateSignificance(1.0, 0.05))
}

func TestResiduals(t *testing.T) {
	res, err := ChiSquare(biasedTable)
	require.NoError(t, err)
	assert.Equal(t, impact.FrequencyTable{{20, -20}, {-20, 20}}, Residuals(biasedTable, res.Expected))
}

func TestComputeTableMetrics(t *testing.T) {
	m, err := ComputeTableMetrics(biasedTable)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, m.TargetSuccessRate, 1e-12)
	assert.InDelta(t, 60.0, m.OtherSuccessRate, 1e-12)
	assert.True(t, m.DiagonalDominant)

	m, err = ComputeTableMetrics(balancedTable)
	require.NoError(t, err)
	assert.False(t, m.DiagonalDominant)

	_, err = ComputeTableMetrics(impact.ContingencyTable{{0, 0}, {3, 4}})
	assert.ErrorIs(t, err, core.ErrDivision)
	_, err = ComputeTableMetrics(impact.ContingencyTable{{3, 4}, {0, 0}})
	assert.ErrorIs(t, err, core.ErrDivision)
}

func TestPhi(t *testing.T) {
	assert.InDelta(t, 4000/math.Sqrt(100*100*120*80), Phi(biasedTable), 1e-12)
	assert.InDelta(t, -Phi(biasedTable), Phi(impact.ContingencyTable{{40, 60}, {80, 20}}), 1e-12)
	assert.Equal(t, 0.0, Phi(balancedTable))
	assert.Equal(t, 1.0, Phi(impact.ContingencyTable{{10, 0}, {0, 10}}))
	assert.Equal(t, -1.0, Phi(impact.ContingencyTable{{0, 10}, {10, 0}}))

	// zero denominator is defined as 0
	assert.Equal(t, 0.0, Phi(impact.ContingencyTable{{5, 5}, {0, 0}}))
}

func TestPhi_Bounded(t *testing.T) {
	for a := 0; a <= 6; a++ {
		for b := 0; b <= 6; b++ {
			for c := 0; c <= 6; c++ {
				for d := 0; d <= 6; d++ {
					phi := Phi(impact.ContingencyTable{{a, b}, {c, d}})
					if phi < -1 || phi > 1 || math.IsNaN(phi) {
						t.Fatalf("phi out of range for [[%d,%d],[%d,%d]]: %v", a, b, c, d, phi)
					}
				}
			}
		}
	}
}

func TestBinPhi_AbsoluteEdges(t *testing.T) {
	edges, labels := impact.DefaultPhiBins()

	tests := []struct {
		phi  float64
		want string
	}{
		{0, "negligible"},
		{0.1, "negligible"},
		{0.1000001, "small"},
		{0.3, "small"},
		{0.408, "medium"},
		{-0.408, "medium"},
		{0.75, "large"},
		{1, "large"},
		{-1, "large"},
	}
	for _, tt := range tests {
		got, ok := BinPhi(tt.phi, edges, labels)
		assert.True(t, ok, "phi=%v", tt.phi)
		assert.Equal(t, tt.want, got, "phi=%v", tt.phi)
	}
}

func TestBinPhi_SignedEdges(t *testing.T) {
	edges := []float64{-1, -0.3, 0.3, 1}
	labels := []string{"negative", "weak", "positive"}

	got, ok := BinPhi(-1, edges, labels)
	assert.True(t, ok)
	assert.Equal(t, "negative", got)

	got, _ = BinPhi(-0.3, edges, labels)
	assert.Equal(t, "negative", got)

	got, _ = BinPhi(-0.29, edges, labels)
	assert.Equal(t, "weak", got)

	got, _ = BinPhi(0.5, edges, labels)
	assert.Equal(t, "positive", got)

	got, ok = BinPhi(0.5, []float64{-0.2, 0.2}, []string{"weak"})
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestFourFifths(t *testing.T) {
	res, err := FourFifths(biasedTable)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3.0, res.Ratio, 1e-12)
	assert.Equal(t, impact.FourFifthsFail, res.Verdict)
	assert.Equal(t, "4/5ths Test failed at ratio of: 0.333.", res.Description)

	res, err = FourFifths(balancedTable)
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Ratio)
	assert.Equal(t, impact.FourFifthsPass, res.Verdict)
	assert.Equal(t, "4/5ths Test passed at a ratio of: 1.", res.Description)
}

func TestFourFifths_ExactThresholdPasses(t *testing.T) {
	// target 4/10 = 40%, other 5/10 = 50%
	res, err := FourFifths(impact.ContingencyTable{{6, 4}, {5, 5}})
	require.NoError(t, err)
	assert.Equal(t, FourFifthsThreshold, res.Ratio)
	assert.Equal(t, impact.FourFifthsPass, res.Verdict)

	// 8/25 = 32%, 40/100 = 40%
	res, err = FourFifths(impact.ContingencyTable{{17, 8}, {60, 40}})
	require.NoError(t, err)
	assert.Equal(t, FourFifthsThreshold, res.Ratio)
	assert.Equal(t, impact.FourFifthsPass, res.Verdict)
}

func TestFourFifths_ZeroOtherRate(t *testing.T) {
	_, err := FourFifths(impact.ContingencyTable{{5, 5}, {10, 0}})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDivision)
}
