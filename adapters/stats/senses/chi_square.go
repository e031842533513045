package senses

import (
	"fmt"
	"math"

	"goimpact/domain/core"
	"goimpact/domain/impact"

	"gonum.org/v1/gonum/stat/distuv"
)

// yatesCorrection is subtracted from every |observed - expected| before
// squaring, floored at zero.
const yatesCorrection = 0.5

// ChiSquareResult holds Pearson's test of independence for a 2x2 table.
type ChiSquareResult struct {
	Statistic        float64               `json:"statistic"`
	PValue           float64               `json:"p_value"`
	DegreesOfFreedom int                   `json:"dof"`
	Expected         impact.FrequencyTable `json:"expected"`
}

// ChiSquare computes Pearson's chi-square statistic with Yates' continuity
// correction, its p-value on one degree of freedom and the expected
// frequencies E[i][j] = row[i] * col[j] / total.
func ChiSquare(t impact.ContingencyTable) (ChiSquareResult, error) {
	for i := 0; i < 2; i++ {
		if t.RowTotal(i) == 0 {
			return ChiSquareResult{}, core.NewDegenerateTableError(fmt.Sprintf("row %d total is zero", i))
		}
	}
	for j := 0; j < 2; j++ {
		if t.ColTotal(j) == 0 {
			return ChiSquareResult{}, core.NewDegenerateTableError(fmt.Sprintf("column %d total is zero", j))
		}
	}

	total := float64(t.Total())
	var expected impact.FrequencyTable
	chiSq := 0.0
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			e := float64(t.RowTotal(i)) * float64(t.ColTotal(j)) / total
			expected[i][j] = e

			diff := math.Max(math.Abs(float64(t[i][j])-e)-yatesCorrection, 0)
			chiSq += diff * diff / e
		}
	}

	const dof = 1
	pValue := distuv.ChiSquared{K: dof}.Survival(chiSq)

	return ChiSquareResult{
		Statistic:        chiSq,
		PValue:           pValue,
		DegreesOfFreedom: dof,
		Expected:         expected,
	}, nil
}

// EvaluateSignificance compares a p-value to alpha. A p-value equal to alpha
// is significant.
func EvaluateSignificance(pValue, alpha float64) impact.Significance {
	if pValue <= alpha {
		return impact.Significant
	}
	return impact.NotSignificant
}

// Residuals returns observed minus expected frequencies.
func Residuals(t impact.ContingencyTable, expected impact.FrequencyTable) impact.FrequencyTable {
	var out impact.FrequencyTable
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			out[i][j] = float64(t[i][j]) - expected[i][j]
		}
	}
	return out
}
