package senses

import (
	"goimpact/domain/core"
	"goimpact/domain/impact"
)

// TableMetrics are the per-group success percentages and the diagonal
// comparison used to pick narrative phrasing.
type TableMetrics struct {
	TargetSuccessRate float64 `json:"target_success_rate"`
	OtherSuccessRate  float64 `json:"other_success_rate"`
	DiagonalDominant  bool    `json:"diagonal_dominant"`
}

// ComputeTableMetrics derives success rates (in percent) for both groups.
func ComputeTableMetrics(t impact.ContingencyTable) (TableMetrics, error) {
	if t.RowTotal(0) == 0 {
		return TableMetrics{}, core.NewDivisionError("target group has no members")
	}
	if t.RowTotal(1) == 0 {
		return TableMetrics{}, core.NewDivisionError("other group has no members")
	}
	return TableMetrics{
		TargetSuccessRate: successRate(t.B(), t.RowTotal(0)),
		OtherSuccessRate:  successRate(t.D(), t.RowTotal(1)),
		DiagonalDominant:  t.A()+t.D() > t.B()+t.C(),
	}, nil
}

func successRate(successes, members int) float64 {
	return 100 * float64(successes) / float64(members)
}
