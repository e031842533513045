package senses

import (
	"fmt"
	"strconv"

	"goimpact/domain/core"
	"goimpact/domain/impact"

	"github.com/montanaflynn/stats"
)

// FourFifthsThreshold is the adverse-impact cutoff; ratios at or above it pass.
const FourFifthsThreshold = 0.8

// FourFifthsResult is the adverse-impact ratio test outcome.
type FourFifthsResult struct {
	Ratio       float64                  `json:"ratio"`
	Verdict     impact.FourFifthsVerdict `json:"verdict"`
	Description string                   `json:"description"`
}

// FourFifths divides the target group's success rate by the other group's.
//
// The ratio is formed from counts, B*(C+D) / (D*(A+B)), which equals the
// ratio of the two percentages but rounds once, so a ratio of exactly four
// fifths compares equal to the threshold.
func FourFifths(t impact.ContingencyTable) (FourFifthsResult, error) {
	if t.RowTotal(0) == 0 {
		return FourFifthsResult{}, core.NewDivisionError("target group has no members")
	}
	if t.D() == 0 {
		return FourFifthsResult{}, core.NewDivisionError("other group success rate is zero")
	}

	ratio := (float64(t.B()) * float64(t.RowTotal(1))) / (float64(t.D()) * float64(t.RowTotal(0)))

	res := FourFifthsResult{Ratio: ratio, Verdict: impact.FourFifthsPass}
	if ratio < FourFifthsThreshold {
		res.Verdict = impact.FourFifthsFail
		res.Description = fmt.Sprintf("4/5ths Test failed at ratio of: %s.", formatRatio(ratio))
	} else {
		res.Description = fmt.Sprintf("4/5ths Test passed at a ratio of: %s.", formatRatio(ratio))
	}
	return res, nil
}

func formatRatio(ratio float64) string {
	rounded, err := stats.Round(ratio, 3)
	if err != nil {
		return strconv.FormatFloat(ratio, 'f', 3, 64)
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
