package contingency

import (
	"fmt"

	"goimpact/domain/core"
	"goimpact/domain/impact"
)

// minPopulatedCells is the fewest non-empty cells a table may have before the
// test is considered meaningless.
const minPopulatedCells = 2

// Build aggregates harmonized records into the 2x2 table.
//
// Rows whose outcome label is LabelNeither are skipped. Cell positions are
// fixed by label value, not by the order labels happen to appear in: target
// group in row 0, success outcome in column 1. Missing combinations stay at
// zero; fewer than two populated cells is an insufficient-data error.
func Build(records []impact.HarmonizedRecord) (impact.ContingencyTable, error) {
	var table impact.ContingencyTable

	for i, rec := range records {
		row, ok := rowIndex(rec.GroupLabel)
		if !ok {
			return impact.ContingencyTable{}, core.NewDataError("harmonized records",
				fmt.Sprintf("record %d has group label %d outside {0,1}", i, rec.GroupLabel))
		}
		col, ok := colIndex(rec.OutcomeLabel)
		if !ok {
			continue
		}
		table[row][col]++
	}

	if n := table.PopulatedCells(); n < minPopulatedCells {
		return impact.ContingencyTable{}, core.NewInsufficientDataError(
			fmt.Sprintf("%d of 4 group/outcome combinations observed, need at least %d", n, minPopulatedCells))
	}
	return table, nil
}

// Summarize counts the records reaching aggregation and those dropped for an
// unmatched outcome value.
func Summarize(records []impact.HarmonizedRecord) impact.Population {
	pop := impact.Population{Harmonized: len(records)}
	for _, rec := range records {
		if rec.OutcomeLabel == impact.LabelNeither {
			pop.ExcludedOutcome++
		}
	}
	return pop
}

func rowIndex(l impact.Label) (int, bool) {
	switch l {
	case impact.LabelTarget:
		return 0, true
	case impact.LabelOther:
		return 1, true
	}
	return 0, false
}

func colIndex(l impact.Label) (int, bool) {
	switch l {
	case impact.LabelOther:
		return 0, true
	case impact.LabelTarget:
		return 1, true
	}
	return 0, false
}
