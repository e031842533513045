package contingency

import (
	"testing"

	"goimpact/domain/core"
	"goimpact/domain/impact"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func records(pairs ...[2]impact.Label) []impact.HarmonizedRecord {
	out := make([]impact.HarmonizedRecord, len(pairs))
	for i, p := range pairs {
		out[i] = impact.HarmonizedRecord{Record: impact.RawRecord{}, GroupLabel: p[0], OutcomeLabel: p[1]}
	}
	return out
}

func repeat(n int, p [2]impact.Label) [][2]impact.Label {
	out := make([][2]impact.Label, n)
	for i := range out {
		out[i] = p
	}
	return out
}

var (
	targetFail    = [2]impact.Label{impact.LabelTarget, impact.LabelOther}
	targetSuccess = [2]impact.Label{impact.LabelTarget, impact.LabelTarget}
	otherFail     = [2]impact.Label{impact.LabelOther, impact.LabelOther}
	otherSuccess  = [2]impact.Label{impact.LabelOther, impact.LabelTarget}
	otherUnknown  = [2]impact.Label{impact.LabelOther, impact.LabelNeither}
)

func TestBuild_Orientation(t *testing.T) {
	// other-group rows first, success before failure: orientation must not follow input order
	var pairs [][2]impact.Label
	pairs = append(pairs, repeat(60, otherSuccess)...)
	pairs = append(pairs, repeat(40, otherFail)...)
	pairs = append(pairs, repeat(20, targetSuccess)...)
	pairs = append(pairs, repeat(80, targetFail)...)

	table, err := Build(records(pairs...))
	require.NoError(t, err)
	assert.Equal(t, impact.ContingencyTable{{80, 20}, {40, 60}}, table)
	assert.Equal(t, 80, table.A())
	assert.Equal(t, 20, table.B())
	assert.Equal(t, 40, table.C())
	assert.Equal(t, 60, table.D())
}

func TestBuild_ExcludesUnmatchedOutcomes(t *testing.T) {
	pairs := append(repeat(3, targetFail), repeat(2, otherSuccess)...)
	pairs = append(pairs, repeat(7, otherUnknown)...)

	recs := records(pairs...)
	table, err := Build(recs)
	require.NoError(t, err)
	assert.Equal(t, impact.ContingencyTable{{3, 0}, {0, 2}}, table)
	assert.Equal(t, 5, table.Total())

	pop := Summarize(recs)
	assert.Equal(t, impact.Population{Harmonized: 12, ExcludedOutcome: 7}, pop)
	assert.Equal(t, pop.Harmonized-pop.ExcludedOutcome, table.Total())
}

func TestBuild_ZeroFillsMissingCells(t *testing.T) {
	table, err := Build(records(targetFail, targetFail, otherFail))
	require.NoError(t, err)
	assert.Equal(t, impact.ContingencyTable{{2, 0}, {1, 0}}, table)
}

func TestBuild_InsufficientData(t *testing.T) {
	cases := map[string][]impact.HarmonizedRecord{
		"no records":          nil,
		"single cell":         records(repeat(10, targetSuccess)...),
		"only unmatched":      records(repeat(4, otherUnknown)...),
		"one cell plus noise": records(append(repeat(5, otherFail), otherUnknown)...),
	}
	for name, recs := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Build(recs)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrInsufficientData)
		})
	}
}

func TestBuild_RejectsLeakedGroupLabel(t *testing.T) {
	recs := records(targetFail, otherSuccess, [2]impact.Label{impact.LabelNeither, impact.LabelTarget})
	_, err := Build(recs)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrData)
}
