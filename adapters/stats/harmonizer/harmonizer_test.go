package harmonizer

import (
	"testing"

	"goimpact/domain/core"
	"goimpact/domain/impact"
	"goimpact/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(gender, outcome, title string) impact.RawRecord {
	return impact.RawRecord{
		testkit.ColumnGender:   gender,
		testkit.ColumnOutcome:  outcome,
		testkit.ColumnJobTitle: title,
	}
}

func table(rows ...impact.RawRecord) impact.Table {
	return impact.Table{
		Columns: []string{testkit.ColumnGender, testkit.ColumnOutcome, testkit.ColumnJobTitle},
		Records: rows,
		Source:  "test rows",
	}
}

func TestHarmonize_FiltersAndLabels(t *testing.T) {
	cfg := testkit.DefaultAnalysisConfig()
	in := table(
		row("Female", "hired", "analyst"),
		row("Male", "not_hired", "analyst"),
		row("Female", "not_hired", "engineer"), // wrong subgroup
		row("Male", "hired", "analyst"),
	)

	out, err := Harmonize(in, cfg)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, impact.LabelTarget, out[0].GroupLabel)
	assert.Equal(t, impact.LabelTarget, out[0].OutcomeLabel)
	assert.Equal(t, impact.LabelOther, out[1].GroupLabel)
	assert.Equal(t, impact.LabelOther, out[1].OutcomeLabel)
	assert.Equal(t, impact.LabelOther, out[2].GroupLabel)
	assert.Equal(t, impact.LabelTarget, out[2].OutcomeLabel)
	assert.Equal(t, "Male", out[2].Record[testkit.ColumnGender])
}

func TestHarmonize_DropsThirdGroupValue(t *testing.T) {
	cfg := testkit.DefaultAnalysisConfig()
	in := table(
		row("Female", "hired", "analyst"),
		row("Other", "hired", "analyst"),
		row("Male", "not_hired", "analyst"),
	)

	out, err := Harmonize(in, cfg)
	require.NoError(t, err)
	require.Len(t, out, 2)
	for _, rec := range out {
		assert.NotEqual(t, "Other", rec.Record[testkit.ColumnGender])
		assert.NotEqual(t, impact.LabelNeither, rec.GroupLabel)
	}
}

func TestHarmonize_TagsUnmatchedOutcome(t *testing.T) {
	cfg := testkit.DefaultAnalysisConfig()
	in := table(
		row("Female", "withdrawn", "analyst"),
		row("Male", "hired", "analyst"),
	)

	out, err := Harmonize(in, cfg)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, impact.LabelTarget, out[0].GroupLabel)
	assert.Equal(t, impact.LabelNeither, out[0].OutcomeLabel)
}

func TestHarmonize_DoesNotMutateInput(t *testing.T) {
	cfg := testkit.DefaultAnalysisConfig()
	in := table(row("Female", "hired", "analyst"))

	out, err := Harmonize(in, cfg)
	require.NoError(t, err)
	out[0].Record["extra"] = "x"

	_, present := in.Records[0]["extra"]
	assert.False(t, present)
}

func TestHarmonize_EmptySliceIsNotAnError(t *testing.T) {
	cfg := testkit.DefaultAnalysisConfig()
	out, err := Harmonize(table(row("Female", "hired", "engineer")), cfg)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestHarmonize_DataErrors(t *testing.T) {
	cfg := testkit.DefaultAnalysisConfig()

	_, err := Harmonize(table(), cfg)
	assert.ErrorIs(t, err, core.ErrData)

	missing := impact.Table{
		Columns: []string{testkit.ColumnGender, testkit.ColumnOutcome},
		Records: []impact.RawRecord{{testkit.ColumnGender: "Female", testkit.ColumnOutcome: "hired"}},
	}
	_, err = Harmonize(missing, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrData)
	assert.Contains(t, err.Error(), testkit.ColumnJobTitle)
}

func TestHarmonize_ConfigurationErrors(t *testing.T) {
	cfg := testkit.DefaultAnalysisConfig()
	cfg.GroupColumn = ""

	_, err := Harmonize(table(row("Female", "hired", "analyst")), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrConfiguration)
	assert.Contains(t, err.Error(), "group_variable")
}
