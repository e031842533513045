package testkit

import (
	"bytes"
	"encoding/csv"
	"testing"

	"goimpact/domain/impact"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHiringDataGenerator_Deterministic(t *testing.T) {
	a := NewHiringDataGenerator(DefaultHiringConfig()).Generate()
	b := NewHiringDataGenerator(DefaultHiringConfig()).Generate()
	assert.Equal(t, a, b)
	assert.Len(t, a.Records, 600+500+120)
	assert.Equal(t, Columns(), a.Columns)
}

func TestHiringDataGenerator_Values(t *testing.T) {
	table := NewHiringDataGenerator(DefaultHiringConfig()).Generate()

	genders, err := impact.DistinctValues(table, ColumnGender)
	require.NoError(t, err)
	assert.Equal(t, []string{"Female", "Male", "Nonbinary"}, genders)

	titles, err := impact.DistinctValues(table, ColumnJobTitle)
	require.NoError(t, err)
	assert.Equal(t, []string{"analyst", "engineer", "manager"}, titles)

	for _, rec := range table.Records {
		if rec[ColumnJobTitle] == "manager" {
			assert.NotEqual(t, "Nonbinary", rec[ColumnGender])
			assert.NotEqual(t, "withdrawn", rec[ColumnOutcome])
		}
	}
}

func TestFixedTable(t *testing.T) {
	cfg := DefaultAnalysisConfig()
	table := FixedTable(cfg, impact.ContingencyTable{{2, 1}, {0, 3}})
	require.Len(t, table.Records, 6)

	assert.Equal(t, "Female", table.Records[0][ColumnGender])
	assert.Equal(t, "not_hired", table.Records[0][ColumnOutcome])
	assert.Equal(t, "hired", table.Records[2][ColumnOutcome])
	assert.Equal(t, "Male", table.Records[5][ColumnGender])
	assert.Equal(t, "analyst", table.Records[5][ColumnJobTitle])
}

func TestShuffle_KeepsRows(t *testing.T) {
	table := FixedTable(DefaultAnalysisConfig(), impact.ContingencyTable{{5, 5}, {5, 5}})
	shuffled := Shuffle(table, 7)

	assert.ElementsMatch(t, table.Records, shuffled.Records)
	assert.Equal(t, "applicant_00001", table.Records[0][ColumnApplicantID])
}

func TestWriteCSV(t *testing.T) {
	table := FixedTable(DefaultAnalysisConfig(), impact.ContingencyTable{{1, 0}, {0, 1}})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, table))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, table.Columns, rows[0])
	assert.Equal(t, []string{"applicant_00002", "Male", "hired", "analyst"}, rows[2])
}
