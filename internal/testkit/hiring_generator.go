package testkit

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"

	"goimpact/domain/impact"
)

// Column names used by generated datasets.
const (
	ColumnApplicantID = "applicant_id"
	ColumnGender      = "gender"
	ColumnOutcome     = "outcome"
	ColumnJobTitle    = "job_title"
)

// SubgroupProfile describes the applicant pool for one job title.
type SubgroupProfile struct {
	Name           string  `json:"name"`
	Applicants     int     `json:"applicants"`
	TargetShare    float64 `json:"target_share"`     // fraction of applicants in the target group
	TargetHireRate float64 `json:"target_hire_rate"` // P(hired | target)
	OtherHireRate  float64 `json:"other_hire_rate"`  // P(hired | other)
	UnlistedShare  float64 `json:"unlisted_share"`   // fraction with a third gender value
	WithdrawnShare float64 `json:"withdrawn_share"`  // fraction whose outcome matches neither value
}

// HiringGeneratorConfig configures the hiring data generator
type HiringGeneratorConfig struct {
	Subgroups []SubgroupProfile `json:"subgroups"`
	Seed      int64             `json:"seed"`
}

// DefaultHiringConfig returns three job titles: one with a strong disparity,
// one balanced and one small noisy pool.
func DefaultHiringConfig() HiringGeneratorConfig {
	return HiringGeneratorConfig{
		Subgroups: []SubgroupProfile{
			{Name: "analyst", Applicants: 600, TargetShare: 0.5, TargetHireRate: 0.15, OtherHireRate: 0.45, UnlistedShare: 0.03, WithdrawnShare: 0.04},
			{Name: "engineer", Applicants: 500, TargetShare: 0.4, TargetHireRate: 0.30, OtherHireRate: 0.31, UnlistedShare: 0.02, WithdrawnShare: 0.02},
			{Name: "manager", Applicants: 120, TargetShare: 0.5, TargetHireRate: 0.25, OtherHireRate: 0.30},
		},
		Seed: 42,
	}
}

// HiringDataGenerator generates synthetic applicant records
type HiringDataGenerator struct {
	config HiringGeneratorConfig
	rng    *rand.Rand
}

// NewHiringDataGenerator creates a new hiring data generator
func NewHiringDataGenerator(config HiringGeneratorConfig) *HiringDataGenerator {
	return &HiringDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate produces one table with a row per applicant across all subgroups.
func (g *HiringDataGenerator) Generate() impact.Table {
	var records []impact.RawRecord
	id := 0
	for _, sg := range g.config.Subgroups {
		for i := 0; i < sg.Applicants; i++ {
			id++
			records = append(records, g.applicant(id, sg))
		}
	}
	return impact.Table{
		Columns: Columns(),
		Records: records,
		Source:  fmt.Sprintf("synthetic hiring data (seed %d)", g.config.Seed),
	}
}

func (g *HiringDataGenerator) applicant(id int, sg SubgroupProfile) impact.RawRecord {
	gender := "Male"
	hireRate := sg.OtherHireRate
	switch r := g.rng.Float64(); {
	case r < sg.UnlistedShare:
		gender = "Nonbinary"
	case r < sg.UnlistedShare+sg.TargetShare:
		gender = "Female"
		hireRate = sg.TargetHireRate
	}

	outcome := "not_hired"
	if g.rng.Float64() < hireRate {
		outcome = "hired"
	}
	if g.rng.Float64() < sg.WithdrawnShare {
		outcome = "withdrawn"
	}

	return impact.RawRecord{
		ColumnApplicantID: fmt.Sprintf("applicant_%05d", id),
		ColumnGender:      gender,
		ColumnOutcome:     outcome,
		ColumnJobTitle:    sg.Name,
	}
}

// Columns returns the header of generated tables.
func Columns() []string {
	return []string{ColumnApplicantID, ColumnGender, ColumnOutcome, ColumnJobTitle}
}

// WriteCSV writes table as CSV with its header row first.
func WriteCSV(w io.Writer, table impact.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Columns); err != nil {
		return err
	}
	row := make([]string, len(table.Columns))
	for _, rec := range table.Records {
		for i, c := range table.Columns {
			row[i] = rec[c]
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// DefaultAnalysisConfig matches the generated columns: Female vs Male
// applicants for analyst roles, hired as the success outcome.
func DefaultAnalysisConfig() impact.AnalysisConfig {
	edges, labels := impact.DefaultPhiBins()
	return impact.AnalysisConfig{
		GroupColumn:          ColumnGender,
		GroupTargetValue:     "Female",
		GroupOtherValue:      "Male",
		OutcomeColumn:        ColumnOutcome,
		OutcomeTargetValue:   "hired",
		OutcomeOtherValue:    "not_hired",
		SubgroupColumn:       ColumnJobTitle,
		SubgroupValue:        "analyst",
		Alpha:                0.05,
		SignificanceTestName: "gender",
		ProcessLabel:         "hiring",
		PhiBinEdges:          edges,
		PhiBinLabels:         labels,
	}
}

// FixedTable builds raw records that aggregate to exactly cells under cfg.
// Records are emitted cell by cell: A, B, C, D.
func FixedTable(cfg impact.AnalysisConfig, cells impact.ContingencyTable) impact.Table {
	groups := [2]string{cfg.GroupTargetValue, cfg.GroupOtherValue}
	outcomes := [2]string{cfg.OutcomeOtherValue, cfg.OutcomeTargetValue}

	var records []impact.RawRecord
	id := 0
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			for n := 0; n < cells[i][j]; n++ {
				id++
				records = append(records, impact.RawRecord{
					ColumnApplicantID:  fmt.Sprintf("applicant_%05d", id),
					cfg.GroupColumn:    groups[i],
					cfg.OutcomeColumn:  outcomes[j],
					cfg.SubgroupColumn: cfg.SubgroupValue,
				})
			}
		}
	}
	return impact.Table{
		Columns: []string{ColumnApplicantID, cfg.GroupColumn, cfg.OutcomeColumn, cfg.SubgroupColumn},
		Records: records,
		Source:  "fixed table",
	}
}

// Shuffle returns a copy of table with rows in a seeded random order.
func Shuffle(table impact.Table, seed int64) impact.Table {
	out := table
	out.Records = append([]impact.RawRecord(nil), table.Records...)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(out.Records), func(i, j int) {
		out.Records[i], out.Records[j] = out.Records[j], out.Records[i]
	})
	return out
}
