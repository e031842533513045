package impact

// RawRecord is one input row: column name to cell value.
type RawRecord map[string]string

// Label is the canonical binary code assigned during harmonization.
type Label int

const (
	LabelNeither Label = -1 // value matches neither configured value
	LabelOther   Label = 0
	LabelTarget  Label = 1
)

// HarmonizedRecord is a retained input row plus its group and outcome codes.
type HarmonizedRecord struct {
	Record       RawRecord `json:"record"`
	GroupLabel   Label     `json:"group_label"`
	OutcomeLabel Label     `json:"outcome_label"`
}

// ContingencyTable is the 2x2 count matrix.
// Row 0 is the target group, row 1 the other group.
// Column 0 is the non-success outcome, column 1 the success outcome.
type ContingencyTable [2][2]int

// Cell accessors: A target/non-success, B target/success,
// C other/non-success, D other/success.
func (t ContingencyTable) A() int { return t[0][0] }
func (t ContingencyTable) B() int { return t[0][1] }
func (t ContingencyTable) C() int { return t[1][0] }
func (t ContingencyTable) D() int { return t[1][1] }

// RowTotal returns the sum of row i.
func (t ContingencyTable) RowTotal(i int) int {
	return t[i][0] + t[i][1]
}

// ColTotal returns the sum of column j.
func (t ContingencyTable) ColTotal(j int) int {
	return t[0][j] + t[1][j]
}

// Total returns the grand total.
func (t ContingencyTable) Total() int {
	return t.RowTotal(0) + t.RowTotal(1)
}

// PopulatedCells counts cells with at least one observation.
func (t ContingencyTable) PopulatedCells() int {
	n := 0
	for i := range t {
		for j := range t[i] {
			if t[i][j] > 0 {
				n++
			}
		}
	}
	return n
}

// FrequencyTable is a 2x2 matrix of real-valued frequencies in the same
// orientation as ContingencyTable.
type FrequencyTable [2][2]float64

// Population describes how many harmonized records reached aggregation.
type Population struct {
	Harmonized      int `json:"harmonized"`
	ExcludedOutcome int `json:"excluded_outcome"`
}

// Significance is the verdict of the chi-square test against alpha.
type Significance string

const (
	Significant    Significance = "SIGNIFICANT"
	NotSignificant Significance = "NOT_SIGNIFICANT"
)

// Sentence returns the human-readable verdict line.
func (s Significance) Sentence() string {
	if s == Significant {
		return "Statistically significant result"
	}
	return "No statistically significant result"
}

// FourFifthsVerdict is the outcome of the adverse-impact ratio test.
type FourFifthsVerdict string

const (
	FourFifthsPass FourFifthsVerdict = "PASS"
	FourFifthsFail FourFifthsVerdict = "FAIL"
)

// Stage names the steps the test engine passes through.
type Stage string

const (
	StageReceived              Stage = "RECEIVED"
	StageSignificanceEvaluated Stage = "SIGNIFICANCE_EVALUATED"
	StageTableMetricsComputed  Stage = "TABLE_METRICS_COMPUTED"
	StagePhiComputed           Stage = "PHI_COMPUTED"
	StagePhiSkipped            Stage = "PHI_SKIPPED"
	StageFourFifthsEvaluated   Stage = "FOUR_FIFTHS_EVALUATED"
	StageReportAssembled       Stage = "REPORT_ASSEMBLED"
)

// TestReport is the complete result of one analysis run.
type TestReport struct {
	SubgroupColumn string    `json:"subgroup_column"`
	SubgroupValue  string    `json:"subgroup_value"`
	RowLabels      [2]string `json:"row_labels"`
	ColumnLabels   [2]string `json:"column_labels"`

	Statistic        float64      `json:"statistic"`
	PValue           float64      `json:"p_value"`
	DegreesOfFreedom int          `json:"dof"`
	Alpha            float64      `json:"alpha"`
	Significance     Significance `json:"significance"`
	TestResult       string       `json:"test_result"`

	Observed              ContingencyTable `json:"observed"`
	Expected              FrequencyTable   `json:"expected"`
	ObservedMinusExpected FrequencyTable   `json:"observed_minus_expected"`

	TargetSuccessRate float64 `json:"target_success_rate"`
	OtherSuccessRate  float64 `json:"other_success_rate"`
	DiagonalDominant  bool    `json:"diagonal_dominant"`

	// Phi is nil when the result is not significant.
	Phi    *float64 `json:"phi"`
	PhiBin string   `json:"phi_bin,omitempty"`

	FourFifthsRatio       float64           `json:"four_fifths_ratio"`
	FourFifths            FourFifthsVerdict `json:"four_fifths"`
	FourFifthsDescription string            `json:"four_fifths_description"`

	Narrative  string     `json:"narrative"`
	Population Population `json:"population"`
	Stages     []Stage    `json:"stages"`
}

// PhiValue returns phi and whether it is defined.
func (r TestReport) PhiValue() (float64, bool) {
	if r.Phi == nil {
		return 0, false
	}
	return *r.Phi, true
}
