package engine

import (
	"goimpact/adapters/stats/senses"
	"goimpact/domain/impact"
)

// HypothesisTestEngine runs the disparate-impact battery on a contingency
// table and assembles the report. It holds no state between calls.
type HypothesisTestEngine struct{}

// NewHypothesisTestEngine creates a new test engine
func NewHypothesisTestEngine() *HypothesisTestEngine {
	return &HypothesisTestEngine{}
}

// evaluation accumulates stage outputs; it is discarded once the report is built.
type evaluation struct {
	cfg        impact.AnalysisConfig
	table      impact.ContingencyTable
	population impact.Population
	stages     []impact.Stage

	chi          senses.ChiSquareResult
	significance impact.Significance
	metrics      senses.TableMetrics
	phi          *float64
	phiBin       string
	phiNarrative string
	fourFifths   senses.FourFifthsResult
}

func (ev *evaluation) advance(s impact.Stage) {
	ev.stages = append(ev.stages, s)
}

// Evaluate runs every stage in order:
// significance, table metrics, phi (significant results only), four-fifths,
// report assembly. Any stage failure aborts the run with no report.
func (e *HypothesisTestEngine) Evaluate(cfg impact.AnalysisConfig, table impact.ContingencyTable, population impact.Population) (impact.TestReport, error) {
	if err := cfg.Validate(); err != nil {
		return impact.TestReport{}, err
	}

	ev := &evaluation{cfg: cfg, table: table, population: population}
	ev.advance(impact.StageReceived)

	chi, err := senses.ChiSquare(table)
	if err != nil {
		return impact.TestReport{}, err
	}
	ev.chi = chi
	ev.significance = senses.EvaluateSignificance(chi.PValue, cfg.Alpha)
	ev.advance(impact.StageSignificanceEvaluated)

	metrics, err := senses.ComputeTableMetrics(table)
	if err != nil {
		return impact.TestReport{}, err
	}
	ev.metrics = metrics
	ev.advance(impact.StageTableMetricsComputed)

	if ev.significance == impact.Significant {
		phi := senses.Phi(table)
		ev.phi = &phi
		ev.phiBin, _ = senses.BinPhi(phi, cfg.PhiBinEdges, cfg.PhiBinLabels)
		ev.phiNarrative = phiNarrative(cfg, metrics, phi, ev.phiBin)
		ev.advance(impact.StagePhiComputed)
	} else {
		ev.advance(impact.StagePhiSkipped)
	}

	ff, err := senses.FourFifths(table)
	if err != nil {
		return impact.TestReport{}, err
	}
	ev.fourFifths = ff
	ev.advance(impact.StageFourFifthsEvaluated)

	return ev.assemble(), nil
}

func (ev *evaluation) assemble() impact.TestReport {
	ev.advance(impact.StageReportAssembled)
	cfg := ev.cfg

	return impact.TestReport{
		SubgroupColumn: cfg.SubgroupColumn,
		SubgroupValue:  cfg.SubgroupValue,
		RowLabels:      [2]string{cfg.GroupTargetValue, cfg.GroupOtherValue},
		ColumnLabels:   [2]string{cfg.OutcomeOtherValue, cfg.OutcomeTargetValue},

		Statistic:        ev.chi.Statistic,
		PValue:           ev.chi.PValue,
		DegreesOfFreedom: ev.chi.DegreesOfFreedom,
		Alpha:            cfg.Alpha,
		Significance:     ev.significance,
		TestResult:       ev.significance.Sentence(),

		Observed:              ev.table,
		Expected:              ev.chi.Expected,
		ObservedMinusExpected: senses.Residuals(ev.table, ev.chi.Expected),

		TargetSuccessRate: ev.metrics.TargetSuccessRate,
		OtherSuccessRate:  ev.metrics.OtherSuccessRate,
		DiagonalDominant:  ev.metrics.DiagonalDominant,

		Phi:    ev.phi,
		PhiBin: ev.phiBin,

		FourFifthsRatio:       ev.fourFifths.Ratio,
		FourFifths:            ev.fourFifths.Verdict,
		FourFifthsDescription: ev.fourFifths.Description,

		Narrative:  reportNarrative(cfg, ev.significance, ev.fourFifths.Description, ev.phiNarrative),
		Population: ev.population,
		Stages:     ev.stages,
	}
}
