package app

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"goimpact/adapters/stats/contingency"
	"goimpact/adapters/stats/engine"
	"goimpact/adapters/stats/harmonizer"
	"goimpact/domain/core"
	"goimpact/domain/impact"
	"goimpact/internal"
	apperrors "goimpact/internal/errors"

	"golang.org/x/sync/errgroup"
)

// RunAnalysis runs the full pipeline on one table: harmonize, aggregate,
// evaluate. It is pure; the same inputs always give the same report.
func RunAnalysis(table impact.Table, cfg impact.AnalysisConfig) (impact.TestReport, error) {
	records, err := harmonizer.Harmonize(table, cfg)
	if err != nil {
		return impact.TestReport{}, err
	}

	ct, err := contingency.Build(records)
	if err != nil {
		return impact.TestReport{}, err
	}

	return engine.NewHypothesisTestEngine().Evaluate(cfg, ct, contingency.Summarize(records))
}

// AnalysisEnvelope wraps a report with run metadata. The report itself
// carries no run-specific fields.
type AnalysisEnvelope struct {
	RunID       core.RunID        `json:"run_id"`
	Fingerprint core.Hash         `json:"fingerprint"`
	GeneratedAt core.Timestamp    `json:"generated_at"`
	RuntimeMs   int64             `json:"runtime_ms"`
	Report      impact.TestReport `json:"report"`
}

// SubgroupResult is one slice of a sweep. Exactly one of Report and Error is set.
type SubgroupResult struct {
	SubgroupValue string             `json:"subgroup_value"`
	Report        *impact.TestReport `json:"report,omitempty"`
	Code          string             `json:"code,omitempty"`
	Error         string             `json:"error,omitempty"`
}

// SweepResult holds one result per distinct subgroup value, sorted by value.
type SweepResult struct {
	RunID          core.RunID       `json:"run_id"`
	SubgroupColumn string           `json:"subgroup_column"`
	Results        []SubgroupResult `json:"results"`
	Succeeded      int              `json:"succeeded"`
	Failed         int              `json:"failed"`
	RuntimeMs      int64            `json:"runtime_ms"`
}

// AnalysisService runs analyses and sweeps with logging and run metadata
type AnalysisService struct {
	logger         *internal.Logger
	maxConcurrency int
}

// NewAnalysisService creates an analysis service
func NewAnalysisService(logger *internal.Logger) *AnalysisService {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &AnalysisService{
		logger:         logger,
		maxConcurrency: runtime.NumCPU(),
	}
}

// WithMaxConcurrency bounds the number of subgroups evaluated at once
func (s *AnalysisService) WithMaxConcurrency(n int) *AnalysisService {
	if n > 0 {
		s.maxConcurrency = n
	}
	return s
}

// Run executes one analysis and wraps the report in an envelope.
func (s *AnalysisService) Run(ctx context.Context, table impact.Table, cfg impact.AnalysisConfig) (*AnalysisEnvelope, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	runID := core.NewRunID()
	log := s.logger.With("run_id", runID.String(), "subgroup", cfg.SubgroupColumn+"="+cfg.SubgroupValue)

	log.Debug("analysis started", "source", table.SourceName(), "rows", len(table.Records))

	fingerprint, err := core.Fingerprint(cfg, table.Columns, table.Rows())
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to fingerprint analysis input")
	}

	report, err := RunAnalysis(table, cfg)
	if err != nil {
		if core.IsStatisticalError(err) {
			log.Info("analysis not computable for this table", "code", apperrors.GetCode(err), "error", err)
		} else {
			log.Warn("analysis failed", "code", apperrors.GetCode(err), "error", err)
		}
		return nil, err
	}

	runtimeMs := time.Since(start).Milliseconds()
	log.Info("analysis completed",
		"observed", fmt.Sprint(report.Observed),
		"p_value", report.PValue,
		"significance", string(report.Significance),
		"four_fifths", string(report.FourFifths),
		"runtime_ms", runtimeMs)

	return &AnalysisEnvelope{
		RunID:       runID,
		Fingerprint: fingerprint,
		GeneratedAt: core.Now(),
		RuntimeMs:   runtimeMs,
		Report:      report,
	}, nil
}

// Sweep runs the analysis once per distinct value of the subgroup column.
// cfg.SubgroupValue is ignored. Subgroup failures are recorded in the result;
// only an invalid configuration, unusable table or cancelled context fails
// the whole sweep.
func (s *AnalysisService) Sweep(ctx context.Context, table impact.Table, cfg impact.AnalysisConfig) (*SweepResult, error) {
	start := time.Now()
	runID := core.NewRunID()
	log := s.logger.With("run_id", runID.String(), "subgroup_column", cfg.SubgroupColumn)

	values, err := impact.DistinctValues(table, cfg.SubgroupColumn)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, core.NewDataError(table.SourceName(), fmt.Sprintf("column %q has no values", cfg.SubgroupColumn))
	}
	if err := cfg.WithSubgroupValue(values[0]).Validate(); err != nil {
		return nil, err
	}
	if err := table.RequireColumns(cfg.ReferencedColumns()...); err != nil {
		return nil, err
	}

	log.Debug("sweep started", "subgroups", len(values))

	results := make([]SubgroupResult, len(values))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)

	for i, value := range values {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			report, err := RunAnalysis(table, cfg.WithSubgroupValue(value))
			if err != nil {
				results[i] = SubgroupResult{SubgroupValue: value, Code: apperrors.GetCode(err), Error: err.Error()}
				return nil
			}
			results[i] = SubgroupResult{SubgroupValue: value, Report: &report}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &SweepResult{
		RunID:          runID,
		SubgroupColumn: cfg.SubgroupColumn,
		Results:        results,
		RuntimeMs:      time.Since(start).Milliseconds(),
	}
	for _, r := range results {
		if r.Report != nil {
			out.Succeeded++
		} else {
			out.Failed++
			log.Warn("subgroup analysis failed", "subgroup", r.SubgroupValue, "code", r.Code)
		}
	}

	log.Info("sweep completed", "succeeded", out.Succeeded, "failed", out.Failed, "runtime_ms", out.RuntimeMs)
	return out, nil
}
