package engine

import (
	"fmt"
	"strconv"
	"strings"

	"goimpact/adapters/stats/senses"
	"goimpact/domain/impact"
)

const inconclusiveDiagonal = "The diagonal values are not substantially higher, suggesting the relationship might be more nuanced."

// phiNarrative describes the association strength. The bias statement is
// only made when the diagonal dominates and the other group actually
// succeeds more often than the target group.
func phiNarrative(cfg impact.AnalysisConfig, m senses.TableMetrics, phi float64, bin string) string {
	if !m.DiagonalDominant || m.OtherSuccessRate <= m.TargetSuccessRate {
		return inconclusiveDiagonal
	}

	if bin == "" {
		bin = "unclassified"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "The phi correlation coefficient is %.3f, indicating a %s effect size. ", phi, bin)
	fmt.Fprintf(&b, "The values on the positive diagonal of the table indicate the distribution of %s success across %s categories.\n\n",
		cfg.ProcessLabel, cfg.GroupColumn)
	fmt.Fprintf(&b, "%s had a higher proportion of successful outcomes compared to %s.\n\n",
		cfg.GroupOtherValue, cfg.GroupTargetValue)
	fmt.Fprintf(&b, "Specifically, %.1f%% of %s had success while only %.1f%% of %s had success.\n\n",
		m.OtherSuccessRate, cfg.GroupOtherValue, m.TargetSuccessRate, cfg.GroupTargetValue)
	fmt.Fprintf(&b, "This significant difference in %s success rates suggests a potential %s bias, with %s succeeding in %s at a higher rate than %s.",
		cfg.ProcessLabel, cfg.GroupColumn, cfg.GroupOtherValue, cfg.ProcessLabel, cfg.GroupTargetValue)
	return b.String()
}

// reportNarrative joins the header line with the significance-dependent body.
func reportNarrative(cfg impact.AnalysisConfig, sig impact.Significance, fourFifths, phiText string) string {
	alpha := strconv.FormatFloat(cfg.Alpha, 'f', -1, 64)

	var b strings.Builder
	fmt.Fprintf(&b, "Testing for %s: %s, %s\n\n", cfg.SubgroupColumn, cfg.SubgroupValue, fourFifths)

	if sig == impact.Significant {
		fmt.Fprintf(&b, "Based on the results of the chi-square test of independence, there is a statistically significant result for %s-based %s discrimination against %s at the chosen significance level of %s.\n\n",
			cfg.SignificanceTestName, cfg.ProcessLabel, cfg.GroupTargetValue, alpha)
		b.WriteString(phiText)
		return b.String()
	}

	fmt.Fprintf(&b, "Based on the results of the chi-square test of independence, there is no statistically significant result for %s-based %s discrimination against %s at the chosen significance level of %s.",
		cfg.SignificanceTestName, cfg.ProcessLabel, cfg.GroupTargetValue, alpha)
	return b.String()
}
