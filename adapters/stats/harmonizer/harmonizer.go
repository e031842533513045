// Package harmonizer reduces raw tabular input to the comparison population
// and assigns canonical binary group and outcome codes.
package harmonizer

import (
	"maps"

	"goimpact/domain/impact"
)

// Harmonize filters table to the configured subgroup slice and the two
// compared groups, then labels every retained row.
//
// A row is kept only when its subgroup column equals the subgroup value and
// its group column equals either the target or the other group value. The
// outcome column is not filtered: an outcome matching neither configured
// value is tagged LabelNeither and left for the aggregation stage to drop.
func Harmonize(table impact.Table, cfg impact.AnalysisConfig) ([]impact.HarmonizedRecord, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := table.RequireColumns(cfg.ReferencedColumns()...); err != nil {
		return nil, err
	}

	out := make([]impact.HarmonizedRecord, 0, len(table.Records))
	for _, rec := range table.Records {
		if rec[cfg.SubgroupColumn] != cfg.SubgroupValue {
			continue
		}
		group := label(rec[cfg.GroupColumn], cfg.GroupTargetValue, cfg.GroupOtherValue)
		if group == impact.LabelNeither {
			continue
		}
		out = append(out, impact.HarmonizedRecord{
			Record:       maps.Clone(rec),
			GroupLabel:   group,
			OutcomeLabel: label(rec[cfg.OutcomeColumn], cfg.OutcomeTargetValue, cfg.OutcomeOtherValue),
		})
	}
	return out, nil
}

func label(value, target, other string) impact.Label {
	switch value {
	case target:
		return impact.LabelTarget
	case other:
		return impact.LabelOther
	default:
		return impact.LabelNeither
	}
}
