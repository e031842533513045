package impact

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"goimpact/domain/core"

	"github.com/go-playground/validator/v10"
)

// AnalysisConfig is the immutable configuration of one run.
// Struct tags name each field by its key in the analysis document so that
// validation failures point at the key the user wrote.
type AnalysisConfig struct {
	GroupColumn        string `json:"group_column" yaml:"group_variable" validate:"required"`
	GroupTargetValue   string `json:"group_target_value" yaml:"group_target_val" validate:"required"`
	GroupOtherValue    string `json:"group_other_value" yaml:"group_other_val" validate:"required,nefield=GroupTargetValue"`
	OutcomeColumn      string `json:"outcome_column" yaml:"outcome_variable" validate:"required"`
	OutcomeTargetValue string `json:"outcome_target_value" yaml:"outcome_target_val" validate:"required"`
	OutcomeOtherValue  string `json:"outcome_other_value" yaml:"outcome_other_val" validate:"required,nefield=OutcomeTargetValue"`
	SubgroupColumn     string `json:"subgroup_column" yaml:"grpers" validate:"required"`
	SubgroupValue      string `json:"subgroup_value" yaml:"grpers_val" validate:"required"`

	Alpha                float64   `json:"alpha" yaml:"alpha" validate:"gt=0,lt=1"`
	SignificanceTestName string    `json:"significance_test_name" yaml:"testing" validate:"required"`
	ProcessLabel         string    `json:"process_label" yaml:"process" validate:"required"`
	PhiBinEdges          []float64 `json:"phi_bin_edges" yaml:"phi_bin_edges" validate:"min=2"`
	PhiBinLabels         []string  `json:"phi_bin_labels" yaml:"phi_bin_labels" validate:"min=1,dive,required"`
}

// scalarText decodes a JSON string, number or boolean as the text the value
// has in a data file cell. Numbers keep their literal form.
type scalarText string

func (s *scalarText) UnmarshalJSON(data []byte) error {
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*s = ""
	case string:
		*s = scalarText(x)
	case json.Number:
		*s = scalarText(x.String())
	case bool:
		*s = scalarText(strconv.FormatBool(x))
	default:
		return fmt.Errorf("expected a string, number or boolean, got %s", bytes.TrimSpace(data))
	}
	return nil
}

// UnmarshalJSON accepts numbers and booleans for the column and value fields,
// since categories such as 0/1 outcomes or years are often written unquoted.
func (c *AnalysisConfig) UnmarshalJSON(data []byte) error {
	var raw struct {
		GroupColumn          scalarText   `json:"group_column"`
		GroupTargetValue     scalarText   `json:"group_target_value"`
		GroupOtherValue      scalarText   `json:"group_other_value"`
		OutcomeColumn        scalarText   `json:"outcome_column"`
		OutcomeTargetValue   scalarText   `json:"outcome_target_value"`
		OutcomeOtherValue    scalarText   `json:"outcome_other_value"`
		SubgroupColumn       scalarText   `json:"subgroup_column"`
		SubgroupValue        scalarText   `json:"subgroup_value"`
		Alpha                float64      `json:"alpha"`
		SignificanceTestName scalarText   `json:"significance_test_name"`
		ProcessLabel         scalarText   `json:"process_label"`
		PhiBinEdges          []float64    `json:"phi_bin_edges"`
		PhiBinLabels         []scalarText `json:"phi_bin_labels"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = AnalysisConfig{
		GroupColumn:          string(raw.GroupColumn),
		GroupTargetValue:     string(raw.GroupTargetValue),
		GroupOtherValue:      string(raw.GroupOtherValue),
		OutcomeColumn:        string(raw.OutcomeColumn),
		OutcomeTargetValue:   string(raw.OutcomeTargetValue),
		OutcomeOtherValue:    string(raw.OutcomeOtherValue),
		SubgroupColumn:       string(raw.SubgroupColumn),
		SubgroupValue:        string(raw.SubgroupValue),
		Alpha:                raw.Alpha,
		SignificanceTestName: string(raw.SignificanceTestName),
		ProcessLabel:         string(raw.ProcessLabel),
		PhiBinEdges:          raw.PhiBinEdges,
	}
	if raw.PhiBinLabels != nil {
		c.PhiBinLabels = make([]string, len(raw.PhiBinLabels))
		for i, l := range raw.PhiBinLabels {
			c.PhiBinLabels[i] = string(l)
		}
	}
	return nil
}

var configValidate *validator.Validate

func init() {
	configValidate = validator.New(validator.WithRequiredStructEnabled())
	configValidate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validate checks every invariant of the configuration and returns a
// configuration error naming the first offending key.
func (c AnalysisConfig) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return core.NewConfigurationError(fe.Field(), describeFieldError(fe))
		}
		return core.NewConfigurationError("config", err.Error())
	}

	for i, edge := range c.PhiBinEdges {
		if math.IsNaN(edge) || math.IsInf(edge, 0) {
			return core.NewConfigurationError("phi_bin_edges", fmt.Sprintf("edge %d is not a finite number", i))
		}
		if i > 0 && edge <= c.PhiBinEdges[i-1] {
			return core.NewConfigurationError("phi_bin_edges", "edges must be strictly increasing")
		}
	}
	if len(c.PhiBinLabels) != len(c.PhiBinEdges)-1 {
		return core.NewConfigurationError("phi_bin_labels",
			fmt.Sprintf("expected %d labels for %d edges, got %d", len(c.PhiBinEdges)-1, len(c.PhiBinEdges), len(c.PhiBinLabels)))
	}
	return nil
}

// ReferencedColumns lists the input columns the run reads.
func (c AnalysisConfig) ReferencedColumns() []string {
	return []string{c.GroupColumn, c.OutcomeColumn, c.SubgroupColumn}
}

// WithSubgroupValue returns a copy of the configuration targeting another
// subgroup slice.
func (c AnalysisConfig) WithSubgroupValue(value string) AnalysisConfig {
	out := c
	out.PhiBinEdges = append([]float64(nil), c.PhiBinEdges...)
	out.PhiBinLabels = append([]string(nil), c.PhiBinLabels...)
	out.SubgroupValue = value
	return out
}

// DefaultPhiBins returns conventional effect-size bins for |phi|.
func DefaultPhiBins() ([]float64, []string) {
	return []float64{0, 0.1, 0.3, 0.5, 1},
		[]string{"negligible", "small", "medium", "large"}
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "lt":
		return "must be less than " + fe.Param()
	case "min":
		return "must have at least " + fe.Param() + " entries"
	case "nefield":
		return "must differ from the target value"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
