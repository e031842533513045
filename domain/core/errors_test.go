package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	cfgErr := NewConfigurationError("alpha", "must be greater than 0")
	assert.True(t, IsConfigurationError(cfgErr))
	assert.False(t, IsDataError(cfgErr))
	assert.False(t, IsStatisticalError(cfgErr))
	assert.Equal(t, "invalid configuration: alpha: must be greater than 0", cfgErr.Error())

	dataErr := WrapDataError("applicants.csv", errors.New("bare \" in non-quoted field"))
	assert.True(t, IsDataError(dataErr))
	assert.Contains(t, dataErr.Error(), "applicants.csv")

	for _, err := range []error{
		NewInsufficientDataError("1 populated cell"),
		NewDegenerateTableError("empty row"),
		NewDivisionError("other success rate"),
	} {
		assert.True(t, IsStatisticalError(err), err.Error())
		assert.False(t, IsConfigurationError(err))
	}
}

func TestErrorTaxonomy_SurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("subgroup engineer: %w", NewDivisionError("other success rate"))
	assert.ErrorIs(t, err, ErrDivision)
	assert.True(t, IsStatisticalError(err))
}

func TestFingerprint(t *testing.T) {
	cfg := map[string]any{"alpha": 0.05}
	rows := []map[string]string{{"a": "1", "b": "2"}, {"a": "3", "b": "4"}}

	h1, err := Fingerprint(cfg, []string{"a", "b"}, rows)
	assert.NoError(t, err)
	assert.Len(t, h1.String(), 64)

	// column order in the header does not matter
	h2, err := Fingerprint(cfg, []string{"b", "a"}, rows)
	assert.NoError(t, err)
	assert.Equal(t, h1, h2)

	h3, err := Fingerprint(map[string]any{"alpha": 0.01}, []string{"a", "b"}, rows)
	assert.NoError(t, err)
	assert.NotEqual(t, h1, h3)

	h4, err := Fingerprint(cfg, []string{"a", "b"}, []map[string]string{rows[1], rows[0]})
	assert.NoError(t, err)
	assert.NotEqual(t, h1, h4)

	_, err = Fingerprint(make(chan int), nil, nil)
	assert.Error(t, err)
}
