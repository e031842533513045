package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"goimpact/domain/core"

	"github.com/stretchr/testify/assert"
)

func TestFromDomain(t *testing.T) {
	tests := []struct {
		err    error
		code   string
		status int
	}{
		{core.NewConfigurationError("alpha", "must be greater than 0"), CodeConfigInvalid, http.StatusBadRequest},
		{core.NewDataError("upload.csv", "table has no rows"), CodeDataError, http.StatusBadRequest},
		{core.NewInsufficientDataError("1 populated cell"), CodeInsufficientData, http.StatusUnprocessableEntity},
		{core.NewDegenerateTableError("empty row"), CodeDegenerateTable, http.StatusUnprocessableEntity},
		{fmt.Errorf("subgroup analyst: %w", core.NewDivisionError("other success rate")), CodeDivisionError, http.StatusUnprocessableEntity},
		{stderrors.New("disk on fire"), CodeInternalError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		appErr := FromDomain(tt.err)
		assert.Equal(t, tt.code, appErr.Code, tt.err.Error())
		assert.Equal(t, tt.status, HTTPStatus(appErr.Code))
		assert.Equal(t, tt.err.Error(), appErr.Message)
	}

	assert.Nil(t, FromDomain(nil))
}

func TestWrap_KeepsCode(t *testing.T) {
	err := Wrap(core.NewDataError("a.csv", "missing column"), "failed to load data")
	assert.Equal(t, CodeDataError, GetCode(err))
	assert.True(t, core.IsDataError(err))

	outer := Wrapf(err, "analysis %d", 3)
	assert.Equal(t, CodeDataError, GetCode(outer))
	assert.Equal(t, "analysis 3: failed to load data: invalid input data: a.csv: missing column", outer.Error())

	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestFromDomain_PassesAppErrorThrough(t *testing.T) {
	appErr := InvalidInput("config is required")
	assert.Same(t, appErr, FromDomain(fmt.Errorf("request: %w", appErr)))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(appErr.Code))
}
