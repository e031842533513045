package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors
	ErrConfiguration = errors.New("invalid configuration")
	ErrData          = errors.New("invalid input data")

	// Statistical errors
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrDegenerateTable  = errors.New("degenerate contingency table")
	ErrDivision         = errors.New("undefined division")
)

// Error constructors with context
func NewConfigurationError(key string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrConfiguration, key, reason)
}

func NewDataError(source string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrData, source, reason)
}

// WrapDataError attaches a source description to a lower-level read/parse failure.
func WrapDataError(source string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrData, source, err)
}

func NewInsufficientDataError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInsufficientData, reason)
}

func NewDegenerateTableError(reason string) error {
	return fmt.Errorf("%w: %s", ErrDegenerateTable, reason)
}

func NewDivisionError(quantity string) error {
	return fmt.Errorf("%w: %s", ErrDivision, quantity)
}

// Error checking helpers
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func IsDataError(err error) bool {
	return errors.Is(err, ErrData)
}

// IsStatisticalError reports failures where the input was well formed but the
// statistics are undefined for it.
func IsStatisticalError(err error) bool {
	return errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrDegenerateTable) ||
		errors.Is(err, ErrDivision)
}
