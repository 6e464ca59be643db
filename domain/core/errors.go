package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Acquisition errors (fatal: nothing downstream is trustworthy)
	ErrSourceUnavailable = errors.New("data source unavailable")
	ErrEmptyDataset      = errors.New("dataset has no usable rows")

	// Analysis errors (scoped to a single derivation or indicator)
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrDegenerateInput  = errors.New("degenerate input: zero variance")
)

// Error constructors with stage/indicator context

func NewSourceError(source string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, source, err)
}

func NewEmptyDatasetError(source string) error {
	return fmt.Errorf("%w: source %s returned no observations", ErrEmptyDataset, source)
}

func NewInsufficientDataError(stage, indicator string, need, have int) error {
	return fmt.Errorf("%w: %s for %s needs %d non-missing points, have %d",
		ErrInsufficientData, stage, indicator, need, have)
}

func NewDegenerateInputError(stage, indicator string) error {
	return fmt.Errorf("%w: %s input %s is constant", ErrDegenerateInput, stage, indicator)
}

// Error checking helpers

func IsSourceError(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}

func IsFatal(err error) bool {
	return errors.Is(err, ErrSourceUnavailable) || errors.Is(err, ErrEmptyDataset)
}

func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

func IsDegenerateInput(err error) bool {
	return errors.Is(err, ErrDegenerateInput)
}
