package common

import "errors"

var (
	ErrInvalidValue = errors.New("invalid value")

	// ErrSelection: none of the requested features exist in the score matrix.
	ErrSelection = errors.New("none of the selected features are in the score matrix")

	// ErrFit wraps every per-feature fitting failure, including optimizer
	// non-convergence.
	ErrFit              = errors.New("skew-t fit failed")
	ErrEmptyVector      = errors.New("no observed values")
	ErrDegenerateVector = errors.New("observed values have zero spread")

	ErrNoCommonFeatures = errors.New("no common features between score matrix and fit table")

	ErrOverwrite = errors.New("output exists and overwrite was not requested")
)
