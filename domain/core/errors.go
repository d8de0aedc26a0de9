package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Lifecycle errors
	ErrNotLoaded     = errors.New("dataset not loaded")
	ErrAlreadyLoaded = errors.New("dataset already loaded")
	ErrLoadFailed    = errors.New("dataset load failed")

	// Filter errors
	ErrUnknownDimension    = errors.New("unknown dimension")
	ErrDimensionNotAllowed = errors.New("dimension not allowed in this filter set")
)

// NewLoadError wraps the cause of a failed load with the source that produced it.
func NewLoadError(source string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrLoadFailed, source, err)
}

// NewDimensionError reports a dimension rejected by a filter set.
func NewDimensionError(dimension string, allowed bool) error {
	if !allowed {
		return fmt.Errorf("%w: %s", ErrDimensionNotAllowed, dimension)
	}
	return fmt.Errorf("%w: %s", ErrUnknownDimension, dimension)
}

// IsLoadError reports whether err stems from a failed or missing load.
func IsLoadError(err error) bool {
	return errors.Is(err, ErrLoadFailed) || errors.Is(err, ErrNotLoaded)
}

// IsDimensionError reports whether err was produced by filter validation.
func IsDimensionError(err error) bool {
	return errors.Is(err, ErrUnknownDimension) || errors.Is(err, ErrDimensionNotAllowed)
}
