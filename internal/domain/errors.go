package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSelection is returned when an attribute outside the configured list is selected.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrMalformedSource is returned when a source decodes but lacks required structure.
	ErrMalformedSource = errors.New("malformed source")
)

// LoadError reports that a required source could not be fetched or decoded.
// Any LoadError aborts initialization; nothing is rendered from a partial load.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
