package service

import (
	"errors"
	"fmt"
)

// ErrTownNotFound is returned when the town service has no such town.
var ErrTownNotFound = errors.New("town not found")

// DataFetchError reports that an upstream store could not be reached or
// returned data that could not be decoded.
type DataFetchError struct {
	Source string
	Err    error
}

func (e *DataFetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *DataFetchError) Unwrap() error {
	return e.Err
}

func fetchError(source string, err error) error {
	return &DataFetchError{Source: source, Err: err}
}
