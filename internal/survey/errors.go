package survey

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed dataset load.
type ErrorKind int

const (
	// SourceUnavailable means the workbook could not be fetched or opened.
	SourceUnavailable ErrorKind = iota + 1
	// DataFormat means the workbook was read but its contents are unusable.
	DataFormat
)

func (k ErrorKind) String() string {
	switch k {
	case SourceUnavailable:
		return "source unavailable"
	case DataFormat:
		return "data format"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// LoadError wraps an error that aborted a dataset load. No partial dataset
// accompanies a LoadError.
type LoadError struct {
	Kind ErrorKind
	Err  error
}

func (e *LoadError) Error() string {
	return e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewSourceError wraps err as SourceUnavailable.
func NewSourceError(err error) *LoadError {
	return &LoadError{Kind: SourceUnavailable, Err: err}
}

// NewFormatError wraps err as DataFormat.
func NewFormatError(err error) *LoadError {
	return &LoadError{Kind: DataFormat, Err: err}
}

// IsSourceUnavailable reports whether err (or any error in its chain) is a
// SourceUnavailable LoadError.
func IsSourceUnavailable(err error) bool {
	return kindOf(err) == SourceUnavailable
}

// IsDataFormat reports whether err (or any error in its chain) is a
// DataFormat LoadError.
func IsDataFormat(err error) bool {
	return kindOf(err) == DataFormat
}

func kindOf(err error) ErrorKind {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Kind
	}
	return 0
}
