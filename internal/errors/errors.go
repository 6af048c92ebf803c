// Package errors classifies the failures the compression pipeline can
// surface to its callers.
package errors

import (
	"errors"
	"fmt"
)

// Category classifies error types for targeted handling.
type Category string

const (
	CategoryHostIO       Category = "host_io"
	CategorySurface      Category = "surface"
	CategoryDecode       Category = "decode"
	CategoryEncode       Category = "encode"
	CategoryStorageQuota Category = "storage_quota"
	CategoryStorage      Category = "storage"
	CategoryInput        Category = "input"
	CategoryConfig       Category = "config"
)

// ProcessingError is the structured error type used throughout the module.
type ProcessingError struct {
	Category Category
	Op       string // operation name
	Err      error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Category, e.Op, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// New creates a ProcessingError.
func New(category Category, op string, err error) *ProcessingError {
	return &ProcessingError{Category: category, Op: op, Err: err}
}

// Wrap wraps an existing error with context. A nil err stays nil.
func Wrap(category Category, op string, err error) error {
	if err == nil {
		return nil
	}
	return New(category, op, err)
}

// IsCategory reports whether err belongs to the given category.
func IsCategory(err error, cat Category) bool {
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe.Category == cat
	}
	return false
}

// CategoryOf returns the category of err, or "" when err is not a
// ProcessingError.
func CategoryOf(err error) Category {
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe.Category
	}
	return ""
}

// Sentinel errors for common failure modes.
var (
	ErrSurfaceUnavailable = errors.New("drawing surface unavailable")
	ErrStorageQuota       = errors.New("storage quota exceeded")
	ErrUnsupportedFormat  = errors.New("unsupported image format")
	ErrInvalidDimensions  = errors.New("invalid dimensions")
	ErrEmptyInput         = errors.New("empty input")
)
