package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error classes. Per-file stages wrap their failures in one of these so the
// orchestrator can classify with errors.Is without inspecting stage internals.
var (
	ErrNotFound     = errors.New("path not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrExtraction   = errors.New("extraction failed")
	ErrGeneration   = errors.New("generation failed")
	ErrIO           = errors.New("output write failed")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// NotFoundError marks a bad input path; fatal before any processing starts.
func NotFoundError(message string, cause error) error {
	return &AppError{Code: "NOT_FOUND", Message: message, Cause: join(ErrNotFound, cause)}
}

// ExtractionError marks an unreadable or corrupt document; recoverable, skip file.
func ExtractionError(message string, cause error) error {
	return &AppError{Code: "EXTRACTION_ERROR", Message: message, Cause: join(ErrExtraction, cause)}
}

// GenerationError marks a failed model call; recoverable, skip file.
func GenerationError(message string, cause error) error {
	return &AppError{Code: "GENERATION_ERROR", Message: message, Cause: join(ErrGeneration, cause)}
}

// IOError marks a failed output write; recoverable per file, fatal when the
// output root itself is unwritable.
func IOError(message string, cause error) error {
	return &AppError{Code: "IO_ERROR", Message: message, Cause: join(ErrIO, cause)}
}

func join(class, cause error) error {
	if cause == nil {
		return class
	}
	return errors.Join(class, cause)
}
