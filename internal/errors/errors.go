// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrInsufficientHistory = errors.New("insufficient candle history")
	ErrNoData              = errors.New("no data available")
	ErrInvalidCandle       = errors.New("invalid candle data")
	ErrConfigInvalid       = errors.New("invalid configuration")
	ErrStrategyInvalid     = errors.New("invalid strategy")
	ErrStoreClosed         = errors.New("store is closed")
)

// AnalysisError wraps an error from one stage of the analysis pipeline.
type AnalysisError struct {
	Stage  string
	Symbol string
	Err    error
}

func (e *AnalysisError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("analysis failed [%s] for %s: %v", e.Stage, e.Symbol, e.Err)
	}
	return fmt.Sprintf("analysis failed [%s]: %v", e.Stage, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// NewAnalysisError creates a new AnalysisError.
func NewAnalysisError(stage, symbol string, err error) *AnalysisError {
	return &AnalysisError{
		Stage:  stage,
		Symbol: symbol,
		Err:    err,
	}
}

// StrategyError represents a failure to generate or parse a strategy.
type StrategyError struct {
	Source  string // "llm", "template"
	Message string
	Err     error
}

func (e *StrategyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("strategy error [%s]: %s: %v", e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("strategy error [%s]: %s", e.Source, e.Message)
}

func (e *StrategyError) Unwrap() error {
	return e.Err
}

// NewStrategyError creates a new StrategyError.
func NewStrategyError(source, message string, err error) *StrategyError {
	return &StrategyError{
		Source:  source,
		Message: message,
		Err:     err,
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
