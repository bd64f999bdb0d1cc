package chart

import (
	"fmt"
	"time"
)

// ErrorType classifies chart failures for the error panel.
type ErrorType string

const (
	// ErrorData covers malformed series rejected before rendering.
	ErrorData ErrorType = "data"
	// ErrorFetch covers network/HTTP failures loading candles or trades.
	ErrorFetch ErrorType = "fetch"
	// ErrorComputation covers indicator/metric math failures.
	ErrorComputation ErrorType = "computation"
	// ErrorRendering covers runtime panics caught at the container boundary.
	ErrorRendering ErrorType = "rendering"
)

// ChartError is the typed error surfaced to the UI error panel. Fetch
// errors are retryable; the panel keeps the last good data visible.
type ChartError struct {
	Type      ErrorType `json:"type"`
	Message   string    `json:"message"`
	Code      string    `json:"code"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Retryable bool      `json:"retryable"`
}

// Error implements the error interface.
func (e *ChartError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func newChartError(errType ErrorType, code, message string, cause error) *ChartError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &ChartError{
		Type:      errType,
		Message:   message,
		Code:      code,
		Details:   details,
		Timestamp: time.Now(),
		Retryable: errType == ErrorFetch,
	}
}
