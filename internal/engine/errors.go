package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/ministore/internal/ir"
)

// ErrEngineStopped is returned by Dispatch and AwaitIdle once the engine has
// stopped accepting events.
var ErrEngineStopped = errors.New("engine stopped")

// ErrCompletionFailed is returned by AwaitIdle while a finished submission
// could not be journaled. The engine retries after another delay.
var ErrCompletionFailed = errors.New("checkout completion failed")

// ActionError is returned when the engine rejects an action.
// A rejected action leaves the storefront state unchanged.
type ActionError struct {
	// Code identifies the rejection category.
	Code ActionErrorCode

	// Message is a human-readable description.
	Message string

	// Action is the rejected action type.
	Action ir.ActionType
}

// ActionErrorCode categorizes rejected actions.
type ActionErrorCode string

const (
	// ErrCodeUnknownAction indicates an action type callers may not dispatch.
	ErrCodeUnknownAction ActionErrorCode = "UNKNOWN_ACTION"

	// ErrCodeInvalidArgs indicates a missing or mistyped argument.
	ErrCodeInvalidArgs ActionErrorCode = "INVALID_ARGS"

	// ErrCodeUnknownProduct indicates a product id absent from the catalog.
	ErrCodeUnknownProduct ActionErrorCode = "UNKNOWN_PRODUCT"

	// ErrCodeUnknownCategory indicates a category outside the selector list.
	ErrCodeUnknownCategory ActionErrorCode = "UNKNOWN_CATEGORY"

	// ErrCodeUnknownField indicates a checkout field that does not exist.
	ErrCodeUnknownField ActionErrorCode = "UNKNOWN_FIELD"

	// ErrCodeUnknownView indicates a view outside catalog, cart, checkout.
	ErrCodeUnknownView ActionErrorCode = "UNKNOWN_VIEW"

	// ErrCodeInvalidPaymentMethod indicates an unsupported payment method.
	ErrCodeInvalidPaymentMethod ActionErrorCode = "INVALID_PAYMENT_METHOD"

	// ErrCodeSubmissionInProgress indicates a submit while one is processing.
	ErrCodeSubmissionInProgress ActionErrorCode = "SUBMISSION_IN_PROGRESS"

	// ErrCodeNotProcessing indicates a completion with no submission in flight.
	ErrCodeNotProcessing ActionErrorCode = "NOT_PROCESSING"
)

// Error implements the error interface.
func (e *ActionError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s: %s (action=%s)", e.Code, e.Message, e.Action)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsActionError reports whether err is, or wraps, an ActionError.
func IsActionError(err error) bool {
	var ae *ActionError
	return errors.As(err, &ae)
}

// ErrorCode returns the ActionErrorCode carried by err, or "" if none.
func ErrorCode(err error) ActionErrorCode {
	var ae *ActionError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

func reject(action ir.ActionType, code ActionErrorCode, format string, args ...any) *ActionError {
	return &ActionError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Action:  action,
	}
}
