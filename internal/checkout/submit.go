package checkout

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/roach88/ministore/internal/catalog"
)

// ErrSubmissionInProgress is returned when a submission is attempted while
// another is processing.
var ErrSubmissionInProgress = errors.New("submission already in progress")

// Status messages.
const (
	StatusCorrectErrors = "Please correct the errors in the form."
	StatusOrderPlaced   = "🎉 Order Placed Successfully! Thank you for your purchase."
)

// Phase is the submission phase.
type Phase string

const (
	Idle       Phase = "idle"
	Processing Phase = "processing"
)

// Submission is the submission state machine: Idle -> Processing -> Idle.
// A fresh session starts at Submission{Phase: Idle}.
type Submission struct {
	Phase  Phase  `json:"phase"`
	Status string `json:"status"`
}

// Processing reports whether a submission is in flight.
func (s Submission) Processing() bool {
	return s.Phase == Processing
}

// Begin starts a submission of f. The status is cleared and f validated.
// Invalid forms return to Idle with StatusCorrectErrors and ok false.
// Valid forms move to Processing with ok true; the caller owns the delay
// and must call Complete when it elapses.
func (s Submission) Begin(f Form) (next Submission, errs Errors, ok bool, err error) {
	if s.Processing() {
		return s, nil, false, ErrSubmissionInProgress
	}

	errs = Validate(f)
	if !errs.Valid() {
		return Submission{Phase: Idle, Status: StatusCorrectErrors}, errs, false, nil
	}
	return Submission{Phase: Processing}, errs, true, nil
}

// Complete finishes a processing submission with the success status.
func (s Submission) Complete() Submission {
	return Submission{Phase: Idle, Status: StatusOrderPlaced}
}

// PayLabel is the submit button label for the current phase.
func (s Submission) PayLabel(total decimal.Decimal) string {
	if s.Processing() {
		return "Processing Order..."
	}
	return "Pay " + catalog.FormatPrice(total)
}
