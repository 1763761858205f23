package services

import (
	"errors"
	"fmt"

	"github.com/resource-jerc9024-data/alexa-attendance/internal/models"
)

// Code classifies expected user-facing conditions. Anything outside these is
// a store failure and gets the generic apology at the router boundary.
type Code string

const (
	CodeNotFound      Code = "NOT_FOUND"
	CodeNoSessions    Code = "NO_SESSIONS"
	CodeAmbiguous     Code = "AMBIGUOUS"
	CodeInvalidInput  Code = "INVALID_INPUT"
	CodeNonWorkingDay Code = "NON_WORKING_DAY"
)

// FlowError is an expected condition carrying guidance for the user, never a
// failure of the request itself.
type FlowError struct {
	Code    Code
	Message string

	// Matches is populated for CodeAmbiguous so the user can disambiguate
	// by code.
	Matches []models.Session
}

func (e *FlowError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func ErrNotFound(msg string) *FlowError   { return &FlowError{Code: CodeNotFound, Message: msg} }
func ErrNoSessions(msg string) *FlowError { return &FlowError{Code: CodeNoSessions, Message: msg} }
func ErrInvalid(msg string) *FlowError    { return &FlowError{Code: CodeInvalidInput, Message: msg} }
func ErrNonWorking(msg string) *FlowError { return &FlowError{Code: CodeNonWorkingDay, Message: msg} }
func ErrAmbiguous(msg string, matches []models.Session) *FlowError {
	return &FlowError{Code: CodeAmbiguous, Message: msg, Matches: matches}
}

// AsFlowError unwraps a FlowError if the chain contains one.
func AsFlowError(err error) (*FlowError, bool) {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
