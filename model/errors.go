package model

import (
	"errors"
	"strings"
)

// ErrNotFound is returned for records that do not exist and for records owned
// by someone else; callers cannot tell the two apart.
var ErrNotFound = errors.New("record not found")

// ValidationError carries every constraint violation found on a record.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}

func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

// BadRequestError is a malformed request that is not tied to a record field,
// such as a missing query parameter.
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string {
	return e.Message
}

func NewBadRequest(message string) *BadRequestError {
	return &BadRequestError{Message: message}
}
