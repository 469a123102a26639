// Package common provides shared utilities and types used across the pipeline.
package common

import (
	"errors"
	"fmt"
)

// Common pipeline errors.
var (
	// Input errors.
	ErrMissingInput   = errors.New("missing input artifact")
	ErrMissingColumns = errors.New("required columns missing")
	ErrInvalidYear    = errors.New("invalid election year")

	// Join errors.
	ErrJoinIntegrity = errors.New("join produced more rows than either input")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// MissingInputError reports an absent upstream artifact together with the
// exact path that was expected and the stage that produces it.
type MissingInputError struct {
	Underlying error
	Path       string
	ProducedBy string
}

func (e *MissingInputError) Error() string {
	msg := fmt.Sprintf("input not found: %s (run '%s' first)", e.Path, e.ProducedBy)
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %v", msg, e.Underlying)
	}
	return msg
}

func (e *MissingInputError) Unwrap() error {
	return ErrMissingInput
}

// NewMissingInputError creates a MissingInputError for the given artifact.
func NewMissingInputError(path, producedBy string, err error) error {
	return &MissingInputError{Path: path, ProducedBy: producedBy, Underlying: err}
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
