package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrInvalidFilter      = errors.New("invalid filter")
	ErrExternalAPIFailure = errors.New("external API failure")
	ErrEventNotFound      = errors.New("event not found")
	ErrSessionNotFound    = errors.New("session not found")
)

type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

func (e ValidationError) Unwrap() error {
	return e.Err
}
