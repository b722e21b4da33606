package common

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

// ValidationError is a user-correctable input problem. Msg is safe to show.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Invalid(msg string) error {
	return &ValidationError{Msg: msg}
}

// Classify maps a service error to the HTTP status and the message the client
// may see. Anything unrecognised is a persistence failure and gets a generic
// message.
func Classify(err error, notFoundMsg string) (int, string) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusOK, ve.Msg
	case errors.Is(err, ErrNotFound):
		if notFoundMsg == "" {
			notFoundMsg = "Not found"
		}
		return http.StatusOK, notFoundMsg
	case errors.Is(err, ErrConflict):
		return http.StatusOK, "Email already exists"
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusOK, "Invalid email or password"
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
