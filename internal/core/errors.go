package core

import "errors"

// Error codes for failures surfaced privately to a client.
const (
	ErrCodeBadRequest    = "bad_request"
	ErrCodeAlreadyInRoom = "already_in_room"
	ErrCodeWrongPassword = "wrong_password"
	ErrCodeNameTaken     = "name_taken"
	ErrCodeRateLimited   = "rate_limited"
)

// ErrHubStopped is returned by queries issued after the hub's run loop exits.
var ErrHubStopped = errors.New("hub stopped")

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
