package auth

import "fmt"

type ErrorReason string

const ErrReasonTokenMissing ErrorReason = "ERR_TOKEN_MISSING"
const ErrReasonTokenInvalid ErrorReason = "ERR_TOKEN_INVALID"
const ErrReasonUserNotFound ErrorReason = "ERR_USER_NOT_FOUND"

func (e ErrorReason) String() string {
	return string(e)
}

// AuthError is fatal to the connection attempt. The gateway closes the
// offending connection and never creates a session for it.
type AuthError struct {
	Reason  ErrorReason
	Message string
}

func NewAuthError(reason ErrorReason, message string) error {
	return &AuthError{
		Reason:  reason,
		Message: message,
	}
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: reason: %s", e.Reason)
}

func IsAuthError(e error) bool {
	_, ok := e.(*AuthError)
	return ok
}
