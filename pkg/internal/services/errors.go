package services

import "errors"

// Failure taxonomy shared by every service. The HTTP layer maps these to
// response statuses with errors.Is, nothing else inspects error text.
var (
	ErrValidation        = errors.New("invalid or missing input")
	ErrNotFound          = errors.New("record not found")
	ErrConflict          = errors.New("record already exists")
	ErrForbidden         = errors.New("not permitted for this identity")
	ErrInvalidCredential = errors.New("credential mismatch")
	ErrInvalidOperation  = errors.New("operation not allowed")

	ErrTokenMissing = errors.New("token missing")
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)
