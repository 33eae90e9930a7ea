package entity

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUserNotFound    = errors.New("user not found")
	ErrEventNotFound   = errors.New("event not found")
	ErrNotParticipant  = errors.New("not a participant in this event")
)

var (
	ErrPhoneRequired     = errors.New("phone number is required")
	ErrCodeRequired      = errors.New("verification code is required")
	ErrCodeInvalid       = errors.New("invalid or expired code")
	ErrOtpSessionExpired = errors.New("verification session expired")
)

var (
	ErrEventNameRequired = errors.New("event name is required")
	ErrInvalidHoleNumber = errors.New("invalid hole number")
	ErrInvalidKudosType  = errors.New("invalid kudos type")
)

var (
	ErrProviderNotConfigured = errors.New("otp provider is not configured")
	ErrProviderUnauthorized  = errors.New("otp provider rejected credentials")
	ErrProviderInvalidPhone  = errors.New("otp provider rejected phone number")
	ErrProviderRateLimited   = errors.New("otp provider rate limit exceeded")
	ErrProviderSessionStale  = errors.New("otp provider session is stale")
	ErrProviderUnavailable   = errors.New("otp provider unavailable")
)

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// PhoneValidationError carries the exact reason shown to the user when a
// phone number fails US numbering-plan validation.
type PhoneValidationError struct {
	Reason string
}

func (e *PhoneValidationError) Error() string { return e.Reason }

// RateLimitedError is returned when a send or verify attempt exceeds the
// fixed-window limit. RetryAfterMinutes is the ceiling of the time left in
// the current window.
type RateLimitedError struct {
	RetryAfterMinutes int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("too many attempts, retry in %d minutes", e.RetryAfterMinutes)
}

// ProviderError wraps an unclassified upstream OTP provider failure. The raw
// message is kept for operator diagnosis and never shown to end users.
type ProviderError struct {
	StatusCode int
	ErrorType  string
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("otp provider error [%d %s]: %s", e.StatusCode, e.ErrorType, e.Message)
}
