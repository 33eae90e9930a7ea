package entity

import "time"

// OtpSession correlates a phone number to the provider-issued verification
// handle returned when a code was sent. It lives in process-local memory and
// is treated as absent once older than the store TTL.
type OtpSession struct {
	PhoneID        string // provider verification handle ("phone id")
	ProviderUserID string
	PhoneNumber    string // E.164
	CreatedAt      time.Time
}

// SendCodeResult is returned to the client after a successful OTP send.
type SendCodeResult struct {
	MaskedPhone   string
	IsNewIdentity bool
}

// AuthResult is the outcome of a successful code verification.
type AuthResult struct {
	User  User
	Token string // signed session credential for the auth cookie
}
