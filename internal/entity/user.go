package entity

import (
	"time"

	"github.com/gofrs/uuid/v5"
	jwt "github.com/golang-jwt/jwt/v5"
)

type User struct {
	ID             uuid.UUID
	PhoneNumber    string // E.164
	ProviderUserID string
	DisplayName    *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AuthUser is the identity embedded in the auth cookie credential.
type AuthUser struct {
	UserID               uuid.UUID `json:"user_id"`
	PhoneNumber          string    `json:"phone_number"`
	DisplayName          string    `json:"display_name,omitempty"`
	ProviderUserID       string    `json:"provider_user_id"`
	ProviderSessionToken string    `json:"provider_session_token,omitempty"`
}

type AuthClaims struct {
	User AuthUser `json:"user"`
	jwt.RegisteredClaims
}
