package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/uuid/v5"
	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/internal/clients/stytch"
	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/internal/entity"
	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/pkg/config"
	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/pkg/logger"
)

type UserRepository interface {
	FindByPhone(ctx context.Context, phoneE164 string) (entity.User, error)
	CreateUser(ctx context.Context, user entity.User) error
	UpdateUser(ctx context.Context, user entity.User) error
}

type AuthService struct {
	cfg      config.Config
	userRepo UserRepository
	provider stytch.ClientInterface
	limiter  *AttemptLimiter
	sessions *OtpSessionStore
}

func NewAuthService(
	cfg config.Config,
	userRepo UserRepository,
	provider stytch.ClientInterface,
	limiter *AttemptLimiter,
	sessions *OtpSessionStore,
) *AuthService {
	return &AuthService{
		cfg:      cfg,
		userRepo: userRepo,
		provider: provider,
		limiter:  limiter,
		sessions: sessions,
	}
}

// SendCode validates the phone, enforces the per-IP send limit and asks the
// provider to deliver an OTP. Nothing is retried: every failure is terminal
// for this request and the client decides whether to try again.
func (s *AuthService) SendCode(ctx context.Context, rawPhone string) (entity.SendCodeResult, error) {
	if rawPhone == "" {
		return entity.SendCodeResult{}, entity.ErrPhoneRequired
	}

	if !s.provider.IsConfigured() {
		slog.ErrorContext(ctx, "otp provider credentials missing, cannot send code")
		return entity.SendCodeResult{}, entity.ErrProviderNotConfigured
	}

	phone, err := ValidatePhone(rawPhone)
	if err != nil {
		slog.WarnContext(ctx, "phone validation failed for send", "error", err)
		return entity.SendCodeResult{}, err
	}

	ipAddr := entity.IPFromCtx(ctx)
	limiterKey := ipAddr + "|" + phone.E164

	if !s.limiter.CanAttempt(limiterKey) {
		ctx = logger.SetLogType(ctx, "security")
		slog.WarnContext(ctx, "send attempt limit exceeded",
			"phone", phone.Masked(),
			"ip", ipAddr,
			"limit", s.limiter.maxAttempts,
		)

		return entity.SendCodeResult{}, &entity.RateLimitedError{
			RetryAfterMinutes: s.limiter.RemainingMinutes(limiterKey),
		}
	}

	expirationMinutes := int(s.cfg.OTP.CodeExpiry.Minutes())

	resp, err := s.provider.LoginOrCreate(ctx, phone.E164, expirationMinutes)
	if err != nil {
		return entity.SendCodeResult{}, s.mapSendError(ctx, phone, err)
	}

	s.sessions.Store(phone.E164, resp.PhoneID, resp.UserID)

	slog.InfoContext(ctx, "otp sent",
		"phone", phone.Masked(),
		"ip", ipAddr,
		"new_identity", resp.UserCreated,
	)

	return entity.SendCodeResult{
		MaskedPhone:   phone.Display,
		IsNewIdentity: resp.UserCreated,
	}, nil
}

func (s *AuthService) mapSendError(ctx context.Context, phone entity.Phone, err error) error {
	switch {
	case errors.Is(err, entity.ErrProviderUnauthorized):
		slog.ErrorContext(ctx, "otp provider rejected credentials", "phone", phone.Masked())
		return entity.ErrProviderUnauthorized

	case errors.Is(err, entity.ErrProviderInvalidPhone):
		slog.WarnContext(ctx, "otp provider rejected phone number", "phone", phone.Masked())
		return &entity.PhoneValidationError{
			Reason: "This phone number cannot receive verification codes. Please use a valid US mobile number.",
		}

	case errors.Is(err, entity.ErrProviderRateLimited):
		slog.WarnContext(ctx, "otp provider rate limited", "phone", phone.Masked())
		return entity.ErrProviderRateLimited

	case errors.Is(err, entity.ErrProviderUnavailable):
		slog.ErrorContext(ctx, "otp provider unavailable", "phone", phone.Masked(), "error", err)
		return entity.ErrProviderUnavailable
	}

	slog.ErrorContext(ctx, "otp send failed", "phone", phone.Masked(), "error", err)

	return fmt.Errorf("send verification code: %w", err)
}

// VerifyCode checks the submitted code against the provider session stored at
// send time, upserts the user on success and issues the signed session
// credential. The session entry is removed only on success; a wrong code
// leaves it in place so the user may retry within the attempt limit.
func (s *AuthService) VerifyCode(ctx context.Context, rawPhone, code, displayName string) (entity.AuthResult, error) {
	if rawPhone == "" {
		return entity.AuthResult{}, entity.ErrPhoneRequired
	}

	if code == "" {
		return entity.AuthResult{}, entity.ErrCodeRequired
	}

	phone, err := ValidatePhone(rawPhone)
	if err != nil {
		slog.WarnContext(ctx, "phone validation failed for verify", "error", err)
		return entity.AuthResult{}, err
	}

	ipAddr := entity.IPFromCtx(ctx)
	limiterKey := "verify|" + ipAddr + "|" + phone.E164

	if !s.limiter.CanAttempt(limiterKey) {
		ctx = logger.SetLogType(ctx, "security")
		slog.WarnContext(ctx, "verify attempt limit exceeded",
			"phone", phone.Masked(),
			"ip", ipAddr,
			"limit", s.limiter.maxAttempts,
		)

		return entity.AuthResult{}, &entity.RateLimitedError{
			RetryAfterMinutes: s.limiter.RemainingMinutes(limiterKey),
		}
	}

	session := s.sessions.Retrieve(phone.E164)
	if session == nil {
		slog.WarnContext(ctx, "no verification session for phone", "phone", phone.Masked(), "ip", ipAddr)
		return entity.AuthResult{}, entity.ErrOtpSessionExpired
	}

	sessionMinutes := int(s.cfg.JWT.TokenExpiry.Minutes())

	resp, err := s.provider.Authenticate(ctx, session.PhoneID, code, sessionMinutes)
	if err != nil {
		return entity.AuthResult{}, s.mapVerifyError(ctx, phone, err)
	}

	user, err := s.upsertUser(ctx, phone, resp.UserID, displayName)
	if err != nil {
		return entity.AuthResult{}, err
	}

	// Single use: a verified session must not authenticate a second code.
	s.sessions.Remove(phone.E164)

	token, err := s.issueToken(user, resp.SessionToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to sign session credential", "user_id", user.ID, "error", err)
		return entity.AuthResult{}, fmt.Errorf("sign token: %w", err)
	}

	slog.InfoContext(ctx, "phone verified", "phone", phone.Masked(), "user_id", user.ID, "ip", ipAddr)

	return entity.AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) mapVerifyError(ctx context.Context, phone entity.Phone, err error) error {
	switch {
	case errors.Is(err, entity.ErrCodeInvalid):
		slog.WarnContext(ctx, "invalid verification code", "phone", phone.Masked())
		return entity.ErrCodeInvalid

	case errors.Is(err, entity.ErrProviderSessionStale):
		// The provider no longer recognizes the phone id. The local entry is
		// left to expire; the client must request a new code.
		slog.WarnContext(ctx, "provider session stale", "phone", phone.Masked())
		return entity.ErrOtpSessionExpired

	case errors.Is(err, entity.ErrProviderRateLimited):
		slog.WarnContext(ctx, "otp provider rate limited on verify", "phone", phone.Masked())
		return entity.ErrProviderRateLimited

	case errors.Is(err, entity.ErrProviderUnavailable):
		slog.ErrorContext(ctx, "otp provider unavailable on verify", "phone", phone.Masked(), "error", err)
		return entity.ErrProviderUnavailable
	}

	slog.ErrorContext(ctx, "code verification failed", "phone", phone.Masked(), "error", err)

	return fmt.Errorf("verify code: %w", err)
}

// upsertUser finds or creates the account for a verified phone. The display
// name is first-write-wins: a later login never overwrites a name already set.
func (s *AuthService) upsertUser(ctx context.Context, phone entity.Phone, providerUserID, displayName string) (entity.User, error) {
	user, err := s.userRepo.FindByPhone(ctx, phone.E164)
	if err == nil {
		changed := false

		if user.DisplayName == nil && displayName != "" {
			user.DisplayName = &displayName
			changed = true
		}

		if user.ProviderUserID != providerUserID {
			user.ProviderUserID = providerUserID
			changed = true
		}

		if changed {
			if updErr := s.userRepo.UpdateUser(ctx, user); updErr != nil {
				slog.ErrorContext(ctx, "failed to update user after verify", "user_id", user.ID, "error", updErr)
				return entity.User{}, fmt.Errorf("update user: %w", updErr)
			}
		}

		return user, nil
	}

	if !errors.Is(err, entity.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to look up user by phone", "phone", phone.Masked(), "error", err)
		return entity.User{}, fmt.Errorf("find user: %w", err)
	}

	user = entity.User{
		ID:             uuid.Must(uuid.NewV4()),
		PhoneNumber:    phone.E164,
		ProviderUserID: providerUserID,
	}

	if displayName != "" {
		user.DisplayName = &displayName
	}

	if createErr := s.userRepo.CreateUser(ctx, user); createErr != nil {
		slog.ErrorContext(ctx, "failed to create user", "phone", phone.Masked(), "error", createErr)
		return entity.User{}, fmt.Errorf("create user: %w", createErr)
	}

	slog.InfoContext(ctx, "user created", "user_id", user.ID, "phone", phone.Masked())

	return user, nil
}

func (s *AuthService) issueToken(user entity.User, providerSessionToken string) (string, error) {
	var displayName string
	if user.DisplayName != nil {
		displayName = *user.DisplayName
	}

	claims := entity.AuthClaims{
		User: entity.AuthUser{
			UserID:               user.ID,
			PhoneNumber:          user.PhoneNumber,
			DisplayName:          displayName,
			ProviderUserID:       user.ProviderUserID,
			ProviderSessionToken: providerSessionToken,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.cfg.JWT.TokenExpiry)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWT.Secret))
}

// ParseToken validates a session credential and returns the embedded identity.
func (s *AuthService) ParseToken(tokenStr string) (*entity.AuthUser, error) {
	var claims entity.AuthClaims

	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (any, error) {
		_, ok := token.Method.(*jwt.SigningMethodHMAC)
		if !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return []byte(s.cfg.JWT.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, entity.ErrTokenExpired
		}

		return nil, fmt.Errorf("parse token: %w", entity.ErrTokenInvalid)
	}

	if !token.Valid {
		return nil, entity.ErrTokenInvalid
	}

	return &claims.User, nil
}
