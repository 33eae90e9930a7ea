package api

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/internal/entity"
	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/pkg/config"
	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/pkg/logger"
)

const (
	authCookieName      = "auth_token"
	spectatorCookieName = "session_id"
)

// TokenParser validates a session credential from the auth cookie.
type TokenParser interface {
	ParseToken(tokenStr string) (*entity.AuthUser, error)
}

type Middleware struct {
	cfg  config.Config
	auth TokenParser
}

func NewMiddleware(cfg config.Config, auth TokenParser) *Middleware {
	return &Middleware{
		cfg:  cfg,
		auth: auth,
	}
}

func (m *Middleware) Cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Origin, Accept, User-Agent, Cache-Control")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) Log(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ctx := logger.SetRequestID(r.Context(), uuid.Must(uuid.NewV4()).String())

		ctx = logger.SetMethod(ctx, r.Method)
		ctx = logger.SetURL(ctx, r.URL.Path)
		ctx = logger.SetLogType(ctx, "webrequest")

		ip := entity.IPFromCtx(ctx)
		ctx = logger.SetIP(ctx, ip)

		if user := entity.UserFromCtx(ctx); user != nil {
			ctx = logger.SetUserID(ctx, user.UserID.String())
		}

		slog.InfoContext(ctx, "incoming request")

		next.ServeHTTP(w, r.WithContext(ctx))

		duration := time.Since(start)
		slog.InfoContext(ctx, "request completed", "duration_ms", duration.Milliseconds())
	})
}

func (m *Middleware) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func(ctx context.Context) {
			err := recover()
			if err != nil {
				slog.ErrorContext(ctx, "panic", "error", err, "stack", string(debug.Stack()))
				w.WriteHeader(http.StatusInternalServerError)
			}
		}(r.Context())
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) WithIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := removePort(r.RemoteAddr)

		if xForwardedFor := r.Header.Get("X-Forwarded-For"); xForwardedFor != "" {
			parts := splitAndTrim(xForwardedFor, ",")

			for _, part := range parts {
				part = removePort(part)
				if isValidIP(part) {
					ip = part
					break
				}
			}
		}

		if xRealIP := r.Header.Get("X-Real-IP"); xRealIP != "" {
			xRealIP = removePort(xRealIP)
			if isValidIP(xRealIP) {
				ip = xRealIP
			}
		}

		if !isValidIP(ip) {
			slog.Warn("invalid IP detected, using fallback", "ip", ip, "remote_addr", r.RemoteAddr)
			ip = "unknown"
		}

		ctx := context.WithValue(r.Context(), entity.CtxKeyIP{}, ip)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithAuth parses the auth cookie when present and puts the identity into the
// context. Anonymous requests pass through; handlers that require a login use
// RequireAuth instead.
func (m *Middleware) WithAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(authCookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.auth.ParseToken(cookie.Value)
		if err != nil {
			slog.WarnContext(r.Context(), "rejecting auth cookie", "error", err)
			next.ServeHTTP(w, r)

			return
		}

		ctx := context.WithValue(r.Context(), entity.CtxKeyUser{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth guards a single route: no valid identity in the context means
// the request stops with 401.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if entity.UserFromCtx(ctx) == nil {
			sendServiceErr(ctx, w, fmt.Errorf("missing or invalid auth cookie: %w", entity.ErrUnauthenticated))
			return
		}

		next(w, r)
	}
}

// WithSpectator ensures an anonymous spectator session cookie exists, minting
// one on first contact. The session id deduplicates kudos without a login.
func (m *Middleware) WithSpectator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sessionID string

		cookie, err := r.Cookie(spectatorCookieName)
		if err == nil && cookie.Value != "" {
			sessionID = cookie.Value
		} else {
			sessionID = uuid.Must(uuid.NewV4()).String()

			http.SetCookie(w, &http.Cookie{
				Name:     spectatorCookieName,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   int(m.cfg.OTP.SpectatorCookieTTL.Seconds()),
				HttpOnly: true,
				Secure:   m.cfg.IsProduction(),
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), entity.CtxKeySpectator{}, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func removePort(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}

	return host
}

func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := []string{}

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

func isValidIP(ip string) bool {
	if ip == "" {
		return false
	}

	parsedIP := net.ParseIP(ip)

	return parsedIP != nil
}
