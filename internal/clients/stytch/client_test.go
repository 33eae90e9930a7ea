package stytch

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/internal/entity"
	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/pkg/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Config{}
	cfg.Stytch.BaseURL = srv.URL
	cfg.Stytch.ProjectID = "project-test-123"
	cfg.Stytch.Secret = "secret-test-456"
	cfg.Stytch.Timeout = 2 * time.Second
	cfg.Stytch.RetryAttempts = 0

	return NewClient(cfg)
}

func TestClient_IsConfigured(t *testing.T) {
	cfg := config.Config{}
	require.False(t, NewClient(cfg).IsConfigured())

	cfg.Stytch.ProjectID = "project-test-123"
	require.False(t, NewClient(cfg).IsConfigured())

	cfg.Stytch.Secret = "secret-test-456"
	require.True(t, NewClient(cfg).IsConfigured())
}

func TestClient_LoginOrCreate(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/otps/sms/login_or_create", r.URL.Path)

		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(LoginOrCreateResponse{
			RequestID:   "request-id-test",
			StatusCode:  200,
			PhoneID:     "phone-number-test-id",
			UserID:      "user-test-id",
			UserCreated: true,
		})
	})

	resp, err := client.LoginOrCreate(context.Background(), "+14155551234", 10)
	require.NoError(t, err)
	require.Equal(t, "phone-number-test-id", resp.PhoneID)
	require.Equal(t, "user-test-id", resp.UserID)
	require.True(t, resp.UserCreated)

	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("project-test-123:secret-test-456"))
	require.Equal(t, wantAuth, gotAuth)
	require.Equal(t, "+14155551234", gotBody["phone_number"])
	require.Equal(t, float64(10), gotBody["expiration_minutes"])
}

func TestClient_Authenticate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/otps/authenticate", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "phone-number-test-id", body["method_id"])
		require.Equal(t, "123456", body["code"])

		_ = json.NewEncoder(w).Encode(AuthenticateResponse{
			UserID:       "user-test-id",
			SessionToken: "session-token-test",
		})
	})

	resp, err := client.Authenticate(context.Background(), "phone-number-test-id", "123456", 43200)
	require.NoError(t, err)
	require.Equal(t, "user-test-id", resp.UserID)
	require.Equal(t, "session-token-test", resp.SessionToken)
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		errorType  string
		wantErr    error
	}{
		{
			name:       "unauthorized credentials",
			statusCode: http.StatusUnauthorized,
			errorType:  "unauthorized_credentials",
			wantErr:    entity.ErrProviderUnauthorized,
		},
		{
			name:       "invalid phone number",
			statusCode: http.StatusBadRequest,
			errorType:  "invalid_phone_number",
			wantErr:    entity.ErrProviderInvalidPhone,
		},
		{
			name:       "rate limited",
			statusCode: http.StatusTooManyRequests,
			errorType:  "too_many_requests",
			wantErr:    entity.ErrProviderRateLimited,
		},
		{
			name:       "wrong code",
			statusCode: http.StatusBadRequest,
			errorType:  "otp_code_not_found",
			wantErr:    entity.ErrCodeInvalid,
		},
		{
			name:       "stale phone id",
			statusCode: http.StatusNotFound,
			errorType:  "phone_id_not_found",
			wantErr:    entity.ErrProviderSessionStale,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_ = json.NewEncoder(w).Encode(ErrorResponse{
					StatusCode: tt.statusCode,
					ErrorType:  tt.errorType,
				})
			})

			_, err := client.Authenticate(context.Background(), "phone-number-test-id", "000000", 43200)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_UnclassifiedError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(ErrorResponse{
			StatusCode:   http.StatusConflict,
			ErrorType:    "duplicate_phone_number",
			ErrorMessage: "phone number already claimed",
		})
	})

	_, err := client.LoginOrCreate(context.Background(), "+14155551234", 10)

	var provErr *entity.ProviderError
	require.ErrorAs(t, err, &provErr)
	require.Equal(t, http.StatusConflict, provErr.StatusCode)
	require.Equal(t, "duplicate_phone_number", provErr.ErrorType)
}

func TestClient_NoRetryOnErrorResponse(t *testing.T) {
	calls := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++

		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"status_code":500,"error_type":"internal_server_error"}`))
	}))
	t.Cleanup(srv.Close)

	cfg := config.Config{}
	cfg.Stytch.BaseURL = srv.URL
	cfg.Stytch.ProjectID = "project-test-123"
	cfg.Stytch.Secret = "secret-test-456"
	cfg.Stytch.Timeout = 2 * time.Second
	cfg.Stytch.RetryAttempts = 3

	client := NewClient(cfg)

	_, err := client.LoginOrCreate(context.Background(), "+14155551234", 10)
	require.Error(t, err)
	require.Equal(t, 1, calls)
}
