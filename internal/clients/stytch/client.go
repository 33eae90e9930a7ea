package stytch

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/internal/entity"
	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/pkg/config"
)

const defaultRetryWaitMax = time.Second * 5

type ClientInterface interface {
	IsConfigured() bool
	LoginOrCreate(ctx context.Context, e164Phone string, expirationMinutes int) (*LoginOrCreateResponse, error)
	Authenticate(ctx context.Context, phoneID, code string, sessionDurationMinutes int) (*AuthenticateResponse, error)
}

type Client struct {
	client    *http.Client
	baseURL   string
	projectID string
	secret    string
}

var _ ClientInterface = (*Client)(nil)

func NewClient(cfg config.Config) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.Stytch.RetryAttempts
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = defaultRetryWaitMax
	retryClient.HTTPClient.Timeout = cfg.Stytch.Timeout

	retryClient.Logger = nil

	// Retry transport failures only. A response from the provider is final:
	// retrying a received OTP send duplicates SMS delivery and billing.
	retryClient.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err != nil {
			return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
		}

		return false, nil
	}

	return &Client{
		client:    retryClient.StandardClient(),
		baseURL:   strings.TrimSuffix(cfg.Stytch.BaseURL, "/"),
		projectID: cfg.Stytch.ProjectID,
		secret:    cfg.Stytch.Secret,
	}
}

// IsConfigured reports whether provider credentials are present. Send must
// fail loudly when they are missing rather than silently attempt delivery.
func (c *Client) IsConfigured() bool {
	return c.projectID != "" && c.secret != ""
}

type LoginOrCreateResponse struct {
	RequestID   string `json:"request_id"`
	StatusCode  int    `json:"status_code"`
	PhoneID     string `json:"phone_id"`
	UserID      string `json:"user_id"`
	UserCreated bool   `json:"user_created"`
}

type AuthenticateResponse struct {
	RequestID    string `json:"request_id"`
	StatusCode   int    `json:"status_code"`
	UserID       string `json:"user_id"`
	SessionToken string `json:"session_token"`
}

type ErrorResponse struct {
	StatusCode   int    `json:"status_code"`
	RequestID    string `json:"request_id"`
	ErrorType    string `json:"error_type"`
	ErrorMessage string `json:"error_message"`
}

func (c *Client) LoginOrCreate(ctx context.Context, e164Phone string, expirationMinutes int) (*LoginOrCreateResponse, error) {
	body := map[string]any{
		"phone_number":       e164Phone,
		"expiration_minutes": expirationMinutes,
	}

	var resp LoginOrCreateResponse
	if err := c.post(ctx, "/v1/otps/sms/login_or_create", body, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (c *Client) Authenticate(ctx context.Context, phoneID, code string, sessionDurationMinutes int) (*AuthenticateResponse, error) {
	body := map[string]any{
		"method_id":                phoneID,
		"code":                     code,
		"session_duration_minutes": sessionDurationMinutes,
	}

	var resp AuthenticateResponse
	if err := c.post(ctx, "/v1/otps/authenticate", body, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+basicAuth(c.projectID, c.secret))

	resp, err := c.client.Do(req)
	if err != nil {
		if strings.Contains(err.Error(), "timeout") || strings.Contains(err.Error(), "connection refused") {
			return entity.ErrProviderUnavailable
		}

		return fmt.Errorf("send request: %w", err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return ParseStytchError(resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// ParseStytchError maps a provider error payload onto the sentinel error
// categories the auth service switches on. Unclassified failures keep the raw
// provider message for operator diagnosis.
func ParseStytchError(statusCode int, body []byte) error {
	var errorResp ErrorResponse
	if err := json.Unmarshal(body, &errorResp); err != nil {
		return mapHTTPStatusToError(statusCode, string(body))
	}

	switch errorResp.ErrorType {
	case "unauthorized_credentials", "invalid_authorization_header", "project_not_found":
		return entity.ErrProviderUnauthorized

	case "invalid_phone_number", "invalid_phone_number_country_code", "inactive_phone_number":
		return entity.ErrProviderInvalidPhone

	case "too_many_requests", "rate_limited":
		return entity.ErrProviderRateLimited

	case "otp_code_not_found", "unable_to_auth_otp_code", "incorrect_code":
		return entity.ErrCodeInvalid

	case "phone_id_not_found", "invalid_method_id", "method_id_not_found":
		return entity.ErrProviderSessionStale
	}

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return entity.ErrProviderUnauthorized
	case http.StatusTooManyRequests:
		return entity.ErrProviderRateLimited
	}

	return &entity.ProviderError{
		StatusCode: statusCode,
		ErrorType:  errorResp.ErrorType,
		Message:    errorResp.ErrorMessage,
	}
}

func mapHTTPStatusToError(statusCode int, body string) error {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return entity.ErrProviderUnauthorized
	case http.StatusTooManyRequests:
		return entity.ErrProviderRateLimited
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return entity.ErrProviderUnavailable
	}

	return &entity.ProviderError{StatusCode: statusCode, Message: body}
}

func basicAuth(projectID, secret string) string {
	return base64.StdEncoding.EncodeToString([]byte(projectID + ":" + secret))
}
