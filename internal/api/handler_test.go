package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"

	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/internal/api"
	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/internal/entity"
	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/internal/service"
	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/pkg/config"
)

type fakeAuthService struct {
	sendResult   entity.SendCodeResult
	sendErr      error
	verifyResult entity.AuthResult
	verifyErr    error
}

func (f *fakeAuthService) SendCode(_ context.Context, _ string) (entity.SendCodeResult, error) {
	return f.sendResult, f.sendErr
}

func (f *fakeAuthService) VerifyCode(_ context.Context, _, _, _ string) (entity.AuthResult, error) {
	return f.verifyResult, f.verifyErr
}

type fakeTokenParser struct {
	user *entity.AuthUser
}

func (f *fakeTokenParser) ParseToken(_ string) (*entity.AuthUser, error) {
	if f.user == nil {
		return nil, entity.ErrTokenInvalid
	}

	return f.user, nil
}

type fakeEventService struct {
	event       entity.Event
	eventErr    error
	joinResult  service.JoinResult
	joinErr     error
	scoreResult service.UpdateScoreResult
	scoreErr    error
	scores      []entity.HoleScore
	kudosResult service.GiveKudosResult
	kudosErr    error
	kudosList   []entity.ParticipantKudos
	leaderboard []entity.LeaderboardEntry

	lastKudosSession string
}

func (f *fakeEventService) CreateEvent(_ context.Context, _ uuid.UUID, _ service.CreateEventInput) (entity.Event, error) {
	return f.event, f.eventErr
}

func (f *fakeEventService) EventByCode(_ context.Context, _ string) (entity.Event, error) {
	return f.event, f.eventErr
}

func (f *fakeEventService) EventByJoinCode(_ context.Context, _ string) (entity.Event, error) {
	return f.event, f.eventErr
}

func (f *fakeEventService) Join(_ context.Context, _ string, _ uuid.UUID) (service.JoinResult, error) {
	return f.joinResult, f.joinErr
}

func (f *fakeEventService) UpdateHoleScore(_ context.Context, _ string, _ uuid.UUID, _ service.UpdateScoreInput) (service.UpdateScoreResult, error) {
	return f.scoreResult, f.scoreErr
}

func (f *fakeEventService) MyScores(_ context.Context, _ string, _ uuid.UUID) ([]entity.HoleScore, error) {
	return f.scores, nil
}

func (f *fakeEventService) GiveKudos(_ context.Context, _ string, _ uuid.UUID, _, sessionID string) (service.GiveKudosResult, error) {
	f.lastKudosSession = sessionID
	return f.kudosResult, f.kudosErr
}

func (f *fakeEventService) EventKudos(_ context.Context, _ string) ([]entity.ParticipantKudos, error) {
	return f.kudosList, nil
}

func (f *fakeEventService) Leaderboard(_ context.Context, _ string) ([]entity.LeaderboardEntry, error) {
	return f.leaderboard, nil
}

func newTestServer(t *testing.T, auth *fakeAuthService, events *fakeEventService, parser *fakeTokenParser) *httptest.Server {
	t.Helper()

	cfg := config.Config{}
	cfg.JWT.TokenExpiry = 720 * time.Hour
	cfg.OTP.SpectatorCookieTTL = 168 * time.Hour

	h := api.NewHandler(cfg, auth, events)
	mw := api.NewMiddleware(cfg, parser)

	srv := httptest.NewServer(api.NewRouter(h, mw))
	t.Cleanup(srv.Close)

	return srv
}

func postJSON(t *testing.T, srv *httptest.Server, path string, body any, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	b, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, srv.URL+path, bytes.NewReader(b))
	require.NoError(t, err)

	req.Header.Set("Content-Type", "application/json")

	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()

	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestHandler_SendOtp(t *testing.T) {
	t.Parallel()

	auth := &fakeAuthService{
		sendResult: entity.SendCodeResult{MaskedPhone: "(212) 555-1234", IsNewIdentity: true},
	}
	srv := newTestServer(t, auth, &fakeEventService{}, &fakeTokenParser{})

	resp := postJSON(t, srv, "/api/auth/send-otp", api.SendOtpRequest{PhoneNumber: "2125551234"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body api.SendOtpResponse
	decodeBody(t, resp, &body)
	require.Equal(t, "(212) 555-1234", body.MaskedPhone)
	require.True(t, body.IsNewIdentity)
}

func TestHandler_SendOtpErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"validation error", &entity.PhoneValidationError{Reason: "Please enter a valid 10-digit US phone number."}, http.StatusBadRequest},
		{"rate limited", &entity.RateLimitedError{RetryAfterMinutes: 12}, http.StatusTooManyRequests},
		{"provider down", entity.ErrProviderUnavailable, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newTestServer(t, &fakeAuthService{sendErr: tt.err}, &fakeEventService{}, &fakeTokenParser{})

			resp := postJSON(t, srv, "/api/auth/send-otp", api.SendOtpRequest{PhoneNumber: "2125551234"})
			require.Equal(t, tt.wantCode, resp.StatusCode)

			var body api.ResponseError
			decodeBody(t, resp, &body)
			require.NotEmpty(t, body.Message)
		})
	}
}

func TestHandler_SendOtpRateLimitIncludesRetry(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeAuthService{
		sendErr: &entity.RateLimitedError{RetryAfterMinutes: 12},
	}, &fakeEventService{}, &fakeTokenParser{})

	resp := postJSON(t, srv, "/api/auth/send-otp", api.SendOtpRequest{PhoneNumber: "2125551234"})

	var body api.ResponseError
	decodeBody(t, resp, &body)
	require.Equal(t, 12, body.RetryAfterMinutes)
	require.Contains(t, body.Message, "12 minutes")
}

func TestHandler_VerifyOtpSetsAuthCookie(t *testing.T) {
	t.Parallel()

	displayName := "Happy Gilmore"
	auth := &fakeAuthService{
		verifyResult: entity.AuthResult{
			User: entity.User{
				ID:          uuid.Must(uuid.NewV4()),
				PhoneNumber: "+12125551234",
				DisplayName: &displayName,
			},
			Token: "signed-token",
		},
	}
	srv := newTestServer(t, auth, &fakeEventService{}, &fakeTokenParser{})

	resp := postJSON(t, srv, "/api/auth/verify-otp", api.VerifyOtpRequest{PhoneNumber: "2125551234", Code: "123456"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var authCookie *http.Cookie

	for _, c := range resp.Cookies() {
		if c.Name == "auth_token" {
			authCookie = c
		}
	}

	require.NotNil(t, authCookie)
	require.Equal(t, "signed-token", authCookie.Value)
	require.True(t, authCookie.HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, authCookie.SameSite)

	var body api.VerifyOtpResponse
	decodeBody(t, resp, &body)
	require.Equal(t, "***-1234", body.User.PhoneNumber)
	require.Equal(t, "Happy Gilmore", body.User.DisplayName)
}

func TestHandler_MeRequiresAuth(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeAuthService{}, &fakeEventService{}, &fakeTokenParser{})

	resp, err := http.Get(srv.URL + "/api/auth/me")
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestHandler_MeWithValidCookie(t *testing.T) {
	t.Parallel()

	userID := uuid.Must(uuid.NewV4())
	parser := &fakeTokenParser{user: &entity.AuthUser{
		UserID:      userID,
		PhoneNumber: "+12125551234",
		DisplayName: "Happy Gilmore",
	}}
	srv := newTestServer(t, &fakeAuthService{}, &fakeEventService{}, parser)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/auth/me", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: "anything"})

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body api.UserResponse
	decodeBody(t, resp, &body)
	require.Equal(t, userID.String(), body.UserID)
	require.Equal(t, "***-1234", body.PhoneNumber)
}

func TestHandler_LogoutClearsCookie(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeAuthService{}, &fakeEventService{}, &fakeTokenParser{})

	resp := postJSON(t, srv, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cleared bool

	for _, c := range resp.Cookies() {
		if c.Name == "auth_token" && c.MaxAge < 0 {
			cleared = true
		}
	}

	require.True(t, cleared)
}

func TestHandler_GiveKudosMintsSpectatorCookie(t *testing.T) {
	t.Parallel()

	events := &fakeEventService{}
	srv := newTestServer(t, &fakeAuthService{}, events, &fakeTokenParser{})

	resp := postJSON(t, srv, "/api/events/EVNTCODE/kudos", api.GiveKudosRequest{
		ParticipantID: uuid.Must(uuid.NewV4()).String(),
		KudosType:     "GLIZZY_GLADIATOR",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sessionCookie *http.Cookie

	for _, c := range resp.Cookies() {
		if c.Name == "session_id" {
			sessionCookie = c
		}
	}

	require.NotNil(t, sessionCookie)
	require.NotEmpty(t, sessionCookie.Value)
	require.Equal(t, sessionCookie.Value, events.lastKudosSession)
}

func TestHandler_GiveKudosReusesSpectatorCookie(t *testing.T) {
	t.Parallel()

	events := &fakeEventService{}
	srv := newTestServer(t, &fakeAuthService{}, events, &fakeTokenParser{})

	resp := postJSON(t, srv, "/api/events/EVNTCODE/kudos", api.GiveKudosRequest{
		ParticipantID: uuid.Must(uuid.NewV4()).String(),
		KudosType:     "GLIZZY_GLADIATOR",
	}, &http.Cookie{Name: "session_id", Value: "existing-session"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	require.Equal(t, "existing-session", events.lastKudosSession)
}

func TestHandler_UpdateScoreRequiresAuth(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeAuthService{}, &fakeEventService{}, &fakeTokenParser{})

	resp := postJSON(t, srv, "/api/events/EVNTCODE/scores/update", api.UpdateScoreRequest{HoleNumber: 1})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestHandler_UpdateScore(t *testing.T) {
	t.Parallel()

	strokes := 4
	events := &fakeEventService{
		scoreResult: service.UpdateScoreResult{
			TotalScore: 79,
			HoleScore:  entity.HoleScore{HoleNumber: 1, Strokes: &strokes, HotDogs: 2, Beverages: 1},
		},
	}
	parser := &fakeTokenParser{user: &entity.AuthUser{UserID: uuid.Must(uuid.NewV4())}}
	srv := newTestServer(t, &fakeAuthService{}, events, parser)

	resp := postJSON(t, srv, "/api/events/EVNTCODE/scores/update", api.UpdateScoreRequest{
		HoleNumber: 1,
		Strokes:    &strokes,
		HotDogs:    2,
		Beverages:  1,
	}, &http.Cookie{Name: "auth_token", Value: "anything"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body api.UpdateScoreResponse
	decodeBody(t, resp, &body)
	require.Equal(t, 79, body.TotalScore)
	require.Equal(t, 1, body.HoleScore.HoleNumber)
}

func TestHandler_Leaderboard(t *testing.T) {
	t.Parallel()

	events := &fakeEventService{
		leaderboard: []entity.LeaderboardEntry{
			{ParticipantID: uuid.Must(uuid.NewV4()), DisplayName: "Leader", TotalScore: 45},
			{ParticipantID: uuid.Must(uuid.NewV4()), DisplayName: "***-1234", TotalScore: 90},
		},
	}
	srv := newTestServer(t, &fakeAuthService{}, events, &fakeTokenParser{})

	resp, err := http.Get(srv.URL + "/api/events/EVNTCODE/leaderboard")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body []api.LeaderboardEntryResponse
	decodeBody(t, resp, &body)
	require.Len(t, body, 2)
	require.Equal(t, "Leader", body[0].DisplayName)
	require.Equal(t, 45, body[0].TotalScore)
}

func TestHandler_GetEventNotFound(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeAuthService{}, &fakeEventService{eventErr: entity.ErrEventNotFound}, &fakeTokenParser{})

	resp, err := http.Get(srv.URL + "/api/events/MISSING1")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
