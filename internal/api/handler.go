package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/internal/entity"
	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/pkg/config"
)

type AuthService interface {
	SendCode(ctx context.Context, rawPhone string) (entity.SendCodeResult, error)
	VerifyCode(ctx context.Context, rawPhone, code, displayName string) (entity.AuthResult, error)
}

type Handler struct {
	cfg    config.Config
	auth   AuthService
	events EventService
}

func NewHandler(cfg config.Config, auth AuthService, events EventService) *Handler {
	return &Handler{
		cfg:    cfg,
		auth:   auth,
		events: events,
	}
}

// @Summary Health check
// @Tags service
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	sendJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

type SendOtpRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

type SendOtpResponse struct {
	Message       string `json:"message"`
	MaskedPhone   string `json:"maskedPhone"`
	IsNewIdentity bool   `json:"isNewIdentity"`
}

// @Summary Send a verification code
// @Description Sends a one-time SMS code to a US phone number.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SendOtpRequest true "Phone number"
// @Success 200 {object} SendOtpResponse
// @Failure 400 {object} ResponseError
// @Failure 429 {object} ResponseError
// @Failure 503 {object} ResponseError
// @Router /api/auth/send-otp [post]
func (h *Handler) SendOtp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SendOtpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErr(ctx, w, http.StatusBadRequest, err, "Invalid request body.")
		return
	}

	result, err := h.auth.SendCode(ctx, req.PhoneNumber)
	if err != nil {
		sendServiceErr(ctx, w, err)
		return
	}

	sendJSON(ctx, w, http.StatusOK, SendOtpResponse{
		Message:       "Verification code sent to " + result.MaskedPhone,
		MaskedPhone:   result.MaskedPhone,
		IsNewIdentity: result.IsNewIdentity,
	})
}

type VerifyOtpRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Code        string `json:"code"`
	DisplayName string `json:"displayName,omitempty"`
}

type UserResponse struct {
	UserID      string `json:"userId"`
	PhoneNumber string `json:"phoneNumber"`
	DisplayName string `json:"displayName,omitempty"`
}

type VerifyOtpResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// @Summary Verify a code and sign in
// @Description Checks the submitted code and issues the session cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyOtpRequest true "Phone number and code"
// @Success 200 {object} VerifyOtpResponse
// @Failure 400 {object} ResponseError
// @Failure 429 {object} ResponseError
// @Router /api/auth/verify-otp [post]
func (h *Handler) VerifyOtp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req VerifyOtpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErr(ctx, w, http.StatusBadRequest, err, "Invalid request body.")
		return
	}

	result, err := h.auth.VerifyCode(ctx, req.PhoneNumber, req.Code, req.DisplayName)
	if err != nil {
		sendServiceErr(ctx, w, err)
		return
	}

	h.setAuthCookie(w, result.Token)

	sendJSON(ctx, w, http.StatusOK, VerifyOtpResponse{
		Message: "Signed in successfully.",
		User:    userResponse(result.User),
	})
}

// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 401 {object} ResponseError
// @Router /api/auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := entity.UserFromCtx(ctx)

	sendJSON(ctx, w, http.StatusOK, UserResponse{
		UserID:      user.UserID.String(),
		PhoneNumber: entity.MaskPhoneE164(user.PhoneNumber),
		DisplayName: user.DisplayName,
	})
}

// @Summary Sign out
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	sendJSON(r.Context(), w, http.StatusOK, map[string]string{"message": "Signed out."})
}

func (h *Handler) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cfg.JWT.TokenExpiry.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

func userResponse(user entity.User) UserResponse {
	resp := UserResponse{
		UserID:      user.ID.String(),
		PhoneNumber: entity.MaskPhoneE164(user.PhoneNumber),
	}

	if user.DisplayName != nil {
		resp.DisplayName = *user.DisplayName
	}

	return resp
}
