package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/alec0xFFFFFF/nine-nine-nine-challenge/docs" // swagger spec registration
)

func NewRouter(h *Handler, mw *Middleware) http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("GET /api/health", h.Health)

	router.HandleFunc("POST /api/auth/send-otp", h.SendOtp)
	router.HandleFunc("POST /api/auth/verify-otp", h.VerifyOtp)
	router.HandleFunc("GET /api/auth/me", mw.RequireAuth(h.Me))
	router.HandleFunc("POST /api/auth/logout", h.Logout)

	router.HandleFunc("POST /api/events/create", mw.RequireAuth(h.CreateEvent))
	router.HandleFunc("GET /api/events/{eventCode}", h.GetEvent)
	router.HandleFunc("POST /api/events/{eventCode}/join", mw.RequireAuth(h.JoinEvent))
	router.HandleFunc("POST /api/events/{eventCode}/scores/update", mw.RequireAuth(h.UpdateScore))
	router.HandleFunc("GET /api/events/{eventCode}/scores/my-scores", mw.RequireAuth(h.MyScores))
	router.HandleFunc("POST /api/events/{eventCode}/kudos", h.GiveKudos)
	router.HandleFunc("GET /api/events/{eventCode}/kudos", h.EventKudos)
	router.HandleFunc("GET /api/events/{eventCode}/leaderboard", h.Leaderboard)

	router.HandleFunc("/api/swagger/", httpSwagger.WrapHandler)

	handler := use(router, mw.Recover, mw.Cors, mw.WithIP, mw.WithAuth, mw.WithSpectator, mw.Log)

	return handler
}

func use(handler http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		handler = mws[i](handler)
	}

	return handler
}
