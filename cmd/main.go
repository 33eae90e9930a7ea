package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/internal/api"
	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/internal/clients/stytch"
	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/internal/repository"
	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/internal/service"
	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/pkg/broker"
	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/pkg/config"
	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/pkg/logger"
	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/pkg/postgres"
)

const (
	ReadTimeout       = 5 * time.Second
	WriteTimeout      = 10 * time.Second
	IdleTimeout       = 60 * time.Second
	ReadHeaderTimeout = 1 * time.Second
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New(".env")
	panicOnErr("load config", err)

	l := logger.New(logger.ParseLevel(cfg.LogLevel))
	slog.SetDefault(l)

	pool, err := postgres.ConnectToPostgres(ctx, cfg.PostgresDSN, cfg.PostgresMaxConns)
	panicOnErr("connect to postgres", err)

	defer pool.Close()

	err = postgres.UpMigrations(cfg.PostgresDSN)
	panicOnErr("up migrations", err)

	userRepo := repository.NewUserRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	kudosRepo := repository.NewKudosRepository(pool)

	stytchClient := stytch.NewClient(cfg)
	if !stytchClient.IsConfigured() {
		l.Warn("stytch credentials missing, otp sends will be refused")
	}

	producer := broker.NewProducer(l, cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close()

	limiter := service.NewAttemptLimiter(cfg.OTP.MaxAttempts, cfg.OTP.AttemptWindow)
	sessions := service.NewOtpSessionStore(cfg.OTP.SessionTTL)

	authService := service.NewAuthService(cfg, userRepo, stytchClient, limiter, sessions)
	eventService := service.NewEventService(eventRepo, kudosRepo, producer)

	h := api.NewHandler(cfg, authService, eventService)
	mw := api.NewMiddleware(cfg, authService)
	router := api.NewRouter(h, mw)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
		ReadHeaderTimeout: ReadHeaderTimeout,
	}

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		l.Info("http server started", "port", cfg.HTTPPort, "env", cfg.Env)

		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Panicf("listen and serve: %s", err)
		}

		l.Debug("http server stopped")
	}()

	waitSignal(l, cancel, server)
	wg.Wait()
}

func waitSignal(l *slog.Logger, cancel context.CancelFunc, server *http.Server) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	sig := <-ch

	l.Info("got OS signal", "signal", sig.String())

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	err := server.Shutdown(shutdownCtx)
	if err != nil {
		l.Error("server shutdown", "error", err)
	}
}

func panicOnErr(msg string, err error) {
	if err != nil {
		log.Panicf("%s: %s", msg, err)
	}
}
