package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"socialimpact/internal/app"
	"socialimpact/internal/config"
	"socialimpact/internal/logger"
	"socialimpact/internal/service"
	"socialimpact/internal/transport/rest"
	"socialimpact/internal/transport/ws"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()

	log.Info("AI config",
		"model", cfg.AI.Model,
		"enabled", cfg.AI.IsEnabled(),
		"max_attempts", cfg.AI.Retry.MaxAttempts,
		"attempt_timeout", cfg.AI.Retry.AttemptTimeout,
	)
	if !cfg.AI.IsEnabled() {
		log.Warn("GEMINI_API_KEY not set, AI panels disabled")
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to initialise stores", "error", err)
	}
	defer a.Close()

	// Initialize WebSocket hub
	wsHub := ws.NewHub(log)
	defer wsHub.Stop()

	// Initialize services
	authSvc := service.NewAuthService(cfg.JWTSecret, cfg.SessionTTL)
	sessionSvc := service.NewSessionService(a.SessionCache)
	assessmentSvc := service.NewAssessmentService(a.Predictor, sessionSvc, a.Archive, cfg.ModelPath, log)
	enrichmentSvc := service.NewEnrichmentService(sessionSvc, service.NewGeminiClient(cfg.AI, log), log)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	assessmentSvc.SetBroadcaster(wsHub)
	enrichmentSvc.SetBroadcaster(wsHub)

	router := rest.NewRouter(&rest.Container{
		AuthService:       authSvc,
		SessionService:    sessionSvc,
		AssessmentService: assessmentSvc,
		EnrichmentService: enrichmentSvc,
		WSHub:             wsHub,
		CORS:              cfg.CORS,
		Logger:            log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", "addr", srv.Addr, "model_path", cfg.ModelPath)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe failed", "error", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
