package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventhub/config"
	_ "eventhub/docs"
	"eventhub/internal/adapters/auth"
	"eventhub/internal/adapters/eventsapi"
	"eventhub/internal/adapters/payments"
	delivery "eventhub/internal/delivery/http"
	"eventhub/internal/delivery/http/controllers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/services"
)

// @title EventHub Gateway API
// @version 1.0
// @description Backend-for-frontend for the EventHub events platform.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := config.NewLogger(cfg.Environment)
	logger.Info("configuration loaded", slog.String("port", cfg.Port), slog.String("api", cfg.APIBaseURL))

	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}

	// Adapters
	apiClient := eventsapi.New(cfg.APIBaseURL, httpClient)
	paymentClient := payments.New(cfg.APIBaseURL, cfg.ProcessorBaseURL, cfg.ProcessorSecretKey, httpClient)
	tokens := auth.NewJWTManager(cfg.SessionJWTSecret)

	// Services
	identityService := services.NewIdentityService(tokens, apiClient)
	directoryService := services.NewDirectoryService(apiClient)
	participationService := services.NewParticipationService(apiClient, apiClient, paymentClient)
	reviewService := services.NewReviewService(apiClient, apiClient)
	socialService := services.NewSocialService(apiClient, apiClient)

	// Controllers
	router := delivery.NewRouter(delivery.Controllers{
		Events:        controllers.NewEventsController(logger, directoryService),
		Participation: controllers.NewParticipationController(logger, participationService),
		Reviews:       controllers.NewReviewController(logger, reviewService),
		Session:       controllers.NewSessionController(logger),
		Social:        controllers.NewSocialController(logger, socialService),
		Notifications: controllers.NewNotificationController(logger, socialService),
	})

	handler := middleware.RequestID(
		middleware.Logging(logger,
			middleware.CORS(cfg.AllowedOrigins,
				middleware.ResolveIdentity(identityService, logger)(router))))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("gateway listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("stopped")
}
