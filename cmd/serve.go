package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dietpix/config"
	"dietpix/cron"
	"dietpix/database"
	"dietpix/database/store"
	"dietpix/handlers"
	"dietpix/middleware"
	"dietpix/routes"
	"dietpix/services/backend"
	"dietpix/services/export"
	"dietpix/services/flow"
	"dietpix/services/journey"
	"dietpix/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// openStore builds the durable client state store selected by STORE_DRIVER.
func openStore(ctx context.Context, logger *zap.Logger) (store.Store, error) {
	cfg := config.AppConfig
	switch cfg.StoreDriver {
	case "redis":
		if err := utils.InitRedis(); err != nil {
			return nil, err
		}
		return store.NewRedisStore(utils.GetStateClient(), cfg.StateTTL), nil
	case "mongo":
		if err := database.InitDB(); err != nil {
			return nil, err
		}
		return store.NewMongoStore(ctx, database.Database(), cfg.StateTTL)
	case "memory":
		logger.Warn("using in-memory client state; progress is lost on restart")
		return store.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}

func serve() error {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	stateStore, err := openStore(ctx, logger)
	if err != nil {
		return fmt.Errorf("failed to open client state store: %w", err)
	}

	api := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout, logger.Named("backend"))
	registry := journey.NewRegistry(stateStore, api, logger.Named("journey"), flow.Options{
		StageDuration:     cfg.LoadingStageDuration,
		DefaultPriceCents: cfg.DefaultPriceCents,
	})
	renderer := export.NewRenderer(cfg.ChromeTimeout, logger.Named("export"))

	utils.StartHealthMonitor(ctx, cfg.HealthInterval, stateStore, api)
	cron.StartJourneySweeper(ctx, registry, cfg.SweepInterval, cfg.JourneyIdleTTL, logger.Named("sweeper"))

	// Create the Gin router.
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	authHandler := handlers.NewAuthHandler()
	flowHandler := handlers.NewFlowHandler(renderer)
	historyHandler := handlers.NewHistoryHandler(api)
	proxyHandler := handlers.NewProxyHandler(api)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		// Auth endpoints.
		SignInHandler:         authHandler.SignInHandler,
		SignUpHandler:         authHandler.SignUpHandler,
		ForgotPasswordHandler: authHandler.ForgotPasswordHandler,
		ResetPasswordHandler:  authHandler.ResetPasswordHandler,
		SignOutHandler:        authHandler.SignOutHandler,
		MeHandler:             authHandler.MeHandler,

		// Flow endpoints.
		FlowStateHandler:      flowHandler.FlowStateHandler,
		SaveFormHandler:       flowHandler.SaveFormHandler,
		SubmitHandler:         flowHandler.SubmitHandler,
		AdvanceHandler:        flowHandler.AdvanceHandler,
		UnlockHandler:         flowHandler.UnlockHandler,
		ConfirmPaymentHandler: flowHandler.ConfirmPaymentHandler,
		CancelPaymentHandler:  flowHandler.CancelPaymentHandler,
		PaymentCopyHandler:    flowHandler.PaymentCopyHandler,
		RegenerateHandler:     flowHandler.RegenerateHandler,
		ResetHandler:          flowHandler.ResetHandler,
		PDFHandler:            flowHandler.PDFHandler,

		HistoryHandler:            historyHandler.HistoryHandler,
		PaymentStatusProxyHandler: proxyHandler.PaymentStatusProxyHandler,
		HealthHandler:             handlers.HealthHandler,
	}

	routes.RegisterRoutes(router, handlerBundle, registry, cfg.AllowedOrigins, cfg.CookieSecure)

	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.AppPort,
		Handler: router,
	}

	errCh := make(chan error, 1)
	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("server failed to start: %w", err)
	}
	logger.Info("server is shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	if database.MongoClient != nil {
		_ = database.MongoClient.Disconnect(shutdownCtx)
	}
	logger.Info("server stopped gracefully")
	return nil
}
