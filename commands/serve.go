package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"autobid/config"
	"autobid/database"
	receiptRepo "autobid/database/repository/receipt"
	"autobid/handlers"
	"autobid/routes"
	"autobid/services/booking"
	"autobid/services/catalog"
	"autobid/services/marketplace"
	"autobid/services/storage"
	"autobid/services/submission"
	"autobid/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the booking wizard HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	database.InitDB()
	utils.InitWizardCache()

	receipts, err := receiptRepo.NewMongoReceiptRepo()
	if err != nil {
		return err
	}
	evidence, err := storage.NewEvidenceStore(cfg)
	if err != nil {
		return err
	}

	client := marketplace.NewClient(cfg.MarketplaceBaseURL, cfg.MarketplaceTimeout, nil)
	wizardService := &booking.DefaultWizardService{
		Marketplace:   client,
		Catalogs:      catalog.NewLoader(client, logger),
		Store:         booking.NewRedisWizardStore(utils.GetWizardCacheClient()),
		Evidence:      evidence,
		Submitter:     submission.NewSubmitter(client, evidence, logger),
		Receipts:      receipts,
		TTL:           cfg.WizardTTL,
		SubmitTimeout: cfg.SubmitTimeout,
		Logger:        logger,
	}

	utils.StartHealthMonitor(ctx, utils.GetWizardCacheClient(), database.MongoClient, 60*time.Second)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	routes.RegisterRoutes(router, handlers.NewHandlerBundle(handlers.NewWizardHandler(wizardService), cfg.MaxRequestsPerMin))

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	// WriteTimeout covers the slowest handler, which waits on the submission.
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.SubmitTimeout + 30*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serve: starting server", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("serve: server failed", zap.Error(err))
			return err
		}
	case <-ctx.Done():
	}
	logger.Info("serve: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("serve: server forced to shutdown", zap.Error(err))
		return err
	}
	if err := utils.GetWizardCacheClient().Close(); err != nil {
		logger.Warn("serve: closing redis", zap.Error(err))
	}
	if err := database.Close(shutdownCtx); err != nil {
		logger.Warn("serve: closing mongo", zap.Error(err))
	}
	logger.Info("serve: server stopped gracefully")
	return nil
}
