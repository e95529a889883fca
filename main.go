package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mocardapio-api/authz"
	"mocardapio-api/config"
	"mocardapio-api/handlers"
	"mocardapio-api/logger"
	"mocardapio-api/metrics"
	"mocardapio-api/middleware"
	"mocardapio-api/routes"
	"mocardapio-api/services"
	"mocardapio-api/storage"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "mocardapio",
	Short:         "MoCardápio food marketplace API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createStaffCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, config.Load())
	},
}

func serve(ctx context.Context, cfg config.Config) error {
	log := logger.New(cfg.IsProduction())
	slog.SetDefault(log)

	if cfg.UsesDefaultSecret() {
		if cfg.IsProduction() {
			return errors.New("JWT_SECRET must be set in production")
		}
		log.Warn("JWT_SECRET not set, using the development default")
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.OpenDB(cfg)
	if err != nil {
		return err
	}
	if err := config.Migrate(db); err != nil {
		return err
	}

	store, err := storage.New(ctx, cfg)
	if err != nil {
		return err
	}

	m := metrics.New()
	tokens := middleware.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	h := &handlers.Handler{
		Auth:           services.NewAuthService(db, tokens),
		Profiles:       services.NewProfileService(db),
		Catalog:        services.NewCatalogService(db, store),
		Orders:         services.NewOrderService(db, m),
		Messages:       services.NewMessageService(db),
		UploadMaxBytes: cfg.UploadMaxBytes,
	}

	deps := routes.Deps{
		Handler:    h,
		Tokens:     tokens,
		Resolver:   authz.NewResolver(db),
		Metrics:    m,
		Logger:     log,
		Production: cfg.IsProduction(),
	}
	if local, ok := store.(*storage.Local); ok {
		deps.UploadsDir = local.Root
	}

	r := gin.New()
	routes.SetupRoutes(r, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.AppEnv, "db", cfg.DBDriver, "storage", cfg.StorageDisk)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
