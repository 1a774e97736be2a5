package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"positioncard/configs"
	httpdelivery "positioncard/internal/delivery/http"
	"positioncard/internal/domain"
	"positioncard/internal/infra"
	"positioncard/internal/logger"
	"positioncard/internal/middleware"
	"positioncard/internal/render"
	"positioncard/internal/service"
	"positioncard/internal/usecase"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "positioncard",
		Short:        "Live trading position preview with PNG export",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	})
	root.AddCommand(newRenderCmd())

	return root
}

func runServe() error {
	cfg, err := configs.Load()
	if err != nil {
		return err
	}

	log := logger.New(os.Stdout, logger.ParseLevel(cfg.Log.Level))

	// Session state lives in memory only
	sessionStore := infra.NewSessionStore(cfg.Session.TTL)

	scheduler := infra.NewScheduler(sessionStore, cfg.Session.SweepCron, log)
	if err := scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer scheduler.Stop()

	// Initialize services
	rasterizer, err := render.NewRasterizer()
	if err != nil {
		return fmt.Errorf("failed to load card fonts: %w", err)
	}
	priceService := service.NewMarketPriceService(cfg.Market.BaseURL, cfg.Market.Timeout)
	formService := usecase.NewFormService(sessionStore, priceService, log)
	exportService := service.NewExportService(
		sessionStore,
		rasterizer,
		domain.ExportOptions{
			Background: cfg.Export.Background,
			PixelRatio: cfg.Export.PixelRatio,
		},
		cfg.Export.Timeout,
		log,
	)

	templates, err := httpdelivery.ParseTemplates()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	// Echo app: page, fragments and JSON API
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	sessions := middleware.NewSessionManager(cfg.Session.Secret, cfg.Session.TTL, cfg.IsProduction())
	httpdelivery.SetupRoutes(e, &httpdelivery.RouterConfig{
		WebHandler:        httpdelivery.NewWebHandler(templates, formService, exportService, log),
		APIHandler:        httpdelivery.NewAPIHandler(formService, exportService, priceService, log),
		SessionMiddleware: sessions.Middleware,
	})

	r := newOuterRouter(e, sessionStore)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Infof("Position preview starting on %s", addr)
	log.Infof("Environment: %s", cfg.Server.Env)
	log.Infof("Export: %.1fx on %s, timeout %s", cfg.Export.PixelRatio, cfg.Export.Background, cfg.Export.Timeout)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("[OK] Server exited gracefully")
	return nil
}

// newOuterRouter wraps the echo app with health and transport middleware.
// Request logging is left to the echo app, which skips keystroke updates.
func newOuterRouter(app http.Handler, sessions domain.SessionRepository) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Get("/health", handleHealth(sessions))
	r.Mount("/", app)

	return r
}

func handleHealth(sessions domain.SessionRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","service":"positioncard","sessions":%d,"timestamp":"%s"}`,
			sessions.Count(), time.Now().UTC().Format(time.RFC3339))
	}
}
