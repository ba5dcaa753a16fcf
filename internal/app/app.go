package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"ratecli/internal/config"
	"ratecli/internal/dataprocessing"
	apierrors "ratecli/internal/errors"
	"ratecli/internal/infrastructure"
	customMiddleware "ratecli/internal/middleware"
	"ratecli/internal/services"
	handlers "ratecli/internal/transport/http"
)

const AppName = "ratecli rate server"

// Options selects the rate file the server answers from. Telemetry, when
// set, is used instead of providers built from the config and is left open
// by Stop.
type Options struct {
	RatesFile string
	Rates     dataprocessing.RateSpec
	Telemetry *infrastructure.OTelProviders
}

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Options       Options
	Router        *chi.Mux
	Server        *http.Server
	RateService   *services.RateService
	HealthService *services.HealthService
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders

	serveErr      chan error
	ownsTelemetry bool
}

// NewApplication loads the rate file and wires services, router and server.
func NewApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (*Application, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	a := &Application{
		Config:   cfg,
		Options:  opts,
		Logger:   logger,
		serveErr: make(chan error, 1),
	}

	logger.InfoContext(ctx, "Application starting",
		slog.String("name", AppName),
		slog.String("version", config.AppVersion),
		slog.String("rates_file", opts.RatesFile))

	if err := a.initializeServices(ctx); err != nil {
		return nil, err
	}
	a.setupRouter()
	a.createServer()
	return a, nil
}

func (a *Application) initializeServices(ctx context.Context) error {
	providers := a.Options.Telemetry
	if providers == nil {
		var err error
		providers, err = infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(a.Config.Telemetry), a.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize telemetry: %w", err)
		}
		a.ownsTelemetry = true
	}
	a.OTelProviders = providers

	parser := dataprocessing.NewParser(a.Logger, a.Config.Inference, providers)
	source, err := dataprocessing.NewRateLoader(parser, a.Logger).LoadRates(ctx, a.Options.RatesFile, a.Options.Rates)
	if err != nil {
		return err
	}
	a.RateService = services.NewRateService(source, a.Config.Inference.MaxBackwardOffset, a.Logger, providers)

	monitor, err := infrastructure.NewRuntimeMonitor(providers.Meter)
	if err != nil {
		return fmt.Errorf("failed to register runtime metrics: %w", err)
	}
	a.HealthService = services.NewHealthService(config.AppVersion, monitor,
		map[string]services.Readiness{"rates": a.RateService}, a.Logger)
	return nil
}

// setupRouter orders middleware RequestID, RealIP, OTel, Logger, Recoverer,
// rate limit, Timeout. /metrics sits outside the group.
func (a *Application) setupRouter() {
	r := chi.NewRouter()
	errorHandler := apierrors.NewErrorHandler(a.Logger, false)

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StripSlashes)
	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Logger).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.SecurityHeaders)
		r.Use(customMiddleware.NewRateLimiterFromConfig(a.Config.Server.RateLimit, a.Logger).Handler)
		r.Use(customMiddleware.Timeout(a.Config.Server.ReadTimeout, a.Logger))
		r.Use(render.SetContentType(render.ContentTypeJSON))

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Get(config.HealthEndpoint, healthHandler.HealthCheck)
		r.Get(config.HealthEndpoint+"/ready", healthHandler.ReadinessCheck)
		r.Get(config.HealthEndpoint+"/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		handlers.NewRatesHandler(a.RateService, a.Logger, errorHandler).Mount(r)
	})

	r.Method(http.MethodGet, config.MetricsEndpoint,
		handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, errorHandler))

	a.Router = r
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start serves in the background. A listen failure cancels ctx through cancel
// and is returned by Run.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", config.AppVersion),
		slog.Int("port", a.Config.Server.Port),
		slog.Int("days", a.RateService.Format(ctx).Days))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			a.serveErr <- err
			cancel()
		}
	}()
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.ownsTelemetry {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run serves until ctx is cancelled, an interrupt arrives or the listener fails.
func (a *Application) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case <-ctx.Done():
	}

	stopErr := a.Stop(context.Background())
	select {
	case err := <-a.serveErr:
		return err
	default:
		return stopErr
	}
}
