package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"soil_health/internal/config"
	"soil_health/internal/handlers"
	"soil_health/internal/logger"
	"soil_health/internal/predict"
	"soil_health/internal/server"
	"soil_health/internal/service"
	"soil_health/internal/tui"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// @title        Soil Health Screen API
// @version      1.0
// @description  Collects ten soil readings, submits them to the prediction service and shows the diagnosis.
// @BasePath     /
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string

	serve := func(cmd *cobra.Command, args []string) error { return runServe(cfgPath) }

	root := &cobra.Command{
		Use:          "soil-screen",
		Short:        "Soil health diagnostic screen",
		SilenceUsage: true,
		RunE:         serve,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default configs/config.yml)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the web screen, JSON API and screen stream",
			RunE:  serve,
		},
		&cobra.Command{
			Use:   "tui",
			Short: "Run the screen in the terminal",
			RunE:  func(cmd *cobra.Command, args []string) error { return runTUI(cfgPath) },
		},
	)
	return root
}

// newServices wires one screen instance to the prediction service.
func newServices(cfg *config.Config, log *logger.Logger, metrics *service.Metrics) (*service.Service, error) {
	client := predict.NewClient(cfg.Predict.BaseURL, cfg.Predict.Timeout, log)
	return service.NewService(service.Deps{
		Predictor:     client,
		Log:           log,
		Metrics:       metrics,
		StrictNumeric: cfg.Form.StrictNumeric,
		Slogans:       cfg.Slogans.List,
		SloganPeriod:  cfg.Slogans.Period,
	})
}

func runServe(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	// init logger
	log := logger.Get(cfg.Log.Level)

	// wire dependencies
	metrics := service.NewMetrics(prometheus.DefaultRegisterer)
	services, err := newServices(cfg, log, metrics)
	if err != nil {
		log.Errorw("failed to wire services", "err", err)
		return err
	}
	apiHandler := handlers.NewHandler(services, log).WithStreamInterval(cfg.WS.Interval)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// activate the screen: start slogan rotation, release it on every exit path
	if err := services.Slogans.Start(ctx); err != nil {
		return err
	}
	defer services.Slogans.Stop()

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, cfg.Predict.Timeout, log)
	log.Infow("server_started", "port", cfg.Port, "predict_url", cfg.Predict.BaseURL)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
	return nil
}

func runTUI(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	// the terminal owns stdout, log to a file
	log, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	services, err := newServices(cfg, log, nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := services.Slogans.Start(ctx); err != nil {
		return err
	}
	defer services.Slogans.Stop()

	log.Infow("tui_started", "predict_url", cfg.Predict.BaseURL)
	return tui.Run(ctx, services)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, handlerWait time.Duration, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes(), handlerWait); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
