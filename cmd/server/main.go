package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agri-ml-service/internal/adapters/primary/http/handlers"
	"agri-ml-service/internal/adapters/primary/http/middleware"
	"agri-ml-service/internal/adapters/secondary/filesystem"
	promadapter "agri-ml-service/internal/adapters/secondary/prometheus"
	"agri-ml-service/internal/config"
	output "agri-ml-service/internal/core/ports/output"
	"agri-ml-service/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "server",
		Short:         "Serve irrigation and copra predictions over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "verify",
		Short: "Load every model artifact and report which groups are usable",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd.Context(), cmd.OutOrStdout())
		},
	})

	return root
}

func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	initLogger(cfg)
	return cfg, nil
}

func runVerify(ctx context.Context, out io.Writer) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	loader := filesystem.NewArtifactLoader(&cfg.Models, afero.NewOsFs())
	registry := services.NewModelRegistry(loader, nil)
	st := registry.Status(ctx)

	fmt.Fprintf(out, "irrigation: %t\n", st.Irrigation)
	fmt.Fprintf(out, "copra: %t\n", st.Copra)
	if !st.Healthy() {
		return fmt.Errorf("model artifacts under %s are incomplete", cfg.Models.BasePath)
	}
	return nil
}

func runServe(ctx context.Context) error {
	cfg, err := setup()
	if err != nil {
		log.Error(err)
		return err
	}

	// ============================================================================
	// Hexagonal Architecture Wiring
	// ============================================================================

	// Metrics
	reg := prometheus.NewRegistry()
	var recorder output.MetricsRecorder = output.NopRecorder{}
	if cfg.Metrics.Enabled {
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		recorder = promadapter.NewRecorder(reg)
		log.Info("Prometheus metrics enabled")
	} else {
		log.Info("Prometheus metrics disabled")
	}

	// Secondary Adapters (Output Ports)
	loader := filesystem.NewArtifactLoader(&cfg.Models, afero.NewOsFs())

	// Core Services (Application Layer)
	registry := services.NewModelRegistry(loader, recorder)
	copraSvc := services.NewCopraService(registry, recorder)
	irrigationSvc := services.NewIrrigationService(registry, recorder)

	if cfg.Models.Preload {
		if err := registry.Warm(ctx); err != nil {
			log.WithError(err).Warn("model preload incomplete, remaining groups load on first request")
		}
	}

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(registry, copraSvc, irrigationSvc)

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())
	if cfg.Metrics.Enabled {
		router.Use(middleware.Metrics(reg))
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	}

	api := router.Group("/api")
	h.RegisterRoutes(api)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s (models: %s)", addr, cfg.Models.BasePath)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	if cfg.Logger.File != "" {
		log.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   cfg.Logger.File,
			MaxSize:    cfg.Logger.MaxSizeMB,
			MaxBackups: cfg.Logger.MaxBackups,
			Compress:   true,
		}))
	}
}
