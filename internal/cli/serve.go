package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"thumbgen/internal/handlers"
	"thumbgen/internal/logging"
	"thumbgen/internal/metrics"
	"thumbgen/internal/middleware"
	"thumbgen/internal/startup"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP batch API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, v)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", ":"+cfg.Server.Port)
			if err != nil {
				return fmt.Errorf("failed to listen on port %s: %w", cfg.Server.Port, err)
			}
			return serve(ctx, cfg, ln)
		},
	}
	cmd.Flags().String("port", "8080", "HTTP listen port")
	cmd.Flags().Int("workers", 0, "worker pool size (0 = automatic)")
	return cmd
}

// newServerHandler assembles the router and middleware chain.
func newServerHandler(h *handlers.Handlers, cfg *startup.Config) (http.Handler, error) {
	router := handlers.NewRouter(h)
	router.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))
	startup.LogHTTPRoutes(router, cfg.Server.LogHealthChecks)

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = cfg.Server.LogHealthChecks
	loggedHandler := middleware.Logger(loggingConfig)(router)

	compress, err := middleware.Compression(middleware.DefaultCompressionConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to configure compression: %w", err)
	}
	return compress(loggedHandler), nil
}

// serve runs the API on ln until ctx is done, then shuts down gracefully.
func serve(ctx context.Context, cfg *startup.Config, ln net.Listener) error {
	startTime := time.Now()
	startup.LogBanner()

	opts, err := cfg.Thumbnail.Options()
	if err != nil {
		return err
	}
	dests, err := newSinks(ctx, cfg)
	if err != nil {
		return err
	}

	monitor, err := startMemoryMonitor(cfg)
	if err != nil {
		return err
	}
	defer monitor.Stop()

	d := newDispatcher(cfg, monitor)
	startup.LogConfig(cfg, d.Workers())

	metrics.InitializeMetrics()
	metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion)

	hcfg := handlers.Config{
		Defaults:       opts,
		MaxUploadBytes: cfg.Server.MaxUploadMB << 20,
	}
	if dests.bucket != nil {
		hcfg.Sink = dests.bucket
	}
	h := handlers.New(d, hcfg)

	handler, err := newServerHandler(h, cfg)
	if err != nil {
		return err
	}

	collector := metrics.NewCollector(h, cfg.Server.MetricsInterval)
	collector.Start()
	defer collector.Stop()

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	startup.LogServerStarted(startup.ServerConfig{
		Port:            cfg.Server.Port,
		StartupDuration: time.Since(startTime),
	})

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	startup.LogShutdownInitiated(context.Cause(ctx).Error())

	startup.LogShutdownStep("Stopping metrics collector")
	collector.Stop()
	startup.LogShutdownStepComplete("Metrics collector stopped")

	startup.LogShutdownStep("Stopping memory monitor")
	monitor.Stop()
	startup.LogShutdownStepComplete("Memory monitor stopped")

	startup.LogShutdownStep("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("HTTP server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
	return nil
}
