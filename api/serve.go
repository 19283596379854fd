package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/jimiolaniyan/credauth/auth"
)

// serveConfig holds configuration for the serve command.
type serveConfig struct {
	addr            string
	logFormat       string
	requestTimeout  time.Duration
	shutdownTimeout time.Duration
	allowAdmin      bool
	metrics         bool
	argon2Time      uint32
	argon2Memory    uint32
	argon2Threads   uint8
}

// Default values for serve command flags.
const (
	defaultAddr            = ":8090"
	defaultLogFormat       = "json"
	defaultRequestTimeout  = 10 * time.Second
	defaultShutdownTimeout = 5 * time.Second
)

func newServeCmd() *cobra.Command {
	cfg := &serveConfig{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP credential service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, os.Stderr)
		},
	}

	cmd.Flags().StringVar(&cfg.addr, "addr", defaultAddr, "HTTP listen address")
	cmd.Flags().StringVar(&cfg.logFormat, "log-format", defaultLogFormat, "log format (json or text)")
	cmd.Flags().DurationVar(&cfg.requestTimeout, "request-timeout", defaultRequestTimeout, "maximum time spent on a single request")
	cmd.Flags().DurationVar(&cfg.shutdownTimeout, "shutdown-timeout", defaultShutdownTimeout, "grace period for in-flight requests on shutdown")
	cmd.Flags().BoolVar(&cfg.allowAdmin, "allow-admin-registration", true, "allow callers to register accounts with the admin role")
	cmd.Flags().BoolVar(&cfg.metrics, "metrics", true, "expose Prometheus metrics on /metrics")
	cmd.Flags().Uint32Var(&cfg.argon2Time, "argon2-time", auth.DefaultHashParams.Time, "argon2id iterations")
	cmd.Flags().Uint32Var(&cfg.argon2Memory, "argon2-memory", auth.DefaultHashParams.Memory, "argon2id memory in KiB")
	cmd.Flags().Uint8Var(&cfg.argon2Threads, "argon2-threads", auth.DefaultHashParams.Threads, "argon2id parallelism")

	return cmd
}

func (cfg *serveConfig) validate() error {
	if cfg.requestTimeout <= 0 {
		return errors.New("request-timeout must be positive")
	}
	if cfg.shutdownTimeout <= 0 {
		return errors.New("shutdown-timeout must be positive")
	}
	if cfg.argon2Time == 0 || cfg.argon2Threads == 0 {
		return errors.New("argon2-time and argon2-threads must be positive")
	}
	if cfg.argon2Memory < 8*uint32(cfg.argon2Threads) {
		return fmt.Errorf("argon2-memory must be at least %d KiB", 8*uint32(cfg.argon2Threads))
	}
	return nil
}

func (cfg *serveConfig) hashParams() auth.HashParams {
	p := auth.DefaultHashParams
	p.Time = cfg.argon2Time
	p.Memory = cfg.argon2Memory
	p.Threads = cfg.argon2Threads
	return p
}

func runServe(ctx context.Context, cfg *serveConfig, logOut io.Writer) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.logFormat, logOut)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	slog.SetDefault(logger)

	reg := prometheus.NewRegistry()
	handler := newRouter(cfg, logger, reg)

	srv := &http.Server{
		Addr:              cfg.addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.requestTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting credential service", "addr", cfg.addr, "log_format", cfg.logFormat)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down credential service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newRouter(cfg *serveConfig, logger *slog.Logger, reg *prometheus.Registry) http.Handler {
	accounts := auth.NewAccountRepository()
	svc := auth.NewService(accounts, auth.NewLogEvents(logger),
		auth.WithHasher(auth.NewArgon2idHasher(cfg.hashParams())),
		auth.WithLogger(logger),
		auth.WithAdminRegistration(cfg.allowAdmin),
	)

	router := httprouter.New()
	router.Handler(http.MethodPost, "/v1/accounts", auth.RegisterAccountHandler(svc, logger))
	router.Handler(http.MethodGet, "/v1/accounts/:id", auth.GetAccountHandler(svc, logger))
	router.Handler(http.MethodPost, "/v1/sessions", auth.LoginHandler(svc, logger))
	router.Handler(http.MethodGet, "/healthz", auth.HealthHandler(accounts))

	if cfg.metrics {
		reg.MustRegister(collectors.NewGoCollector())
		auth.RegisterMetrics(reg)
		router.Handler(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	return auth.RequestTimeout(cfg.requestTimeout, router)
}

func newLogger(format string, w io.Writer) (*slog.Logger, error) {
	var handler slog.Handler

	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	case "text":
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'json' or 'text'", format)
	}

	return slog.New(handler), nil
}
