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

	"github.com/randalmurphal/ruleengine/pkg/ruleengine/httpapi"
	"github.com/randalmurphal/ruleengine/pkg/ruleengine/service"
)

func runServe(args []string, e env) error {
	fs, common := newFlagSet("serve", e)
	listen := fs.String("listen", "", "HTTP listen address (default from config, else :8080)")
	metrics := fs.Bool("metrics", false, "enable OpenTelemetry metrics")
	tracing := fs.Bool("tracing", false, "enable OpenTelemetry tracing")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := common.settings()
	if err != nil {
		return err
	}
	if *listen != "" {
		s.Listen = *listen
	}
	s.Metrics = s.Metrics || *metrics
	s.Tracing = s.Tracing || *tracing

	logger := newLogger(s, e)
	tel, opts := setupTelemetry(s, logger)

	opts = append(opts, service.WithLogger(logger))
	engine, st, err := openEngine(s, opts...)
	if err != nil {
		return err
	}
	defer st.Close()

	srv := &http.Server{
		Addr:              s.Listen,
		Handler:           httpapi.NewServer(engine, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", s.Listen), slog.String("database", s.Database))
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
	case sig := <-quit:
		logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", slog.String("error", err.Error()))
	}
	if err := tel.shutdown(ctx); err != nil {
		logger.Error("telemetry shutdown", slog.String("error", err.Error()))
	}
	logger.Info("stopped")
	return nil
}
