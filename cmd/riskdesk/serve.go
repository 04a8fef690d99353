package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/riskdesk/internal/repository/patient"
	"github.com/kailas-cloud/riskdesk/internal/repository/refdoc"
	chiTransport "github.com/kailas-cloud/riskdesk/internal/transport/chi"
	"github.com/kailas-cloud/riskdesk/internal/usecase/analysis"
	evidenceuc "github.com/kailas-cloud/riskdesk/internal/usecase/evidence"
	healthuc "github.com/kailas-cloud/riskdesk/internal/usecase/health"
	inquiryuc "github.com/kailas-cloud/riskdesk/internal/usecase/inquiry"
	usageuc "github.com/kailas-cloud/riskdesk/internal/usecase/usage"
	"github.com/kailas-cloud/riskdesk/internal/version"
)

func serveCMD(env *string) *cobra.Command {
	var port int
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), *env, port)
		},
	}
	serve.Flags().IntVar(&port, "port", 0, "listen port (overrides http.port)")
	return serve
}

func runServe(ctx context.Context, env string, port int) error {
	a, err := bootstrap(ctx, env, true)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg, logger := a.cfg, a.logger
	if port > 0 {
		cfg.HTTP.Port = port
	}

	logger.Info("Starting riskdesk API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", a.env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("database", cfg.Database.Path),
		zap.Bool("cache", a.cache != nil),
	)

	// Documents are read once; a missing file leaves that document empty.
	docs := refdoc.NewIndex(cfg.Documents.GuidelinesPath, cfg.Documents.PolicyPath, logger)

	gen := a.buildGeneration(ctx)

	analysisSvc := analysis.New(
		patient.New(a.db),
		inquiryuc.New(gen.service),
		evidenceuc.New(docs),
		gen.service,
	)

	var budgetReader usageuc.BudgetReader
	if gen.budget != nil {
		budgetReader = gen.budget
	}
	usageSvc := usageuc.New(budgetReader)

	var cachePinger healthuc.Pinger
	if a.cache != nil {
		cachePinger = a.cache
	}
	healthSvc := healthuc.New(a.db, cachePinger, gen.health)

	server := chiTransport.NewServer(analysisSvc, usageSvc, healthSvc, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger),
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return eris.Wrap(err, "http server")
		}
		return nil
	case <-quit:
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}
