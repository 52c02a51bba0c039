package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/gitsalvage/internal/config"
	"git.home.luguber.info/inful/gitsalvage/internal/metrics"
	"git.home.luguber.info/inful/gitsalvage/internal/salvage"
	"git.home.luguber.info/inful/gitsalvage/internal/workspace"
	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"
)

var CLI struct {
	URL       string `arg:"" help:"Base URL of the site exposing its repository metadata directory"`
	OutputDir string `arg:"" name:"output-dir" help:"Directory the repository is reconstructed into"`
	Threads   int    `short:"t" default:"10" help:"Concurrent downloads during the object phase"`
}

func main() {
	config.LoadEnv()
	kong.Parse(&CLI)

	// Set up logging
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.LogLevelFromEnv(),
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("Salvage failed", "error", err)
		os.Exit(1)
	}
}

// run executes one salvage attempt. A target without an exposed repository
// is a normal run that exits zero; only setup problems return an error.
func run() error {
	settings, err := config.Load(os.Getenv(config.EnvSettingsPath))
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	target := config.NewTarget(CLI.URL, CLI.OutputDir, CLI.Threads)

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if settings.MetricsAddr != "" {
		registry := prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(registry)
		go serveMetrics(settings.MetricsAddr, registry)
	}

	runner := salvage.NewRunner(target, settings, nil, recorder)
	report, err := runner.Run(context.Background())
	if err != nil {
		return err
	}

	if settings.ReportEnabled() {
		gitDir := workspace.NewManager(target.OutputDir).GitDir()
		if err := report.Persist(gitDir); err != nil {
			slog.Warn("Failed to write run report", "error", err)
		} else {
			slog.Info("Run report written", "path", filepath.Join(gitDir, salvage.ReportFileName))
		}
	}
	return nil
}

// serveMetrics exposes the registry on addr for the lifetime of the process.
func serveMetrics(addr string, registry *prom.Registry) {
	registry.MustRegister(promcollect.NewGoCollector(), promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}))

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(registry))

	srv := &http.Server{Addr: addr, Handler: mux, ReadTimeout: 30 * time.Second, WriteTimeout: 30 * time.Second, IdleTimeout: 120 * time.Second}
	slog.Info("Metrics endpoint listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Metrics server error", "error", err)
	}
}
