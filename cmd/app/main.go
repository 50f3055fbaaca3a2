package main

import (
	"context"
	"flag"
	"log"
	"os"

	"VixPull/internal/di"
	"VixPull/pkg/config"
	applogger "VixPull/pkg/logger"
	"VixPull/pkg/server"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	serve := flag.Bool("serve", false, "serve the published dashboard instead of running the pipeline")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}

	if *serve {
		if err := server.New(cfg, l).Run(); err != nil {
			l.Error("preview server error", applogger.Error(err))
			os.Exit(1)
		}
		return
	}

	l.Info("starting run",
		applogger.String("env", cfg.Environment),
		applogger.String("provider", cfg.Provider.Type),
		applogger.Int("window_days", cfg.Window.Days),
		applogger.String("output", cfg.Output.Dir),
	)

	pipeline, err := di.InitializePipeline(cfg, l)
	if err != nil {
		l.Error("pipeline initialization failed", applogger.Error(err))
		os.Exit(1)
	}
	defer pipeline.Close()

	// Stage and kind are logged by the pipeline; the scheduler only
	// needs the exit status.
	if err := pipeline.RunOnce(context.Background()); err != nil {
		os.Exit(1)
	}
}
