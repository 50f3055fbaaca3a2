package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"VixPull/internal/handler/preview"
	"VixPull/pkg/config"
	xhttp "VixPull/pkg/http"
	applogger "VixPull/pkg/logger"
)

// App runs the dev preview server over the published output directory
// and blocks until interrupted.
type App struct {
	cfg *config.Config
	l   *applogger.Logger
}

// New creates a preview App.
func New(cfg *config.Config, l *applogger.Logger) *App {
	return &App{cfg: cfg, l: l}
}

// Run starts the HTTP server and waits for a shutdown signal.
func (a *App) Run() error {
	handler := preview.New(a.cfg.Output.Dir, a.l)
	srv := xhttp.NewServer(handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout),
	)

	if err := srv.Start(); err != nil {
		return err
	}
	a.l.Info("preview server started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("dir", a.cfg.Output.Dir),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Stop(ctx)
}
