//go:build wireinject
// +build wireinject

package di

import (
	"VixPull/internal/usecase"
	"VixPull/pkg/config"
	applogger "VixPull/pkg/logger"

	"github.com/google/wire"
)

// InitializePipeline wires up all dependencies and returns the
// run-once pipeline. Wire generates the implementation.
func InitializePipeline(cfg *config.Config, l *applogger.Logger) (*usecase.Pipeline, error) {
	wire.Build(
		ProvideMetrics,
		ProvideProvider,
		ProvideNotifier,
		ProvideRenderer,
		ProvideWriter,
		ProvidePipeline,
	)
	return &usecase.Pipeline{}, nil
}
