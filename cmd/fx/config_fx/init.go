package config_fx

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"angido/internal/config"
	"angido/pkg/logger"
	"angido/pkg/metrics"
	"angido/pkg/utils"
)

var Module = fx.Options(
	fx.Provide(
		config.Load,
		provideLogger,
		provideRegistry,
		provideTokenManager,
	),
	fx.Invoke(zap.ReplaceGlobals),
)

func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(cfg.LogLevel, cfg.AppEnv)
}

func provideRegistry() (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := metrics.Register(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func provideTokenManager(cfg *config.Config) *utils.TokenManager {
	return utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
}
