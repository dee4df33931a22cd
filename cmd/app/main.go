package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"angido/cmd/fx/account_fx"
	"angido/cmd/fx/config_fx"
	"angido/cmd/fx/controllers_fx"
	"angido/cmd/fx/dashboard"
	"angido/cmd/fx/db_fx"
	"angido/cmd/fx/itinerary_fx"
	"angido/cmd/fx/memcache_fx"
	"angido/cmd/fx/place_fx"
	"angido/cmd/fx/province_fx"
	"angido/cmd/fx/subscription_fx"
	"angido/cmd/fx/suggestion_fx"
	"angido/cmd/fx/tagsfx"
	"angido/internal/config"
)

// @title Ăn Gì Ở Đâu API
// @version 1.0
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app := fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		config_fx.Module,
		db_fx.Module,
		memcache_fx.Module,
		account_fx.Module,
		province_fx.Module,
		tagsfx.Module,
		place_fx.Module,
		itinerary_fx.Module,
		subscription_fx.Module,
		suggestion_fx.Module,
		dashboard.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      90 * time.Second, // AI generation can take close to a minute
		IdleTimeout:       120 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("starting HTTP server", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("HTTP server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}
