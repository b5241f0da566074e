package main

import (
	"context"
	"flag"
	"time"

	"github.com/chargepilot/chargepilot/pkg/backend"
	"github.com/chargepilot/chargepilot/pkg/config"
	"github.com/chargepilot/chargepilot/pkg/http"
	"github.com/chargepilot/chargepilot/pkg/http/usecases"
	"github.com/chargepilot/chargepilot/pkg/logger"
	"github.com/chargepilot/chargepilot/pkg/speech"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config_path", "./config", "directory containing config.yaml")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}

	cfg, err := config.Read(*configPath)
	if err != nil {
		panic(err)
	}
	viper.SetDefault("API_PORT", cfg.Server.Port)
	viper.SetDefault("WEBSOCKET_PORT", cfg.Server.WebsocketPort)
	viper.SetDefault("API_TIMEOUT", cfg.Server.Timeout)

	backendClient := backend.NewClient(cfg.Backend.BaseURL,
		time.Duration(cfg.Backend.TimeoutSeconds)*time.Second, logger)

	api := http.NewServer(logger)

	navigationService := usecases.NewNavigationService(logger, backendClient, backendClient,
		speech.LogSynthesizer{Log: logger})
	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}
	api.Use(ctx,
		logger, cfg.Server.UseRateLimit, navigationService)

	signal := http.GracefulShutdown()

	logger.Info("Chargepilot Navigator Server Stopped", zap.String("signal", signal.String()))
	cleanup()
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
