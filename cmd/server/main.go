package main

import (
	"context"
	"expvar"
	"log"
	"runtime"

	"github.com/paircall/paircall/internal/infrastructure/configs"
	"github.com/paircall/paircall/internal/infrastructure/logging"
	"github.com/paircall/paircall/internal/infrastructure/ratelimiter"
	"github.com/paircall/paircall/internal/infrastructure/tracing"
	"github.com/paircall/paircall/internal/presentation/api"
	"github.com/paircall/paircall/internal/presentation/handler/health"
	"github.com/paircall/paircall/internal/presentation/handler/rooms"
	"github.com/paircall/paircall/internal/signal"
	"github.com/paircall/paircall/internal/transport/socketio"
	"github.com/paircall/paircall/internal/transport/ws"
)

const (
	serviceName = "paircall-signaling"
	version     = "2.0.0"
)

func main() {
	tracerCfg := tracing.NewDefaultConfig(serviceName)

	sh, err := tracing.InitTracer(tracerCfg)
	if err != nil {
		log.Fatalf("Failed to initialize the tracer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer sh(ctx)

	logger, err := logging.New(logging.NewDefaultConfig())
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	configPath := configs.DetermineConfigPath()
	cfg, err := configs.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	core := signal.NewCore(logger,
		signal.WithGracePeriod(cfg.Room.GracePeriod),
		signal.WithClientURL(cfg.Room.ClientURL),
	)
	go core.Run()
	defer core.Stop()

	sio := socketio.NewServer(core, cfg.HTTP, logger)
	defer sio.Close()

	healthHandler := health.NewHandler(core, version)
	roomsHandler := rooms.NewHandler(core)

	rl := ratelimiter.NewFixedWindow(cfg.RateLimiter.Limit, cfg.RateLimiter.Window)
	defer rl.Close()

	app := api.NewApplication(*cfg, healthHandler, roomsHandler, sio.Handler(), ws.Handler(core, logger), logger, rl)

	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.Mount()
	logger.Fatal(app.Run(mux))
}
