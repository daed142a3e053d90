package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/paircall/paircall/internal/infrastructure/configs"
	"github.com/paircall/paircall/internal/infrastructure/ratelimiter"
	healthHandler "github.com/paircall/paircall/internal/presentation/handler/health"
	roomsHandler "github.com/paircall/paircall/internal/presentation/handler/rooms"
)

type Application struct {
	config        configs.Config
	healthHandler *healthHandler.Handler
	roomsHandler  *roomsHandler.Handler
	socketHandler http.Handler
	wsHandler     http.Handler
	logger        *zap.SugaredLogger
	ratelimiter   *ratelimiter.FixedWindow
}

func NewApplication(
	config configs.Config,
	healthHandler *healthHandler.Handler,
	roomsHandler *roomsHandler.Handler,
	socketHandler http.Handler,
	wsHandler http.Handler,
	logger *zap.SugaredLogger,
	ratelimiter *ratelimiter.FixedWindow,
) *Application {
	return &Application{
		config:        config,
		healthHandler: healthHandler,
		roomsHandler:  roomsHandler,
		socketHandler: socketHandler,
		wsHandler:     wsHandler,
		logger:        logger,
		ratelimiter:   ratelimiter,
	}
}

func (app *Application) Mount() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Use(app.enableCors)

	// The signaling endpoints hold connections open for the lifetime of a
	// call, so the request timeout and rate limit cover only the REST side.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Use(app.rateLimiterMiddleware)

		r.Get("/health", app.healthHandler.GetHealth)
		r.Get("/api/rooms", app.roomsHandler.GetRooms)
		r.Handle("/metrics", promhttp.Handler())
	})

	r.Handle("/socket.io/", app.socketHandler)
	r.Handle("/socket.io/*", app.socketHandler)
	r.Handle("/ws", app.wsHandler)

	return otelhttp.NewHandler(r, "paircall-http")
}

func (app *Application) Run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", app.config.HTTP.Host, app.config.HTTP.Port),
		Handler:      mux,
		WriteTimeout: app.config.HTTP.WriteTimeout,
		ReadTimeout:  app.config.HTTP.ReadTimeout,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", srv.Addr)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", srv.Addr)

	return nil
}
