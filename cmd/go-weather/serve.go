package main

import (
	"context"
	"errors"
	"go-weather/docs"
	"go-weather/internal/application/controller"
	"go-weather/internal/application/middleware"
	"go-weather/internal/application/schedule"
	"go-weather/internal/application/session"
	"go-weather/pkg/log"
	"go-weather/pkg/msg"
	"go-weather/pkg/resource"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	echoSwagger "github.com/swaggo/echo-swagger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API, resume the last city and run the cache retention",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	appName := resource.GetString("app.name")
	log.Info(msg.GetMessage("app.start", appName))

	// Init infra
	app, err := newApplication()
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	// Init Session
	weatherSession := session.New(app.weather)
	defer weatherSession.Close()

	e := newServer(resource.GetString("app.server.context-path"), app, weatherSession)

	// Init Schedule
	retention := schedule.NewForecastRetentionScheduler(app.weather,
		resource.GetString("app.cache.retention.cron"),
		resource.GetDuration("app.cache.retention.max-age"))
	if err := retention.InitRetentionScheduleTasks(); err != nil {
		return err
	}
	defer retention.Stop()

	go weatherSession.Start(ctx)

	// Start Routes
	port := resource.GetString("app.server.port")
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + port)
	}()
	log.Info(msg.GetMessage("app.started", appName, port))

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server shutdown failed", "error", err)
	}
	log.Info(msg.GetMessage("app.stop", appName))
	return nil
}

// newServer builds the echo server with its routes. Shutting it down closes the session,
// which ends open state streams.
func newServer(contextPath string, app *application, weatherSession *session.Session) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	middleware.SetupRequestLogger(e)
	e.Server.RegisterOnShutdown(weatherSession.Close)

	docs.SwaggerInfo.BasePath = contextPath
	api := e.Group(contextPath)
	api.GET("/swagger/*", echoSwagger.WrapHandler)

	// Init Controller
	controller.NewHealthController(api, app.health).InitHealthRoutes()
	controller.NewWeatherController(api, weatherSession, app.weather).InitWeatherRoutes()

	return e
}
