// Package internal contains core application functionality
package internal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"trafficlens/internal/config"
	"trafficlens/internal/ga"
	"trafficlens/internal/logger"
	"trafficlens/internal/poller"
	"trafficlens/internal/timeframe"
)

// Application wires the analytics client, the background poller, and the HTTP
// server together.
type Application struct {
	Config *config.Config
	Logger *slog.Logger
	Client *ga.Client
	Poller *poller.Poller

	fiber      *fiber.App
	cancelPoll context.CancelFunc
}

// NewApp creates a new application instance with default settings
func NewApp() (*Application, error) {
	return NewAppWithConfig(config.GetConfig())
}

// NewAppWithConfig creates a new application with the provided config
func NewAppWithConfig(cfg *config.Config) (*Application, error) {
	log := logger.New(cfg)

	client := ga.NewClient(ga.Config{
		PropertyID:      cfg.GAPropertyID,
		CredentialsJSON: []byte(cfg.GACredentialsJSON),
		Timeout:         cfg.GetQueryTimeout(),
	}, log)

	p := poller.New(client, timeframe.Trailing30Days(),
		cfg.GetRefreshInterval(), cfg.GetQueryTimeout(), log)

	fiberApp := fiber.New(fiber.Config{
		AppName:     cfg.GetAppName(),
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})

	app := &Application{
		Config: cfg,
		Logger: log,
		Client: client,
		Poller: p,
		fiber:  fiberApp,
	}
	MountAppRoutes(fiberApp, app)

	return app, nil
}

// StartAsync launches the background poller and the HTTP listener. It returns
// once the listener goroutine is running; listen failures surface through the
// logger.
func (a *Application) StartAsync() error {
	if a.Config.GAPropertyID == "" {
		a.Logger.Warn("no analytics property configured, dashboard queries will fail until one is set")
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.cancelPoll = cancel
	go a.Poller.Run(ctx)

	go func() {
		addr := ":" + a.Config.GetPort()
		a.Logger.Info("http server listening", slog.String("addr", addr))
		if err := a.fiber.Listen(addr); err != nil {
			a.Logger.Error("http server stopped", slog.Any("error", err))
		}
	}()

	return nil
}

// Shutdown stops the poller and drains the HTTP server within ctx's deadline.
func (a *Application) Shutdown(ctx context.Context) error {
	if a.cancelPoll != nil {
		a.cancelPoll()
	}

	if err := a.fiber.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}

// FiberApp exposes the underlying fiber instance for tests.
func (a *Application) FiberApp() *fiber.App {
	return a.fiber
}
