// Package web serves the showcase site: the project catalog, form layouts and
// submissions, carousel layouts, live carousel sessions and the activity feed.
package web

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/teslashibe/showcase/pkg/carousel"
	"github.com/teslashibe/showcase/pkg/catalog"
	"github.com/teslashibe/showcase/pkg/contact"
	"github.com/teslashibe/showcase/pkg/hub"
)

// Defaults for Config.
const (
	DefaultAddr          = ":8080"
	DefaultBodyLimit     = 10 * 1024 * 1024
	DefaultSubmitTimeout = 30 * time.Second
	shutdownTimeout      = 5 * time.Second
)

// Config configures a Server.
type Config struct {
	Addr string

	// StaticDir is served at "/" when set.
	StaticDir string

	// BlobDir is served at BlobPrefix when set (local sink uploads).
	BlobDir    string
	BlobPrefix string

	BodyLimit     int
	SubmitTimeout time.Duration

	// Scheduler drives carousel session timers. Defaults to the real clock.
	Scheduler carousel.Scheduler

	Logger *slog.Logger
}

// Server is the showcase HTTP and websocket server.
type Server struct {
	app      *fiber.App
	cfg      Config
	catalog  *catalog.Source
	forms    *contact.Service
	activity *hub.Hub
	logger   *slog.Logger

	sessions atomic.Int64
}

// NewServer wires the routes. activity may be nil, in which case no feed is
// served and no events are published.
func NewServer(cfg Config, source *catalog.Source, forms *contact.Service, activity *hub.Hub) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = DefaultBodyLimit
	}
	if cfg.SubmitTimeout <= 0 {
		cfg.SubmitTimeout = DefaultSubmitTimeout
	}
	if cfg.BlobPrefix == "" {
		cfg.BlobPrefix = "/files"
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = carousel.RealScheduler{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:      cfg,
		catalog:  source,
		forms:    forms,
		activity: activity,
		logger:   logger.With("component", "web"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Showcase",
		DisableStartupMessage: true,
		BodyLimit:             cfg.BodyLimit,
		ErrorHandler:          errorHandler(s.logger),
	})

	app.Use(recover.New())
	app.Use(requestLogger(s.logger))
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/health", s.handleHealth)
	api.Get("/projects", s.handleListProjects)
	api.Get("/projects/:id", s.handleGetProject)
	api.Get("/forms/:kind", s.handleFormLayout)
	api.Get("/carousel/:site", s.handleCarouselLayout)

	api.Post("/contact", s.handleSubmit(contact.KindContact))
	api.Post("/waitlist", s.handleSubmit(contact.KindWaitlist))
	api.Post("/apps/:id/waitlist", s.handleSubmit(contact.KindWaitlist))
	api.Post("/bug-reports", s.handleSubmit(contact.KindBugReport))
	api.Post("/apps/:id/bug-reports", s.handleSubmit(contact.KindBugReport))

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/carousel/projects", websocket.New(s.handleProjectsSession))
	app.Get("/ws/carousel/apps/:id", websocket.New(s.handleScreenshotsSession))
	if activity != nil {
		app.Get("/ws/activity", activity.Handler())
	}

	if cfg.BlobDir != "" {
		app.Static(cfg.BlobPrefix, cfg.BlobDir)
	}
	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}

	s.app = app
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run serves until ctx is cancelled, then shuts down gracefully. It also runs
// the activity hub.
func (s *Server) Run(ctx context.Context) error {
	if s.activity != nil {
		go s.activity.Run(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- s.app.Listen(s.cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		return s.app.ShutdownWithTimeout(shutdownTimeout)
	}
}

// Sessions returns the number of open carousel sessions.
func (s *Server) Sessions() int {
	return int(s.sessions.Load())
}

// publish sends an activity event if a hub is configured.
func (s *Server) publish(e hub.Event) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Publish(e); err != nil {
		s.logger.Warn("failed to publish activity", "error", err)
	}
}
