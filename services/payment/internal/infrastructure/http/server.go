package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/pkg/logger"
	handlers "github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/adapter/handler/http"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/config"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/middleware/auth"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type Server struct {
	config *config.Config
	logger *zap.Logger
	echo   *echo.Echo
}

type Handlers struct {
	Payments      *handlers.PaymentHandler
	Notifications *handlers.NotificationHandler
}

// NewServer builds the echo server with routes mounted.
// HTTP metrics are registered on registry and served from it at /metrics.
func NewServer(cfg *config.Config, log *zap.Logger, registry *prometheus.Registry, h Handlers) *Server {
	e := echo.New()
	e.Validator = handlers.NewRequestValidator()

	// Middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Service.ClientURL},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	logger.WithEchoLogger(e, log)
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "payment",
		Subsystem:  "http",
		Registerer: registry,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	s := &Server{
		config: cfg,
		logger: log,
		echo:   e,
	}
	s.setupRoutes(registry, h)
	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) setupRoutes(registry *prometheus.Registry, h Handlers) {
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	s.echo.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: registry,
	}))

	handlers.RegisterRoutes(s.echo, h.Payments, h.Notifications, auth.JWTConfig{
		Secret:    s.config.JWT.Secret,
		Issuer:    s.config.JWT.Issuer,
		Logger:    s.logger,
		SkipPaths: []string{"/health", "/metrics"},
	})
}
