package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hrygo/complaintdesk/internal/profile"
	apiv1 "github.com/hrygo/complaintdesk/server/router/api/v1"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	Profile *profile.Profile

	echoServer *echo.Echo
	listener   net.Listener
}

// NewServer builds the HTTP surface. metrics may be nil, in which case
// /metrics is not mounted.
func NewServer(profile *profile.Profile, ai apiv1.ComplaintAI, metrics http.Handler) *Server {
	s := &Server{Profile: profile}

	echoServer := echo.New()
	echoServer.Debug = profile.IsDev()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Use(middleware.Recover())
	echoServer.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	echoServer.Use(middleware.BodyLimit("64K"))
	echoServer.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/healthz" || p == "/metrics"
		},
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			slog.Debug("HTTP request",
				"method", v.Method,
				"path", v.URIPath,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"request_id", v.RequestID,
				"error", v.Error,
			)
			return nil
		},
	}))
	s.echoServer = echoServer

	echoServer.GET("/healthz", s.healthz)
	if metrics != nil {
		echoServer.GET("/metrics", echo.WrapHandler(metrics))
	}

	apiv1.NewAPIV1Service(profile, ai).RegisterRoutes(echoServer)
	return s
}

type healthStatus struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	AIEnabled bool   `json:"ai_enabled"`
}

func (s *Server) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, healthStatus{
		Status:    "ok",
		Version:   s.Profile.Version,
		AIEnabled: s.Profile.IsAIEnabled(),
	})
}

// Start binds the listen address. Serve must be called afterwards.
func (s *Server) Start(_ context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	s.listener = listener
	s.echoServer.Listener = listener
	slog.Info("Server listening", "address", listener.Addr().String())
	return nil
}

// Serve blocks until the server is shut down. A graceful shutdown returns nil.
func (s *Server) Serve() error {
	if s.listener == nil {
		return errors.New("server not started")
	}
	if err := s.echoServer.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	slog.Info("Server shutting down")
	if err := s.echoServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	slog.Info("Server stopped properly")
	return nil
}

// ServeHTTP lets the server be exercised without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echoServer.ServeHTTP(w, r)
}
