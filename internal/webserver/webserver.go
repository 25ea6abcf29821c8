package webserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/minimart-io/minimart/config"
)

// SessionName is the cookie holding the admin session
const SessionName = "minimart-session"

// WebServer wraps the echo instance serving the admin views
type WebServer struct {
	cfg  *config.AppConfig
	root *echo.Echo
}

func New(cfg *config.AppConfig) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(session.Middleware(newCookieStore(cfg)))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			zap.L().Info("http request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	}))

	e.Renderer = newRenderer()
	e.Static("/", cfg.Web.PublicDir)

	return &WebServer{cfg: cfg, root: e}
}

func newCookieStore(cfg *config.AppConfig) sessions.Store {
	store := sessions.NewCookieStore([]byte(cfg.Web.Secret))
	store.MaxAge(cfg.Web.SessionMaxAge)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	return store
}

// Echo exposes the underlying router for route registration.
func (ws *WebServer) Echo() *echo.Echo {
	return ws.root
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (ws *WebServer) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", ws.cfg.Web.Host, ws.cfg.Web.Port)
	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("web server listening", zap.String("addr", addr))
		errCh <- ws.root.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return ws.root.Shutdown(shutdownCtx)
	}
}
