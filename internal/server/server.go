// Package server exposes the media service over HTTP: JSON album endpoints,
// media proxy endpoints, server-rendered album pages and operational routes.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/sync/errgroup"

	"github.com/Sternrassler/album-proxy/pkg/logging"
	"github.com/Sternrassler/album-proxy/pkg/metrics"
	"github.com/Sternrassler/album-proxy/pkg/proxy"
)

// Config configures the HTTP server.
type Config struct {
	// BasePath mounts the browser-facing routes below a prefix such as
	// "/photos". It must be normalized ("" or "/x" without trailing slash).
	BasePath string

	// ShutdownTimeout bounds the graceful shutdown in Run.
	ShutdownTimeout time.Duration

	// Tracing enables the otelecho middleware.
	Tracing bool

	// ServiceName is the otelecho server name.
	ServiceName string
}

// Server is the HTTP front of the album proxy.
type Server struct {
	cfg     Config
	echo    *echo.Echo
	service *proxy.Service
	logger  zerolog.Logger
}

// New builds the router. It does not start listening.
func New(cfg Config, service *proxy.Service) (*Server, error) {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "album-proxy"
	}

	renderer, err := newRenderer()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:     cfg,
		echo:    echo.New(),
		service: service,
		logger:  logging.NewLogger("http"),
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer

	// "/albums/{id}/" routes like "/albums/{id}".
	e.Pre(middleware.RemoveTrailingSlash())

	if cfg.Tracing {
		e.Use(otelecho.Middleware(cfg.ServiceName))
	}
	e.Use(logging.RequestLogger(s.logger, "/health", "/metrics"))
	e.Use(metrics.Middleware())
	e.Use(middleware.Recover())

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	e := s.echo
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	h := &handlers{service: s.service, logger: s.logger}
	p := &pages{service: s.service, basePath: s.cfg.BasePath, logger: s.logger}

	root := e.Group(s.cfg.BasePath)
	if s.cfg.BasePath == "" {
		root.GET("/", p.index)
	} else {
		root.GET("", p.index)
	}
	root.GET("/albums/:id", p.album)

	api := root.Group("/api")
	api.GET("/albums", h.albums, gzipJSON())
	api.GET("/albums/:id", h.album, gzipJSON())

	methods := []string{http.MethodGet, http.MethodHead}
	api.Match(methods, "/asset/:assetId", h.asset)
	api.Match(methods, "/thumbnail/:assetId", h.thumbnail)
}

// gzipJSON compresses album JSON for clients that accept it. Media routes
// are left alone; image bytes are already compressed.
func gzipJSON() echo.MiddlewareFunc {
	return echo.WrapMiddleware(func(next http.Handler) http.Handler {
		return gzhttp.GzipHandler(next)
	})
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info().Str("addr", addr).Str("base_path", s.cfg.BasePath).Msg("Starting HTTP server")
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		s.logger.Info().Msg("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
