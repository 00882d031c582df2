package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/serper/portfolio/internal/config"
	"github.com/serper/portfolio/internal/portfolio"
	"github.com/serper/portfolio/internal/render"
	"github.com/serper/portfolio/internal/server/web"
	"github.com/serper/portfolio/internal/theme"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Source runs one fetch cycle of the portfolio repositories
type Source interface {
	Collect(ctx context.Context) ([]portfolio.Repository, error)
}

// Server serves the portfolio page. Every page request runs a fresh fetch.
type Server struct {
	echo     *echo.Echo
	cfg      *config.Config
	source   Source
	renderer *render.Renderer
	l        *zap.Logger
}

// New creates the echo application with its middleware and routes
func New(cfg *config.Config, source Source, renderer *render.Renderer, l *zap.Logger) *Server {
	e := echo.New()

	if !cfg.IsDev() {
		e.HideBanner = true
		e.HidePort = true
	}

	s := &Server{
		echo:     e,
		cfg:      cfg,
		source:   source,
		renderer: renderer,
		l:        l,
	}

	s.configureMiddleware()
	s.configureRoutes()

	return s
}

// Handler exposes the routes, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run registers the server with the fx lifecycle
func Run(lc fx.Lifecycle, s *Server, cfg *config.Config, l *zap.Logger) {
	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           s.echo,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		// A page request waits for up to 13 sequential GitHub calls
		WriteTimeout:   90 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				l.Info("starting portfolio server", zap.String("addr", server.Addr))
				if err := s.echo.StartServer(server); err != nil && !errors.Is(err, http.ErrServerClosed) {
					l.Error("error starting echo server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			l.Info("shutdown signal received")
			return s.echo.Shutdown(ctx)
		},
	})
}

func (s *Server) configureMiddleware() {
	// Request ID must come first
	s.echo.Use(middleware.RequestID())

	s.echo.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1 << 12, // 4 KB
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			s.l.Error("recovered from panic",
				zap.Error(err),
				zap.ByteString("stack", stack),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return nil
		},
	}))

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.l.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
		LogLatency:   true,
		LogRemoteIP:  true,
		LogMethod:    true,
		LogURI:       true,
		LogRequestID: true,
		LogStatus:    true,
	}))

	if s.cfg.IsDev() {
		s.echo.IPExtractor = echo.ExtractIPDirect()
	} else {
		s.echo.IPExtractor = echo.ExtractIPFromXFFHeader()
	}
}

func (s *Server) configureRoutes() {
	s.echo.GET("/", web.Wrap(s.index, s.l))
	s.echo.GET("/projects", web.Wrap(s.projects, s.l))
	s.echo.POST("/theme", web.Wrap(s.toggleTheme, s.l))
	s.echo.GET("/api/repositories", web.Wrap(s.repositories, s.l))
	s.echo.GET("/healthz", web.Wrap(s.health, s.l))
}

// index renders the full page for the requested filter
func (s *Server) index(c web.Context) error {
	pref := theme.FromRequest(c.Request())

	repos, err := s.source.Collect(c.Request().Context())
	if err != nil {
		c.L.Error("error loading repositories", zap.Error(err))
		return s.html(c, http.StatusBadGateway, func(buf *bytes.Buffer) error {
			return s.renderer.Page(buf, render.ErrorPage(s.cfg.GitHubUser, pref))
		})
	}

	page := render.NewPage(s.cfg.GitHubUser, portfolio.New(repos), c.QueryParam("filter"), pref)
	return s.html(c, http.StatusOK, func(buf *bytes.Buffer) error {
		return s.renderer.Page(buf, page)
	})
}

// projects renders the filter bar and the cards for the requested filter
func (s *Server) projects(c web.Context) error {
	repos, err := s.source.Collect(c.Request().Context())
	if err != nil {
		c.L.Error("error loading repositories", zap.Error(err))
		return c.HTML(http.StatusBadGateway, `<div class="error-message"><p>`+render.ErrorMessage+`</p></div>`)
	}

	page := render.NewPage(s.cfg.GitHubUser, portfolio.New(repos), c.QueryParam("filter"), theme.FromRequest(c.Request()))
	return s.html(c, http.StatusOK, func(buf *bytes.Buffer) error {
		if err := s.renderer.Filters(buf, page.Filters); err != nil {
			return err
		}
		return s.renderer.Cards(buf, page.Repositories)
	})
}

// toggleTheme flips the stored preference and returns to the page
func (s *Server) toggleTheme(c web.Context) error {
	pref := theme.FromRequest(c.Request()).Toggle()
	c.SetCookie(theme.Cookie(pref))

	target := "/"
	if filter := c.FormValue("filter"); filter != "" && filter != portfolio.FilterAll {
		target = "/?filter=" + url.QueryEscape(filter)
	}
	return c.Redirect(http.StatusSeeOther, target)
}

// repositories returns the snapshot as JSON, filtered when requested
func (s *Server) repositories(c web.Context) error {
	repos, err := s.source.Collect(c.Request().Context())
	if err != nil {
		c.L.Error("error loading repositories", zap.Error(err))
		return c.BadGateway(render.ErrorMessage)
	}

	snapshot := portfolio.NewSnapshot(s.cfg.GitHubUser, repos, time.Now())
	if filter := c.QueryParam("filter"); filter != "" {
		snapshot.Repositories = portfolio.Filter(snapshot.Repositories, filter)
	}
	return c.OK(snapshot)
}

func (s *Server) health(c web.Context) error {
	return c.OK(map[string]string{"status": "ok"})
}

// html renders into a buffer first so a template error never leaves a
// half-written response
func (s *Server) html(c web.Context, status int, fn func(buf *bytes.Buffer) error) error {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		c.L.Error("error rendering page", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "render failed")
	}
	return c.HTMLBlob(status, buf.Bytes())
}
