// Package server exposes the editor over HTTP for a browser front end.
//
// Reads are always served. Mutations go through the editor and therefore
// through its access gate; a locked gate answers 403.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/roach88/pixelgrid/internal/editor"
	"github.com/roach88/pixelgrid/internal/persist"
)

const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	// BaseURL is the page share links point at when a request names none.
	BaseURL string
	Logger  *log.Logger
}

// Server serves one editor.
type Server struct {
	ed      *editor.Editor
	gw      *persist.Gateway
	baseURL string
	log     *log.Logger
	echo    *echo.Echo
}

// New builds the server and its routes.
func New(ed *editor.Editor, gw *persist.Gateway, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New()
		logger.SetOutput(io.Discard)
	}
	s := &Server{
		ed:      ed,
		gw:      gw,
		baseURL: opts.BaseURL,
		log:     logger,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	Register(e, s)
	s.echo = e
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errc := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("http server listening")
		errc <- s.echo.Start(addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("http server stopped")
	return nil
}
