package server

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/roach88/pixelgrid/internal/board"
	"github.com/roach88/pixelgrid/internal/editor"
	"github.com/roach88/pixelgrid/internal/gate"
)

// maxImportBytes bounds an uploaded backup. Embedded images make backups
// large, so the bound is generous.
const maxImportBytes = 64 << 20

// Register wires the API routes on e.
func Register(e *echo.Echo, s *Server) {
	e.GET("/healthz", s.healthz)

	api := e.Group("/api")
	api.GET("/state", s.getState)
	api.GET("/status", s.getStatus)
	api.GET("/events", s.streamEvents)

	api.POST("/gate/attempt", s.attemptEdit)
	api.POST("/gate/unlock", s.unlock)
	api.POST("/gate/lock", s.lock)
	api.POST("/gate/dismiss", s.dismiss)

	api.POST("/quadrants", s.addQuadrant)
	api.PATCH("/quadrants/:id", s.updateQuadrant)
	api.POST("/quadrants/:id/resize", s.resizeQuadrant)
	api.DELETE("/quadrants/:id", s.removeQuadrant)
	api.DELETE("/pending-delete", s.cancelPendingDelete)
	api.PATCH("/quadrants/:id/cells/:slot", s.updateCell)

	api.PUT("/password", s.setPassword)

	api.GET("/export", s.export)
	api.POST("/import", s.importBackup)
	api.GET("/link", s.link)
}

// stateResponse is the dashboard as shown to any viewer. The password is
// never sent; only whether one is set.
type stateResponse struct {
	Quadrants []board.Quadrant `json:"quadrants"`
	Protected bool             `json:"protected"`
}

type statusResponse struct {
	Save          editor.SaveStatus `json:"save"`
	Gate          gate.State        `json:"gate"`
	PendingDelete string            `json:"pendingDelete,omitempty"`
	Protected     bool              `json:"protected"`
}

type gateResponse struct {
	Gate gate.State `json:"gate"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

type resizeRequest struct {
	Axis  board.Axis `json:"axis"`
	Delta int        `json:"delta"`
}

type removeResponse struct {
	Outcome editor.RemoveOutcome `json:"outcome"`
	ID      string               `json:"id"`
}

func (s *Server) healthz(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (s *Server) getState(c echo.Context) error {
	d := s.ed.State()
	return c.JSON(http.StatusOK, stateResponse{Quadrants: d.Quadrants, Protected: d.HasPassword()})
}

func (s *Server) getStatus(c echo.Context) error {
	pending, _ := s.ed.PendingDelete()
	return c.JSON(http.StatusOK, statusResponse{
		Save:          s.ed.Status(),
		Gate:          s.ed.GateState(),
		PendingDelete: pending,
		Protected:     s.ed.State().HasPassword(),
	})
}

func (s *Server) attemptEdit(c echo.Context) error {
	return c.JSON(http.StatusOK, gateResponse{Gate: s.ed.AttemptEdit()})
}

func (s *Server) unlock(c echo.Context) error {
	var req passwordRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	st, err := s.ed.Unlock(req.Password)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, gateResponse{Gate: st})
}

func (s *Server) lock(c echo.Context) error {
	return c.JSON(http.StatusOK, gateResponse{Gate: s.ed.Lock()})
}

func (s *Server) dismiss(c echo.Context) error {
	return c.JSON(http.StatusOK, gateResponse{Gate: s.ed.DismissPrompt()})
}

func (s *Server) addQuadrant(c echo.Context) error {
	q, err := s.ed.AddQuadrant(c.Request().Context())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, q)
}

func (s *Server) updateQuadrant(c echo.Context) error {
	var patch board.QuadrantPatch
	if err := bindBody(c, &patch); err != nil {
		return err
	}
	q, err := s.ed.UpdateQuadrant(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, q)
}

func (s *Server) resizeQuadrant(c echo.Context) error {
	var req resizeRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if req.Axis != board.AxisRows && req.Axis != board.AxisColumns {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("axis must be %q or %q", board.AxisRows, board.AxisColumns))
	}
	q, err := s.ed.ResizeQuadrant(c.Request().Context(), c.Param("id"), req.Axis, req.Delta)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, q)
}

func (s *Server) removeQuadrant(c echo.Context) error {
	id := c.Param("id")
	out, err := s.ed.RemoveQuadrant(c.Request().Context(), id)
	if err != nil {
		return s.fail(c, err)
	}
	status := http.StatusOK
	if out == editor.Armed {
		status = http.StatusAccepted
	}
	return c.JSON(status, removeResponse{Outcome: out, ID: id})
}

func (s *Server) cancelPendingDelete(c echo.Context) error {
	s.ed.CancelPendingDelete()
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) updateCell(c echo.Context) error {
	key, err := board.ParseSlotKey(c.Param("slot"))
	if err != nil {
		return s.fail(c, err)
	}
	var patch board.CellPatch
	if err := bindBody(c, &patch); err != nil {
		return err
	}
	cell, err := s.ed.UpdateCell(c.Request().Context(), c.Param("id"), key, patch)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, cell)
}

func (s *Server) setPassword(c echo.Context) error {
	var req passwordRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if err := s.ed.SetPassword(c.Request().Context(), req.Password); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// export and link carry the password, so they are editor-only.
func (s *Server) export(c echo.Context) error {
	if !s.ed.CanEdit() {
		return s.fail(c, editor.ErrLocked)
	}
	b, err := s.gw.Export(s.ed.State())
	if err != nil {
		return s.fail(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", b.Filename))
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, b.Data)
}

func (s *Server) importBackup(c echo.Context) error {
	confirmed, _ := strconv.ParseBool(c.QueryParam("confirm"))
	data, err := io.ReadAll(io.LimitReader(c.Request().Body, maxImportBytes))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read body")
	}
	err = s.ed.Import(c.Request().Context(), data, func() bool { return confirmed })
	if err != nil {
		return s.fail(c, err)
	}
	return s.getState(c)
}

func (s *Server) link(c echo.Context) error {
	if !s.ed.CanEdit() {
		return s.fail(c, editor.ErrLocked)
	}
	base := c.QueryParam("base")
	if base == "" {
		base = s.baseURL
	}
	info, err := s.gw.ShareLink(base, s.ed.State())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, info)
}

// bindBody decodes the request body only; path and query parameters are
// read explicitly by each handler.
func bindBody(c echo.Context, v any) error {
	return (&echo.DefaultBinder{}).BindBody(c, v)
}
