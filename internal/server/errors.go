package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/roach88/pixelgrid/internal/editor"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var statusByCode = map[string]int{
	editor.CodeLocked:             http.StatusForbidden,
	editor.CodeWrongPassword:      http.StatusUnauthorized,
	editor.CodeNoPrompt:           http.StatusConflict,
	editor.CodeQuadrantNotFound:   http.StatusNotFound,
	editor.CodeLastQuadrant:       http.StatusConflict,
	editor.CodeImportNotConfirmed: http.StatusPreconditionRequired,
	editor.CodeSaveFailed:         http.StatusInternalServerError,
	editor.CodeClosed:             http.StatusServiceUnavailable,
	editor.CodeInvalidSlot:        http.StatusBadRequest,
	editor.CodeUnknownIcon:        http.StatusBadRequest,
	editor.CodeUnknownColor:       http.StatusBadRequest,
	editor.CodeInvalidBackup:      http.StatusBadRequest,
}

// fail writes err as a JSON error response carrying its stable code.
func (s *Server) fail(c echo.Context, err error) error {
	code := editor.ErrorCode(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		s.log.WithError(err).WithField("path", c.Path()).Error("request failed")
	}
	return c.JSON(status, errorResponse{Error: err.Error(), Code: code})
}
