package editor

import (
	"errors"

	"github.com/roach88/pixelgrid/internal/board"
	"github.com/roach88/pixelgrid/internal/gate"
	"github.com/roach88/pixelgrid/internal/persist"
)

// Stable error codes shared by the HTTP API, the CLI and scenarios.
const (
	CodeLocked             = "locked"
	CodeWrongPassword      = "wrong_password"
	CodeNoPrompt           = "no_prompt"
	CodeQuadrantNotFound   = "quadrant_not_found"
	CodeLastQuadrant       = "last_quadrant"
	CodeImportNotConfirmed = "import_not_confirmed"
	CodeSaveFailed         = "save_failed"
	CodeClosed             = "closed"
	CodeInvalidSlot        = "invalid_slot"
	CodeUnknownIcon        = "unknown_icon"
	CodeUnknownColor       = "unknown_color"
	CodeInvalidBackup      = "invalid_backup"
	CodeInternal           = "internal"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrLocked, CodeLocked},
	{gate.ErrWrongPassword, CodeWrongPassword},
	{gate.ErrNoPrompt, CodeNoPrompt},
	{ErrQuadrantNotFound, CodeQuadrantNotFound},
	{ErrLastQuadrant, CodeLastQuadrant},
	{ErrImportDeclined, CodeImportNotConfirmed},
	{ErrSaveFailed, CodeSaveFailed},
	{ErrClosed, CodeClosed},
	{board.ErrInvalidSlotKey, CodeInvalidSlot},
	{board.ErrUnknownIcon, CodeUnknownIcon},
	{board.ErrUnknownColor, CodeUnknownColor},
	{board.ErrNoQuadrants, CodeInvalidBackup},
	{persist.ErrSchema, CodeInvalidBackup},
	{persist.ErrMalformed, CodeInvalidBackup},
	{persist.ErrMissingQuadrants, CodeInvalidBackup},
}

// ErrorCode classifies err. Unrecognized errors are CodeInternal; a nil
// error has no code.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return CodeInternal
}
