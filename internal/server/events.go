package server

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/roach88/pixelgrid/internal/editor"
)

// eventBuffer is how many notifications a slow client may fall behind
// before further ones are dropped.
const eventBuffer = 32

// streamEvents sends editor change notifications as server-sent events.
// Clients refetch state on each event.
func (s *Server) streamEvents(c echo.Context) error {
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	flusher, ok := w.Writer.(http.Flusher)
	if !ok {
		return c.String(http.StatusInternalServerError, "stream unsupported")
	}

	ch := make(chan editor.Event, eventBuffer)
	unsubscribe := s.ed.Subscribe(func(ev editor.Event) {
		select {
		case ch <- ev:
		default:
		}
	})
	defer unsubscribe()

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(": connected\n\n")); err != nil {
		return nil
	}
	flusher.Flush()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-ch:
			data, err := json.Marshal(ev)
			if err != nil {
				return err
			}
			if err := writeEvent(w, string(ev.Kind), data); err != nil {
				s.log.WithError(err).Debug("event stream closed")
				return nil
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, name string, data []byte) error {
	if _, err := w.Write([]byte("event: " + name + "\ndata: ")); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err := w.Write([]byte("\n\n"))
	return err
}
