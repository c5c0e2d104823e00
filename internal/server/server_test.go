package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pixelgrid/internal/board"
	"github.com/roach88/pixelgrid/internal/editor"
	"github.com/roach88/pixelgrid/internal/gate"
	"github.com/roach88/pixelgrid/internal/persist"
	"github.com/roach88/pixelgrid/internal/store"
	"github.com/roach88/pixelgrid/internal/testutil"
)

type fixture struct {
	srv *Server
	ed  *editor.Editor
	gw  *persist.Gateway
	st  *store.Store
}

func newFixture(t *testing.T, state *board.Dashboard) fixture {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	clk := testutil.NewManualClock(time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC))
	logger, _ := logtest.NewNullLogger()
	gw := persist.New(st, persist.WithClock(clk), persist.WithLogger(logger))
	if state == nil {
		state = board.Default()
	}
	ed := editor.New(state, gw, editor.Options{
		Clock:  clk,
		IDs:    testutil.NewFixedIDs("q-a", "q-b"),
		Logger: logger,
	})
	t.Cleanup(ed.Close)

	srv := New(ed, gw, Options{BaseURL: "https://boards.example/", Logger: logger})
	return fixture{srv: srv, ed: ed, gw: gw, st: st}
}

func (f fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func twoQuadrants() *board.Dashboard {
	d := board.Default()
	d.Append(board.NewQuadrant("q-2"))
	return d
}

func TestHealthz(t *testing.T) {
	f := newFixture(t, nil)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/healthz", "").Code)
}

func TestGetState_HidesPassword(t *testing.T) {
	d := board.Default()
	d.Password = "abc"
	f := newFixture(t, d)

	rec := f.do(t, http.MethodGet, "/api/state", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "abc")

	got := decode[stateResponse](t, rec)
	assert.True(t, got.Protected)
	require.Len(t, got.Quadrants, 1)
	assert.Equal(t, board.InitialTitle, got.Quadrants[0].Title)
}

func TestMutationWhileLocked(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/api/quadrants", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "locked", decode[errorResponse](t, rec).Code)
}

func TestGateRoutes(t *testing.T) {
	d := board.Default()
	d.Password = "abc"
	f := newFixture(t, d)

	rec := f.do(t, http.MethodPost, "/api/gate/attempt", "")
	assert.Equal(t, gate.PromptOpen, decode[gateResponse](t, rec).Gate)

	rec = f.do(t, http.MethodPost, "/api/gate/unlock", `{"password":"xyz"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, gate.PromptOpen, f.ed.GateState())

	rec = f.do(t, http.MethodPost, "/api/gate/unlock", `{"password":"abc"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, gate.Unlocked, decode[gateResponse](t, rec).Gate)

	rec = f.do(t, http.MethodPost, "/api/gate/lock", "")
	assert.Equal(t, gate.Locked, decode[gateResponse](t, rec).Gate)

	f.do(t, http.MethodPost, "/api/gate/attempt", "")
	rec = f.do(t, http.MethodPost, "/api/gate/dismiss", "")
	assert.Equal(t, gate.Locked, decode[gateResponse](t, rec).Gate)
}

func TestQuadrantRoutes(t *testing.T) {
	f := newFixture(t, nil)
	f.ed.AttemptEdit()

	rec := f.do(t, http.MethodPost, "/api/quadrants", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	q := decode[board.Quadrant](t, rec)
	assert.Equal(t, "q-a", q.ID)
	assert.Equal(t, board.NewQuadrantTitle, q.Title)

	rec = f.do(t, http.MethodPatch, "/api/quadrants/q-a", `{"title":"loot","rows":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	q = decode[board.Quadrant](t, rec)
	assert.Equal(t, "loot", q.Title)
	assert.Equal(t, 2, q.Rows)
	assert.Equal(t, 5, q.Columns)

	rec = f.do(t, http.MethodPost, "/api/quadrants/q-a/resize", `{"axis":"columns","delta":-9}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[board.Quadrant](t, rec).Columns)

	rec = f.do(t, http.MethodPost, "/api/quadrants/q-a/resize", `{"axis":"depth","delta":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPatch, "/api/quadrants/q-missing", `{"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRemoveQuadrantRoute(t *testing.T) {
	f := newFixture(t, twoQuadrants())
	f.ed.AttemptEdit()

	rec := f.do(t, http.MethodDelete, "/api/quadrants/q-2", "")
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, editor.Armed, decode[removeResponse](t, rec).Outcome)

	status := decode[statusResponse](t, f.do(t, http.MethodGet, "/api/status", ""))
	assert.Equal(t, "q-2", status.PendingDelete)

	rec = f.do(t, http.MethodDelete, "/api/quadrants/q-2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, editor.Removed, decode[removeResponse](t, rec).Outcome)

	rec = f.do(t, http.MethodDelete, "/api/quadrants/"+board.InitialQuadrantID, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "last_quadrant", decode[errorResponse](t, rec).Code)
}

func TestCancelPendingDeleteRoute(t *testing.T) {
	f := newFixture(t, twoQuadrants())
	f.ed.AttemptEdit()

	f.do(t, http.MethodDelete, "/api/quadrants/q-2", "")
	rec := f.do(t, http.MethodDelete, "/api/pending-delete", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, ok := f.ed.PendingDelete()
	assert.False(t, ok)
}

func TestUpdateCellRoute(t *testing.T) {
	f := newFixture(t, nil)
	f.ed.AttemptEdit()

	rec := f.do(t, http.MethodPatch, "/api/quadrants/q-initial/cells/r0-c3-s2", `{"icon":"target","iconColor":"green"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	cell := decode[board.Cell](t, rec)
	assert.Equal(t, "r0-c3-s2", cell.ID)
	assert.Equal(t, board.SizeSmall, cell.Size)
	assert.Equal(t, board.IconTarget, cell.Icon)

	rec = f.do(t, http.MethodPatch, "/api/quadrants/q-initial/cells/r0-c3-s2", `{"icon":null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	cell = decode[board.Cell](t, rec)
	assert.Empty(t, cell.Icon)
	assert.Equal(t, board.ColorGreen, cell.IconColor)

	rec = f.do(t, http.MethodPatch, "/api/quadrants/q-initial/cells/r0-c3-s9", `{"icon":"target"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_slot", decode[errorResponse](t, rec).Code)

	rec = f.do(t, http.MethodPatch, "/api/quadrants/q-initial/cells/r0-c0-big", `{"icon":"axe"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unknown_icon", decode[errorResponse](t, rec).Code)
}

func TestSetPasswordRoute(t *testing.T) {
	f := newFixture(t, nil)
	f.ed.AttemptEdit()

	rec := f.do(t, http.MethodPut, "/api/password", `{"password":"abc"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "abc", f.ed.State().Password)

	saved, err := f.st.Get(context.Background(), persist.DefaultRecord)
	require.NoError(t, err)
	assert.Contains(t, string(saved), `"password":"abc"`)
}

func TestExportRoute(t *testing.T) {
	f := newFixture(t, nil)

	assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodGet, "/api/export", "").Code)

	f.ed.AttemptEdit()
	rec := f.do(t, http.MethodGet, "/api/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="pixel-grid-backup-2026-10-17.json"`, rec.Header().Get("Content-Disposition"))

	d, err := persist.Decode(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, board.Default(), d)
}

func TestImportRoute(t *testing.T) {
	f := newFixture(t, twoQuadrants())
	f.ed.AttemptEdit()
	doc := `{"quadrants":[{"id":"q-x","title":"IMPORTED","rows":2,"columns":2,"cells":{}}]}`

	rec := f.do(t, http.MethodPost, "/api/import", doc)
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)
	assert.Len(t, f.ed.State().Quadrants, 2)

	rec = f.do(t, http.MethodPost, "/api/import?confirm=true", `{"quadrants":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, f.ed.State().Quadrants, 2)

	rec = f.do(t, http.MethodPost, "/api/import?confirm=true", doc)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[stateResponse](t, rec)
	require.Len(t, got.Quadrants, 1)
	assert.Equal(t, "q-x", got.Quadrants[0].ID)
}

func TestLinkRoute(t *testing.T) {
	f := newFixture(t, nil)
	f.ed.AttemptEdit()

	rec := f.do(t, http.MethodGet, "/api/link", "")
	require.Equal(t, http.StatusOK, rec.Code)
	info := decode[persist.LinkInfo](t, rec)
	assert.True(t, strings.HasPrefix(info.URL, "https://boards.example/#"))
	assert.False(t, info.OverLimit)

	d, err := persist.DecodeFragment(persist.FragmentOf(info.URL))
	require.NoError(t, err)
	assert.Equal(t, board.Default(), d)

	rec = f.do(t, http.MethodGet, "/api/link?base=http://localhost:3000/", "")
	info = decode[persist.LinkInfo](t, rec)
	assert.True(t, strings.HasPrefix(info.URL, "http://localhost:3000/#"))
}

func TestEventStream(t *testing.T) {
	f := newFixture(t, nil)
	f.ed.AttemptEdit()

	ts := httptest.NewServer(f.srv.Handler())
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	require.True(t, lines.Scan())
	assert.Equal(t, ": connected", lines.Text())

	_, err = f.ed.AddQuadrant(context.Background())
	require.NoError(t, err)

	var event, data string
	for lines.Scan() {
		line := lines.Text()
		if strings.HasPrefix(line, "event: ") {
			event = strings.TrimPrefix(line, "event: ")
		}
		if strings.HasPrefix(line, "data: ") {
			data = strings.TrimPrefix(line, "data: ")
			break
		}
	}
	assert.Equal(t, string(editor.QuadrantAdded), event)
	assert.JSONEq(t, `{"kind":"quadrant_added","quadrant_id":"q-a"}`, data)
}
