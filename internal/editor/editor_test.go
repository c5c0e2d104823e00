package editor

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pixelgrid/internal/board"
	"github.com/roach88/pixelgrid/internal/gate"
)

func TestAddQuadrant(t *testing.T) {
	f := newUnlocked(t, nil, "q-a", "q-b")
	ctx := context.Background()

	a, err := f.ed.AddQuadrant(ctx)
	require.NoError(t, err)
	b, err := f.ed.AddQuadrant(ctx)
	require.NoError(t, err)

	assert.Equal(t, "q-a", a.ID)
	assert.Equal(t, "q-b", b.ID)

	st := f.ed.State()
	require.Len(t, st.Quadrants, 3)
	assert.Equal(t, []string{board.InitialQuadrantID, "q-a", "q-b"}, quadrantIDs(st))
	for _, q := range st.Quadrants[1:] {
		assert.Equal(t, board.NewQuadrantTitle, q.Title)
		assert.Equal(t, 1, q.Rows)
		assert.Equal(t, 5, q.Columns)
		assert.Empty(t, q.Cells)
	}
	assert.Equal(t, 2, f.saver.count())
}

func TestMutationsRequireUnlockedGate(t *testing.T) {
	f := newLocked(t, twoQuadrants())
	ctx := context.Background()
	key := board.SlotKey{Slot: board.SlotBig}

	_, err := f.ed.AddQuadrant(ctx)
	assert.ErrorIs(t, err, ErrLocked)
	_, err = f.ed.RemoveQuadrant(ctx, "q-2")
	assert.ErrorIs(t, err, ErrLocked)
	_, err = f.ed.RenameQuadrant(ctx, "q-2", "x")
	assert.ErrorIs(t, err, ErrLocked)
	_, err = f.ed.UpdateCell(ctx, "q-2", key, board.CellPatch{ImageURL: board.Set("a")})
	assert.ErrorIs(t, err, ErrLocked)
	assert.ErrorIs(t, f.ed.SetPassword(ctx, "abc"), ErrLocked)

	assert.Equal(t, twoQuadrants(), f.ed.State())
	assert.Zero(t, f.saver.count())
}

func TestReadingIsNeverGated(t *testing.T) {
	d := twoQuadrants()
	d.Password = "abc"
	f := newLocked(t, d)

	assert.Equal(t, gate.Locked, f.ed.GateState())
	assert.Equal(t, d, f.ed.State())
	q, err := f.ed.Quadrant("q-2")
	require.NoError(t, err)
	assert.Equal(t, "q-2", q.ID)
}

func TestStateReturnsCopy(t *testing.T) {
	f := newUnlocked(t, nil)

	st := f.ed.State()
	st.Quadrants[0].Title = "mutated"
	st.Quadrants[0].Cells["r0-c0-big"] = board.Cell{ImageURL: "x"}

	again := f.ed.State()
	assert.Equal(t, board.InitialTitle, again.Quadrants[0].Title)
	assert.Empty(t, again.Quadrants[0].Cells)
}

func TestRemoveQuadrant_TwoStep(t *testing.T) {
	f := newUnlocked(t, twoQuadrants())
	ctx := context.Background()

	out, err := f.ed.RemoveQuadrant(ctx, "q-2")
	require.NoError(t, err)
	assert.Equal(t, Armed, out)
	assert.Len(t, f.ed.State().Quadrants, 2)
	id, ok := f.ed.PendingDelete()
	assert.True(t, ok)
	assert.Equal(t, "q-2", id)
	assert.Zero(t, f.saver.count(), "arming must not write")

	out, err = f.ed.RemoveQuadrant(ctx, "q-2")
	require.NoError(t, err)
	assert.Equal(t, Removed, out)
	assert.Equal(t, []string{board.InitialQuadrantID}, quadrantIDs(f.ed.State()))
	_, ok = f.ed.PendingDelete()
	assert.False(t, ok)
	assert.Equal(t, 1, f.saver.count())
	assert.Equal(t, 1, f.clock.Pending(), "only the status timer remains")
}

func TestRemoveQuadrant_DifferentIDMovesPending(t *testing.T) {
	d := twoQuadrants()
	d.Append(board.NewQuadrant("q-3"))
	f := newUnlocked(t, d)
	ctx := context.Background()

	_, err := f.ed.RemoveQuadrant(ctx, "q-2")
	require.NoError(t, err)

	out, err := f.ed.RemoveQuadrant(ctx, "q-3")
	require.NoError(t, err)
	assert.Equal(t, Armed, out)
	assert.Len(t, f.ed.State().Quadrants, 3, "switching ids removes nothing")

	id, _ := f.ed.PendingDelete()
	assert.Equal(t, "q-3", id)

	// q-2 is no longer armed, so this is a fresh first call.
	out, err = f.ed.RemoveQuadrant(ctx, "q-2")
	require.NoError(t, err)
	assert.Equal(t, Armed, out)
	assert.Len(t, f.ed.State().Quadrants, 3)
}

func TestRemoveQuadrant_WindowExpires(t *testing.T) {
	f := newUnlocked(t, twoQuadrants())
	ctx := context.Background()

	_, err := f.ed.RemoveQuadrant(ctx, "q-2")
	require.NoError(t, err)

	f.clock.Advance(DefaultDeleteWindow - time.Millisecond)
	_, ok := f.ed.PendingDelete()
	assert.True(t, ok, "still armed just inside the window")

	f.clock.Advance(time.Millisecond)
	_, ok = f.ed.PendingDelete()
	assert.False(t, ok)

	out, err := f.ed.RemoveQuadrant(ctx, "q-2")
	require.NoError(t, err)
	assert.Equal(t, Armed, out, "after expiry the next call arms again")
	assert.Len(t, f.ed.State().Quadrants, 2)
}

func TestRemoveQuadrant_RearmRestartsWindow(t *testing.T) {
	d := twoQuadrants()
	d.Append(board.NewQuadrant("q-3"))
	f := newUnlocked(t, d)
	ctx := context.Background()

	_, err := f.ed.RemoveQuadrant(ctx, "q-2")
	require.NoError(t, err)
	f.clock.Advance(2 * time.Second)
	_, err = f.ed.RemoveQuadrant(ctx, "q-3")
	require.NoError(t, err)

	// The first window would have ended here; the second has not.
	f.clock.Advance(2 * time.Second)
	id, ok := f.ed.PendingDelete()
	assert.True(t, ok)
	assert.Equal(t, "q-3", id)

	out, err := f.ed.RemoveQuadrant(ctx, "q-3")
	require.NoError(t, err)
	assert.Equal(t, Removed, out)
}

func TestRemoveQuadrant_LastQuadrant(t *testing.T) {
	f := newUnlocked(t, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := f.ed.RemoveQuadrant(ctx, board.InitialQuadrantID)
		assert.ErrorIs(t, err, ErrLastQuadrant)
	}
	assert.Len(t, f.ed.State().Quadrants, 1)
	_, ok := f.ed.PendingDelete()
	assert.False(t, ok)
}

func TestRemoveQuadrant_UnknownID(t *testing.T) {
	f := newUnlocked(t, twoQuadrants())

	_, err := f.ed.RemoveQuadrant(context.Background(), "q-missing")
	assert.ErrorIs(t, err, ErrQuadrantNotFound)
}

func TestCancelPendingDelete(t *testing.T) {
	f := newUnlocked(t, twoQuadrants())
	ctx := context.Background()

	_, err := f.ed.RemoveQuadrant(ctx, "q-2")
	require.NoError(t, err)
	f.ed.CancelPendingDelete()

	_, ok := f.ed.PendingDelete()
	assert.False(t, ok)
	assert.Zero(t, f.clock.Pending())

	out, err := f.ed.RemoveQuadrant(ctx, "q-2")
	require.NoError(t, err)
	assert.Equal(t, Armed, out)
}

func TestLockDisarmsPendingDelete(t *testing.T) {
	f := newUnlocked(t, twoQuadrants())

	_, err := f.ed.RemoveQuadrant(context.Background(), "q-2")
	require.NoError(t, err)

	assert.Equal(t, gate.Locked, f.ed.Lock())
	_, ok := f.ed.PendingDelete()
	assert.False(t, ok)
}

func TestResizeClampsAtOne(t *testing.T) {
	f := newUnlocked(t, twoQuadrants())
	ctx := context.Background()

	q, err := f.ed.ResizeQuadrant(ctx, board.InitialQuadrantID, board.AxisRows, -1)
	require.NoError(t, err)
	assert.Equal(t, 1, q.Rows)

	q, err = f.ed.ResizeQuadrant(ctx, "q-2", board.AxisColumns, -10)
	require.NoError(t, err)
	assert.Equal(t, 1, q.Columns)

	q, err = f.ed.ResizeQuadrant(ctx, "q-2", board.AxisColumns, 7)
	require.NoError(t, err)
	assert.Equal(t, 8, q.Columns)
}

func TestShrinkKeepsOutOfBoundsCells(t *testing.T) {
	f := newUnlocked(t, twoQuadrants())
	ctx := context.Background()
	key := board.SlotKey{Row: 0, Col: 4, Slot: board.SlotBig}

	_, err := f.ed.ResizeQuadrant(ctx, "q-2", board.AxisColumns, -2)
	require.NoError(t, err)

	_, err = f.ed.UpdateCell(ctx, "q-2", key, board.CellPatch{ImageURL: board.Set("data:image/png;base64,AAAA")})
	require.NoError(t, err)

	q, err := f.ed.ResizeQuadrant(ctx, "q-2", board.AxisColumns, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, q.Columns)
	assert.Equal(t, "data:image/png;base64,AAAA", q.Cell(key).ImageURL)
}

func TestUpdateQuadrant_PartialMerge(t *testing.T) {
	f := newUnlocked(t, twoQuadrants())
	ctx := context.Background()

	rows := 3
	q, err := f.ed.UpdateQuadrant(ctx, "q-2", board.QuadrantPatch{Rows: &rows})
	require.NoError(t, err)
	assert.Equal(t, 3, q.Rows)
	assert.Equal(t, 5, q.Columns)
	assert.Equal(t, board.NewQuadrantTitle, q.Title)

	q, err = f.ed.RenameQuadrant(ctx, "q-2", "loot")
	require.NoError(t, err)
	assert.Equal(t, "loot", q.Title)
	assert.Equal(t, 3, q.Rows)

	_, err = f.ed.RenameQuadrant(ctx, "q-missing", "x")
	assert.ErrorIs(t, err, ErrQuadrantNotFound)
}

func TestUpdateCell_MergeTouchesOnlyPatchedField(t *testing.T) {
	f := newUnlocked(t, nil)
	ctx := context.Background()
	key := board.SlotKey{Row: 0, Col: 2, Slot: board.SlotBig}

	_, err := f.ed.UpdateCell(ctx, board.InitialQuadrantID, key, board.CellPatch{
		ImageURL:  board.Set("https://img.example/a.png"),
		LinkURL:   board.Set("https://example.com"),
		Icon:      board.Set(string(board.IconShield)),
		IconColor: board.Set(string(board.ColorTeal)),
	})
	require.NoError(t, err)
	before, err := f.ed.Cell(board.InitialQuadrantID, key)
	require.NoError(t, err)

	after, err := f.ed.UpdateCell(ctx, board.InitialQuadrantID, key, board.CellPatch{StickerBR: board.Set("data:x")})
	require.NoError(t, err)

	want := before
	want.StickerBR = "data:x"
	assert.Equal(t, want, after)
}

func TestUpdateCell_RejectsUnknownIcon(t *testing.T) {
	f := newUnlocked(t, nil)
	key := board.SlotKey{Slot: board.SlotBig}

	_, err := f.ed.UpdateCell(context.Background(), board.InitialQuadrantID, key, board.CellPatch{Icon: board.Set("axe")})
	assert.ErrorIs(t, err, board.ErrUnknownIcon)
	assert.Empty(t, f.ed.State().Quadrants[0].Cells)
	assert.Zero(t, f.saver.count())
}

func TestSetPassword(t *testing.T) {
	f := newUnlocked(t, nil)
	ctx := context.Background()

	require.NoError(t, f.ed.SetPassword(ctx, "abc"))
	assert.Equal(t, "abc", f.ed.State().Password)
	assert.Equal(t, "abc", f.saver.last().Password)

	require.NoError(t, f.ed.SetPassword(ctx, ""))
	assert.False(t, f.ed.State().HasPassword())
}

func TestGateFlow(t *testing.T) {
	d := twoQuadrants()
	d.Password = "abc"
	f := newLocked(t, d)

	assert.Equal(t, gate.PromptOpen, f.ed.AttemptEdit())
	assert.False(t, f.ed.CanEdit())

	st, err := f.ed.Unlock("xyz")
	assert.ErrorIs(t, err, gate.ErrWrongPassword)
	assert.Equal(t, gate.PromptOpen, st)

	st, err = f.ed.Unlock("abc")
	require.NoError(t, err)
	assert.Equal(t, gate.Unlocked, st)
	assert.True(t, f.ed.CanEdit())

	assert.Equal(t, gate.Locked, f.ed.Lock())
	assert.Equal(t, gate.PromptOpen, f.ed.AttemptEdit())
	assert.Equal(t, gate.Locked, f.ed.DismissPrompt())
}

func TestSaveStatus(t *testing.T) {
	f := newUnlocked(t, nil, "q-a", "q-b")
	ctx := context.Background()
	assert.Equal(t, StatusIdle, f.ed.Status())

	_, err := f.ed.AddQuadrant(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusSaving, f.ed.Status())

	f.clock.Advance(300 * time.Millisecond)
	_, err = f.ed.AddQuadrant(ctx)
	require.NoError(t, err)

	// The second write restarted the delay.
	f.clock.Advance(300 * time.Millisecond)
	assert.Equal(t, StatusSaving, f.ed.Status())

	f.clock.Advance(200 * time.Millisecond)
	assert.Equal(t, StatusSaved, f.ed.Status())
	assert.Equal(t, 2, f.saver.count(), "writes are never batched")
}

func TestSaveFailureKeepsMutation(t *testing.T) {
	f := newUnlocked(t, nil, "q-a")
	f.saver.err = errDiskFull

	q, err := f.ed.AddQuadrant(context.Background())
	assert.ErrorIs(t, err, ErrSaveFailed)
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, StatusFailed, f.ed.Status())

	assert.NotNil(t, f.ed.State().Find(q.ID))
	assert.Zero(t, f.clock.Pending())
}

func TestImport(t *testing.T) {
	f := newUnlocked(t, twoQuadrants())
	ctx := context.Background()
	doc := []byte(`{"quadrants":[{"id":"q-x","title":"IMPORTED","rows":0,"columns":4,"cells":{}}],"password":"p"}`)

	err := f.ed.Import(ctx, doc, func() bool { return false })
	assert.ErrorIs(t, err, ErrImportDeclined)
	assert.Equal(t, twoQuadrants(), f.ed.State())

	err = f.ed.Import(ctx, []byte(`{"quadrants": "nope"}`), func() bool {
		t.Fatal("confirm must not be asked for an invalid document")
		return true
	})
	assert.Error(t, err)
	assert.Equal(t, twoQuadrants(), f.ed.State())

	require.NoError(t, f.ed.Import(ctx, doc, func() bool { return true }))
	st := f.ed.State()
	require.Len(t, st.Quadrants, 1)
	assert.Equal(t, "q-x", st.Quadrants[0].ID)
	assert.Equal(t, 1, st.Quadrants[0].Rows, "geometry is clamped on import")
	assert.Equal(t, "p", st.Password)
	assert.Equal(t, st, f.saver.last())
}

func TestImportDisarmsPendingDelete(t *testing.T) {
	f := newUnlocked(t, twoQuadrants())
	ctx := context.Background()

	_, err := f.ed.RemoveQuadrant(ctx, "q-2")
	require.NoError(t, err)

	require.NoError(t, f.ed.Replace(ctx, twoQuadrants(), func() bool { return true }))
	_, ok := f.ed.PendingDelete()
	assert.False(t, ok)
}

func TestFlush(t *testing.T) {
	f := newLocked(t, twoQuadrants())

	require.NoError(t, f.ed.Flush(context.Background()))
	assert.Equal(t, twoQuadrants(), f.saver.last())
}

func TestClose(t *testing.T) {
	f := newUnlocked(t, twoQuadrants(), "q-a")
	ctx := context.Background()

	_, err := f.ed.RemoveQuadrant(ctx, "q-2")
	require.NoError(t, err)
	f.ed.Close()

	assert.Zero(t, f.clock.Pending())
	_, err = f.ed.AddQuadrant(ctx)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, f.ed.Flush(ctx), ErrClosed)
	assert.Zero(t, f.saver.count())
}

func TestScenario_AddTwiceThenRemoveFirst(t *testing.T) {
	f := newUnlocked(t, nil, "q-a", "q-b")
	ctx := context.Background()

	_, err := f.ed.AddQuadrant(ctx)
	require.NoError(t, err)
	_, err = f.ed.AddQuadrant(ctx)
	require.NoError(t, err)
	require.Len(t, f.ed.State().Quadrants, 3)

	out, err := f.ed.RemoveQuadrant(ctx, board.InitialQuadrantID)
	require.NoError(t, err)
	assert.Equal(t, Armed, out)
	assert.Len(t, f.ed.State().Quadrants, 3)

	out, err = f.ed.RemoveQuadrant(ctx, board.InitialQuadrantID)
	require.NoError(t, err)
	assert.Equal(t, Removed, out)
	assert.Equal(t, []string{"q-a", "q-b"}, quadrantIDs(f.ed.State()))
}

func TestUUIDv7IDs(t *testing.T) {
	var gen UUIDv7IDs
	a, b := gen.NewID(), gen.NewID()

	assert.True(t, strings.HasPrefix(a, "q-"))
	assert.NotEqual(t, a, b)
	assert.Less(t, a, b, "ids are time ordered")
}

func TestErrorCode(t *testing.T) {
	assert.Empty(t, ErrorCode(nil))
	assert.Equal(t, CodeLastQuadrant, ErrorCode(ErrLastQuadrant))
	assert.Equal(t, CodeQuadrantNotFound, ErrorCode(fmt.Errorf("%w: q-9", ErrQuadrantNotFound)))
	assert.Equal(t, CodeWrongPassword, ErrorCode(gate.ErrWrongPassword))
	assert.Equal(t, CodeUnknownIcon, ErrorCode(board.ErrUnknownIcon))
	assert.Equal(t, CodeInternal, ErrorCode(errDiskFull))
}
