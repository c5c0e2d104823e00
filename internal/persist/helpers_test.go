package persist

import (
	"path/filepath"
	"testing"

	"github.com/roach88/pixelgrid/internal/board"
	"github.com/roach88/pixelgrid/internal/store"
)

func createTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// fixtureDashboard is a small dashboard reachable through the mutation API.
func fixtureDashboard() *board.Dashboard {
	return &board.Dashboard{
		Quadrants: []board.Quadrant{
			{
				ID:      "q-initial",
				Title:   "MEU DASHBOARD",
				Rows:    1,
				Columns: 10,
				Cells: map[string]board.Cell{
					"r0-c0-big": {
						ID:        "r0-c0-big",
						Size:      board.SizeLarge,
						ImageURL:  "https://img.example/a.png",
						LinkURL:   "https://example.com/?a=1&b=2",
						Icon:      board.IconSword,
						IconColor: board.ColorRed,
					},
				},
			},
			board.NewQuadrant("q-2"),
		},
		Password: "abc",
	}
}
