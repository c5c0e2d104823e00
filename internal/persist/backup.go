package persist

import (
	"github.com/roach88/pixelgrid/internal/board"
)

// Backup is an exported dashboard document.
type Backup struct {
	Filename string
	Data     []byte
}

// BackupFilename returns the dated name for a backup written on date
// (YYYY-MM-DD).
func BackupFilename(date string) string {
	return "pixel-grid-backup-" + date + ".json"
}

// Export serializes d as a pretty-printed backup named with today's date.
func (g *Gateway) Export(d *board.Dashboard) (Backup, error) {
	data, err := EncodeIndent(d)
	if err != nil {
		return Backup{}, err
	}
	return Backup{
		Filename: BackupFilename(g.clock.Now().Format("2006-01-02")),
		Data:     data,
	}, nil
}

// ParseImport validates and decodes a backup document. Type and vocabulary
// errors reject the document; out-of-range geometry is clamped.
func ParseImport(data []byte) (*board.Dashboard, error) {
	if err := ValidateSchema(data); err != nil {
		return nil, err
	}
	return Decode(data)
}
