// Package migrations embeds the SQLite schema migrations.
package migrations

import (
	"embed"
	"io/fs"
	"os"
	"strings"
)

//go:embed *.sql
var FS embed.FS

// Source returns dir when it is set and the embedded migrations otherwise.
func Source(dir string) fs.FS {
	if strings.TrimSpace(dir) != "" {
		return os.DirFS(dir)
	}
	return FS
}
