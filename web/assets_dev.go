//go:build dev

package web

import (
	"io/fs"
	"os"
	"path/filepath"
)

// FS serves the web root straight from disk so pages can be edited without
// rebuilding. The server must run from the repository root.
func FS() fs.FS {
	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return os.DirFS(filepath.Join(wd, "web"))
}
