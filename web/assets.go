//go:build !dev

package web

import (
	"embed"
	"io/fs"
)

//go:embed index.html about.html trade.html static
var embeddedFiles embed.FS

// FS returns the web root compiled into the binary
func FS() fs.FS {
	return embeddedFiles
}
