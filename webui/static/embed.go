// Package static embeds the stylesheet and script of the web UI.
package static

import (
	"embed"
	"io/fs"
)

// StaticFS contains:
//   - app.css (form and result styling)
//   - app.js (editor sync for downloads, copy to clipboard)
//
//go:embed app.css app.js
var StaticFS embed.FS

// GetFS returns the embedded filesystem.
func GetFS() fs.FS {
	return StaticFS
}

// ReadFile reads a file from the embedded filesystem.
func ReadFile(name string) ([]byte, error) {
	return StaticFS.ReadFile(name)
}
