// Package web embeds the built discovery front-end. The dist directory is replaced
// by the front-end build output before release builds.
package web

import (
	"embed"
	"io/fs"
)

//go:embed all:dist
var dist embed.FS

// Dist returns the front-end build rooted at dist, so index.html sits at the top.
func Dist() (fs.FS, error) {
	return fs.Sub(dist, "dist")
}
