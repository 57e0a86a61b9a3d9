package assets

import (
	"embed"
	"io/fs"
)

// DefaultConfig is the demo configuration used when no file is given.
//
//go:embed default.toml
var DefaultConfig []byte

//go:embed web
var webFS embed.FS

// WebUI is an embedded filesystem rooted at internal/assets/web.
var WebUI fs.FS

func init() {
	// Embed paths include the leading directory; strip it for serving at '/'.
	sub, err := fs.Sub(webFS, "web")
	if err != nil {
		panic(err)
	}
	WebUI = sub
}
