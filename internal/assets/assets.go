package assets

import (
	"embed"
	"io/fs"

	"golang.org/x/image/font/gofont/goregular"
)

// FontTTF is the face used for the clock text.
var FontTTF = goregular.TTF

//go:embed web
var webFS embed.FS

// WebUI is an embedded filesystem rooted at internal/assets/web.
// It contains the live preview page.
var WebUI fs.FS

func init() {
	// Embed paths include the leading directory; strip it for serving at '/'.
	sub, err := fs.Sub(webFS, "web")
	if err != nil {
		panic(err)
	}
	WebUI = sub
}
