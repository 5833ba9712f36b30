package render

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

//go:embed static/*.css
var embeddedStatic embed.FS

// StylesheetName is the file served from StaticFS.
const StylesheetName = "xzqh.css"

// TemplatesFS exposes the built-in templates so hosts can extend or override
// them.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

// StaticFS exposes the page stylesheet.
//
// Typical mount:
//
//	mux.Handle("/static/",
//	  http.StripPrefix("/static/",
//	    http.FileServerFS(render.StaticFS()),
//	  ),
//	)
func StaticFS() fs.FS {
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		return embeddedStatic
	}
	return sub
}
