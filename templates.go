package settingsgen

import (
	"io/fs"

	vanilla "github.com/goliatone/go-settingsgen/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// AssetsFS exposes the default stylesheet so Go applications can serve it
// next to the rendered form.
//
// Typical mount:
//
//	mux.Handle("/settingsgen/",
//	  http.StripPrefix("/settingsgen/",
//	    http.FileServerFS(settingsgen.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
