package gen

import (
	"embed"
	"io/fs"
)

// DefaultControl is the control template of a schema run.
const DefaultControl = "control.tmpl"

//go:embed template/*.tmpl
var templateDir embed.FS

// DefaultTemplates returns the built-in templates, consulted after the
// configured template directories.
func DefaultTemplates() fs.FS {
	sub, err := fs.Sub(templateDir, "template")
	if err != nil {
		panic(err)
	}
	return sub
}
