package template

import (
	"io"
)

// TemplateRenderer is the engine contract the renderers depend on. Data may
// be a map or any JSON-serialisable value. GlobalContext values are visible
// to every later render.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	GlobalContext(data any) error
}
