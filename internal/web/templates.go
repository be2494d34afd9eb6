package web

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

// renderer plugs the embedded page templates into echo's Render call.
type renderer struct {
	tpl *template.Template
}

func newRenderer() *renderer {
	return &renderer{tpl: template.Must(template.ParseFS(templateFS, "templates/*.html"))}
}

func (r *renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return r.tpl.ExecuteTemplate(w, name, data)
}
