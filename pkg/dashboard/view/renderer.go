package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.tmpl
var files embed.FS

// Renderer is the echo.Renderer for the dashboard templates.
type Renderer struct{ tmpl *template.Template }

func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(files, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: t}, nil
}

// Has reports whether a template with that name is defined.
func (r *Renderer) Has(name string) bool { return r.tmpl.Lookup(name) != nil }

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}
