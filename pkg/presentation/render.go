package presentation

import (
	"embed"
	"html/template"
	"io"
	"net/url"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("page.html").Funcs(template.FuncMap{
	"pathSegment": url.PathEscape,
}).ParseFS(templateFS, "templates/page.html"))

// Page is the data handed to the page template.
type Page struct {
	SessionID string
	TileURL   string
	View      View
}

// Render writes the full widget page.
func Render(w io.Writer, page Page) error {
	return pageTemplate.ExecuteTemplate(w, "page.html", page)
}
