package dashboard

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"github.com/hazz-dev/svcboard/internal/rows"
)

//go:embed assets
var assets embed.FS

var funcs = template.FuncMap{
	"isBadge":   func(c rows.Cell) bool { return c.Kind == rows.KindBadge },
	"isLink":    func(c rows.Cell) bool { return c.Kind == rows.KindLink },
	"isActions": func(c rows.Cell) bool { return c.Kind == rows.KindActions },
}

var index = template.Must(
	template.New("index.html.tmpl").Funcs(funcs).ParseFS(assets, "assets/templates/index.html.tmpl"),
)

// Index is the data the dashboard page is rendered from.
type Index struct {
	Title        string
	DirectoryURL string
	Rows         []rows.Row
}

// Render writes the dashboard page for data to w. Text is HTML-escaped.
func Render(w io.Writer, data Index) error {
	if err := index.Execute(w, data); err != nil {
		return fmt.Errorf("rendering dashboard: %w", err)
	}
	return nil
}

// Handler returns an HTTP handler that serves the embedded static assets
// (style.css) relative to its mount point.
func Handler() http.Handler {
	sub, err := fs.Sub(assets, "assets/static")
	if err != nil {
		// Unreachable: "assets/static" is embedded.
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
