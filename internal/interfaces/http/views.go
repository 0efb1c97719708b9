package http

import (
	"embed"
	"io/fs"
	stdhttp "net/http"
	"time"

	"github.com/gofiber/template/html/v2"

	"github.com/jhoicas/stock-tracker/pkg/money"
)

//go:embed views
var viewsFS embed.FS

const layoutMain = "layouts/main"

// NewViewEngine motor de plantillas sobre las vistas embebidas en el binario.
func NewViewEngine() *html.Engine {
	sub, err := fs.Sub(viewsFS, "views")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(stdhttp.FS(sub), ".html")
	engine.AddFunc("money", money.FormatWithSymbol)
	engine.AddFunc("datetime", formatDateTime)
	return engine
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}
