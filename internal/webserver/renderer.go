package webserver

import (
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/labstack/echo/v4"
)

//go:embed templates
var templateFS embed.FS

// istZone matches the storefront's display timezone.
var istZone = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.UTC
	}
	return loc
}()

var templateFuncs = template.FuncMap{
	"formatDateToIST": func(t time.Time) string {
		return t.In(istZone).Format("January 2, 2006 3:04 PM")
	},
	"inc": func(i int) int { return i + 1 },
}

type renderer struct {
	templates *template.Template
}

func newRenderer() echo.Renderer {
	return &renderer{
		templates: template.Must(template.New("").
			Funcs(templateFuncs).
			ParseFS(templateFS, "templates/admin/*.tmpl", "templates/partials/*.tmpl")),
	}
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
