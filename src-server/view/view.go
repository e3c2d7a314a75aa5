package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"bulletin/src-server/flash"
	"bulletin/src-server/model"
	"bulletin/src-server/utils"
)

//go:embed templates/*.html
var templateFiles embed.FS

var pages = map[string]*template.Template{}

func init() {
	funcs := template.FuncMap{"titleCase": utils.TitleCase}
	for _, page := range []string{"index.html", "events.html", "event_form.html", "not_found.html", "error.html"} {
		pages[page] = template.Must(template.New("base.html").
			Funcs(funcs).
			ParseFS(templateFiles, "templates/base.html", "templates/"+page))
	}
}

// Page is what every template receives.
type Page struct {
	Title    string
	Messages []flash.Message
	Events   []model.Event
	Form     *Form
}

// Form keeps the raw submitted values so a rejected form is shown as typed.
type Form struct {
	Action      string
	SubmitLabel string
	Title       string
	Date        string
	Time        string
	Errors      map[string]string
}

// Render writes page with status. Rendering into a buffer first keeps a
// template failure from leaving half a page behind.
func Render(w http.ResponseWriter, status int, name string, page Page) {
	tmpl, ok := pages[name]
	if !ok {
		slog.Error("unknown template", "name", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", page); err != nil {
		slog.Error("can't render template", "name", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("can't write response", "name", name, "error", err)
	}
}

func FormFromEvent(event *model.Event, action, submitLabel string) *Form {
	return &Form{
		Action:      action,
		SubmitLabel: submitLabel,
		Title:       event.Title,
		Date:        event.Date.String(),
		Time:        event.Time.String(),
	}
}

func UpdatePath(id int64) string {
	return fmt.Sprintf("/update_event/%d", id)
}
