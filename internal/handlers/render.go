package handlers

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gorilla/csrf"

	"github.com/crucial707/todoapp/internal/middleware"
)

//go:embed templates
var templatesFS embed.FS

// standalonePages render without the shared layout (no nav before login).
var standalonePages = map[string]string{
	"login.html":    "login",
	"register.html": "register",
}

// pageData builds the template payload: caller-provided values plus the CSRF
// field and the logged-in user when the request carries a session.
func pageData(r *http.Request, values map[string]interface{}) map[string]interface{} {
	data := make(map[string]interface{}, len(values)+2)
	for k, v := range values {
		data[k] = v
	}
	data["CSRFField"] = csrf.TemplateField(r)
	if claims, ok := middleware.GetUser(r.Context()); ok {
		data["User"] = claims
	}
	return data
}

func renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	content, err := templatesFS.ReadFile("templates/" + name)
	if err != nil {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if def, ok := standalonePages[name]; ok {
		t := template.Must(template.New("").Parse(string(content)))
		if err := t.ExecuteTemplate(w, def, data); err != nil {
			slog.Error("template execute", "template", name, "error", err)
		}
		return
	}

	layout, _ := templatesFS.ReadFile("templates/layout.html")
	t := template.Must(template.New("").Parse(string(layout)))
	t = template.Must(t.New("").Parse(string(content)))
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("template execute", "template", name, "error", err)
	}
}
