package ui

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"

	"socialpulse/domain/engagement"
)

var templateFuncs = template.FuncMap{
	"count":   formatCount,
	"percent": formatPercent,
	"level":   func(v float64) string { return string(engagement.Classify(v)) },
	"lower":   strings.ToLower,
	"share": func(v, max int64) float64 {
		if max <= 0 {
			return 0
		}
		return float64(v) * 100 / float64(max)
	},
}

// renderTemplate executes a template with the given data.
// Output is rendered to a buffer first so a failing template never leaves a half-written page.
func (a *App) renderTemplate(w http.ResponseWriter, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := a.templates.ExecuteTemplate(&buf, name, data); err != nil {
		a.logger.Error("Template error for %s: %v (data %T)", name, err, data)
		http.Error(w, "Template rendering failed", http.StatusInternalServerError)
		return
	}

	if !strings.Contains(buf.String(), "</html>") {
		a.logger.Warn("Rendered template %s appears truncated - missing </html> tag", name)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		a.logger.Error("Error writing template response: %v", err)
	}
}
