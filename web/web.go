// Package web embeds the HTML templates for the form, result and history pages.
package web

import (
	"embed"
	"html/template"
	"strconv"
	"time"
)

//go:embed templates/*.html
var templatesFS embed.FS

func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"formatFloat": func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
		"formatTime":  func(t time.Time) string { return t.Format("2006/01/02 15:04:05") },
	}).ParseFS(templatesFS, "templates/*.html")
}
