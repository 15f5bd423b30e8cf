package template

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed data/*.tmpl
var files embed.FS

type Engine struct {
	tmpl *template.Template
}

// NewEngine parses every embedded template, a broken template fails here.
func NewEngine() (*Engine, error) {
	tmpl, err := template.New("").Option("missingkey=error").ParseFS(files, "data/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("template.ParseFS: %w", err)
	}

	return &Engine{tmpl: tmpl}, nil
}

func (e *Engine) Render(name string, data any) (string, error) {
	var buf bytes.Buffer

	if err := e.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("tmpl.ExecuteTemplate[%s]: %w", name, err)
	}

	return buf.String(), nil
}
