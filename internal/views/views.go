// Package views — HTML-шаблоны витрины, вшитые в бинарник.
package views

import (
	"embed"
	"html/template"
)

//go:embed *.tmpl
var files embed.FS

// Parse собирает все *.tmpl в один набор; имя шаблона = имя файла.
func Parse(funcs template.FuncMap) (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(files, "*.tmpl")
}
