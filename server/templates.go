package server

import (
	"embed"
	"html/template"
	"net/url"

	"github.com/teranos/sembrowse/tree"
	"github.com/teranos/sembrowse/version"
)

//go:embed templates/*.html
var templateFiles embed.FS

var templateFuncs = template.FuncMap{
	"nodeURL": func(path string) string {
		if path == "" {
			path = tree.RootName
		}
		return "/node/" + url.PathEscape(path)
	},
	"existsURL": func(dataset, column string) string {
		return "/hnyexists/" + url.PathEscape(dataset) + "/" + url.PathEscape(column)
	},
	"version": func() string { return version.Get().Version },
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templateFiles, "templates/*.html")
}
