// Package console serves the embedded deliberation console: a single page
// that opens the deliberation stream endpoint and renders round events live.
package console

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/JaimeStill/tribunal/pkg/module"
	"github.com/JaimeStill/tribunal/pkg/web"
)

//go:embed index.html console.css console.js
var staticFS embed.FS

// NewModule creates a module that serves the console at basePath. apiBasePath
// is injected into the page so the client can reach the API module.
func NewModule(basePath, apiBasePath string) *module.Module {
	router := buildRouter(apiBasePath)
	return module.New(basePath, router)
}

func buildRouter(apiBasePath string) http.Handler {
	router := web.NewRouter()

	tmpl := template.Must(template.ParseFS(staticFS, "index.html"))
	index := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		tmpl.Execute(w, map[string]string{"APIBasePath": apiBasePath})
	}

	router.HandleFunc("GET /{$}", index)
	router.HandleFunc("GET /console.css", web.Asset(staticFS, "console.css"))
	router.HandleFunc("GET /console.js", web.Asset(staticFS, "console.js"))
	router.SetFallback(index)

	return router
}
