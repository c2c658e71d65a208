package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/tribunal/internal/api"
	"github.com/JaimeStill/tribunal/internal/config"
	"github.com/JaimeStill/tribunal/internal/infrastructure"
	"github.com/JaimeStill/tribunal/pkg/middleware"
	"github.com/JaimeStill/tribunal/pkg/module"
	"github.com/JaimeStill/tribunal/web/console"
)

type Modules struct {
	API     *module.Module
	Console *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	consoleModule := console.NewModule("/console", cfg.API.BasePath)
	consoleModule.Use(middleware.Logger(infra.Logger))

	return &Modules{
		API:     apiModule,
		Console: consoleModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.Console)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	return router
}
