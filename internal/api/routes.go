package api

import (
	"net/http"

	"github.com/JaimeStill/tribunal/internal/config"
	"github.com/JaimeStill/tribunal/pkg/openapi"
	"github.com/JaimeStill/tribunal/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) error {
	routes.Register(
		mux,
		domain.Deliberation.Handler().Routes(),
		domain.Precedents.Handler().Routes(),
		domain.Audit.Handler().Routes(),
		domain.Status.Handler().Routes(),
	)

	spec, err := buildSpec(cfg)
	if err != nil {
		return err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))

	return nil
}
