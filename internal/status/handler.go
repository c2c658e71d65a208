package status

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/tribunal/pkg/handlers"
	"github.com/JaimeStill/tribunal/pkg/routes"
)

// Handler provides the component health endpoint.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "status"),
	}
}

// Routes returns the route group definition for status endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/status",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Check},
		},
	}
}

// Check returns the aggregate health report. Degradation is conveyed in the
// body; the endpoint itself answers 200 whenever it can report.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	report := h.sys.Check(r.Context())
	handlers.RespondJSON(w, http.StatusOK, report)
}
