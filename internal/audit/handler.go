package audit

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/tribunal/pkg/handlers"
	"github.com/JaimeStill/tribunal/pkg/routes"
)

// Handler provides HTTP endpoints for audit chain inspection.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "audit"),
	}
}

// Routes returns the route group definition for audit endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/audit",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/verify", Handler: h.Verify},
			{Method: "GET", Pattern: "/head", Handler: h.Head},
		},
	}
}

// Verify checks chain integrity over an optional ?from=&to= range.
// Tampering is reported in the result body, not as an error status.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	from, err := parseSeq(r.URL.Query().Get("from"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	to, err := parseSeq(r.URL.Query().Get("to"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	verification, err := h.sys.Verify(r.Context(), from, to)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if !verification.Verified {
		h.logger.Error("audit chain integrity violation",
			"sequence", verification.Violation.Sequence,
			"reason", verification.Violation.Reason,
		)
	}

	handlers.RespondJSON(w, http.StatusOK, verification)
}

// Head returns the current chain tail.
func (h *Handler) Head(w http.ResponseWriter, r *http.Request) {
	head, err := h.sys.Head(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, head)
}

func parseSeq(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}
