package deliberation

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/JaimeStill/tribunal/pkg/handlers"
	"github.com/JaimeStill/tribunal/pkg/routes"
)

// readTimeout bounds how long the stream endpoint waits for the client's
// opening message.
const readTimeout = 30 * time.Second

// Handler provides the REST and WebSocket deliberation endpoints.
type Handler struct {
	sys       System
	logger    *slog.Logger
	readLimit int64
}

// DeliberateRequest is the request body for both endpoints.
type DeliberateRequest struct {
	Input string `json:"input"`
}

// NewHandler creates a Handler with the given system and logger. readLimit
// bounds the WebSocket frame size accepted for the opening message.
func NewHandler(sys System, logger *slog.Logger, readLimit int64) *Handler {
	return &Handler{
		sys:       sys,
		logger:    logger.With("handler", "deliberations"),
		readLimit: readLimit,
	}
}

// Routes returns the route group definition for deliberation endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/deliberations",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Deliberate},
			{Method: "GET", Pattern: "/stream", Handler: h.Stream},
		},
	}
}

// Deliberate runs a synchronous deliberation and returns the final result.
func (h *Handler) Deliberate(w http.ResponseWriter, r *http.Request) {
	var req DeliberateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Deliberate(r.Context(), req.Input, NopPublisher{})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Stream upgrades to a WebSocket session: the client sends one request
// message, the server emits ordered round events, and the connection closes
// after the terminal event.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Error("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	// Frames carry the JSON envelope around the raw input, so allow headroom
	// beyond the configured input limit.
	conn.SetReadLimit(h.readLimit*2 + 1024)

	req, err := h.readRequest(r.Context(), conn)
	if err != nil {
		h.logger.Error("read deliberation request", "error", err)
		return
	}

	pub := NewSessionPublisher(conn, h.logger)

	if _, err := h.sys.Deliberate(r.Context(), req.Input, pub); err != nil {
		// The terminal error event was already published.
		h.logger.Error("deliberation failed", "error", err)
		conn.Close(websocket.StatusNormalClosure, ErrorCode(err))
		return
	}

	conn.Close(websocket.StatusNormalClosure, EventDecisionReady)
}

// readRequest reads the client's opening message under a bounded timeout. A
// malformed message is answered with a terminal error frame.
func (h *Handler) readRequest(ctx context.Context, conn *websocket.Conn) (DeliberateRequest, error) {
	rctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var req DeliberateRequest
	if err := wsjson.Read(rctx, conn, &req); err != nil {
		frame := Event{Event: EventError, Error: "invalid request message", Code: "invalid-request"}
		if werr := wsjson.Write(rctx, conn, frame); werr == nil {
			conn.Close(websocket.StatusNormalClosure, "invalid-request")
		}
		return DeliberateRequest{}, err
	}

	return req, nil
}
