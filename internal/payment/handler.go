package payment

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"memberportal/pkg/platform/middleware/request"
)

const maxCallbackBytes = 16 << 10

// GatewayPublisher fans a gateway message out to waiting orchestrations.
type GatewayPublisher interface {
	Publish(msg GatewayMessage)
}

// CallbackHandler receives the gateway frame's completion message. The
// message only unblocks polling; verification against the backend decides
// the outcome, so the endpoint needs no authentication.
type CallbackHandler struct {
	bus    GatewayPublisher
	logger *slog.Logger
}

func NewCallbackHandler(bus GatewayPublisher, logger *slog.Logger) *CallbackHandler {
	return &CallbackHandler{bus: bus, logger: logger}
}

func (h *CallbackHandler) Register(r chi.Router) {
	r.Group(func(callbackRouter chi.Router) {
		callbackRouter.Use(request.Recovery(h.logger))
		callbackRouter.Use(request.RequestID)
		callbackRouter.Use(request.Logger(h.logger))
		callbackRouter.Get("/payments/gateway/callback", h.handleCallback)
		callbackRouter.Post("/payments/gateway/callback", h.handleCallback)
	})
}

type callbackBody struct {
	Data GatewayMessage `json:"data"`
}

// handleCallback always answers 204. Anything unparseable or without a
// reference is dropped.
func (h *CallbackHandler) handleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	msg := GatewayMessage{
		Status: r.URL.Query().Get("status"),
		TrxRef: r.URL.Query().Get("trxref"),
	}
	if r.Method == http.MethodPost {
		var body callbackBody
		raw, err := io.ReadAll(io.LimitReader(r.Body, maxCallbackBytes))
		if err == nil {
			err = json.Unmarshal(raw, &body)
		}
		if err != nil {
			h.logger.DebugContext(ctx, "ignoring malformed gateway message",
				"request_id", request.GetRequestID(ctx),
				"error", err,
			)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		msg = body.Data
	}
	if msg.TrxRef == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.logger.InfoContext(ctx, "gateway message received",
		"request_id", request.GetRequestID(ctx),
		"status", msg.Status,
		"reference", msg.TrxRef,
	)
	h.bus.Publish(msg)
	w.WriteHeader(http.StatusNoContent)
}
