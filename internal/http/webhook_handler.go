package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EventDispatcher recibe los eventos ya verificados de un lote.
type EventDispatcher interface {
	Dispatch(ctx context.Context, events []json.RawMessage) int
}

type webhookEnvelope struct {
	Destination string            `json:"destination"`
	Events      []json.RawMessage `json:"events"`
}

// WebhookHandler acepta el lote y responde antes de procesarlo.
type WebhookHandler struct {
	dispatcher EventDispatcher
	logger     *zap.Logger
}

func NewWebhookHandler(dispatcher EventDispatcher, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{dispatcher: dispatcher, logger: logger}
}

func (h *WebhookHandler) Receive(c *gin.Context) {
	body, ok := RawBody(c)
	if !ok {
		c.String(http.StatusBadRequest, "Bad request")
		return
	}
	var env webhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		h.logger.Warn("invalid webhook payload", zap.Error(err))
		c.String(http.StatusBadRequest, "Bad request")
		return
	}

	n := h.dispatcher.Dispatch(c.Request.Context(), env.Events)
	h.logger.Info("webhook accepted",
		zap.String("destination", env.Destination),
		zap.Int("events", n),
	)
	c.String(http.StatusOK, "OK")
}
