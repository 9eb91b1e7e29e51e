package handlers

import (
	"io"
	"net/http"

	"paymenthub/internal/domain/webhook"

	"github.com/gin-gonic/gin"
)

// WebhookHandler receives processor deliveries. The raw body is required for
// signature verification and must be read before any binding.
type WebhookHandler struct {
	service    *webhook.Service
	dispatcher webhook.Dispatcher
}

func NewWebhookHandler(s *webhook.Service, d webhook.Dispatcher) *WebhookHandler {
	return &WebhookHandler{service: s, dispatcher: d}
}

func (h *WebhookHandler) Receive(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Unreadable payload"})
		return
	}

	event, err := h.service.VerifyAndDecode(payload, c.GetHeader(webhook.SignatureHeader))
	if err != nil {
		errorResponse(c, err)
		return
	}

	outcome, err := h.dispatcher.Process(c.Request.Context(), event)
	if err != nil {
		// A dispatch failure must not be acknowledged: the processor
		// retries the delivery and dedup absorbs the replay.
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Event processing failed"})
		return
	}

	c.JSON(http.StatusOK, outcome)
}
