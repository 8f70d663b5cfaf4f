package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chivanit/medremind/internal/domain"
	"github.com/chivanit/medremind/internal/infra/messaging"
	"github.com/chivanit/medremind/internal/service/intake"
	"github.com/chivanit/medremind/internal/service/message"
)

// WebhookHandler receives inbound chat events. Only text messages that
// match the configured acknowledgment phrase reach the intake recorder;
// everything else is acknowledged with 200 and dropped.
type WebhookHandler struct {
	recorder      *intake.Recorder
	delivery      messaging.Client
	builder       *message.Builder
	ackPhrase     string
	channelSecret string
}

func NewWebhookHandler(
	recorder *intake.Recorder,
	delivery messaging.Client,
	builder *message.Builder,
	ackPhrase string,
	channelSecret string,
) *WebhookHandler {
	return &WebhookHandler{
		recorder:      recorder,
		delivery:      delivery,
		builder:       builder,
		ackPhrase:     ackPhrase,
		channelSecret: channelSecret,
	}
}

func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	if h.channelSecret != "" {
		signature := c.GetHeader("X-Line-Signature")
		if !messaging.ValidateSignature(h.channelSecret, body, signature) {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid signature"})
			return
		}
	}

	var req messaging.WebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	for _, event := range req.Events {
		h.handleEvent(c.Request.Context(), event)
	}

	c.Status(http.StatusOK)
}

func (h *WebhookHandler) handleEvent(ctx context.Context, event messaging.WebhookEvent) {
	if !event.IsTextMessage() {
		return
	}
	if strings.TrimSpace(event.Message.Text) != h.ackPhrase {
		return
	}

	result, err := h.recorder.RecordAck(ctx, event.Source.UserID, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrPatientNotFound) {
			slog.DebugContext(ctx, "acknowledgment from unlinked sender ignored",
				slog.String("line_user_id", event.Source.UserID),
			)
			return
		}
		slog.ErrorContext(ctx, "failed to process acknowledgment",
			slog.String("line_user_id", event.Source.UserID),
			slog.String("error", err.Error()),
		)
		h.reply(ctx, event.ReplyToken, h.builder.ProcessingError())
		return
	}

	if result.Nothing() {
		h.reply(ctx, event.ReplyToken, h.builder.NothingToRecord())
		return
	}
	h.reply(ctx, event.ReplyToken, h.builder.Confirmation(result.Recorded, result.Completed))
}

func (h *WebhookHandler) reply(ctx context.Context, replyToken, text string) {
	if err := h.delivery.Reply(ctx, replyToken, text); err != nil {
		slog.ErrorContext(ctx, "failed to send reply",
			slog.String("error", err.Error()),
		)
	}
}
