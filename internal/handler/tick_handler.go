package handler

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chivanit/medremind/internal/domain"
	"github.com/chivanit/medremind/internal/service/tick"
)

// TickHandler exposes the reminder run to the external scheduler. The
// shared secret gates the endpoint; a held lease answers 409 as normal
// backpressure rather than an error.
type TickHandler struct {
	orchestrator *tick.Orchestrator
	secret       string
}

func NewTickHandler(orchestrator *tick.Orchestrator, secret string) *TickHandler {
	return &TickHandler{
		orchestrator: orchestrator,
		secret:       secret,
	}
}

func (h *TickHandler) HandleTick(c *gin.Context) {
	ctx := c.Request.Context()

	secret := c.Query("secret")
	if secret == "" {
		secret = c.GetHeader("X-Tick-Secret")
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(h.secret)) != 1 {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	now := time.Now()
	if atStr := c.Query("at"); atStr != "" {
		parsed, err := time.Parse(time.RFC3339, atStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid at time format, expected RFC3339"})
			return
		}
		now = parsed
		slog.InfoContext(ctx, "using virtual time",
			slog.Time("virtual_now", now),
		)
	}

	summary, err := h.orchestrator.Run(ctx, now)
	if err != nil {
		if errors.Is(err, domain.ErrRunInProgress) {
			c.JSON(http.StatusConflict, gin.H{"status": "busy"})
			return
		}
		slog.ErrorContext(ctx, "reminder run failed",
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "run_failed",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, summary)
}
