package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kvasey/monday-label-sync/integrations"
	"github.com/kvasey/monday-label-sync/internal/models"
	"github.com/kvasey/monday-label-sync/internal/pipeline"
	"go.uber.org/zap"
)

type Handler struct {
	Pipeline *pipeline.Pipeline
}

func (h *Handler) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// MondayWebhookHandler serves Monday's webhook URL. Monday sends GET for URL
// verification and connection tests, and POST for both challenge verification
// and real notification deliveries.
func (h *Handler) MondayWebhookHandler(c *gin.Context) {
	if c.Request.Method == http.MethodGet {
		if challenge := c.Query("challenge"); challenge != "" {
			c.String(http.StatusOK, challenge)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Webhook ready. POST with boardId and pulseId."})
		return
	}

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		zap.L().Warn("Could not bind webhook JSON body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	// URL verification: echo the challenge back verbatim, no pipeline work.
	if challenge, ok := body["challenge"]; ok {
		c.JSON(http.StatusOK, gin.H{"challenge": challenge})
		return
	}

	result, err := h.Pipeline.Run(c.Request.Context(), body)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"message": "Label created and uploaded to Monday",
		"file":    result.FileName,
		"path":    result.FilePath,
	})
}

// respondError maps pipeline failures to the webhook response contract:
// 400 for client input defects, 404 for a missing board/item, 502 for
// upstream failures, with an upload failure after a successful render
// reported as a distinct partial-success body carrying the file name.
func respondError(c *gin.Context, err error) {
	var uploadErr *pipeline.UploadError

	switch {
	case errors.Is(err, models.ErrMalformedPayload):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, integrations.ErrBoardNotFound), errors.Is(err, integrations.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &uploadErr):
		zap.L().Error("Label created but upload failed",
			zap.String("file", uploadErr.FileName),
			zap.Error(uploadErr.Err))
		c.JSON(http.StatusBadGateway, gin.H{
			"ok":      false,
			"message": "Label created but upload to Monday failed",
			"error":   uploadErr.Err.Error(),
			"file":    uploadErr.FileName,
		})
	case errors.Is(err, integrations.ErrUpstream):
		zap.L().Error("Monday API failure", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		zap.L().Error("Webhook processing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
