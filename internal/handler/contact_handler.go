package handler

import (
	"errors"
	"net/http"

	"github.com/auctusventures/site/internal/reqctx"
	"github.com/auctusventures/site/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SubmitContact handles every method on the contact endpoint: OPTIONS is a
// no-op pre-flight, POST submits, anything else is 405.
func (a *API) SubmitContact(c *gin.Context) {
	setCORSHeaders(c)

	switch c.Request.Method {
	case http.MethodOptions:
		c.Status(http.StatusOK)
		return
	case http.MethodPost:
	default:
		c.Header("Allow", "POST, OPTIONS")
		respondError(c, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	// 无法解析的请求体按缺少字段处理
	var input service.ContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "All fields are required")
		return
	}

	if _, err := a.contacts.Submit(c.Request.Context(), input); err != nil {
		if errors.Is(err, service.ErrFieldsRequired) {
			respondError(c, http.StatusBadRequest, "All fields are required")
			return
		}

		payload := gin.H{"error": "Failed to submit form"}
		if a.development {
			payload["details"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, payload)
		return
	}

	if store, ok := sessionMarkerStoreFrom(c); ok {
		if err := a.markSession(store); err != nil {
			a.logger.Warn("failed to set confirmation marker",
				zap.String("request_id", reqctx.GetRequestID(c.Request.Context())),
				zap.Error(err),
			)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Form submitted successfully",
	})
}
