package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/mindguide/internal/auth"
	"github.com/suPer8Hu/mindguide/internal/chat"
	"github.com/suPer8Hu/mindguide/internal/common"
	"github.com/suPer8Hu/mindguide/internal/contact"
	"github.com/suPer8Hu/mindguide/internal/httpapi/middleware"
	"github.com/suPer8Hu/mindguide/internal/mood"
	"github.com/suPer8Hu/mindguide/internal/stats"
)

// user_id and conversation_id fall back to this when the client omits them.
const defaultID uint64 = 1

type Handler struct {
	Auth       *auth.Service
	Chat       *chat.Service
	Stats      *stats.Aggregator
	Mood       *mood.Service
	ContactSvc *contact.Service
	Log        *log.Logger
}

func (h *Handler) Ping(c *gin.Context) {
	common.OK(c, gin.H{"message": "pong"})
}

// userID prefers the bearer token subject over the client supplied id.
func userID(c *gin.Context, supplied uint64) uint64 {
	if uid, ok := middleware.UserID(c); ok {
		return uid
	}
	if supplied == 0 {
		return defaultID
	}
	return supplied
}

// bindJSON decodes the body into req; an empty body leaves req zero.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		common.Fail(c, http.StatusOK, "Invalid input")
		return false
	}
	return true
}

// fail classifies err and writes the envelope. 5xx causes are logged, never
// returned.
func (h *Handler) fail(c *gin.Context, err error, notFoundMsg string) {
	status, msg := common.Classify(err, notFoundMsg)
	if status >= http.StatusInternalServerError {
		h.Log.Error("request failed",
			"rid", middleware.GetRequestID(c),
			"path", c.Request.URL.Path,
			"err", err,
		)
	}
	common.Fail(c, status, msg)
}
