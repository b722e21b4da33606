package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/mindguide/internal/common"
)

func (h *Handler) GetStats(c *gin.Context) {
	uid := userID(c, common.ParseID(c.Query("user_id"), defaultID))
	st, err := h.Stats.GetStats(c.Request.Context(), uid)
	if err != nil {
		h.fail(c, err, "")
		return
	}
	common.OK(c, gin.H{"stats": st})
}
