package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/mindguide/internal/common"
	"github.com/suPer8Hu/mindguide/internal/contact"
	"github.com/suPer8Hu/mindguide/internal/httpapi/middleware"
)

func (h *Handler) Contact(c *gin.Context) {
	var form contact.Form
	if !bindJSON(c, &form) {
		return
	}

	sub, err := h.ContactSvc.Submit(c.Request.Context(), form)
	if err != nil {
		status, msg := common.Classify(err, "")
		if status >= 500 {
			h.Log.Error("contact submit failed", "rid", middleware.GetRequestID(c), "err", err)
		}
		// the contact page reads "error"; everything else reads "message"
		c.JSON(status, gin.H{"success": false, "message": msg, "error": msg})
		return
	}
	common.OK(c, gin.H{"id": sub.ID})
}
